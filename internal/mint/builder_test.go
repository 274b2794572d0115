package mint

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pendergraft/framemint/internal/chains"
	"github.com/pendergraft/framemint/internal/failure"
	"github.com/pendergraft/framemint/internal/recipient"
)

func testCollections() map[chains.Chain]Collection {
	return map[chains.Chain]Collection{
		chains.Base:     {ID: "col-base", TemplateID: "tpl-base"},
		chains.Optimism: {ID: "col-op", TemplateID: "tpl-op"},
		chains.Polygon:  {ID: "col-poly", TemplateID: "tpl-poly"},
		chains.Solana:   {ID: "col-sol", TemplateID: "tpl-sol"},
	}
}

func TestBuild_EmailOnBase(t *testing.T) {
	b := NewBuilder(testCollections())

	req, err := b.Build(recipient.Resolved{Address: "alice@example.com", Kind: recipient.Email}, chains.Base)

	require.NoError(t, err)
	assert.Equal(t, "email:alice@example.com:base", req.Recipient)
	assert.Equal(t, "col-base", req.CollectionID)
	assert.Equal(t, "tpl-base", req.TemplateID)
	assert.False(t, req.Compressed)
}

func TestBuild_WalletOnBase(t *testing.T) {
	b := NewBuilder(testCollections())
	addr := "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

	req, err := b.Build(recipient.Resolved{Address: addr, Kind: recipient.EVMAddress}, chains.Base)

	require.NoError(t, err)
	assert.Equal(t, "base:"+addr, req.Recipient)
}

func TestBuild_CompressedOnlyOnSolana(t *testing.T) {
	b := NewBuilder(testCollections())
	r := recipient.Resolved{Address: "bob@example.com", Kind: recipient.Email}

	for _, c := range chains.All() {
		req, err := b.Build(r, c)
		require.NoError(t, err)
		assert.Equal(t, c == chains.Solana, req.Compressed, c)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewBuilder(testCollections())
	r := recipient.Resolved{Address: "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", Kind: recipient.SolanaAddress}

	first, err := b.Build(r, chains.Solana)
	require.NoError(t, err)
	second, err := b.Build(r, chains.Solana)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecipientString_EmailHasTwoSeparators(t *testing.T) {
	for _, c := range chains.All() {
		s := RecipientString(recipient.Resolved{Address: "carol@example.org", Kind: recipient.Email}, c)
		parts := strings.Split(s, ":")
		require.Len(t, parts, 3, s)
		assert.Equal(t, "email", parts[0])
		assert.Equal(t, "carol@example.org", parts[1])
		assert.Equal(t, string(c), parts[2])
	}
}

func TestBuild_MissingCollection(t *testing.T) {
	cols := testCollections()
	delete(cols, chains.Polygon)
	cols[chains.Optimism] = Collection{ID: "col-op"}
	b := NewBuilder(cols)
	r := recipient.Resolved{Address: "alice@example.com", Kind: recipient.Email}

	_, err := b.Build(r, chains.Polygon)
	assert.Equal(t, failure.Config, failure.KindOf(err))

	_, err = b.Build(r, chains.Optimism)
	assert.Equal(t, failure.Config, failure.KindOf(err))
	assert.Contains(t, err.Error(), "template id")
}

func TestRequest_JSON(t *testing.T) {
	b := NewBuilder(testCollections())
	r := recipient.Resolved{Address: "alice@example.com", Kind: recipient.Email}

	evmReq, err := b.Build(r, chains.Base)
	require.NoError(t, err)
	body, err := json.Marshal(evmReq)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipient":"email:alice@example.com:base","templateId":"tpl-base"}`, string(body))

	solReq, err := b.Build(r, chains.Solana)
	require.NoError(t, err)
	body, err = json.Marshal(solReq)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipient":"email:alice@example.com:solana","templateId":"tpl-sol","compressed":true}`, string(body))
}
