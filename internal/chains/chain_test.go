package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pendergraft/framemint/internal/failure"
	"github.com/pendergraft/framemint/internal/recipient"
)

func TestFromButton(t *testing.T) {
	tests := []struct {
		index int
		want  Chain
	}{
		{1, Base},
		{2, Optimism},
		{3, Polygon},
		{4, Solana},
	}

	for _, tt := range tests {
		got, err := FromButton(tt.index)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFromButton_OutOfRange(t *testing.T) {
	for _, index := range []int{-1, 0, 5, 100} {
		_, err := FromButton(index)
		require.Error(t, err, "index %d", index)
		assert.Equal(t, failure.Input, failure.KindOf(err), "index %d", index)
	}
}

func TestCheckRecipient(t *testing.T) {
	tests := []struct {
		name    string
		kind    recipient.Kind
		chain   Chain
		wantErr string
	}{
		{"email on solana", recipient.Email, Solana, ""},
		{"email on base", recipient.Email, Base, ""},
		{"evm on polygon", recipient.EVMAddress, Polygon, ""},
		{"solana on solana", recipient.SolanaAddress, Solana, ""},
		{"evm on solana", recipient.EVMAddress, Solana, "to mint on Solana"},
		{"solana on base", recipient.SolanaAddress, Base, "base wallet address to mint on base"},
		{"solana on optimism", recipient.SolanaAddress, Optimism, "to mint on optimism"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRecipient(tt.kind, tt.chain)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, failure.Input, failure.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestChain_Valid(t *testing.T) {
	for _, c := range All() {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Chain("ethereum").Valid())
	assert.Equal(t, "Polygon", Polygon.DisplayName())
}

func TestExplorerTxURL(t *testing.T) {
	tests := []struct {
		env   string
		chain string
		want  string
	}{
		{"staging", "base-sepolia", "https://sepolia.basescan.org/tx/0xabc"},
		{"www", "base", "https://basescan.org/tx/0xabc"},
		{"staging", "optimism-sepolia", "https://sepolia-optimism.etherscan.io/tx/0xabc"},
		{"www", "optimism", "https://optimistic.etherscan.io/tx/0xabc"},
		{"staging", "polygon", "https://mumbai.polygonscan.com/tx/0xabc"},
		{"www", "polygon", "https://polygonscan.com/tx/0xabc"},
		{"staging", "polygon-amoy", "https://amoy.polygonscan.com/tx/0xabc"},
		{"staging", "solana", "https://xray.helius.xyz/tx/0xabc?network=devnet"},
		{"www", "solana", "https://xray.helius.xyz/tx/0xabc?network=mainnet"},
		{"www", "arbitrum", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.chain, func(t *testing.T) {
			assert.Equal(t, tt.want, ExplorerTxURL(tt.env, tt.chain, "0xabc"))
		})
	}
}
