package mint

import (
	"fmt"

	"github.com/pendergraft/framemint/internal/chains"
	"github.com/pendergraft/framemint/internal/failure"
	"github.com/pendergraft/framemint/internal/recipient"
)

// Builder turns a recipient and chain into a Request. It is immutable after
// construction and safe for concurrent use.
type Builder struct {
	collections map[chains.Chain]Collection
}

// NewBuilder creates a Builder over a per-chain collection catalog.
func NewBuilder(collections map[chains.Chain]Collection) *Builder {
	c := make(map[chains.Chain]Collection, len(collections))
	for k, v := range collections {
		c[k] = v
	}
	return &Builder{collections: c}
}

// Build returns the mint request for r on chain c. A chain without a
// collection id or template id yields a Config-kind error.
func (b *Builder) Build(r recipient.Resolved, c chains.Chain) (Request, error) {
	col, ok := b.collections[c]
	if !ok || col.ID == "" {
		return Request{}, failure.Configf("no collection id configured for %s", c)
	}
	if col.TemplateID == "" {
		return Request{}, failure.Configf("no template id configured for %s", c)
	}

	return Request{
		CollectionID: col.ID,
		Chain:        c,
		Recipient:    RecipientString(r, c),
		TemplateID:   col.TemplateID,
		Compressed:   c == chains.Solana,
	}, nil
}

// RecipientString formats a recipient the way Crossmint expects:
// email:<address>:<chain> for emails and <chain>:<address> for wallets.
func RecipientString(r recipient.Resolved, c chains.Chain) string {
	if r.Kind == recipient.Email {
		return fmt.Sprintf("email:%s:%s", r.Address, c)
	}
	return fmt.Sprintf("%s:%s", c, r.Address)
}
