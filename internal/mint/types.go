// Package mint builds Crossmint mint requests from a resolved recipient and
// a selected chain.
package mint

import "github.com/pendergraft/framemint/internal/chains"

// Collection holds the Crossmint ids used to mint on one chain.
type Collection struct {
	ID         string `toml:"collection_id" validate:"required"`
	TemplateID string `toml:"template_id" validate:"required"`
}

// Request is a mint request for one collection. Its JSON encoding is the
// Crossmint request body.
type Request struct {
	CollectionID string       `json:"-"`
	Chain        chains.Chain `json:"-"`
	Recipient    string       `json:"recipient"`
	TemplateID   string       `json:"templateId"`
	Compressed   bool         `json:"compressed,omitempty"`
}

// TxData identifies the on-chain transaction of a settled mint.
type TxData struct {
	TxID  string `json:"txId"`
	Chain string `json:"chain"`
}

// Receipt is Crossmint's answer to an accepted mint request.
type Receipt struct {
	ActionID string `json:"actionId"`
	Data     TxData `json:"data"`
}

// Status of a Crossmint action.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Action is the polled state of a mint.
type Action struct {
	ActionID string `json:"actionId"`
	Status   Status `json:"status"`
	Data     TxData `json:"data"`
}
