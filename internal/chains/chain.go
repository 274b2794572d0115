// Package chains describes the blockchains a frame can mint on, how a
// clicked button selects one, and which recipients each chain accepts.
package chains

import (
	"github.com/pendergraft/framemint/internal/failure"
	"github.com/pendergraft/framemint/internal/recipient"
)

// Chain is a Crossmint chain identifier.
type Chain string

// Supported chains, in button order.
const (
	Base     Chain = "base"
	Optimism Chain = "optimism"
	Polygon  Chain = "polygon"
	Solana   Chain = "solana"
)

// buttons maps the 1-based frame button index to its chain.
var buttons = [...]Chain{Base, Optimism, Polygon, Solana}

// All returns the supported chains in button order.
func All() []Chain {
	out := make([]Chain, len(buttons))
	copy(out, buttons[:])
	return out
}

// FromButton returns the chain selected by a 1-based button index.
func FromButton(index int) (Chain, error) {
	if index < 1 || index > len(buttons) {
		return "", failure.Inputf("no chain matching the clicked button %d", index)
	}
	return buttons[index-1], nil
}

// DisplayName returns the button label for the chain.
func (c Chain) DisplayName() string {
	switch c {
	case Base:
		return "Base"
	case Optimism:
		return "Optimism"
	case Polygon:
		return "Polygon"
	case Solana:
		return "Solana"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the supported chains.
func (c Chain) Valid() bool {
	for _, b := range buttons {
		if b == c {
			return true
		}
	}
	return false
}

// CheckRecipient rejects recipients that cannot receive a mint on c.
// Email recipients are accepted everywhere, EVM addresses only off Solana and
// Solana addresses only on Solana.
func CheckRecipient(kind recipient.Kind, c Chain) error {
	switch {
	case kind != recipient.Email && kind != recipient.SolanaAddress && c == Solana:
		return failure.Inputf("You must pass a valid email, .sol, or solana wallet address to mint on Solana")
	case kind == recipient.SolanaAddress && c != Solana:
		return failure.Inputf("You must pass a valid email, .eth, or %s wallet address to mint on %s", c, c)
	}
	return nil
}
