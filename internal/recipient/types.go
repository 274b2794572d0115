// Package recipient classifies the free-text recipient typed into the frame
// and resolves ENS and SNS names to wallet addresses.
package recipient

// Kind is the resolved form of a recipient.
type Kind int

const (
	// Email recipients are minted into a Crossmint custodial wallet.
	Email Kind = iota + 1
	// EVMAddress is a 0x-prefixed account on any EVM chain.
	EVMAddress
	// SolanaAddress is a base58 Solana public key.
	SolanaAddress
)

// String returns the kind name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case Email:
		return "email"
	case EVMAddress:
		return "evm"
	case SolanaAddress:
		return "solana"
	default:
		return "invalid"
	}
}

// Resolved is a recipient after classification and name resolution.
// Address is never empty for a successfully resolved recipient.
type Resolved struct {
	Address string
	Kind    Kind
}
