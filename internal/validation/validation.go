// Package validation provides syntactic checks for frame inputs: recipient
// addresses, email literals and Crossmint action ids.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// emailRegex matches local@domain.tld with no whitespace and a single @.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// evmAddressRegex matches 0x followed by 40 hex characters.
var evmAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsEmail reports whether s looks like an email address. Any Unicode
// whitespace or a byte order mark disqualifies it; RE2's \s covers ASCII only.
func IsEmail(s string) bool {
	if strings.ContainsFunc(s, isEmailSpace) {
		return false
	}
	return emailRegex.MatchString(s)
}

func isEmailSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// ValidateAddress validates an EVM address. All-lowercase addresses are
// accepted as is; any other casing must carry a valid EIP-55 checksum.
func ValidateAddress(addr string) error {
	if len(addr) != 42 {
		return errors.New("invalid address length: must be 42 characters (0x + 40 hex)")
	}
	if !strings.HasPrefix(addr, "0x") {
		return errors.New("invalid address: must start with 0x")
	}
	if !evmAddressRegex.MatchString(addr) {
		return errors.New("invalid address: contains non-hex characters")
	}
	if strings.ToLower(addr) == addr {
		return nil
	}
	if common.HexToAddress(addr).Hex() != addr {
		return errors.New("invalid address: checksum mismatch")
	}
	return nil
}

// IsEVMAddress reports whether s is a valid EVM address.
func IsEVMAddress(s string) bool {
	return ValidateAddress(s) == nil
}

// IsSolanaAddress reports whether s is a base58 encoded 32-byte public key.
func IsSolanaAddress(s string) bool {
	if s == "" {
		return false
	}
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}

// ValidateActionID validates a Crossmint action id before it is placed in
// an outbound URL path.
func ValidateActionID(id string) error {
	if id == "" {
		return errors.New("action id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid action id: must be a UUID")
	}
	return nil
}
