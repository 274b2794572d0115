// Package solana resolves Solana Name Service (.sol) domains to the wallet
// that owns them.
package solana

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// hashPrefix is prepended to every name before hashing.
const hashPrefix = "SPL Name Service"

// registryHeaderLen is the size of the parent, owner and class fields at the
// start of every name registry account.
const registryHeaderLen = 96

var (
	// NameProgramID is the SPL name service program.
	NameProgramID = solana.MustPublicKeyFromBase58("namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX")
	// RootDomainAccount is the parent of every .sol domain.
	RootDomainAccount = solana.MustPublicKeyFromBase58("58PwtjSDuFHuUkYjH9BYnnQKHfwo9reZhC2zMJv9JPkx")
)

// Errors returned by the SNS resolver.
var (
	ErrInvalidDomain  = errors.New("invalid .sol domain")
	ErrDomainNotFound = errors.New("domain not registered")
	ErrShortRegistry  = errors.New("name registry account too small")
)

// AccountReader fetches raw account data.
type AccountReader interface {
	AccountData(ctx context.Context, key solana.PublicKey) ([]byte, error)
}

// SNSResolver resolves .sol domains.
type SNSResolver struct {
	accounts AccountReader
}

// NewSNSResolver creates a resolver reading accounts through r.
func NewSNSResolver(r AccountReader) *SNSResolver {
	return &SNSResolver{accounts: r}
}

// NewRPCResolver creates a resolver backed by a Solana JSON-RPC endpoint.
func NewRPCResolver(rpcURL string) *SNSResolver {
	return NewSNSResolver(&rpcAccountReader{client: rpc.New(rpcURL)})
}

// DomainKey derives the name registry account of a domain. A trailing .sol
// is optional; "sub.domain" is derived under the key of "domain".
func DomainKey(domain string) (solana.PublicKey, error) {
	domain = strings.TrimSuffix(domain, ".sol")

	parts := strings.Split(domain, ".")
	for _, p := range parts {
		if p == "" {
			return solana.PublicKey{}, fmt.Errorf("%w: empty label", ErrInvalidDomain)
		}
	}

	switch len(parts) {
	case 1:
		return nameAccountKey(hashedName(parts[0]), RootDomainAccount)
	case 2:
		parent, err := nameAccountKey(hashedName(parts[1]), RootDomainAccount)
		if err != nil {
			return solana.PublicKey{}, err
		}
		return nameAccountKey(hashedName("\x00"+parts[0]), parent)
	default:
		return solana.PublicKey{}, fmt.Errorf("%w: too many labels in %q", ErrInvalidDomain, domain)
	}
}

// Resolve returns the base58 owner of a .sol domain.
func (r *SNSResolver) Resolve(ctx context.Context, domain string) (string, error) {
	key, err := DomainKey(domain)
	if err != nil {
		return "", err
	}

	data, err := r.accounts.AccountData(ctx, key)
	if err != nil {
		return "", fmt.Errorf("fetching name registry %s: %w", key, err)
	}

	owner, err := registryOwner(data)
	if err != nil {
		return "", err
	}
	return owner.String(), nil
}

// registryOwner reads the owner field from a name registry account.
func registryOwner(data []byte) (solana.PublicKey, error) {
	if len(data) < registryHeaderLen {
		return solana.PublicKey{}, fmt.Errorf("%w: %d bytes", ErrShortRegistry, len(data))
	}
	return solana.PublicKeyFromBytes(data[32:64]), nil
}

func hashedName(name string) []byte {
	sum := sha256.Sum256([]byte(hashPrefix + name))
	return sum[:]
}

// nameAccountKey derives the program address for a hashed name with the
// default (zero) name class.
func nameAccountKey(hashed []byte, parent solana.PublicKey) (solana.PublicKey, error) {
	var class solana.PublicKey
	key, _, err := solana.FindProgramAddress(
		[][]byte{hashed, class[:], parent[:]},
		NameProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("deriving name account: %w", err)
	}
	return key, nil
}

// rpcAccountReader adapts the JSON-RPC client to AccountReader.
type rpcAccountReader struct {
	client *rpc.Client
}

func (a *rpcAccountReader) AccountData(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	res, err := a.client.GetAccountInfo(ctx, key)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrDomainNotFound
		}
		return nil, err
	}
	if res == nil || res.Value == nil {
		return nil, ErrDomainNotFound
	}
	return res.Value.Data.GetBinary(), nil
}
