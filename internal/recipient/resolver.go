package recipient

import (
	"context"
	"strings"

	"github.com/pendergraft/framemint/internal/failure"
	"github.com/pendergraft/framemint/internal/validation"
)

// NameResolver resolves a human-readable name to an address. An empty
// address with a nil error means the name has no address.
type NameResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Resolver classifies recipient input and resolves names.
type Resolver struct {
	ens NameResolver
	sns NameResolver
}

// NewResolver creates a Resolver using ens for .eth names and sns for .sol
// domains.
func NewResolver(ens, sns NameResolver) *Resolver {
	return &Resolver{ens: ens, sns: sns}
}

// Resolve classifies input and resolves it to an address. Rules are tried
// in order and the first match wins: email, .eth, .sol, EVM address, Solana
// address. All failures are Input-kind errors.
func (r *Resolver) Resolve(ctx context.Context, input string) (Resolved, error) {
	var (
		res Resolved
		err error
	)

	switch {
	case validation.IsEmail(input):
		res = Resolved{Address: input, Kind: Email}
	case strings.HasSuffix(input, ".eth"):
		res, err = r.lookup(ctx, r.ens, input, EVMAddress)
	case strings.HasSuffix(input, ".sol"):
		res, err = r.lookup(ctx, r.sns, input, SolanaAddress)
	case validation.IsEVMAddress(input):
		res = Resolved{Address: input, Kind: EVMAddress}
	case validation.IsSolanaAddress(input):
		res = Resolved{Address: input, Kind: SolanaAddress}
	}
	if err != nil {
		return Resolved{}, err
	}

	if res.Address == "" {
		return Resolved{}, failure.Inputf("the recipient is empty after evaluation, address sent: %q", input)
	}
	return res, nil
}

func (r *Resolver) lookup(ctx context.Context, names NameResolver, name string, kind Kind) (Resolved, error) {
	if names == nil {
		return Resolved{}, failure.Inputf("no resolver configured for %q", name)
	}
	addr, err := names.Resolve(ctx, name)
	if err != nil {
		return Resolved{}, failure.Wrap(failure.Input, err, "resolving "+name)
	}
	return Resolved{Address: addr, Kind: kind}, nil
}
