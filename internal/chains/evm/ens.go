// Package evm resolves ENS names on Ethereum mainnet through the ENS
// registry and the resolver contract it points at, including ENSIP-10
// wildcard resolvers set on a parent name.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/net/idna"
)

// RegistryAddress is the ENS registry deployment on Ethereum mainnet.
const RegistryAddress = "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"

// Errors returned by the ENS resolver.
var (
	ErrInvalidName = errors.New("invalid ENS name")
	ErrNoResolver  = errors.New("no resolver set for name")
	ErrNoAddress   = errors.New("name has no address record")
)

const ensABI = `[
	{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"resolver","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"addr","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"interfaceID","type":"bytes4"}],"name":"supportsInterface","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"name","type":"bytes"},{"name":"data","type":"bytes"}],"name":"resolve","outputs":[{"name":"","type":"bytes"}],"stateMutability":"view","type":"function"}
]`

// extendedResolverID is the ENSIP-10 IExtendedResolver interface id.
var extendedResolverID = [4]byte{0x90, 0x61, 0xb9, 0x23}

var parsedABI = mustParseABI(ensABI)

// ensProfile applies UTS-46 lookup mapping, which lowercases and folds
// compatibility characters the way ENS normalization does for plain names.
var ensProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
)

// ContractCaller executes read-only contract calls. *ethclient.Client
// satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ENSResolver resolves ENS names to addresses.
type ENSResolver struct {
	caller   ContractCaller
	registry common.Address
}

// NewENSResolver creates a resolver that reads through caller.
func NewENSResolver(caller ContractCaller) *ENSResolver {
	return &ENSResolver{
		caller:   caller,
		registry: common.HexToAddress(RegistryAddress),
	}
}

// Dial connects to an Ethereum JSON-RPC endpoint and returns a resolver
// using it.
func Dial(ctx context.Context, rpcURL string) (*ENSResolver, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing ethereum rpc: %w", err)
	}
	return NewENSResolver(client), nil
}

// Normalize maps an ENS name to its canonical lookup form.
func Normalize(name string) (string, error) {
	normalized, err := ensProfile.ToUnicode(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	for _, label := range strings.Split(normalized, ".") {
		if label == "" {
			return "", fmt.Errorf("%w: empty label in %q", ErrInvalidName, name)
		}
	}
	return normalized, nil
}

// NameHash computes the EIP-137 namehash of a normalized name.
func NameHash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := crypto.Keccak256Hash([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), label.Bytes())
	}
	return node
}

// Resolve normalizes name and returns the checksummed address its resolver
// reports. When name has no resolver of its own, the closest ancestor's
// resolver is used if it implements ENSIP-10 wildcard resolution. CCIP-read
// (OffchainLookup) reverts are returned as errors.
func (r *ENSResolver) Resolve(ctx context.Context, name string) (string, error) {
	normalized, err := Normalize(name)
	if err != nil {
		return "", err
	}
	node := NameHash(normalized)

	resolver, owner, err := r.findResolver(ctx, normalized)
	if err != nil {
		return "", err
	}

	var addr common.Address
	if owner == normalized {
		addr, err = r.callAddress(ctx, resolver, "addr", node)
		if err != nil {
			err = fmt.Errorf("looking up address: %w", err)
		}
	} else {
		addr, err = r.resolveWildcard(ctx, resolver, normalized, node)
	}
	if err != nil {
		return "", err
	}
	if addr == (common.Address{}) {
		return "", ErrNoAddress
	}

	return addr.Hex(), nil
}

// findResolver walks from name towards the root and returns the first
// resolver set in the registry along with the name it was set on.
func (r *ENSResolver) findResolver(ctx context.Context, name string) (common.Address, string, error) {
	for current := name; current != ""; current = parentName(current) {
		resolver, err := r.callAddress(ctx, r.registry, "resolver", NameHash(current))
		if err != nil {
			return common.Address{}, "", fmt.Errorf("looking up resolver: %w", err)
		}
		if resolver != (common.Address{}) {
			return resolver, current, nil
		}
	}
	return common.Address{}, "", ErrNoResolver
}

// resolveWildcard asks an ancestor's resolver for name's address through
// IExtendedResolver.resolve.
func (r *ENSResolver) resolveWildcard(ctx context.Context, resolver common.Address, name string, node common.Hash) (common.Address, error) {
	supported, err := r.supportsExtended(ctx, resolver)
	if err != nil {
		return common.Address{}, fmt.Errorf("checking wildcard support: %w", err)
	}
	if !supported {
		return common.Address{}, ErrNoResolver
	}

	encoded, err := DNSEncode(name)
	if err != nil {
		return common.Address{}, err
	}
	inner, err := parsedABI.Pack("addr", [32]byte(node))
	if err != nil {
		return common.Address{}, fmt.Errorf("packing addr: %w", err)
	}

	out, err := r.call(ctx, resolver, "resolve", encoded, inner)
	if err != nil {
		return common.Address{}, fmt.Errorf("looking up address: %w", err)
	}
	if len(out) == 0 {
		return common.Address{}, nil
	}
	result, ok := out[0].([]byte)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected resolve result type %T", out[0])
	}
	return unpackAddress("addr", result)
}

func (r *ENSResolver) supportsExtended(ctx context.Context, resolver common.Address) (bool, error) {
	out, err := r.call(ctx, resolver, "supportsInterface", extendedResolverID)
	if err != nil {
		return false, err
	}
	if len(out) == 0 {
		return false, nil
	}
	supported, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected supportsInterface result type %T", out[0])
	}
	return supported, nil
}

// DNSEncode encodes a normalized name in DNS wire format as ENSIP-10
// requires: length-prefixed labels followed by a zero byte.
func DNSEncode(name string) ([]byte, error) {
	var buf []byte
	for _, label := range strings.Split(name, ".") {
		if label == "" || len(label) > 255 {
			return nil, fmt.Errorf("%w: label %q cannot be DNS encoded", ErrInvalidName, label)
		}
		buf = append(buf, byte(len(label)))
		buf = append(buf, label...)
	}
	return append(buf, 0), nil
}

func parentName(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

// callAddress calls a single-argument bytes32 -> address view function.
func (r *ENSResolver) callAddress(ctx context.Context, to common.Address, method string, node common.Hash) (common.Address, error) {
	data, err := parsedABI.Pack(method, [32]byte(node))
	if err != nil {
		return common.Address{}, fmt.Errorf("packing %s: %w", method, err)
	}

	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return common.Address{}, err
	}
	return unpackAddress(method, out)
}

// call packs args for method, calls to and unpacks the outputs. Calls to
// accounts without code return no values.
func (r *ENSResolver) call(ctx context.Context, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsedABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	values, err := parsedABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", method, err)
	}
	return values, nil
}

func unpackAddress(method string, out []byte) (common.Address, error) {
	if len(out) == 0 {
		// Calls to accounts without code return nothing.
		return common.Address{}, nil
	}

	values, err := parsedABI.Unpack(method, out)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpacking %s: %w", method, err)
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected %s result type %T", method, values[0])
	}
	return addr, nil
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parsing ENS ABI: %v", err))
	}
	return parsed
}
