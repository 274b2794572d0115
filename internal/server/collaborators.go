package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pendergraft/framemint/internal/chains/evm"
	"github.com/pendergraft/framemint/internal/chains/solana"
	"github.com/pendergraft/framemint/internal/config"
	"github.com/pendergraft/framemint/internal/crossmint"
	frameDomain "github.com/pendergraft/framemint/internal/frame/domain"
	"github.com/pendergraft/framemint/internal/neynar"
	"github.com/pendergraft/framemint/internal/recipient"
)

// ErrMissingMessage is returned when a frame packet has no signed message
// to validate.
var ErrMissingMessage = errors.New("frame packet has no trusted message bytes")

// Collaborators are the external services the frame controller calls.
type Collaborators struct {
	ENS       recipient.NameResolver
	SNS       recipient.NameResolver
	Minter    frameDomain.Minter
	Validator frameDomain.MessageValidator
}

// NewCollaborators builds the production clients from configuration. No
// network calls are made until the first request.
func NewCollaborators(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Collaborators, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout()}

	ens, err := evm.Dial(ctx, cfg.EVM.RPCURL)
	if err != nil {
		return Collaborators{}, err
	}

	mintOpts := []crossmint.Option{crossmint.WithHTTPClient(httpClient)}
	if cfg.Crossmint.BaseURL != "" {
		mintOpts = append(mintOpts, crossmint.WithBaseURL(cfg.Crossmint.BaseURL))
	}
	if cfg.Crossmint.APIKey == "" {
		logger.Warn("CROSSMINT_API_KEY is not set; mint requests will be rejected")
	}

	var validator frameDomain.MessageValidator
	if cfg.Neynar.AllowUnvalidated {
		logger.Warn("frame message validation is disabled; trusting client-supplied packets")
		validator = untrustedValidator{}
	} else {
		neynarOpts := []neynar.Option{neynar.WithHTTPClient(httpClient)}
		if cfg.Neynar.BaseURL != "" {
			neynarOpts = append(neynarOpts, neynar.WithBaseURL(cfg.Neynar.BaseURL))
		}
		validator = neynarValidator{client: neynar.New(cfg.Neynar.APIKey, neynarOpts...)}
	}

	return Collaborators{
		ENS:       timeoutResolver{next: ens, timeout: cfg.Timeout()},
		SNS:       timeoutResolver{next: solana.NewRPCResolver(cfg.Solana.RPCURL), timeout: cfg.Timeout()},
		Minter:    crossmint.New(cfg.Crossmint.Env, cfg.Crossmint.APIKey, mintOpts...),
		Validator: validator,
	}, nil
}

// frameValidator is the part of the Neynar client the server uses.
type frameValidator interface {
	ValidateFrameAction(ctx context.Context, messageBytesHex string) (*neynar.Action, error)
}

// neynarValidator adapts the Neynar client to the frame domain's
// MessageValidator interface
type neynarValidator struct {
	client frameValidator
}

func (v neynarValidator) Validate(ctx context.Context, p frameDomain.Packet) (*frameDomain.Message, error) {
	if p.MessageBytes == "" {
		return nil, ErrMissingMessage
	}
	a, err := v.client.ValidateFrameAction(ctx, p.MessageBytes)
	if err != nil {
		return nil, fmt.Errorf("validating frame message: %w", err)
	}
	return &frameDomain.Message{
		FID:    a.InteractorFID,
		Input:  a.InputText,
		Button: a.ButtonIndex,
	}, nil
}

// untrustedValidator takes the unsigned packet fields at face value. It is
// meant for local frame debuggers that cannot produce signed messages.
type untrustedValidator struct{}

func (untrustedValidator) Validate(ctx context.Context, p frameDomain.Packet) (*frameDomain.Message, error) {
	return &frameDomain.Message{
		FID:    p.FID,
		Input:  p.InputText,
		Button: p.ButtonIndex,
	}, nil
}

// timeoutResolver bounds name lookups, whose RPC clients carry no timeout
// of their own.
type timeoutResolver struct {
	next    recipient.NameResolver
	timeout time.Duration
}

func (r timeoutResolver) Resolve(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Resolve(ctx, name)
}
