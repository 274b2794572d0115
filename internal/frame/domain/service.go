package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/pendergraft/framemint/internal/chains"
	"github.com/pendergraft/framemint/internal/failure"
	"github.com/pendergraft/framemint/internal/mint"
	"github.com/pendergraft/framemint/internal/observability/metrics"
	"github.com/pendergraft/framemint/internal/recipient"
	"github.com/pendergraft/framemint/internal/validation"
	"github.com/pendergraft/framemint/internal/views"
)

// ErrUnknownStatus is returned for an action status other than pending,
// succeeded or failed.
var ErrUnknownStatus = errors.New("unknown action status")

// Service defines the frame controller interface.
type Service interface {
	// Reload returns the Initial view.
	Reload(ctx context.Context) Result

	// Refresh polls a mint action and returns its status view.
	Refresh(ctx context.Context, actionID string) Result

	// Submit validates a packet, resolves the recipient and mints.
	Submit(ctx context.Context, p Packet) Result
}

// RecipientResolver classifies and resolves recipient input.
type RecipientResolver interface {
	Resolve(ctx context.Context, input string) (recipient.Resolved, error)
}

// RequestBuilder builds a mint request for a recipient and chain.
type RequestBuilder interface {
	Build(r recipient.Resolved, c chains.Chain) (mint.Request, error)
}

// Minter talks to the minting API.
type Minter interface {
	Mint(ctx context.Context, req mint.Request) (*mint.Receipt, error)
	GetAction(ctx context.Context, actionID string) (*mint.Action, error)
}

// MessageValidator checks a frame packet and returns its trusted content.
type MessageValidator interface {
	Validate(ctx context.Context, p Packet) (*Message, error)
}

// Dependencies are the collaborators of the frame controller.
type Dependencies struct {
	Resolver     RecipientResolver
	Builder      RequestBuilder
	Minter       Minter
	Validator    MessageValidator
	Views        *views.Catalog
	CrossmintEnv string
}

// service implements the Service interface.
type service struct {
	resolver     RecipientResolver
	builder      RequestBuilder
	minter       Minter
	validator    MessageValidator
	views        *views.Catalog
	crossmintEnv string
}

// NewService creates a new frame controller.
func NewService(d Dependencies) Service {
	return &service{
		resolver:     d.Resolver,
		builder:      d.Builder,
		minter:       d.Minter,
		validator:    d.Validator,
		views:        d.Views,
		crossmintEnv: d.CrossmintEnv,
	}
}

// Reload returns the Initial view.
func (s *service) Reload(ctx context.Context) Result {
	return Result{View: s.views.Initial()}
}

// Refresh polls a mint action and returns its status view.
func (s *service) Refresh(ctx context.Context, actionID string) Result {
	if err := validation.ValidateActionID(actionID); err != nil {
		return s.fail(err)
	}

	action, err := s.minter.GetAction(ctx, actionID)
	if err != nil {
		return s.fail(err)
	}

	switch action.Status {
	case mint.StatusPending:
		return Result{View: s.views.Pending(actionID)}
	case mint.StatusSucceeded:
		return Result{View: s.views.Success(chains.ExplorerTxURL(s.crossmintEnv, action.Data.Chain, action.Data.TxID))}
	case mint.StatusFailed:
		return s.fail(failure.Mintingf("mint action %s failed", actionID))
	default:
		return s.fail(fmt.Errorf("%w: %q", ErrUnknownStatus, action.Status))
	}
}

// Submit validates a packet, resolves the recipient and mints.
func (s *service) Submit(ctx context.Context, p Packet) Result {
	msg, err := s.validator.Validate(ctx, p)
	if err != nil {
		return s.fail(err)
	}

	r, err := s.resolver.Resolve(ctx, msg.Input)
	if err != nil {
		metrics.RecipientResolution("invalid", "error")
		return s.fail(err)
	}
	metrics.RecipientResolution(r.Kind.String(), "ok")

	chain, err := chains.FromButton(msg.Button)
	if err != nil {
		return s.fail(err)
	}
	if err := chains.CheckRecipient(r.Kind, chain); err != nil {
		return s.fail(err)
	}

	req, err := s.builder.Build(r, chain)
	if err != nil {
		return s.fail(err)
	}

	receipt, err := s.minter.Mint(ctx, req)
	if err != nil {
		metrics.MintRequest(string(chain), "error")
		return s.fail(err)
	}
	metrics.MintRequest(string(chain), "ok")

	return Result{View: s.views.InitialSuccess(r.Kind == recipient.Email, receipt.ActionID)}
}

// fail maps an error to its view by kind. Upstream text never reaches the
// view; it is only carried in Result.Err.
func (s *service) fail(err error) Result {
	switch failure.KindOf(err) {
	case failure.Input:
		return Result{View: s.views.InputError(), Err: err}
	case failure.Minting:
		return Result{View: s.views.MintingError(), Err: err}
	default:
		return Result{View: s.views.UnknownError(), Err: err}
	}
}
