// Package transport provides HTTP request/response types for the frame domain.
package transport

import (
	"github.com/go-playground/validator/v10"

	"github.com/pendergraft/framemint/internal/frame/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FrameRequest is the HTTP request body posted by a Farcaster client when
// a frame button is clicked.
type FrameRequest struct {
	UntrustedData UntrustedData `json:"untrustedData"`
	TrustedData   TrustedData   `json:"trustedData"`
}

// UntrustedData is the unsigned copy of the frame action.
type UntrustedData struct {
	FID         int64  `json:"fid" validate:"gte=0"`
	URL         string `json:"url"`
	MessageHash string `json:"messageHash"`
	Timestamp   int64  `json:"timestamp"`
	Network     int    `json:"network"`
	ButtonIndex int    `json:"buttonIndex" validate:"gte=0"`
	InputText   string `json:"inputText" validate:"max=256"`
	CastID      CastID `json:"castId"`
}

// CastID identifies the cast the frame was embedded in.
type CastID struct {
	FID  int64  `json:"fid"`
	Hash string `json:"hash"`
}

// TrustedData carries the signed frame message.
type TrustedData struct {
	MessageBytes string `json:"messageBytes" validate:"omitempty,hexadecimal"`
}

// Validate checks the request body constraints.
func (r FrameRequest) Validate() error {
	return validate.Struct(r)
}

// ToDomain converts FrameRequest to domain.Packet.
func (r FrameRequest) ToDomain() domain.Packet {
	return domain.Packet{
		FID:          r.UntrustedData.FID,
		ButtonIndex:  r.UntrustedData.ButtonIndex,
		InputText:    r.UntrustedData.InputText,
		MessageBytes: r.TrustedData.MessageBytes,
	}
}
