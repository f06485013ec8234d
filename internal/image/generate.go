package image

import (
	"context"
	"errors"
)

var (
	// ErrProvider wraps failures of the remote inference call itself.
	ErrProvider = errors.New("image generation failed")
	// ErrDecode wraps responses that do not carry an image where the
	// model's schema family says one should be.
	ErrDecode = errors.New("unrecognized image response")
)

type Params struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
}

type Generator interface {
	Generate(context.Context, Params) ([]byte, error)
}
