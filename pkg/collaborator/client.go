// Package collaborator sends an audit payload to the external language-model
// service and turns its reply into a validated report.
package collaborator

import (
	"context"
	"time"
)

// Client performs one audit request: prompt is the system instruction and
// payload the package content. It returns the raw response text.
type Client interface {
	Audit(ctx context.Context, prompt, payload string) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, prompt, payload string) (string, error)

func (f ClientFunc) Audit(ctx context.Context, prompt, payload string) (string, error) {
	return f(ctx, prompt, payload)
}

// WithTimeout bounds every call to next by d. A non-positive d disables the bound.
func WithTimeout(next Client, d time.Duration) Client {
	if d <= 0 {
		return next
	}
	return ClientFunc(func(ctx context.Context, prompt, payload string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.Audit(ctx, prompt, payload)
	})
}

// Unconfigured returns a Client that fails every call with ErrMissingCredential.
func Unconfigured() Client {
	return ClientFunc(func(context.Context, string, string) (string, error) {
		return "", ErrMissingCredential
	})
}
