// Package model invokes the managed foundation model and streams its output.
package model

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/smithy-go"
)

// Request is one completion request. Images, when present, are PNG page
// renders attached ahead of the prompt text.
type Request struct {
	Model     string
	System    string
	Prompt    string
	Images    [][]byte
	MaxTokens int
}

// Invoker streams a completion. Text deltas are written to w as they arrive
// (flush called after each when non-nil); the full accumulated text is
// returned at the end.
type Invoker interface {
	Invoke(ctx context.Context, req Request, w io.Writer, flush func()) (string, error)
}

// AccessDeniedHint is printed alongside access-denied errors. Model access
// is an account-level opt-in, which trips up every first-time user.
const AccessDeniedHint = "Access denied invoking the model. Enable access to the model for this account/region in the Bedrock console (Model access), then retry."

// accessDeniedError wraps the service error so callers can attach the hint.
type accessDeniedError struct{ err error }

func (e accessDeniedError) Error() string { return "model access denied: " + e.err.Error() }
func (e accessDeniedError) Unwrap() error { return e.err }

// IsAccessDenied reports whether err is the access-denied client error,
// the one failure that gets a remediation hint instead of propagating bare.
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	var ad accessDeniedError
	if errors.As(err, &ad) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDeniedException" {
		return true
	}
	return strings.Contains(err.Error(), "AccessDeniedException")
}

// classify wraps recognizable client errors; everything else propagates as-is.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if IsAccessDenied(err) {
		return accessDeniedError{err: err}
	}
	return err
}
