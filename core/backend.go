package core

import (
	"context"
	"io"
)

// Outcome is the normalized classification of a transport-level response.
// It decouples the protocol layer from any particular transport's status
// code vocabulary.
type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeNotFound
	OutcomeNotAuthorized
	OutcomeTimeout
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOk:
		return "ok"
	case OutcomeNotFound:
		return "not found"
	case OutcomeNotAuthorized:
		return "not authorized"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeError:
		return "error"
	default:
		return "error"
	}
}

type (
	// Backend performs the actual I/O against a single resolved endpoint
	// URL. One production implementation exists (transport.HTTP); tests
	// use the doubles from core/mock.
	//
	// Implementations must be safe for concurrent use and must not retry
	// on their own.
	Backend interface {
		// Execute posts a SQL payload and returns the raw response body.
		// The body is returned regardless of the response status - the
		// server reports statement errors as a JSON body.
		Execute(ctx context.Context, url string, payload []byte) (string, error)

		// UploadBlob puts the content to {url}/{bucket}/{hex(digest)}.
		UploadBlob(ctx context.Context, url string, bucket string, digest []byte, content io.Reader) (Outcome, error)

		// DeleteBlob removes the blob at {url}/{bucket}/{hex(digest)}.
		DeleteBlob(ctx context.Context, url string, bucket string, digest []byte) (Outcome, error)

		// FetchBlob retrieves the blob at {url}/{bucket}/{hex(digest)}.
		// The returned reader streams the content and must be closed by
		// the caller once consumed.
		FetchBlob(ctx context.Context, url string, bucket string, digest []byte) (Outcome, io.ReadCloser, error)
	}
)
