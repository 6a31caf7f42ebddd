// Package transport implements the production HTTP backend for a
// cluster. It is the only component that knows about status codes,
// proxies and TLS - everything above consumes the normalized
// core.Outcome.
package transport

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/cratedb/crate-go/core"
)

var _ core.Backend = (*HTTP)(nil)

// HTTP talks to cluster nodes over plain HTTP or HTTPS. It holds no
// per-request state and is safe for concurrent use.
type HTTP struct {
	client *http.Client
}

// NewHTTP creates an HTTP backend. Connection reuse, TLS and proxying are
// handled by the underlying http.Client and can be adjusted with options.
func NewHTTP(opts ...Option) *HTTP {
	config := newClientConfig()
	for _, opt := range opts {
		opt(config)
	}

	return &HTTP{client: config.buildClient()}
}

// Connect creates a cluster over the default HTTP backend from a
// comma-separated list of node URLs. Use core.New or core.FromString
// directly to inject a custom backend.
func Connect(nodeStr string, opts ...Option) (*core.Cluster, error) {
	return core.FromString(NewHTTP(opts...), nodeStr)
}

func (h *HTTP) Execute(ctx context.Context, to string, payload []byte) (string, error) {
	if to == "" {
		return "", core.NewBackendError("No URL specified")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, to, bytes.NewReader(payload))
	if err != nil {
		return "", core.NewTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := h.client.Do(req)
	if err != nil {
		return "", core.NewTransportError(err)
	}
	defer resp.Body.Close()

	// statement errors come back as a JSON body with a non-2xx status,
	// so the body is returned regardless of the status code
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", core.NewIOError(err)
	}

	return string(body), nil
}

func (h *HTTP) UploadBlob(ctx context.Context, to string, bucket string, digest []byte, content io.Reader) (core.Outcome, error) {
	blobURL, err := makeBlobURL(to, bucket, digest)
	if err != nil {
		return core.OutcomeError, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, blobURL, content)
	if err != nil {
		return core.OutcomeError, core.NewTransportError(err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return core.OutcomeError, core.NewTransportError(err)
	}
	defer resp.Body.Close()

	return outcomeFromStatus(resp.StatusCode), nil
}

func (h *HTTP) DeleteBlob(ctx context.Context, to string, bucket string, digest []byte) (core.Outcome, error) {
	blobURL, err := makeBlobURL(to, bucket, digest)
	if err != nil {
		return core.OutcomeError, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, blobURL, nil)
	if err != nil {
		return core.OutcomeError, core.NewTransportError(err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return core.OutcomeError, core.NewTransportError(err)
	}
	defer resp.Body.Close()

	return outcomeFromStatus(resp.StatusCode), nil
}

func (h *HTTP) FetchBlob(ctx context.Context, to string, bucket string, digest []byte) (core.Outcome, io.ReadCloser, error) {
	blobURL, err := makeBlobURL(to, bucket, digest)
	if err != nil {
		return core.OutcomeError, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, blobURL, nil)
	if err != nil {
		return core.OutcomeError, nil, core.NewTransportError(err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return core.OutcomeError, nil, core.NewTransportError(err)
	}

	// the body stays open so the caller can stream arbitrarily large blobs
	return outcomeFromStatus(resp.StatusCode), resp.Body, nil
}

// makeBlobURL appends /{bucket}/{lowercase hex digest} to the endpoint
// path, escaping both segments.
func makeBlobURL(to string, bucket string, digest []byte) (string, error) {
	if to == "" {
		return "", core.NewBackendError("No URL specified")
	}

	base, err := url.Parse(to)
	if err != nil {
		return "", core.NewBackendError("Invalid blob url")
	}

	return base.JoinPath(bucket, hex.EncodeToString(digest)).String(), nil
}

// outcomeFromStatus normalizes an HTTP status code into a core.Outcome.
func outcomeFromStatus(status int) core.Outcome {
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return core.OutcomeOk
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusMethodNotAllowed:
		return core.OutcomeNotAuthorized
	case http.StatusRequestTimeout:
		return core.OutcomeTimeout
	default:
		return core.OutcomeError
	}
}
