// Package mock provides test doubles for the core.Backend interface.
package mock

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/cratedb/crate-go/core"
)

var _ core.Backend = (*Backend)(nil)

// ExecuteCall records one Execute invocation.
type ExecuteCall struct {
	URL     string
	Payload string
}

// BlobCall records one blob invocation.
type BlobCall struct {
	Op     string
	URL    string
	Bucket string
	Digest []byte
	// Content holds the uploaded bytes for upload calls.
	Content []byte
}

// Backend is a scriptable core.Backend that records every call it
// receives.
type Backend struct {
	config *backendConfig

	mu       sync.Mutex
	executes []ExecuteCall
	blobs    []BlobCall
}

// NewBackend returns a mocked backend. Without options it answers every
// Execute with an empty JSON object and every blob call with an ok
// outcome and empty content.
func NewBackend(opts ...BackendOption) *Backend {
	config := &backendConfig{
		body:    "{}",
		outcome: core.OutcomeOk,
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Backend{config: config}
}

func (b *Backend) Execute(_ context.Context, url string, payload []byte) (string, error) {
	b.mu.Lock()
	b.executes = append(b.executes, ExecuteCall{URL: url, Payload: string(payload)})
	b.mu.Unlock()

	if b.config.executeErr != nil {
		return "", b.config.executeErr
	}
	return b.config.body, nil
}

func (b *Backend) UploadBlob(_ context.Context, url string, bucket string, digest []byte, content io.Reader) (core.Outcome, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return core.OutcomeError, core.NewIOError(err)
	}

	b.record("upload", url, bucket, digest, data)

	if b.config.blobErr != nil {
		return core.OutcomeError, b.config.blobErr
	}
	return b.config.outcome, nil
}

func (b *Backend) DeleteBlob(_ context.Context, url string, bucket string, digest []byte) (core.Outcome, error) {
	b.record("delete", url, bucket, digest, nil)

	if b.config.blobErr != nil {
		return core.OutcomeError, b.config.blobErr
	}
	return b.config.outcome, nil
}

func (b *Backend) FetchBlob(_ context.Context, url string, bucket string, digest []byte) (core.Outcome, io.ReadCloser, error) {
	b.record("fetch", url, bucket, digest, nil)

	if b.config.blobErr != nil {
		return core.OutcomeError, nil, b.config.blobErr
	}
	return b.config.outcome, io.NopCloser(bytes.NewReader(b.config.blobContent)), nil
}

func (b *Backend) record(op, url, bucket string, digest, content []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs = append(b.blobs, BlobCall{
		Op:      op,
		URL:     url,
		Bucket:  bucket,
		Digest:  digest,
		Content: content,
	})
}

// ExecuteCalls returns the recorded Execute invocations in call order.
func (b *Backend) ExecuteCalls() []ExecuteCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ExecuteCall(nil), b.executes...)
}

// BlobCalls returns the recorded blob invocations in call order.
func (b *Backend) BlobCalls() []BlobCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]BlobCall(nil), b.blobs...)
}
