package core_test

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cratedb/crate-go/core"
	"github.com/cratedb/crate-go/core/mock"
)

func newBlobCluster(t *testing.T, opts ...mock.BackendOption) (*core.Cluster, *mock.Backend) {
	t.Helper()

	backend := mock.NewBackend(opts...)
	cluster, err := core.FromString(backend, "http://localhost:4200")
	require.NoError(t, err)

	return cluster, backend
}

func TestPutBlob_Success(t *testing.T) {
	r := require.New(t)

	content := []byte("my blob content")
	cluster, backend := newBlobCluster(t)

	ref, err := cluster.PutBlob(context.Background(), "my_bucket", bytes.NewReader(content))
	r.NoError(err)

	want := sha1.Sum(content)
	r.Equal(want[:], ref.Digest)
	r.Equal("my_bucket", ref.Bucket)

	calls := backend.BlobCalls()
	r.Len(calls, 1)
	r.Equal("upload", calls[0].Op)
	r.Equal("http://localhost:4200/_blobs", calls[0].URL)
	r.Equal(want[:], calls[0].Digest)
	// the digest pass must rewind, the upload sees the full content
	r.Equal(content, calls[0].Content)
}

func TestPutBlob_SameContentSameRef(t *testing.T) {
	r := require.New(t)

	content := []byte("idempotent bytes")
	cluster, _ := newBlobCluster(t)

	ref1, err := cluster.PutBlob(context.Background(), "b", bytes.NewReader(content))
	r.NoError(err)
	ref2, err := cluster.PutBlob(context.Background(), "b", bytes.NewReader(content))
	r.NoError(err)

	r.True(ref1.Equal(ref2))
	r.Equal(ref1.HexDigest(), ref2.HexDigest())
}

func TestBlobOutcomeMapping(t *testing.T) {
	tests := []struct {
		outcome     core.Outcome
		wantCode    string
		wantMessage string
	}{
		{core.OutcomeNotFound, "404", "Could not upload BLOB. Not found."},
		{core.OutcomeNotAuthorized, "403", "Could not upload BLOB: Not authorized."},
		{core.OutcomeTimeout, "408", "Could not upload BLOB. Timed out."},
		{core.OutcomeError, "500", "Could not upload BLOB. Server error."},
	}
	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			r := require.New(t)
			cluster, _ := newBlobCluster(t, mock.BackendWithOutcome(tt.outcome))

			_, err := cluster.PutBlob(context.Background(), "b", bytes.NewReader([]byte("x")))
			r.Error(err)

			var blobErr *core.BlobError
			r.ErrorAs(err, &blobErr)
			r.NotNil(blobErr.Action)
			r.Equal(tt.wantCode, blobErr.Action.Code)
			r.Equal(tt.wantMessage, blobErr.Action.Message)
		})
	}
}

func TestDeleteBlob_OutcomeMapping(t *testing.T) {
	tests := []struct {
		outcome     core.Outcome
		wantCode    string
		wantMessage string
	}{
		{core.OutcomeNotFound, "404", "Could not delete BLOB. Not found."},
		{core.OutcomeNotAuthorized, "403", "Could not delete BLOB: Not authorized."},
		{core.OutcomeTimeout, "408", "Could not delete BLOB. Timed out."},
		{core.OutcomeError, "500", "Could not delete BLOB. Server error."},
	}
	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			r := require.New(t)
			cluster, _ := newBlobCluster(t, mock.BackendWithOutcome(tt.outcome))

			err := cluster.DeleteBlob(context.Background(), &core.BlobRef{Bucket: "b", Digest: []byte{0xff}})
			r.Error(err)

			var blobErr *core.BlobError
			r.ErrorAs(err, &blobErr)
			r.NotNil(blobErr.Action)
			r.Equal(tt.wantCode, blobErr.Action.Code)
			r.Equal(tt.wantMessage, blobErr.Action.Message)
		})
	}
}

func TestGetBlob_Success(t *testing.T) {
	r := require.New(t)

	content := []byte("stored bytes")
	cluster, _ := newBlobCluster(t, mock.BackendWithBlobContent(content))

	stream, err := cluster.GetBlob(context.Background(), &core.BlobRef{Bucket: "b", Digest: []byte{0xff}})
	r.NoError(err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	r.NoError(err)
	r.Equal(content, got)
}

func TestGetBlob_NotFound(t *testing.T) {
	r := require.New(t)

	cluster, _ := newBlobCluster(t, mock.BackendWithOutcome(core.OutcomeNotFound))

	_, err := cluster.GetBlob(context.Background(), &core.BlobRef{Bucket: "b", Digest: []byte{0xff}})
	r.Error(err)

	var blobErr *core.BlobError
	r.ErrorAs(err, &blobErr)
	r.NotNil(blobErr.Action)
	r.Equal("404", blobErr.Action.Code)
	r.Equal("Could not fetch BLOB. Not found.", blobErr.Action.Message)
}

func TestBlob_TransportFailure(t *testing.T) {
	r := require.New(t)

	cause := errors.New("connection reset")
	cluster, _ := newBlobCluster(t, mock.BackendWithBlobErr(core.NewTransportError(cause)))

	_, err := cluster.PutBlob(context.Background(), "b", bytes.NewReader([]byte("x")))
	r.Error(err)

	var blobErr *core.BlobError
	r.ErrorAs(err, &blobErr)
	r.Nil(blobErr.Action)
	r.NotNil(blobErr.Transport)
	r.ErrorIs(err, cause)
}

func TestListBlobs(t *testing.T) {
	r := require.New(t)

	// two valid digests and one that does not hex-decode
	body := `{
		"cols": ["digest"],
		"rows": [
			["7110eda4d09e062aa5e4a390b0a572ac0d2c0220"],
			["not-a-digest"],
			["4a756ca07e9487f482465a99e8286abc86ba4dc7"]
		],
		"rowcount": 3,
		"duration": 0.05
	}`
	cluster, backend := newBlobCluster(t, mock.BackendWithBody(body))

	refs, err := cluster.ListBlobs(context.Background(), "my_bucket")
	r.NoError(err)

	r.Len(refs, 2)
	r.Equal("7110eda4d09e062aa5e4a390b0a572ac0d2c0220", refs[0].HexDigest())
	r.Equal("4a756ca07e9487f482465a99e8286abc86ba4dc7", refs[1].HexDigest())
	r.Equal("my_bucket", refs[0].Bucket)

	calls := backend.ExecuteCalls()
	r.Len(calls, 1)
	r.JSONEq(`{"stmt":"select digest from blob.my_bucket"}`, calls[0].Payload)
}

func TestListBlobs_ServerError(t *testing.T) {
	r := require.New(t)

	cluster, _ := newBlobCluster(t, mock.BackendWithBody(
		`{"error":{"message":"no blob table","code":4041}}`,
	))

	_, err := cluster.ListBlobs(context.Background(), "missing")
	r.Error(err)

	var blobErr *core.BlobError
	r.ErrorAs(err, &blobErr)
	r.NotNil(blobErr.Action)
	r.Equal("no blob table", blobErr.Action.Message)
	r.Equal("4041", blobErr.Action.Code)
}
