package core

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// BlobRef identifies a stored blob by its content digest and the bucket
// (blob table) it lives in. The digest is the identity: uploading the
// same bytes into the same bucket twice yields the same reference.
type BlobRef struct {
	// Digest is the 20 byte SHA-1 of the blob content.
	Digest []byte

	// Bucket is the blob table the blob is stored in.
	Bucket string
}

// HexDigest returns the lowercase hex form of the digest, as used in blob
// URLs and the system catalog.
func (r *BlobRef) HexDigest() string {
	return hex.EncodeToString(r.Digest)
}

// Equal reports whether two references point at the same blob.
func (r *BlobRef) Equal(other *BlobRef) bool {
	return other != nil && r.Bucket == other.Bucket && bytes.Equal(r.Digest, other.Digest)
}

func (r *BlobRef) String() string {
	return fmt.Sprintf("%s/%s", r.Bucket, r.HexDigest())
}

// blobActionError maps a non-ok backend outcome to the fixed
// message/code pair for the given operation verb.
func blobActionError(verb string, outcome Outcome) *BlobError {
	var action *ServerError
	switch outcome {
	case OutcomeNotFound:
		action = NewServerError(fmt.Sprintf("Could not %s BLOB. Not found.", verb), "404")
	case OutcomeNotAuthorized:
		action = NewServerError(fmt.Sprintf("Could not %s BLOB: Not authorized.", verb), "403")
	case OutcomeTimeout:
		action = NewServerError(fmt.Sprintf("Could not %s BLOB. Timed out.", verb), "408")
	default:
		action = NewServerError(fmt.Sprintf("Could not %s BLOB. Server error.", verb), "500")
	}

	return &BlobError{Action: action}
}

func blobTransportError(err error) *BlobError {
	var berr *BackendError
	if !errors.As(err, &berr) {
		berr = NewTransportError(err)
	}
	return &BlobError{Transport: berr}
}

// PutBlob uploads the content of the source to the given bucket. The
// source is first consumed once to compute the digest, rewound, and then
// re-read for the upload. The store never deduplicates client-side - the
// upload is always issued and the server decides.
func (c *Cluster) PutBlob(ctx context.Context, bucket string, source io.ReadSeeker) (*BlobRef, error) {
	digest, err := Sha1Digest(source)
	if err != nil {
		return nil, &BlobError{Transport: NewIOError(err)}
	}

	outcome, err := c.backend.UploadBlob(ctx, c.endpoint(EndpointBlob), bucket, digest, source)
	if err != nil {
		return nil, blobTransportError(err)
	}
	if outcome != OutcomeOk {
		return nil, blobActionError("upload", outcome)
	}

	return &BlobRef{Digest: digest, Bucket: bucket}, nil
}

// GetBlob fetches the referenced blob and returns its content as a
// stream. The caller must close the returned reader.
func (c *Cluster) GetBlob(ctx context.Context, ref *BlobRef) (io.ReadCloser, error) {
	outcome, content, err := c.backend.FetchBlob(ctx, c.endpoint(EndpointBlob), ref.Bucket, ref.Digest)
	if err != nil {
		return nil, blobTransportError(err)
	}
	if outcome != OutcomeOk {
		if content != nil {
			content.Close()
		}
		return nil, blobActionError("fetch", outcome)
	}

	return content, nil
}

// DeleteBlob removes the referenced blob.
func (c *Cluster) DeleteBlob(ctx context.Context, ref *BlobRef) error {
	outcome, err := c.backend.DeleteBlob(ctx, c.endpoint(EndpointBlob), ref.Bucket, ref.Digest)
	if err != nil {
		return blobTransportError(err)
	}
	if outcome != OutcomeOk {
		return blobActionError("delete", outcome)
	}

	return nil
}

// ListBlobs enumerates the blobs of a bucket through the system catalog.
// Rows whose digest does not hex-decode are skipped instead of failing
// the whole listing.
func (c *Cluster) ListBlobs(ctx context.Context, bucket string) ([]*BlobRef, error) {
	rows, err := c.Query(ctx, fmt.Sprintf("select digest from blob.%s", bucket))
	if err != nil {
		var serverErr *ServerError
		if errors.As(err, &serverErr) {
			return nil, &BlobError{Action: serverErr}
		}
		return nil, blobTransportError(err)
	}

	refs := make([]*BlobRef, 0, rows.Len())
	for rows.HasNext() {
		row := rows.Next()

		hexDigest, ok := row.String(0)
		if !ok {
			continue
		}
		digest, err := hex.DecodeString(hexDigest)
		if err != nil {
			continue
		}

		refs = append(refs, &BlobRef{Digest: digest, Bucket: bucket})
	}

	return refs, nil
}
