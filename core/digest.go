package core

import (
	"crypto/sha1"
	"io"
)

// digestChunkSize is the read buffer used while hashing blob content.
const digestChunkSize = 100 * 1024

// Sha1Digest computes the SHA-1 digest of the source by streaming it in
// fixed-size chunks, then rewinds the source to its start so the same
// reader can be handed to the upload.
func Sha1Digest(source io.ReadSeeker) ([]byte, error) {
	h := sha1.New()
	buf := make([]byte, digestChunkSize)
	if _, err := io.CopyBuffer(h, source, buf); err != nil {
		return nil, err
	}

	if _, err := source.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}
