// Package content coordinates content-addressed evidence storage. Ids are
// derived from the bytes, so adding the same content twice is a no-op, and
// retrieval fails closed when the returned bytes do not hash back to the
// id. When the evidence item is marked encrypted the stored bytes are
// ciphertext; the key lives out of band and never next to the content.
package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	ErrNotFound     = errors.New("content: not found")
	ErrHashMismatch = errors.New("content: retrieved bytes do not match content id")
	ErrTimeout      = errors.New("content: backend timed out")
)

// Metadata travels with an add but never influences the content id.
type Metadata struct {
	Filename string
	MimeType string
}

// Store is the content-addressed backend contract.
type Store interface {
	// Add stores the bytes and returns their content id. Idempotent:
	// identical bytes yield the same id with no duplicate storage.
	Add(ctx context.Context, data []byte, meta Metadata) (string, error)
	// Retrieve returns the bytes for a content id, verifying integrity on
	// the way out.
	Retrieve(ctx context.Context, cid string) ([]byte, error)
	// Pin marks the content for durable retention.
	Pin(ctx context.Context, cid string) error
}

// HashBytes computes the hex sha256 of the content: the evidence integrity
// anchor and the in-process store's content id.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
