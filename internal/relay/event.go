// Package relay implements the WebSocket pub/sub relay: it validates
// signed events, matches them against live subscription filters and fans
// them out to subscribers.
package relay

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

var (
	ErrInvalidEventHash      = errors.New("relay: event id does not match canonical hash")
	ErrInvalidEventSignature = errors.New("relay: event signature does not verify")
	ErrMalformedMessage      = errors.New("relay: malformed message")
)

// Event is a signed relay event. ID must equal the sha256 of the canonical
// serialization and Sig must verify against PubKey for that ID.
type Event struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// Well-known event kinds. Anything else is stored and relayed without
// special interpretation.
const (
	KindMetadata  = 0
	KindTextNote  = 1
	KindDirectMsg = 4
	KindDeletion  = 5

	kindEphemeralLow  = 20000
	kindEphemeralHigh = 30000
)

// Ephemeral reports whether the event's kind falls in the ephemeral range:
// such events are fanned out to live subscriptions but never stored.
func (e *Event) Ephemeral() bool {
	return e.Kind >= kindEphemeralLow && e.Kind < kindEphemeralHigh
}

// KindName names the well-known kinds for logs. Unknown kinds are stored
// and relayed as-is, never specially interpreted.
func (e *Event) KindName() string {
	switch e.Kind {
	case KindMetadata:
		return "metadata"
	case KindTextNote:
		return "text-note"
	case KindDirectMsg:
		return "direct-message"
	case KindDeletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// CanonicalID computes sha256 over the canonical serialization
// [0, pubkey, created_at, kind, tags, content]. HTML escaping is disabled:
// the hash must be computed over the exact JSON the signer produced.
func (e *Event) CanonicalID() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	canonical := []interface{}{0, e.PubKey, e.CreatedAt, e.Kind, e.Tags, e.Content}
	if err := enc.Encode(canonical); err != nil {
		return "", err
	}
	// Encode appends a trailing newline that is not part of the canonical form.
	sum := sha256.Sum256(bytes.TrimRight(buf.Bytes(), "\n"))
	return hex.EncodeToString(sum[:]), nil
}

// Verify checks the two acceptance invariants: the id is the hash of the
// canonical form, and the signature verifies against the pubkey for that id.
func (e *Event) Verify() error {
	id, err := e.CanonicalID()
	if err != nil {
		return ErrMalformedMessage
	}
	if id != e.ID {
		return ErrInvalidEventHash
	}

	pubKeyBytes, err := hex.DecodeString(e.PubKey)
	if err != nil {
		return ErrInvalidEventSignature
	}
	pubKey, err := schnorr.ParsePubKey(pubKeyBytes)
	if err != nil {
		return ErrInvalidEventSignature
	}

	sigBytes, err := hex.DecodeString(e.Sig)
	if err != nil {
		return ErrInvalidEventSignature
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return ErrInvalidEventSignature
	}

	idBytes, err := hex.DecodeString(e.ID)
	if err != nil {
		return ErrInvalidEventSignature
	}
	if !sig.Verify(idBytes, pubKey) {
		return ErrInvalidEventSignature
	}
	return nil
}
