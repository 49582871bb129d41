package content

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"relaynode/backend/internal/config"
)

// IPFSStore coordinates with an external IPFS daemon over its HTTP API.
// The daemon is a collaborator, not part of this node: this store only
// adds, cats and pins. Every operation carries a bounded timeout; a
// timeout is retried once before surfacing as ErrTimeout.
type IPFSStore struct {
	apiURL  string
	client  *http.Client
	timeout time.Duration
}

func NewIPFSStore(apiURL string) *IPFSStore {
	return &IPFSStore{
		apiURL:  apiURL,
		client:  &http.Client{},
		timeout: config.ContentOpTimeout,
	}
}

type addResponse struct {
	Hash string `json:"Hash"`
}

func (s *IPFSStore) Add(ctx context.Context, data []byte, meta Metadata) (string, error) {
	var cid string
	err := s.withRetry(ctx, func(opCtx context.Context) error {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		name := meta.Filename
		if name == "" {
			name = "blob"
		}
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			return err
		}
		if _, err := part.Write(data); err != nil {
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(opCtx, http.MethodPost, s.apiURL+"/api/v0/add?raw-leaves=true", body)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("content: ipfs add returned %d", resp.StatusCode)
		}

		var parsed addResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return err
		}
		cid = parsed.Hash
		return nil
	})
	return cid, err
}

func (s *IPFSStore) Retrieve(ctx context.Context, cid string) ([]byte, error) {
	var data []byte
	err := s.withRetry(ctx, func(opCtx context.Context) error {
		endpoint := s.apiURL + "/api/v0/cat?arg=" + url.QueryEscape(cid)
		req, err := http.NewRequestWithContext(opCtx, http.MethodPost, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusInternalServerError || resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("content: ipfs cat returned %d", resp.StatusCode)
		}
		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := verifyCID(cid, data); err != nil {
		return nil, err
	}
	return data, nil
}

// verifyCID checks the returned bytes against the content id. Add uses
// raw leaves, so small content comes back under a CIDv1 raw sha2-256 id
// whose digest is the sha256 of the bytes; those ids are verified here,
// as are plain hex sha256 ids. Chunked or dag-pb ids carry a digest over
// the DAG encoding, not the raw bytes, and pass through unverified.
func verifyCID(cid string, data []byte) error {
	digest, ok := rawSHA256Digest(cid)
	if !ok {
		return nil
	}
	sum := sha256.Sum256(data)
	if !bytes.Equal(digest, sum[:]) {
		return ErrHashMismatch
	}
	return nil
}

var cidBase32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// rawSHA256Digest extracts the sha256 digest from a CIDv1 raw sha2-256 id
// (base32 lowercase, multibase prefix 'b') or a 64-char hex id. The
// second return is false for any other id form.
func rawSHA256Digest(cid string) ([]byte, bool) {
	if len(cid) == 64 {
		if digest, err := hex.DecodeString(cid); err == nil {
			return digest, true
		}
	}
	if len(cid) < 2 || cid[0] != 'b' {
		return nil, false
	}
	raw, err := cidBase32.DecodeString(strings.ToUpper(cid[1:]))
	if err != nil {
		return nil, false
	}
	// version 1, raw codec, sha2-256 multihash, 32-byte digest
	if len(raw) != 36 || raw[0] != 0x01 || raw[1] != 0x55 || raw[2] != 0x12 || raw[3] != 0x20 {
		return nil, false
	}
	return raw[4:], true
}

func (s *IPFSStore) Pin(ctx context.Context, cid string) error {
	return s.withRetry(ctx, func(opCtx context.Context) error {
		endpoint := s.apiURL + "/api/v0/pin/add?arg=" + url.QueryEscape(cid)
		req, err := http.NewRequestWithContext(opCtx, http.MethodPost, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("content: ipfs pin returned %d", resp.StatusCode)
		}
		return nil
	})
}

// withRetry runs op under the per-operation timeout and retries once, with
// a short backoff, when the deadline was the failure. Anything else
// surfaces immediately.
func (s *IPFSStore) withRetry(ctx context.Context, op func(context.Context) error) error {
	run := func() error {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return op(opCtx)
	}

	err := run()
	if err == nil || !isTimeout(err) {
		return err
	}

	select {
	case <-ctx.Done():
		return ErrTimeout
	case <-time.After(500 * time.Millisecond):
	}

	if err := run(); err != nil {
		if isTimeout(err) {
			return ErrTimeout
		}
		return err
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
