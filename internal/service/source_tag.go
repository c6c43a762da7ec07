package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const sourceTagLength = 16

// SourceTagger derives an opaque, non-reversible tag from a client address so
// attempts can be throttled without keeping the address itself.
type SourceTagger struct {
	key []byte
}

// NewSourceTagger builds a tagger keyed with secret. Secrets longer than the
// blake2b key limit are condensed first.
func NewSourceTagger(secret string) *SourceTagger {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := sha256.Sum256(key)
		key = sum[:]
	}
	return &SourceTagger{key: key}
}

// Tag returns the hex tag for addr. An empty address yields an empty tag.
func (t *SourceTagger) Tag(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	h, err := blake2b.New256(t.key)
	if err != nil {
		return ""
	}
	h.Write([]byte(addr)) //nolint:errcheck
	return hex.EncodeToString(h.Sum(nil))[:sourceTagLength]
}
