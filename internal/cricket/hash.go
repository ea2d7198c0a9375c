package cricket

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for digests. The version suffix allows the canonical form
// to change without colliding with older digests.
const (
	DomainState = "scorer/state/v1"
	DomainEvent = "scorer/event/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StateDigest fingerprints the full match state. Replaying the same event
// log always yields the same digest, so the digest is how undo and restore
// prove they reproduced the prior state exactly.
func StateDigest(m *Match) (string, error) {
	canonical, err := MarshalCanonical(m)
	if err != nil {
		return "", fmt.Errorf("StateDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainState, canonical), nil
}

// EventID computes the content-addressed id of a journaled event from its
// match, position and canonical payload.
func EventID(matchID string, seq int64, payload []byte) string {
	data := make([]byte, 0, len(matchID)+len(payload)+24)
	data = append(data, matchID...)
	data = append(data, 0x00)
	data = fmt.Appendf(data, "%d", seq)
	data = append(data, 0x00)
	data = append(data, payload...)
	return hashWithDomain(DomainEvent, data)
}

// MustStateDigest is like StateDigest but panics on error.
// Use only in tests or when the match is known to be well formed.
func MustStateDigest(m *Match) string {
	d, err := StateDigest(m)
	if err != nil {
		panic(err)
	}
	return d
}
