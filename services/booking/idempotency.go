package booking

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// IdempotencyKey derives the deterministic fingerprint the backend uses to
// collapse duplicate create retries into one logical booking. The key is
// stable for identical (session, start, phone) triples and changes when any
// of the three changes; the start is normalised to UTC so equal instants in
// different zone renderings hash identically.
func IdempotencyKey(sessionID string, start time.Time, phone string) string {
	sum := sha256.Sum256([]byte(sessionID + "|" + start.UTC().Format(time.RFC3339) + "|" + phone))
	return hex.EncodeToString(sum[:])
}
