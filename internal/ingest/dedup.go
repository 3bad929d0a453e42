package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DedupKey derives a stable fingerprint for an inbound message from its
// Message-ID header, envelope sender, envelope recipient and subject. Mail
// providers may redeliver without idempotency guarantees of their own;
// retried deliveries of the same message collapse to the same key and are
// dropped on insert. The key is intentionally coarse: a genuine resend with
// an identical Message-ID and subject is indistinguishable from a retry.
func DedupKey(messageID, from, to, subject string) string {
	base := strings.Join([]string{messageID, from, to, subject}, "|")
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}
