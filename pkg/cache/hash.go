package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns "prefix:format:digest", where digest is the SHA-256 of the
// JSON encoding of parts. The format stays readable so debug logs and cache
// listings show what an entry holds.
func hashKey(prefix, format string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	if format == "" {
		format = "-"
	}
	return prefix + ":" + format + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. Snapshot hashes are Hash of the
// snapshot's JSON encoding.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
