package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashKey derives the storage identifier for a video id.
//
// The SHA-256 hex digest keeps filenames filesystem-safe regardless of the
// characters in the id, and its collision resistance means distinct ids
// never share a record.
func hashKey(videoID string) string {
	sum := sha256.Sum256([]byte(videoID))
	return hex.EncodeToString(sum[:])
}
