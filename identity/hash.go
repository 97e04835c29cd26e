// Package identity builds deterministic node identifiers and path/URI
// conversions used throughout the graph.
package identity

import "github.com/minio/highwayhash"

// key is fixed so that identifiers hash the same way across runs and
// across machines. It is not a secret.
var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns a stable 64-bit digest of data.
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// HashString is a convenience wrapper around Hash for string input.
func HashString(s string) (uint64, error) {
	return Hash([]byte(s))
}
