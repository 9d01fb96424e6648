package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash represents a cryptographic hash.
type Hash string

// NewHash creates a new hash from data.
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation.
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty.
func (h Hash) IsEmpty() bool {
	return h == ""
}

// DeriveSeed folds a trace name into a master seed so that two parallel
// gate workers evaluating distinct traces draw from independent, but
// individually reproducible, PRNG streams.
func DeriveSeed(masterSeed int64, traceName string) int64 {
	sum := sha256.Sum256(append(binary.BigEndian.AppendUint64(nil, uint64(masterSeed)), []byte(traceName)...))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
