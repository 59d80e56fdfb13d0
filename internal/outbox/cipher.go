// ABOUTME: XOR stream obfuscation for queued sync payloads.
// ABOUTME: A lightweight deterrent against casual inspection, not a security boundary.
package outbox

import (
	"crypto/sha256"
	"encoding/binary"
)

// defaultSeed deterministically derives the obfuscation key. The key is fixed
// by design: payloads must decode on any build of the app, and the goal is
// only to keep plaintext health data out of ad-hoc database dumps.
const defaultSeed = "fittrack-outbox-v1"

// Obfuscator XORs data with a SHA-256-derived keystream. Applying it twice
// restores the original bytes.
type Obfuscator struct {
	key [sha256.Size]byte
}

// NewObfuscator derives an obfuscation key from a seed string.
func NewObfuscator(seed string) *Obfuscator {
	return &Obfuscator{key: sha256.Sum256([]byte(seed))}
}

// DefaultObfuscator returns the obfuscator every build shares.
func DefaultObfuscator() *Obfuscator {
	return NewObfuscator(defaultSeed)
}

// Apply XORs data against the keystream. Symmetric.
func (o *Obfuscator) Apply(data []byte) []byte {
	out := make([]byte, len(data))
	var block [sha256.Size]byte
	for i := range data {
		if i%sha256.Size == 0 {
			var counter [8]byte
			binary.BigEndian.PutUint64(counter[:], uint64(i/sha256.Size))
			h := sha256.New()
			h.Write(o.key[:])
			h.Write(counter[:])
			copy(block[:], h.Sum(nil))
		}
		out[i] = data[i] ^ block[i%sha256.Size]
	}
	return out
}
