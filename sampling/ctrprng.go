// Package sampling provides the randomness sources and error
// distributions that the rlwe and bfv packages draw secrets, errors,
// and common reference strings from.
package sampling

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// CTRPRNG is a counter-mode deterministic random bit generator built on
// AES-256 in CTR mode, seeded via HKDF (spec §4.5's "pseudo-random
// generator", specified here as a keyed AES-CTR stream rather than the
// full NIST SP 800-90A CTR-DRBG reseed/reseed-counter machinery, which
// this implementation's non-interactive usage pattern does not need).
// The 128-bit counter never wraps within any realistic sampling session.
type CTRPRNG struct {
	stream cipher.Stream
}

// NewCTRPRNGFromSeed derives a CTRPRNG's AES-256 key and initial counter
// from seed via HKDF-SHA256, with domain-separation label info.
func NewCTRPRNGFromSeed(seed []byte, info string) (*CTRPRNG, error) {
	kdf := hkdf.New(sha256.New, seed, nil, []byte(info))
	keyAndIV := make([]byte, 32+aes.BlockSize)
	if _, err := io.ReadFull(kdf, keyAndIV); err != nil {
		return nil, fmt.Errorf("sampling: ctrprng: derive key: %w", err)
	}
	block, err := aes.NewCipher(keyAndIV[:32])
	if err != nil {
		return nil, fmt.Errorf("sampling: ctrprng: %w", err)
	}
	stream := cipher.NewCTR(block, keyAndIV[32:])
	return &CTRPRNG{stream: stream}, nil
}

// Read fills p with keystream bytes, satisfying ring.PRNG.
func (g *CTRPRNG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	g.stream.XORKeyStream(p, p)
	return len(p), nil
}
