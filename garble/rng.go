//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

package garble

import (
	crand "crypto/rand"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"

	"github.com/markkurossi/skcd/block"
)

// rng is the CSPRNG behind all label sampling: every DeltaR draw,
// every input-wire label, and every decoding-info candidate comes
// from here, never from the random oracle itself.
type rng struct {
	stream io.Reader
}

// newRNG returns a production rng keyed from OS entropy.
func newRNG() *rng {
	return &rng{stream: crand.Reader}
}

// newSeededRNG returns a deterministic rng keyed from a caller-
// supplied 64-bit seed: the seed is expanded into a chacha20 key via
// blake2b, then used as an unauthenticated stream cipher over an
// all-zero plaintext.
func newSeededRNG(seed uint64) (*rng, error) {
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)
	key := blake2b.Sum256(seedBytes[:])

	var nonce [chacha20.NonceSize]byte
	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, err
	}
	return &rng{stream: &chachaStream{cipher: cipher}}, nil
}

// chachaStream adapts a chacha20.Cipher to io.Reader by XOR-ing its
// keystream over zero bytes.
type chachaStream struct {
	cipher *chacha20.Cipher
}

func (c *chachaStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	c.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// L draws a fresh random label.
func (r *rng) L() (block.L, error) {
	var buf [block.LSize]byte
	if _, err := io.ReadFull(r.stream, buf[:]); err != nil {
		return block.L{}, err
	}
	var l block.L
	if err := l.SetBytes(buf[:]); err != nil {
		return block.L{}, err
	}
	return l, nil
}
