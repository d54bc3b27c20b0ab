//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

// Package ro implements the tweakable random oracle the garbling
// scheme builds everything else on top of: a single collision-
// resistant keyed hash H, used three ways (RO_g, RO_g_trunc, RO').
package ro

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/markkurossi/skcd/block"
)

// Oracle is the tweakable random oracle H. The zero value is ready to
// use; it carries no state of its own, only the methods that define
// the three derived functions the scheme needs.
type Oracle struct{}

// New returns a ready-to-use Oracle.
func New() *Oracle {
	return &Oracle{}
}

// h computes the keyed hash used as H throughout: blake2b, keyed by
// the gate tweak rather than prefixed with it, truncated to size
// bytes. Keying on the tweak (instead of hashing tweak||data) is what
// makes H behave independently per gate without giving a
// length-extension attacker anything to chain across gates.
func h(tweak uint32, size int, chunks ...[]byte) []byte {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], tweak)

	state, err := blake2b.New(size, key[:])
	if err != nil {
		// size is always 16 or 1 here, both valid blake2b digest
		// sizes; a keyed-hash construction error would be a bug.
		panic(err)
	}
	for _, c := range chunks {
		state.Write(c)
	}
	return state.Sum(nil)
}

// Gate computes RO_g(La, Lb?, tweak): the chained-hash expansion of
// one 128-bit oracle lane into the full 1024-bit P-block. labelB may
// be nil for unary-gate tweaks.
func (o *Oracle) Gate(labelA block.L, labelB *block.L, tweak uint32) block.P {
	var lanes [block.KappaFactor]block.L

	if labelB != nil {
		copy(lanes[0][:], h(tweak, block.LSize, labelA.Bytes(), labelB.Bytes()))
	} else {
		copy(lanes[0][:], h(tweak, block.LSize, labelA.Bytes()))
	}

	for i := 1; i < block.KappaFactor; i++ {
		rehash := h(tweak, block.LSize, lanes[i-1][:])
		var r block.L
		copy(r[:], rehash)
		lanes[i] = r.Xor(lanes[0])
	}

	var p block.P
	for i, lane := range lanes {
		copy(p[i*block.LSize:(i+1)*block.LSize], lane[:])
	}
	return p
}

// GateTrunc computes RO_g_trunc(La, Lb?, tweak): just the first lane
// of Gate, delivered directly as an L-block. Evaluation uses this to
// avoid building a P-block it would immediately truncate back down.
func (o *Oracle) GateTrunc(labelA block.L, labelB *block.L, tweak uint32) block.L {
	var l block.L
	if labelB != nil {
		copy(l[:], h(tweak, block.LSize, labelA.Bytes(), labelB.Bytes()))
	} else {
		copy(l[:], h(tweak, block.LSize, labelA.Bytes()))
	}
	return l
}

// Prime computes RO'(l0l1, dj): the single-bit oracle the decoding-
// information rejection-sampling loop uses. It is untweaked by gate
// id since it operates on output labels directly.
func (o *Oracle) Prime(l0l1, dj block.L) bool {
	digest := h(0, 1, l0l1.Bytes(), dj.Bytes())
	return digest[0]&1 == 1
}
