//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

package garble

import (
	"github.com/markkurossi/skcd/block"
	"github.com/markkurossi/skcd/circuit"
	"github.com/markkurossi/skcd/ro"
)

// gateSelection names, per binary operation, the 4-bit truth-table
// column T (ordered f(0,0)f(0,1)f(1,0)f(1,1)) and which of the four
// compressed candidates (X00, X01, X10, X11, indices 0..3) source L0
// and L1 after projection.
type gateSelection struct {
	truth      byte
	src0, src1 int
}

var gateSelections = map[circuit.Operation]gateSelection{
	circuit.XOR:  {truth: 0b0110, src0: 0, src1: 1},
	circuit.XNOR: {truth: 0b1001, src0: 1, src1: 0},
	circuit.AND:  {truth: 0b0001, src0: 0, src1: 3},
	circuit.NAND: {truth: 0b1110, src0: 3, src1: 0},
	circuit.OR:   {truth: 0b0111, src0: 0, src1: 1},
	circuit.NOR:  {truth: 0b1000, src0: 1, src1: 0},
}

// acceptedPatterns builds S = {0000, T, T-bar, 1111} as a 16-entry
// membership table over the 4-bit slice values.
func acceptedPatterns(truth byte) [16]bool {
	var s [16]bool
	s[0] = true
	s[truth] = true
	s[truth^0b1111] = true
	s[0b1111] = true
	return s
}

// bitSlice4 assembles s_j = X00[j] || X01[j] || X10[j] || X11[j] as a
// 4-bit value, bit 3 the most significant.
func bitSlice4(candidates [4]block.P, j int) byte {
	var s byte
	for _, c := range candidates {
		s = s<<1 | byte(c.Bit(j))
	}
	return s
}

// garbleBinaryGate derives (L0, L1, delta) for one binary gate: it
// compresses the gate's four input-label pairings through the random
// oracle (tweaked by the gate id), runs the Hamming-weight search
// over the resulting P-blocks, and extracts the two output labels by
// projection onto the delta mask.
func garbleBinaryGate(
	o *ro.Oracle,
	encoded map[circuit.Wire]WirePair,
	gate circuit.Gate,
) (l0, l1, delta block.L, err error) {
	pairA, ok := encoded[gate.Input0]
	if !ok {
		err = errMissingInput(gate, gate.Input0)
		return
	}
	pairB, ok := encoded[gate.Input1]
	if !ok {
		err = errMissingInput(gate, gate.Input1)
		return
	}

	sel, ok := gateSelections[gate.Op]
	if !ok {
		err = errConstantGate(gate)
		return
	}

	tweak := uint32(gate.Output)
	candidates := [4]block.P{
		o.Gate(pairA.L0, &pairB.L0, tweak), // X00
		o.Gate(pairA.L0, &pairB.L1, tweak), // X01
		o.Gate(pairA.L1, &pairB.L0, tweak), // X10
		o.Gate(pairA.L1, &pairB.L1, tweak), // X11
	}

	accepted := acceptedPatterns(sel.truth)

	var deltaP block.P
	var hw int
	for j := 0; j < block.PSize*8; j++ {
		if accepted[bitSlice4(candidates, j)] {
			deltaP.SetBit(j)
			hw++
			if hw == block.Kappa {
				break
			}
		}
	}
	if hw != block.Kappa {
		err = badHammingWeight(gate.Output, hw)
		return
	}

	l0Full := block.Projection(candidates[sel.src0], deltaP)
	l1Full := block.Projection(candidates[sel.src1], deltaP)
	l0 = l0Full.Truncate()
	l1 = l1Full.Truncate()
	delta = deltaP.Truncate()

	if l0.Equal(l1) {
		// A bug, not a cryptographic abort: the Hamming-weight search
		// guarantees a projection that differs on the active mask.
		panic("garble: derived output labels are equal")
	}
	return
}

func errMissingInput(gate circuit.Gate, input circuit.Wire) error {
	return &missingLabelError{gate: gate.Output, wire: input}
}

func errConstantGate(gate circuit.Gate) error {
	return &constantGateError{gate: gate.Output, op: gate.Op}
}

type missingLabelError struct {
	gate, wire circuit.Wire
}

func (e *missingLabelError) Error() string {
	return "garble: gate " + e.gate.String() + " input " + e.wire.String() + " has no active label"
}

func (e *missingLabelError) Unwrap() error {
	return ErrEvaluateMissingLabel
}

type constantGateError struct {
	gate circuit.Wire
	op   circuit.Operation
}

func (e *constantGateError) Error() string {
	return "garble: gate " + e.gate.String() + " has unsupported op " + e.op.String()
}

func (e *constantGateError) Unwrap() error {
	return ErrConstantGate
}
