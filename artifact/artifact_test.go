//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

package artifact

import (
	"bytes"
	"testing"

	"github.com/markkurossi/skcd/block"
	"github.com/markkurossi/skcd/circuit"
	"github.com/markkurossi/skcd/garble"
)

func fullAdderCircuit() *circuit.Circuit {
	return &circuit.Circuit{
		NumGates: 5,
		NumWires: 8,
		Inputs: circuit.IO{
			{Name: "bit1", Size: 1},
			{Name: "bit2", Size: 1},
			{Name: "carry", Size: 1},
		},
		Outputs: circuit.IO{
			{Name: "sum", Size: 1},
			{Name: "carry_out", Size: 1},
		},
		Gates: []circuit.Gate{
			{Input0: 0, Input1: 1, Output: 3, Op: circuit.XOR},
			{Input0: 0, Input1: 1, Output: 4, Op: circuit.AND},
			{Input0: 3, Input1: 2, Output: 5, Op: circuit.AND},
			{Input0: 3, Input1: 2, Output: 6, Op: circuit.XOR},
			{Input0: 4, Input1: 5, Output: 7, Op: circuit.OR},
		},
		Stats: map[circuit.Operation]int{
			circuit.XOR: 2, circuit.AND: 2, circuit.OR: 1,
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := fullAdderCircuit()
	art, err := garble.GarbleWithSeed(c, 7)
	if err != nil {
		t.Fatalf("GarbleWithSeed: %s", err)
	}

	// bit1, bit2 are the garbler's inputs (wires 0,1); carry (wire 2)
	// belongs to the evaluator.
	const nGarbler = 2

	data, err := Encode(art, nGarbler)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}

	if len(got.F) != len(art.F) {
		t.Fatalf("F: got %d entries, want %d", len(got.F), len(art.F))
	}
	for w, delta := range art.F {
		gd, ok := got.F[w]
		if !ok || gd != delta {
			t.Errorf("F[%d] mismatch after round-trip", w)
		}
	}

	if len(got.D) != len(art.D) {
		t.Fatalf("D: got %d entries, want %d", len(got.D), len(art.D))
	}
	for w, pair := range art.D {
		gp, ok := got.D[w]
		if !ok || gp.L0 != pair.L0 || gp.L1 != pair.L1 {
			t.Errorf("D[%d] mismatch after round-trip", w)
		}
	}

	if len(got.Decoding) != len(art.Decoding) {
		t.Fatalf("Decoding: got %d entries, want %d",
			len(got.Decoding), len(art.Decoding))
	}
	for i := range art.Decoding {
		if got.Decoding[i] != art.Decoding[i] {
			t.Errorf("Decoding[%d] mismatch after round-trip", i)
		}
	}

	// Garbler-input wires (< nGarbler) must not survive the round trip.
	for w := circuit.Wire(0); w < nGarbler; w++ {
		if _, ok := got.E[w]; ok {
			t.Errorf("E[%d] leaked across the envelope, want absent", w)
		}
	}
	// Evaluator-input wires (>= nGarbler, < Inputs.Size()) must.
	for w := circuit.Wire(nGarbler); w < circuit.Wire(c.Inputs.Size()); w++ {
		want, ok := art.E[w]
		if !ok {
			t.Fatalf("test setup: E[%d] missing from source artifact", w)
		}
		got2, ok := got.E[w]
		if !ok || got2.L0 != want.L0 || got2.L1 != want.L1 {
			t.Errorf("E[%d] mismatch after round-trip", w)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	c := fullAdderCircuit()
	art, err := garble.GarbleWithSeed(c, 7)
	if err != nil {
		t.Fatalf("GarbleWithSeed: %s", err)
	}

	d1, err := Encode(art, 2)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}
	d2, err := Encode(art, 2)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}
	if !bytes.Equal(d1, d2) {
		t.Fatal("two encodings of the same artifact differ")
	}

	// A fresh seeded garbling of the same circuit must serialize to
	// the same bytes too.
	art2, err := garble.GarbleWithSeed(c, 7)
	if err != nil {
		t.Fatalf("GarbleWithSeed: %s", err)
	}
	d3, err := Encode(art2, 2)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}
	if !bytes.Equal(d1, d3) {
		t.Fatal("seeded garbling does not serialize byte-identically")
	}
}

func TestEvaluationUnchangedThroughRoundTrip(t *testing.T) {
	c := fullAdderCircuit()
	art, err := garble.GarbleWithSeed(c, 11)
	if err != nil {
		t.Fatalf("GarbleWithSeed: %s", err)
	}

	const nGarbler = 2
	garblerLabels, err := garble.EncodeGarblerInputs(art.E, []bool{true, true})
	if err != nil {
		t.Fatalf("EncodeGarblerInputs: %s", err)
	}

	data, err := Encode(art, nGarbler)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}
	shipped, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}

	// The evaluator side: encode its own carry bit with the shipped
	// half of e, then evaluate and decode with the shipped F and d.
	for _, carry := range []bool{false, true} {
		evalLabels, err := garble.EncodeEvaluatorInputs(shipped.E, nGarbler,
			[]bool{carry})
		if err != nil {
			t.Fatalf("EncodeEvaluatorInputs: %s", err)
		}
		x := make([]block.L, 0, c.Inputs.Size())
		x = append(x, garblerLabels...)
		x = append(x, evalLabels...)

		y, err := garble.Eval(c, shipped.F, x)
		if err != nil {
			t.Fatalf("Eval: %s", err)
		}
		out, err := garble.Decode(y, shipped.Decoding)
		if err != nil {
			t.Fatalf("Decode: %s", err)
		}

		// adder(1,1,carry) = (sum=carry, carry_out=1).
		if out[0] != carry || out[1] != true {
			t.Fatalf("adder(1,1,%v) = %v through round-trip artifact", carry, out)
		}
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := Decode([]byte{0, 0, 0, 0, 1}); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	c := fullAdderCircuit()
	art, err := garble.GarbleWithSeed(c, 1)
	if err != nil {
		t.Fatalf("GarbleWithSeed: %s", err)
	}
	data, err := Encode(art, 2)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}
	if _, err := Decode(data[:len(data)-1]); err == nil {
		t.Fatal("expected error decoding truncated data")
	}
}

func TestEncodeDropsDeltaR(t *testing.T) {
	c := fullAdderCircuit()
	art, err := garble.GarbleWithSeed(c, 3)
	if err != nil {
		t.Fatalf("GarbleWithSeed: %s", err)
	}
	data, err := Encode(art, 2)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	var zeroL = got.DeltaR
	for _, b := range zeroL.Bytes() {
		if b != 0 {
			t.Fatal("DeltaR should be the zero label after round-trip; it is never serialized")
		}
	}
}
