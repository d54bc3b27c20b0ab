//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

package garble

import (
	"fmt"

	"github.com/markkurossi/skcd/block"
	"github.com/markkurossi/skcd/circuit"
)

// Encode implements En(e, x) over an explicit wire id list: for each
// bit, append L1 if set, L0 otherwise.
func Encode(e E, bits []bool, wires []circuit.Wire) ([]block.L, error) {
	if len(bits) != len(wires) {
		return nil, fmt.Errorf("%w: expected %d, got %d",
			ErrInvalidInputLength, len(wires), len(bits))
	}
	out := make([]block.L, len(bits))
	for i, w := range wires {
		pair, ok := e[w]
		if !ok {
			return nil, fmt.Errorf("garble: no input encoding for wire %d", w)
		}
		if bits[i] {
			out[i] = pair.L1
		} else {
			out[i] = pair.L0
		}
	}
	return out, nil
}

// EncodeGarblerInputs encodes the garbler's share of the circuit's
// input wires, wires [0, len(bits)). This runs server-side, before
// the artifact ships: the caller splices the result into the X slice
// passed to Eval and never exposes the garbler-input half of e itself,
// which would let the evaluator decrypt the committed inputs.
func EncodeGarblerInputs(e E, bits []bool) ([]block.L, error) {
	wires := make([]circuit.Wire, len(bits))
	for i := range wires {
		wires[i] = circuit.Wire(i)
	}
	return Encode(e, bits, wires)
}

// EncodeEvaluatorInputs encodes the evaluator's share of the input
// wires, wires [nGarbler, nGarbler+len(bits)). This runs client-side,
// at evaluate time, using only the evaluator-facing half of e the
// artifact carries.
func EncodeEvaluatorInputs(e E, nGarbler int, bits []bool) ([]block.L, error) {
	wires := make([]circuit.Wire, len(bits))
	for i := range wires {
		wires[i] = circuit.Wire(nGarbler + i)
	}
	return Encode(e, bits, wires)
}

// PrepareEvaluatorInputs returns a zero-valued bit-slice template
// sized for c's evaluator input wires, for callers that want to fill
// in random or supplied bits before calling EncodeEvaluatorInputs.
func PrepareEvaluatorInputs(c *circuit.Circuit, nGarbler int) []bool {
	return make([]bool, c.Inputs.Size()-nGarbler)
}
