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
	"github.com/markkurossi/skcd/ro"
)

// Eval runs the garbled circuit on x, the concatenation of the
// garbler's and evaluator's encoded input labels in wire order. It
// is deterministic given (c, f, x) and touches no shared
// state, so the same Artifact.F may be evaluated concurrently by many
// callers as long as each passes its own x.
func Eval(c *circuit.Circuit, f F, x []block.L) ([]block.L, error) {
	if len(x) != c.Inputs.Size() {
		return nil, fmt.Errorf("%w: expected %d, got %d",
			ErrInvalidInputLength, c.Inputs.Size(), len(x))
	}

	o := ro.New()

	active := make(map[circuit.Wire]block.L, c.NumWires)
	for i, l := range x {
		active[circuit.Wire(i)] = l
	}

	for _, gate := range c.Gates {
		var lg block.L

		switch {
		case gate.Op.Binary():
			la, ok := active[gate.Input0]
			if !ok {
				return nil, errMissingInput(gate, gate.Input0)
			}
			lb, ok := active[gate.Input1]
			if !ok {
				return nil, errMissingInput(gate, gate.Input1)
			}
			delta, ok := f[gate.Output]
			if !ok {
				return nil, fmt.Errorf("%w: gate %d",
					ErrEvaluateMissingDelta, gate.Output)
			}
			r := o.GateTrunc(la, &lb, uint32(gate.Output))
			lg = r.Projection(delta)

		case gate.Op == circuit.INV || gate.Op == circuit.BUF:
			la, ok := active[gate.Input0]
			if !ok {
				return nil, errMissingInput(gate, gate.Input0)
			}
			lg = la

		default:
			return nil, errConstantGate(gate)
		}

		active[gate.Output] = lg
	}

	// Outputs are collected from the active-label map, not the gate
	// loop: an output wire may be a circuit input that no gate ever
	// writes (zero-gate identity circuits and direct input-to-output
	// routing are both legal).
	outputWires := c.OutputWires()
	y := make([]block.L, len(outputWires))
	for i, w := range outputWires {
		l, ok := active[w]
		if !ok {
			return nil, fmt.Errorf("%w: output wire %d",
				ErrEvaluateMissingLabel, w)
		}
		y[i] = l
	}

	return y, nil
}
