//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

// Package garble implements the two-party garbled Boolean circuit
// scheme: Init builds the input encoding set e, Garble walks a
// topologically ordered circuit.Circuit to produce the garbled table
// F and output-label map D, DecodingInfo derives the discriminator
// sequence d, and Eval/Decode let an evaluator run the garbled form
// on its own inputs and recover the plain output bits.
package garble

import (
	"errors"
	"fmt"

	"github.com/markkurossi/skcd/block"
	"github.com/markkurossi/skcd/circuit"
	"github.com/markkurossi/skcd/ro"
)

// Error taxonomy. Each is wrapped with context via
// fmt.Errorf's %w so callers can errors.Is against the sentinel while
// still seeing which gate or wire triggered it.
var (
	// ErrBadHammingWeight is returned when a gate's Hamming-weight
	// search exhausts all l' candidate bit positions without finding
	// l matches. Cryptographic failure channel; never retried
	// silently.
	ErrBadHammingWeight = errors.New("garble: bad Hamming weight")

	// ErrGateIdOutputMismatch is returned when a gate tries to
	// redefine a wire id some earlier gate (or the input set) already
	// assigned.
	ErrGateIdOutputMismatch = errors.New("garble: gate output wire already assigned")

	// ErrConstantGate is returned for any gate type the core does not
	// recognize, including the constant gate that the parser is
	// required to have rewritten away before garbling.
	ErrConstantGate = errors.New("garble: constant gates must be rewritten by the parser")

	// ErrInvalidInputLength is returned when an encode/eval/decode
	// call receives a bit or label slice of the wrong length.
	ErrInvalidInputLength = errors.New("garble: invalid input length")

	// ErrEvaluateMissingLabel is returned when evaluation or garbling
	// dereferences a wire with no active label yet, indicating a
	// non-topological or corrupt circuit.
	ErrEvaluateMissingLabel = errors.New("garble: missing active label")

	// ErrEvaluateMissingDelta is returned when evaluation looks up
	// F[gate.id] for a binary gate and finds nothing, indicating a
	// corrupt garbled artifact.
	ErrEvaluateMissingDelta = errors.New("garble: missing delta for gate")
)

// WirePair is the compressed label pair (L0, L1) attached to a single
// wire: an input wire's entry in e, or a gate's entry in the internal
// encoded-wires map / the output map D.
type WirePair struct {
	L0, L1 block.L
}

// E is the input encoding set: for each circuit input wire, its
// (L0, L1) pair with the Free-XOR invariant L1 = L0 XOR DeltaR.
type E map[circuit.Wire]WirePair

// F is the garbled table: for each binary gate id, its truncated
// delta mask. Free gates (BUF/INV) have no entry.
type F map[circuit.Wire]block.L

// D is the output-label map: for each circuit output wire id, its
// (L0, L1) pair.
type D map[circuit.Wire]WirePair

// Decoding is the per-output-wire discriminator sequence d, indexed
// in the same order as circuit.OutputWires.
type Decoding []block.L

// Artifact is everything Garble produces, short of the circuit itself
// (the caller already holds that): F, D, d and e. The full garbled
// artifact an evaluator needs is (C, F, d, e); C is carried alongside
// an Artifact by callers rather than duplicated in this struct.
type Artifact struct {
	F        F
	D        D
	Decoding Decoding
	E        E

	// DeltaR is the Free-XOR offset used to build E. It never leaves
	// the garbler: an Artifact intended for shipping to an evaluator
	// must not expose it (see the artifact package's Encode, which
	// drops it along with the garbler-input half of E).
	DeltaR block.L
}

func badHammingWeight(gate circuit.Wire, hw int) error {
	return fmt.Errorf("%w: gate %d, hw=%d, want %d",
		ErrBadHammingWeight, gate, hw, block.Kappa)
}

// Init draws a fresh Free-XOR delta and a (L0, L1) pair for every
// circuit input wire. It retries the delta draw if it comes up
// all-zero, since that would collapse every wire's L0 and L1 to the
// same label.
func Init(c *circuit.Circuit, r *rng) (E, block.L, error) {
	var zero, deltaR block.L
	for {
		var err error
		deltaR, err = r.L()
		if err != nil {
			return nil, zero, err
		}
		if !deltaR.Equal(zero) {
			break
		}
	}

	n := c.Inputs.Size()
	e := make(E, n)
	for w := 0; w < n; w++ {
		l0, err := r.L()
		if err != nil {
			return nil, zero, err
		}
		l1 := l0.Xor(deltaR)
		if l0.Equal(l1) {
			return nil, zero, fmt.Errorf(
				"garble: input wire %d: L0 and L1 collided", w)
		}
		e[circuit.Wire(w)] = WirePair{L0: l0, L1: l1}
	}
	return e, deltaR, nil
}

// Garble garbles c using OS entropy.
func Garble(c *circuit.Circuit) (*Artifact, error) {
	return garbleWith(c, newRNG())
}

// GarbleWithSeed garbles c deterministically: Init, Garble and
// DecodingInfo are byte-identical across runs given the same seed,
// enabling golden-file regression tests.
func GarbleWithSeed(c *circuit.Circuit, seed uint64) (*Artifact, error) {
	r, err := newSeededRNG(seed)
	if err != nil {
		return nil, err
	}
	return garbleWith(c, r)
}

func garbleWith(c *circuit.Circuit, r *rng) (*Artifact, error) {
	e, deltaR, err := Init(c, r)
	if err != nil {
		return nil, err
	}

	o := ro.New()

	encoded := make(map[circuit.Wire]WirePair, c.NumWires)
	for w, pair := range e {
		encoded[w] = pair
	}

	f := make(F)

	for _, gate := range c.Gates {
		if _, exists := encoded[gate.Output]; exists {
			return nil, fmt.Errorf("%w: %d", ErrGateIdOutputMismatch, gate.Output)
		}

		switch {
		case gate.Op.Binary():
			l0, l1, delta, err := garbleBinaryGate(o, encoded, gate)
			if err != nil {
				return nil, err
			}
			encoded[gate.Output] = WirePair{L0: l0, L1: l1}
			f[gate.Output] = delta

		case gate.Op == circuit.INV || gate.Op == circuit.BUF:
			pairA, ok := encoded[gate.Input0]
			if !ok {
				return nil, fmt.Errorf("%w: gate %d input %d",
					ErrEvaluateMissingLabel, gate.Output, gate.Input0)
			}
			// Free-gate optimization: no ∇ entry, the output
			// pair is just a relabeling of the input pair.
			if gate.Op == circuit.INV {
				encoded[gate.Output] = WirePair{L0: pairA.L1, L1: pairA.L0}
			} else {
				encoded[gate.Output] = WirePair{L0: pairA.L0, L1: pairA.L1}
			}

		default:
			return nil, fmt.Errorf("%w: gate %d op %s",
				ErrConstantGate, gate.Output, gate.Op)
		}
	}

	d := make(D)
	for _, w := range c.OutputWires() {
		pair, ok := encoded[w]
		if !ok {
			return nil, fmt.Errorf("%w: output wire %d",
				ErrEvaluateMissingLabel, w)
		}
		d[w] = pair
	}

	decoding, err := decodingInfo(c, d, r, o)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		F:        f,
		D:        d,
		Decoding: decoding,
		E:        e,
		DeltaR:   deltaR,
	}, nil
}

// decodingInfo derives d: for each output wire, in order, a candidate
// dj is resampled until RO'(L0, dj) = 0 and RO'(L1, dj) = 1. Label
// distinctness (guaranteed by Init and the gate derivation) makes the
// predicate satisfiable, so the loop terminates in an expected ~4
// draws; it is defended with an assertion rather than a bound.
func decodingInfo(c *circuit.Circuit, d D, r *rng, o *ro.Oracle) (Decoding, error) {
	outputs := c.OutputWires()
	info := make(Decoding, len(outputs))

	for i, w := range outputs {
		pair, ok := d[w]
		if !ok {
			return nil, fmt.Errorf("%w: output wire %d", ErrEvaluateMissingLabel, w)
		}
		if pair.L0.Equal(pair.L1) {
			panic(fmt.Sprintf(
				"garble: output wire %d has L0 == L1, decoding predicate is unsatisfiable", w))
		}

		for {
			dj, err := r.L()
			if err != nil {
				return nil, err
			}
			if !o.Prime(pair.L0, dj) && o.Prime(pair.L1, dj) {
				info[i] = dj
				break
			}
		}
	}
	return info, nil
}
