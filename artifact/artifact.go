//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

// Package artifact serializes a garble.Artifact into the opaque byte
// array handed off to the evaluator: a small version-tagged binary
// envelope in the same hand-rolled style as circuit/marshal.go.
package artifact

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/markkurossi/skcd/block"
	"github.com/markkurossi/skcd/circuit"
	"github.com/markkurossi/skcd/garble"
)

// Magic tags the artifact envelope.
const Magic = 0x73676100 // sga0

// Version is the current envelope format version.
const Version = 1

// ErrBadMagic is returned when Decode reads a header that is not a
// recognized artifact envelope.
var ErrBadMagic = errors.New("artifact: bad magic")

// ErrUnsupportedVersion is returned when Decode reads an envelope
// whose version byte this package's Decode does not know how to read.
var ErrUnsupportedVersion = errors.New("artifact: unsupported version")

// NumGarblerInputs must be supplied to Encode: the envelope format
// never carries the garbler-input half of e, which would let the
// evaluator decrypt the garbler's committed inputs, so the boundary
// between the two halves has to come from the caller, not the wire
// format.
type NumGarblerInputs int

// Encode writes art's evaluator-facing half to a version-tagged binary
// envelope: F, D, Decoding, and only the E entries at or above
// nGarbler. DeltaR and the garbler-input half of E never leave this
// function; an evaluator's copy of the artifact must not be able to
// reconstruct them.
func Encode(art *garble.Artifact, nGarbler NumGarblerInputs) ([]byte, error) {
	var buf bytes.Buffer

	if err := writeU32(&buf, Magic); err != nil {
		return nil, err
	}
	if err := writeU8(&buf, Version); err != nil {
		return nil, err
	}

	if err := writeWireLMap(&buf, art.F); err != nil {
		return nil, fmt.Errorf("artifact: encoding F: %w", err)
	}
	if err := writeWirePairMap(&buf, art.D); err != nil {
		return nil, fmt.Errorf("artifact: encoding D: %w", err)
	}
	if err := writeDecoding(&buf, art.Decoding); err != nil {
		return nil, fmt.Errorf("artifact: encoding decoding info: %w", err)
	}

	evaluatorE := make(garble.E, len(art.E))
	for w, pair := range art.E {
		if int(w) >= int(nGarbler) {
			evaluatorE[w] = pair
		}
	}
	if err := writeWirePairMap(&buf, evaluatorE); err != nil {
		return nil, fmt.Errorf("artifact: encoding e: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode parses a byte slice Encode produced, back into the fields an
// evaluator needs: F, D, Decoding, and the evaluator-facing half of E.
// The returned Artifact's DeltaR is always the zero label; it was
// never serialized.
func Decode(data []byte) (*garble.Artifact, error) {
	r := bufio.NewReader(bytes.NewReader(data))

	magic, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, ErrBadMagic
	}
	version, err := readU8(r)
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	f, err := readWireLMap(r)
	if err != nil {
		return nil, fmt.Errorf("artifact: decoding F: %w", err)
	}
	d, err := readWirePairMap(r)
	if err != nil {
		return nil, fmt.Errorf("artifact: decoding D: %w", err)
	}
	decoding, err := readDecoding(r)
	if err != nil {
		return nil, fmt.Errorf("artifact: decoding decoding info: %w", err)
	}
	e, err := readWirePairMap(r)
	if err != nil {
		return nil, fmt.Errorf("artifact: decoding e: %w", err)
	}

	return &garble.Artifact{
		F:        f,
		D:        d,
		Decoding: decoding,
		E:        e,
	}, nil
}

func writeU8(w io.Writer, v byte) error {
	return binary.Write(w, binary.BigEndian, v)
}

func writeU32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.BigEndian, v)
}

func readU8(r io.Reader) (byte, error) {
	var v byte
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func writeL(w io.Writer, l block.L) error {
	_, err := w.Write(l.Bytes())
	return err
}

func readL(r io.Reader) (block.L, error) {
	var buf [block.LSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return block.L{}, err
	}
	var l block.L
	if err := l.SetBytes(buf[:]); err != nil {
		return block.L{}, err
	}
	return l, nil
}

// sortedWires returns the map's wire ids in ascending order, so the
// envelope bytes are identical across runs for the same artifact
// (Go's map iteration order is randomized; a seeded garbling must
// still serialize byte-identically).
func sortedWires[V any](m map[circuit.Wire]V) []circuit.Wire {
	wires := make([]circuit.Wire, 0, len(m))
	for w := range m {
		wires = append(wires, w)
	}
	sort.Slice(wires, func(i, j int) bool { return wires[i] < wires[j] })
	return wires
}

func writeWireLMap(w io.Writer, m garble.F) error {
	if err := writeU32(w, uint32(len(m))); err != nil {
		return err
	}
	for _, wire := range sortedWires(m) {
		if err := writeU32(w, uint32(wire)); err != nil {
			return err
		}
		if err := writeL(w, m[wire]); err != nil {
			return err
		}
	}
	return nil
}

func readWireLMap(r io.Reader) (garble.F, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	m := make(garble.F, n)
	for i := uint32(0); i < n; i++ {
		wire, err := readU32(r)
		if err != nil {
			return nil, err
		}
		l, err := readL(r)
		if err != nil {
			return nil, err
		}
		m[circuit.Wire(wire)] = l
	}
	return m, nil
}

func writeWirePairMap(w io.Writer, m map[circuit.Wire]garble.WirePair) error {
	if err := writeU32(w, uint32(len(m))); err != nil {
		return err
	}
	for _, wire := range sortedWires(m) {
		pair := m[wire]
		if err := writeU32(w, uint32(wire)); err != nil {
			return err
		}
		if err := writeL(w, pair.L0); err != nil {
			return err
		}
		if err := writeL(w, pair.L1); err != nil {
			return err
		}
	}
	return nil
}

func readWirePairMap(r io.Reader) (map[circuit.Wire]garble.WirePair, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	m := make(map[circuit.Wire]garble.WirePair, n)
	for i := uint32(0); i < n; i++ {
		wire, err := readU32(r)
		if err != nil {
			return nil, err
		}
		l0, err := readL(r)
		if err != nil {
			return nil, err
		}
		l1, err := readL(r)
		if err != nil {
			return nil, err
		}
		m[circuit.Wire(wire)] = garble.WirePair{L0: l0, L1: l1}
	}
	return m, nil
}

func writeDecoding(w io.Writer, d garble.Decoding) error {
	if err := writeU32(w, uint32(len(d))); err != nil {
		return err
	}
	for _, l := range d {
		if err := writeL(w, l); err != nil {
			return err
		}
	}
	return nil
}

func readDecoding(r io.Reader) (garble.Decoding, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	d := make(garble.Decoding, n)
	for i := range d {
		l, err := readL(r)
		if err != nil {
			return nil, err
		}
		d[i] = l
	}
	return d, nil
}
