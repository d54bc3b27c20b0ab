//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

// Package display maps the flat boolean input/output vectors the
// garbled circuit traffics in onto the seven-segment digit frame and
// watermark band a circuit.DisplayConfig trailer describes.
package display

import (
	"errors"
	"fmt"

	"github.com/markkurossi/skcd/circuit"
)

// ErrNotADisplayCircuit is returned when a display helper is invoked
// on a circuit that carries no DisplayConfig trailer.
var ErrNotADisplayCircuit = errors.New("display: circuit carries no DisplayConfig")

// SegmentTable maps each decimal digit to its seven-segment activation
// pattern. Segment order is (top, top-left, top-right, middle,
// bottom-left, bottom-right, bottom).
var SegmentTable = [10][7]bool{
	{true, true, true, false, true, true, true},     // 0
	{false, false, true, false, false, true, false}, // 1
	{true, false, true, true, true, false, true},    // 2
	{true, false, true, true, false, true, true},    // 3
	{false, true, true, true, false, true, false},   // 4
	{true, true, false, true, false, true, true},    // 5
	{true, true, false, true, true, true, true},     // 6
	{true, false, true, false, false, true, false},  // 7
	{true, true, true, true, true, true, true},      // 8
	{true, true, true, true, false, true, true},     // 9
}

// DigitBits returns the seven-segment activation pattern for one
// decimal digit (0-9).
func DigitBits(digit int) ([]bool, error) {
	if digit < 0 || digit > 9 {
		return nil, fmt.Errorf("display: invalid digit %d", digit)
	}
	bits := make([]bool, len(SegmentTable[digit]))
	copy(bits, SegmentTable[digit][:])
	return bits, nil
}

// DigitsToBits flattens a run of decimal digits into the garbler's
// seven-bit-per-digit input vector.
func DigitsToBits(digits []int) ([]bool, error) {
	bits := make([]bool, 0, len(digits)*7)
	for _, d := range digits {
		b, err := DigitBits(d)
		if err != nil {
			return nil, err
		}
		bits = append(bits, b...)
	}
	return bits, nil
}

// DecodeFrame splits a flat decoded output bit vector into one
// seven-segment slice per digit cell plus the watermark band, using
// cfg's wire ranges. cfg is the optional trailer circuit.ParseSKCD
// returns; Bristol-Fashion circuits carry none.
func DecodeFrame(bits []bool, cfg *circuit.DisplayConfig) (digits [][]bool, watermark []bool, err error) {
	if cfg == nil {
		return nil, nil, ErrNotADisplayCircuit
	}

	digits = make([][]bool, len(cfg.Digits))
	for i, wr := range cfg.Digits {
		if wr.Offset < 0 || wr.Offset+wr.Size > len(bits) {
			return nil, nil, fmt.Errorf(
				"display: digit %d wire range [%d,%d) exceeds %d output bits",
				i, wr.Offset, wr.Offset+wr.Size, len(bits))
		}
		digits[i] = append([]bool(nil), bits[wr.Offset:wr.Offset+wr.Size]...)
	}

	wr := cfg.Watermark
	if wr.Size > 0 {
		if wr.Offset < 0 || wr.Offset+wr.Size > len(bits) {
			return nil, nil, fmt.Errorf(
				"display: watermark wire range [%d,%d) exceeds %d output bits",
				wr.Offset, wr.Offset+wr.Size, len(bits))
		}
		watermark = append([]bool(nil), bits[wr.Offset:wr.Offset+wr.Size]...)
	}

	return digits, watermark, nil
}
