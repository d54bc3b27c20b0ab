//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

package display

import (
	"fmt"

	"github.com/markkurossi/text"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// glyphCols is the fixed column advance every rasterized character
// cell takes; the watermark layout is monospace.
const glyphCols = 5

// RasterizeWatermark renders msg into a h x w monochrome bit vector,
// row-major, the watermark band the garbled circuit's output frame
// carries alongside its digits. Full-width and halfwidth rune forms
// are folded to their narrow equivalents first (via
// golang.org/x/text/width), so CJK-adjacent input still lays out on
// the fixed grid; the folded text is then handed to markkurossi/text
// for its plain-text glyph-cell bookkeeping before each rune is
// thresholded into a lit/unlit column mask.
func RasterizeWatermark(msg string, w, h int) ([]bool, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("display: invalid watermark frame %dx%d", w, h)
	}

	folded, _, err := transform.String(width.Fold, msg)
	if err != nil {
		return nil, fmt.Errorf("display: folding watermark text: %w", err)
	}

	plain := text.New().Plain(folded).Spans[0].Content

	bits := make([]bool, w*h)
	row := h / 2
	col := 0
	for _, r := range plain {
		if col+glyphCols > w {
			break
		}
		for i, on := range glyphColumn(r) {
			if on && row >= 0 && row < h {
				bits[row*w+col+i] = true
			}
		}
		col += glyphCols
	}
	return bits, nil
}

// glyphColumn returns a coarse lit-column mask for r: space leaves the
// whole cell dark, any other printable rune lights the cell's
// interior columns, approximating the silhouette a thresholded glyph
// produces without shaping real outlines.
func glyphColumn(r rune) [glyphCols]bool {
	if r == ' ' {
		return [glyphCols]bool{}
	}
	return [glyphCols]bool{false, true, true, true, false}
}
