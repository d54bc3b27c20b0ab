//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

package garble

import (
	"fmt"
	"sync"

	"github.com/markkurossi/skcd/block"
	"github.com/markkurossi/skcd/ro"
)

// Decode implements De(Y, d): for each output index, the recovered
// bit is the low bit of H(Y[j] || d[j]).
func Decode(y []block.L, d Decoding) ([]bool, error) {
	if len(y) != len(d) {
		return nil, fmt.Errorf("%w: expected %d, got %d",
			ErrInvalidInputLength, len(d), len(y))
	}
	o := ro.New()
	out := make([]bool, len(y))
	for i := range y {
		out[i] = o.Prime(y[i], d[i])
	}
	return out, nil
}

// DecodeConcurrent is the data-parallel variant of Decode. Each
// output wire is independent, so the work fans out across workers
// goroutines; the result is identical to the sequential Decode.
func DecodeConcurrent(y []block.L, d Decoding, workers int) ([]bool, error) {
	if len(y) != len(d) {
		return nil, fmt.Errorf("%w: expected %d, got %d",
			ErrInvalidInputLength, len(d), len(y))
	}
	if workers < 1 {
		workers = 1
	}

	out := make([]bool, len(y))
	indices := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := ro.New()
			for idx := range indices {
				out[idx] = o.Prime(y[idx], d[idx])
			}
		}()
	}
	for i := range y {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return out, nil
}
