//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

package ro

import (
	"testing"

	"github.com/markkurossi/skcd/block"
)

func testBlocks() (a, b, common block.L) {
	a = block.LFromUint64Pair(42, 0)
	b = block.LFromUint64Pair(43, 44)
	common = block.LFromUint64Pair(11, 12)
	return
}

func TestGateSameBlocksDifferentTweaksDiffer(t *testing.T) {
	o := New()
	a, b, _ := testBlocks()

	h1 := o.Gate(a, &b, 0)
	h2 := o.Gate(a, &b, 1)
	if h1.Equal(h2) {
		t.Fatal("different tweaks produced the same oracle output")
	}
}

func TestGateSameBlocksSameTweakMatch(t *testing.T) {
	o := New()
	a, b, _ := testBlocks()

	h1 := o.Gate(a, &b, 2)
	h2 := o.Gate(a, &b, 2)
	if !h1.Equal(h2) {
		t.Fatal("the oracle is not deterministic for identical inputs")
	}
}

func TestGateDifferentBlocksSameTweakDiffer(t *testing.T) {
	o := New()
	a, b, common := testBlocks()

	h1 := o.Gate(a, &common, 2)
	h2 := o.Gate(b, &common, 2)
	if h1.Equal(h2) {
		t.Fatal("distinct first labels produced the same oracle output")
	}

	h3 := o.Gate(common, &a, 2)
	h4 := o.Gate(common, &b, 2)
	if h3.Equal(h4) {
		t.Fatal("distinct second labels produced the same oracle output")
	}
}

func TestGateTruncMatchesGateFirstLane(t *testing.T) {
	o := New()
	a, b, _ := testBlocks()

	p := o.Gate(a, &b, 7)
	l := o.GateTrunc(a, &b, 7)

	if !p.Truncate().Equal(l) {
		t.Fatal("GateTrunc disagrees with the first lane of Gate")
	}
}

func TestGateUnaryTweak(t *testing.T) {
	o := New()
	a, _, _ := testBlocks()

	h1 := o.Gate(a, nil, 3)
	h2 := o.Gate(a, nil, 3)
	if !h1.Equal(h2) {
		t.Fatal("unary oracle call is not deterministic")
	}

	h3 := o.Gate(a, nil, 4)
	if h1.Equal(h3) {
		t.Fatal("unary oracle call ignored the tweak")
	}
}

func TestPrimeDistribution(t *testing.T) {
	o := New()
	lj0 := block.LFromUint64Pair(0xdeadbeef, 0xcafef00d)

	var trues, falses int
	for i := uint64(0); i < 1000; i++ {
		dj := block.LFromUint64Pair(i, i*2654435761)
		if o.Prime(lj0, dj) {
			trues++
		} else {
			falses++
		}
	}
	diff := trues - falses
	if diff < 0 {
		diff = -diff
	}
	if diff > 200 {
		t.Fatalf("RO' bit distribution too skewed: %d true, %d false", trues, falses)
	}
}

func TestPrimeDeterministic(t *testing.T) {
	o := New()
	a, b, _ := testBlocks()

	if o.Prime(a, b) != o.Prime(a, b) {
		t.Fatal("RO' is not deterministic")
	}
}
