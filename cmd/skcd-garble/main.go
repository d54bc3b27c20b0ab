//
// Copyright (c) 2024 Markku Rossi
//
// All rights reserved.
//

// Command skcd-garble garbles a .skcd circuit with a garbler-chosen
// digit/watermark frame and, optionally, evaluates it immediately
// against a local, crypto/rand-seeded evaluator input for manual
// smoke-testing without a second process.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/markkurossi/skcd/artifact"
	"github.com/markkurossi/skcd/block"
	"github.com/markkurossi/skcd/circuit"
	"github.com/markkurossi/skcd/display"
	"github.com/markkurossi/skcd/garble"
)

func main() {
	skcdPath := flag.String("skcd", "", "Circuit file (.skcd or .circ/.bristol)")
	digitsFlag := flag.String("digits", "", "Comma-separated digits for the display frame, e.g. 1,2,3")
	txMsg := flag.String("tx-msg", "", "Watermark text rendered into the display frame")
	seed := flag.Int64("seed", 0, "Deterministic seed; 0 selects OS entropy")
	out := flag.String("out", "", "Output path for the garbled artifact")
	evalRandom := flag.Bool("eval-random", false, "Evaluate immediately against random evaluator input")
	verbose := flag.Bool("v", false, "Print a per-phase timing table")
	flag.Parse()

	if len(*skcdPath) == 0 {
		log.Fatal("skcd-garble: -skcd is required")
	}
	if len(*out) == 0 && !*evalRandom {
		log.Fatal("skcd-garble: -out is required unless -eval-random is set")
	}

	timing := circuit.NewTiming()

	c, err := circuit.Parse(*skcdPath)
	if err != nil {
		log.Fatalf("skcd-garble: parsing %s: %s", *skcdPath, err)
	}
	timing.Sample("parse", []string{c.String()})

	garblerBits, err := garblerInputBits(c, *digitsFlag, *txMsg)
	if err != nil {
		log.Fatal(err)
	}
	if len(garblerBits) > c.Inputs.Size() {
		log.Fatalf("skcd-garble: display frame needs %d input bits, circuit only has %d",
			len(garblerBits), c.Inputs.Size())
	}

	var art *garble.Artifact
	if *seed != 0 {
		art, err = garble.GarbleWithSeed(c, uint64(*seed))
	} else {
		art, err = garble.Garble(c)
	}
	if err != nil {
		log.Fatalf("skcd-garble: garbling: %s", err)
	}
	timing.Sample("garble", []string{fmt.Sprintf("cost=%d", c.Cost())})

	x, err := garble.EncodeGarblerInputs(art.E, garblerBits)
	if err != nil {
		log.Fatalf("skcd-garble: encoding garbler inputs: %s", err)
	}
	timing.Sample("encode", nil)

	nGarbler := artifact.NumGarblerInputs(len(garblerBits))
	data, err := artifact.Encode(art, nGarbler)
	if err != nil {
		log.Fatalf("skcd-garble: encoding artifact: %s", err)
	}
	timing.Sample("serialize", []string{fmt.Sprintf("%d bytes", len(data))})

	if len(*out) > 0 {
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			log.Fatalf("skcd-garble: writing %s: %s", *out, err)
		}
	}

	if *evalRandom {
		if err := evalLocalRandom(c, art, x, len(garblerBits), timing); err != nil {
			log.Fatal(err)
		}
	}

	if *verbose {
		timing.Print()
	}
}

// garblerInputBits builds the garbler's circuit input bits from
// -digits and -tx-msg: digit cells first (7 bits each, in the order
// -digits lists them), then the watermark band.
// A circuit with no DisplayConfig trailer only accepts -digits.
func garblerInputBits(c *circuit.Circuit, digitsFlag, txMsg string) ([]bool, error) {
	var digits []int
	if len(digitsFlag) > 0 {
		for _, s := range strings.Split(digitsFlag, ",") {
			d, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("skcd-garble: invalid -digits value %q: %w", s, err)
			}
			digits = append(digits, d)
		}
	}

	bits, err := display.DigitsToBits(digits)
	if err != nil {
		return nil, fmt.Errorf("skcd-garble: %w", err)
	}

	if len(txMsg) == 0 {
		return bits, nil
	}

	if c.Display == nil {
		return nil, fmt.Errorf("skcd-garble: -tx-msg given: %w",
			display.ErrNotADisplayCircuit)
	}
	wm, err := display.RasterizeWatermark(txMsg, c.Display.Watermark.Size, 1)
	if err != nil {
		return nil, fmt.Errorf("skcd-garble: rasterizing watermark: %w", err)
	}
	return append(bits, wm...), nil
}

// evalLocalRandom drives a non-networked evaluation pass: it samples
// fresh evaluator input bits from crypto/rand, encodes them with the
// artifact's evaluator-facing half of e, runs garble.Eval/garble.Decode,
// and prints the result. This never touches art.E's garbler-input
// half or art.DeltaR, the same boundary artifact.Encode enforces.
func evalLocalRandom(c *circuit.Circuit, art *garble.Artifact, garblerLabels []block.L,
	nGarbler int, timing *circuit.Timing) error {

	nEvaluator := c.Inputs.Size() - nGarbler
	evalBits := make([]bool, nEvaluator)
	raw := make([]byte, (nEvaluator+7)/8)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("skcd-garble: sampling evaluator input: %w", err)
	}
	for i := range evalBits {
		evalBits[i] = raw[i/8]>>(uint(i)%8)&1 == 1
	}

	evalLabels, err := garble.EncodeEvaluatorInputs(art.E, nGarbler, evalBits)
	if err != nil {
		return fmt.Errorf("skcd-garble: encoding evaluator inputs: %w", err)
	}

	x := make([]block.L, 0, len(garblerLabels)+len(evalLabels))
	x = append(x, garblerLabels...)
	x = append(x, evalLabels...)

	y, err := garble.Eval(c, art.F, x)
	if err != nil {
		return fmt.Errorf("skcd-garble: evaluating: %w", err)
	}
	timing.Sample("eval", nil)

	out, err := garble.Decode(y, art.Decoding)
	if err != nil {
		return fmt.Errorf("skcd-garble: decoding: %w", err)
	}
	timing.Sample("decode", nil)

	fmt.Printf("evaluator input: %v\n", evalBits)
	fmt.Printf("decoded output:  %v\n", out)
	return nil
}
