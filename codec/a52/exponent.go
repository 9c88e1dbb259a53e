/*
NAME
  exponent.go

DESCRIPTION
  exponent.go extracts a floating-point exponent (0..24) per MDCT
  coefficient, selects a per-channel exponent-coding strategy across
  the six blocks of a frame (REUSE/D15/D25/D45), and re-encodes the
  chosen block's exponents so they satisfy the decoder's monotone
  +2/-2 delta constraint before grouping them for transmission.

  NOTE ON GROUNDING: the reference encoder's strategy-selection table
  (a 32-row predefined set of REUSE/D15/D25/D45 combinations across the
  6 blocks, "str_predef") lives in exponent_common.c, which was not
  present in the retrieved reference sources for this package (see
  DESIGN.md). candidateStrategies below reconstructs a table of the
  same shape and the same row count (32) from first principles: every
  row is one of the 2^5 ways to partition 6 blocks into consecutive
  reuse runs (a run's first block carries a real strategy, the rest of
  the run reuses it), with each run's granularity chosen by run length
  -- long runs amortize a coarse D45 grouping over more reused blocks,
  a lone block gets the accurate D15 granularity since nothing reuses
  it. fastCandidateStrategies, the table FastExpStrategy searches
  instead, has the same 32 run-length rows with every run coded D25.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package a52

const (
	expReuse = 0
	expD15   = 1
	expD25   = 2
	expD45   = 3
)

// extractExponent converts a coefficient into the A/52 floating-point
// exponent: the number of leading fractional bits before the first
// significant bit, clipped to 24 (silence). For a nonzero coefficient
// below 1.0 whose exponent is not clipped, |coef| * 2^exponent lies in
// [0.5, 1.0).
func extractExponent(coef float64) uint8 {
	x := coef
	if x < 0 {
		x = -x
	}
	if x == 0 {
		return 24
	}
	e := 0
	for x < 0.5 && e < 24 {
		x *= 2
		e++
	}
	return uint8(e)
}

// extractExponentsBlock fills exp[0:ncoefs] for one channel/block from
// its MDCT coefficients.
func extractExponentsBlock(exp *[256]uint8, coef *[256]float64, ncoefs int) {
	for i := 0; i < ncoefs; i++ {
		exp[i] = extractExponent(coef[i])
	}
}

// nexpgrps returns the number of exponent groups a strategy/ncoefs pair
// produces, matching expsizetab's group-count derivation.
func nexpgrps(strategy, ncoefs int) int {
	grpsize := strategy
	if strategy == expD45 {
		grpsize = 4
	}
	if ncoefs == 7 {
		return 2
	}
	return (ncoefs + grpsize*3 - 4) / (3 * grpsize)
}

// strategyCandidate is one designed candidate for how a channel encodes
// its exponents across the 6 blocks of a frame; each entry names the
// strategy for that block index (expReuse means "decode using the
// previous transmitted block's exponents").
type strategyCandidate [numBlocks]int

// runGranularity picks a run's exponent-coding strategy from its
// length: a run of 1 (nothing reuses this block) gets the most
// accurate D15 granularity, a run of 2 gets D25, a run of 3 or more
// gets the coarsest D45 since the grouping cost is amortized over more
// reused blocks.
func runGranularity(runLen int) int {
	switch {
	case runLen == 1:
		return expD15
	case runLen == 2:
		return expD25
	default:
		return expD45
	}
}

// candidateStrategies enumerates all 2^(numBlocks-1) ways to partition
// the frame's 6 blocks into consecutive reuse runs, each run's
// granularity chosen by runGranularity. This reconstructs the
// reference encoder's 32-row predefined strategy table (see the
// grounding note above) from the run-length composition the table's
// row count (exactly 2^5 = 32) implies.
var candidateStrategies = buildCandidateStrategies()

// fastCandidateStrategies is the table FastExpStrategy searches: the
// same 32 run-length compositions with every run coded D25 instead of
// by runGranularity. It has as many rows as candidateStrategies, so
// the search is no shorter.
var fastCandidateStrategies = buildFastCandidateStrategies()

// runLensForMask decodes a run-boundary bitmask (bit b-1 set means
// block b starts a new run, for b in 1..numBlocks-1) into run lengths
// summing to numBlocks.
func runLensForMask(mask int) []int {
	var runLens []int
	start := 0
	for b := 1; b < numBlocks; b++ {
		if mask&(1<<uint(b-1)) != 0 {
			runLens = append(runLens, b-start)
			start = b
		}
	}
	return append(runLens, numBlocks-start)
}

// candidateFromRunLens builds one strategyCandidate from a set of run
// lengths, using granularity(runLen) to choose each run's strategy.
func candidateFromRunLens(runLens []int, granularity func(int) int) strategyCandidate {
	var cand strategyCandidate
	pos := 0
	for _, rl := range runLens {
		cand[pos] = granularity(rl)
		for i := 1; i < rl; i++ {
			cand[pos+i] = expReuse
		}
		pos += rl
	}
	return cand
}

func buildCandidateStrategies() []strategyCandidate {
	out := make([]strategyCandidate, 0, 1<<(numBlocks-1))
	for mask := 0; mask < 1<<(numBlocks-1); mask++ {
		out = append(out, candidateFromRunLens(runLensForMask(mask), runGranularity))
	}
	return out
}

func buildFastCandidateStrategies() []strategyCandidate {
	out := make([]strategyCandidate, 0, 1<<(numBlocks-1))
	for mask := 0; mask < 1<<(numBlocks-1); mask++ {
		out = append(out, candidateFromRunLens(runLensForMask(mask), func(int) int { return expD25 }))
	}
	return out
}

// sumSquareError mirrors exponent_sum_square_error: the coarse-grained
// distortion introduced by re-encoding exp1 relative to the raw
// extracted exponents exp0.
func sumSquareError(exp0, exp1 *[256]uint8, ncoefs int) int {
	errAcc := 0
	for i := 0; i < ncoefs; i++ {
		d := int(exp0[i]) - int(exp1[i])
		errAcc += d * d
	}
	return errAcc
}

// chooseExponentStrategy picks, for one channel across the whole
// frame's 6 blocks, the candidate that minimizes the total sum of
// squared exponent deltas introduced by re-encoding (ties broken by
// table order, which favors the earlier, generally coarser-grained
// candidates). fast searches fastCandidateStrategies instead.
func chooseExponentStrategy(rawExp [numBlocks][256]uint8, ncoefs int, fast bool) strategyCandidate {
	table := candidateStrategies
	if fast {
		table = fastCandidateStrategies
	}

	var best strategyCandidate
	bestErr := -1
	for _, cand := range table {
		total := 0
		var held [256]uint8
		for b := 0; b < numBlocks; b++ {
			if cand[b] != expReuse {
				held = rawExp[b]
				encodeExpBlkCh(&held, ncoefs, cand[b])
			}
			total += sumSquareError(&rawExp[b], &held, ncoefs)
		}
		if bestErr == -1 || total < bestErr {
			bestErr = total
			best = cand
		}
	}
	return best
}

// encodeExpBlkCh re-encodes one block/channel's raw exponents in place
// so the result the decoder reconstructs from the grouped/transmitted
// form satisfies: DC <= 15, monotone +2/-2 delta between consecutive
// groups, and (for D25/D45) groups equal to the min exponent across
// the 2 or 4 coefficients they cover.
func encodeExpBlkCh(exp *[256]uint8, ncoefs, strategy int) {
	ngrps := nexpgrps(strategy, ncoefs) * 3

	if exp[0] > 15 {
		exp[0] = 15
	}

	switch strategy {
	case expD25:
		k := 1
		for i := 1; i <= ngrps; i++ {
			exp[i] = minU8(exp[k], exp[k+1])
			k += 2
		}
	case expD45:
		k := 1
		for i := 1; i <= ngrps; i++ {
			m1 := minU8(exp[k], exp[k+1])
			m2 := minU8(exp[k+2], exp[k+3])
			exp[i] = minU8(m1, m2)
			k += 4
		}
	}

	for i := 1; i <= ngrps; i++ {
		if exp[i] > exp[i-1]+2 {
			exp[i] = exp[i-1] + 2
		}
	}
	for i := ngrps - 1; i >= 0; i-- {
		if exp[i] > exp[i+1]+2 {
			exp[i] = exp[i+1] + 2
		}
	}

	switch strategy {
	case expD25:
		k := ngrps * 2
		for i := ngrps; i > 0; i-- {
			exp[k] = exp[i]
			exp[k-1] = exp[i]
			k -= 2
		}
	case expD45:
		k := ngrps * 4
		for i := ngrps; i > 0; i-- {
			exp[k] = exp[i]
			exp[k-1] = exp[i]
			exp[k-2] = exp[i]
			exp[k-3] = exp[i]
			k -= 4
		}
	}
}

// groupExponents packs the encoded, post-delta-constrained exponent
// array into grp_exp: the DC exponent followed by ngrps 7-bit codes,
// each combining three successive group deltas d0, d1, d2 (each offset
// by 2 into 0..4) as 25*d0 + 5*d1 + d2.
func groupExponents(grpExp *[85]uint8, exp *[256]uint8, ncoefs, strategy int) int {
	ngrps := nexpgrps(strategy, ncoefs)
	grpExp[0] = exp[0]
	grpsize := strategy
	if strategy == expD45 {
		grpsize = 4
	}
	prev := int(exp[0])
	k := 1
	for i := 1; i <= ngrps; i++ {
		var d [3]int
		for j := range d {
			d[j] = int(exp[k]) - prev + 2
			prev = int(exp[k])
			k += grpsize
		}
		grpExp[i] = uint8(25*d[0] + 5*d[1] + d[2])
	}
	return ngrps
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

// processExponents runs the full per-channel pipeline for one frame:
// extract every block's raw exponents, choose a strategy sequence,
// re-encode the transmitted blocks' exponents, and group them. fast
// selects the reduced FastExpStrategy search table.
func processExponents(f *FrameState, ch, ncoefs int, fast bool) {
	var raw [numBlocks][256]uint8
	for b := 0; b < numBlocks; b++ {
		raw[b] = f.Blocks[b].Exp[ch]
	}

	strat := chooseExponentStrategy(raw, ncoefs, fast)

	var current [256]uint8
	for b := 0; b < numBlocks; b++ {
		blk := &f.Blocks[b]
		blk.ExpStrategy[ch] = strat[b]
		if strat[b] == expReuse {
			blk.Exp[ch] = current
			continue
		}
		current = raw[b]
		encodeExpBlkCh(&current, ncoefs, strat[b])
		blk.Exp[ch] = current
		blk.NExpGrps[ch] = groupExponents(&blk.GrpExp[ch], &current, ncoefs, strat[b])
	}
}
