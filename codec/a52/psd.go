/*
NAME
  psd.go

DESCRIPTION
  psd.go implements the psychoacoustic model: mapping exponents to a
  power-spectral-density curve, integrating that curve into 50
  critical bands via log-domain addition, computing the low-frequency
  compensated excitation function, and combining it with the absolute
  hearing threshold to produce the final masking curve each channel's
  bit allocator reads.

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

import "gonum.org/v1/gonum/floats"

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// logAdd approximates log2(2^a/16 + 2^b/16)*16 via the latab lookup,
// matching the reference encoder's PSD-integration addition.
func logAdd(a, b int) int {
	adr := clampInt(absInt(a-b)>>1, 0, 255)
	if b <= a {
		return a + latab[adr]
	}
	return b + latab[adr]
}

// calcLowComp1 is the simplified low-frequency compensator used for
// bands 0 through 6, where calcLowComp's bin-range branch is not
// needed.
func calcLowComp1(a, b0, b1 int) int {
	switch {
	case b0+256 == b1:
		return 384
	case b0 > b1:
		a -= 64
		if a < 0 {
			a = 0
		}
		return a
	default:
		return a
	}
}

// calcLowComp is the general low-frequency compensator: its behavior
// depends on which of three bin ranges (< 7, < 20, else) bin falls
// into, matching the reference encoder's three-way branch exactly.
func calcLowComp(a, b0, b1, bin int) int {
	switch {
	case bin < 7:
		switch {
		case b0+256 == b1:
			return 384
		case b0 > b1:
			a -= 64
		}
	case bin < 20:
		switch {
		case b0+256 == b1:
			return 320
		case b0 > b1:
			a -= 64
		}
	default:
		a -= 128
	}
	if a < 0 {
		a = 0
	}
	return a
}

// bitAllocPrepare computes psd/mask for one channel/block: PSD from
// exponents, band-integrated PSD, excitation (with low-frequency
// compensation for non-coupled, non-LFE-only-band-6 channels), and the
// final masking curve (excitation floored by the absolute hearing
// threshold, lifted near the dbknee).
func bitAllocPrepare(params *BitAllocParams, exp *[256]uint8, psd *[256]int, mask *[50]int, end, fgain int, isLFE bool) {
	for bin := 0; bin < end; bin++ {
		psd[bin] = psdTab[exp[bin]]
	}

	var bndpsd [50]int
	j := 0
	k := maskTab[0]
	for {
		v := psd[j]
		j++
		end1 := bndTab[k+1]
		if end1 > end {
			end1 = end
		}
		for i := j; i < end1; i++ {
			v = logAdd(v, psd[j])
			j++
		}
		bndpsd[k] = v
		k++
		if end <= bndTab[k] {
			break
		}
	}

	var excite [50]int
	bndstrt := maskTab[0]
	bndend := maskTab[end-1] + 1

	var begin, fastleak, slowleak, lowcomp int
	if bndstrt == 0 {
		lowcomp = calcLowComp1(0, bndpsd[0], bndpsd[1])
		excite[0] = bndpsd[0] - fgain - lowcomp
		lowcomp = calcLowComp1(lowcomp, bndpsd[1], bndpsd[2])
		excite[1] = bndpsd[1] - fgain - lowcomp

		begin = 7
		for bin := 2; bin < 7; bin++ {
			if !(isLFE && bin == 6) {
				lowcomp = calcLowComp1(lowcomp, bndpsd[bin], bndpsd[bin+1])
			}
			fastleak = bndpsd[bin] - fgain
			slowleak = bndpsd[bin] - params.SGain
			excite[bin] = fastleak - lowcomp
			if !(isLFE && bin == 6) && bndpsd[bin] <= bndpsd[bin+1] {
				begin = bin + 1
				break
			}
		}

		end1 := bndend
		if end1 > 22 {
			end1 = 22
		}
		for bin := begin; bin < end1; bin++ {
			if !(isLFE && bin == 6) {
				lowcomp = calcLowComp(lowcomp, bndpsd[bin], bndpsd[bin+1], bin)
			}
			fastleak -= params.FDecay
			if v := bndpsd[bin] - fgain; fastleak < v {
				fastleak = v
			}
			slowleak -= params.SDecay
			if v := bndpsd[bin] - params.SGain; slowleak < v {
				slowleak = v
			}
			v := fastleak - lowcomp
			if slowleak > v {
				v = slowleak
			}
			excite[bin] = v
		}
		begin = 22
	} else {
		begin = bndstrt
	}

	for bin := begin; bin < bndend; bin++ {
		fastleak -= params.FDecay
		if v := bndpsd[bin] - fgain; fastleak < v {
			fastleak = v
		}
		slowleak -= params.SDecay
		if v := bndpsd[bin] - params.SGain; slowleak < v {
			slowleak = v
		}
		v := fastleak
		if slowleak > v {
			v = slowleak
		}
		excite[bin] = v
	}

	for bin := bndstrt; bin < bndend; bin++ {
		v1 := excite[bin]
		if tmp := params.DBKnee - bndpsd[bin]; tmp > 0 {
			v1 += tmp >> 2
		}
		v := hth[bin>>uint(params.HalfRateCod)][params.FSCod]
		if v1 > v {
			v = v1
		}
		mask[bin] = v
	}
}

// maskEnergySum sums the masking curve over the active bands using
// gonum's floats.Sum. Nothing in the package calls it.
func maskEnergySum(mask *[50]int, bndstrt, bndend int) float64 {
	vals := make([]float64, 0, bndend-bndstrt)
	for i := bndstrt; i < bndend; i++ {
		vals = append(vals, float64(mask[i]))
	}
	return floats.Sum(vals)
}
