/*
NAME
  bitalloc.go

DESCRIPTION
  bitalloc.go derives, for every channel/block, the bit-allocation
  pointer (bap) array from the psd/mask curves and an SNR offset; sums
  the non-mantissa, non-exponent bit cost of a frame; and runs the
  CBR and VBR searches that pick an SNR offset (and, for VBR, a frame
  size) that makes the frame's coded size fit its budget. FastBitAlloc
  trims both searches' by-1 refinement pass, keeping only the coarser
  by-4 steps.

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

// frameBitsInc mirrors count_frame_bits' per-acmod extra header bits
// (mix-level fields present only for some channel configurations).
var frameBitsInc = [8]int{0, 0, 2, 2, 2, 4, 2, 4}

// bitAllocation derives bap[0:end] from psd/mask at the given SNR
// offset, matching a52_bit_allocation's per-band quantization of
// (psd - mask) into one of baptab's 16 pointer values.
func bitAllocation(bap *[256]int, psd *[256]int, mask *[50]int, end, snroffset, floor int) {
	i := 0
	for j := maskTab[0]; end > bndTab[j]; j++ {
		v := mask[j] - snroffset - floor
		if v < 0 {
			v = 0
		}
		v &= 0x1fe0
		v += floor

		endj := bndTab[j] + bndsz[j]
		if endj > end {
			endj = end
		}
		for ; i < endj; i++ {
			addr := (psd[i] - v) >> 5
			addr = clampInt(addr, 0, 63)
			bap[i] = baptab[addr]
		}
	}
}

// computeMantissaSize mirrors compute_mantissa_size: the bit cost of
// transmitting ncoefs mantissas given their bap values, tracking the
// 1/2/4-bap grouping counters across calls within a block.
func computeMantissaSize(mantCnt *[3]int, bap *[256]int, ncoefs int) int {
	bits := 0
	for i := 0; i < ncoefs; i++ {
		switch b := bap[i]; b {
		case 0:
		case 1:
			if mantCnt[0]%3 == 0 {
				bits += 5
			}
			mantCnt[0]++
		case 2:
			if mantCnt[1]%3 == 0 {
				bits += 7
			}
			mantCnt[1]++
		case 3:
			bits += 3
		case 4:
			if mantCnt[2]%2 == 0 {
				bits += 7
			}
			mantCnt[2]++
		case 14:
			bits += 14
		case 15:
			bits += 16
		default:
			bits += b - 1
		}
	}
	return bits
}

// countFrameBits sums every frame bit except mantissas and exponents:
// header fields, per-block flags, and the bit-allocation-info block
// that rides with block 0.
func countFrameBits(f *FrameState, acm acmod, nChannels, nAllChannels int, lfe bool, xbsi1e, xbsi2e bool) int {
	bits := 65 + frameBitsInc[acm]
	if xbsi1e {
		bits += 14
	}
	if xbsi2e {
		bits += 14
	}

	for b := 0; b < numBlocks; b++ {
		blk := &f.Blocks[b]
		bits += nChannels * 2 // blksw + dithflg per channel
		bits += 1 + 8 + 1     // dynrnge flag + dynrng value, cplstre
		if acm == ACMod2_0 {
			bits++ // rematstr
			if blk.RematStr {
				bits += 4
			}
		}
		bits += 2 * nChannels // deltbae per channel (always "not present")
		bits += 2 * nChannels // expstr code per channel, every block
		if lfe {
			bits++ // lfeexpstr code, every block
		}
		bits++ // baie
		bits++ // snr offset flag
		bits += 2
	}
	bits++ // cplinu, block 0

	bits += 2 + 2 + 2 + 2 + 3 + 6 + nAllChannels*(4+3)
	bits += 2  // auxdatae, crcrsv
	bits += 16 // CRC

	return bits
}

// bitAllocPrepareFrame runs bitAllocPrepare for every block/channel in
// the frame, seeding psd/mask from the current exponents.
func bitAllocPrepareFrame(f *FrameState, nAllChannels, lfeChannel int, fgaincod int) {
	fgain := fgaintab[fgaincod]
	for b := 0; b < numBlocks; b++ {
		blk := &f.Blocks[b]
		for ch := 0; ch < nAllChannels; ch++ {
			bitAllocPrepare(&f.BitAlloc, &blk.Exp[ch], &blk.PSD[ch], &blk.Mask[ch], f.NCoefs[ch], fgain, ch == lfeChannel)
		}
	}
}

// allocAtOffset runs bit allocation for every block/channel at a given
// (csnroffst, fsnroffst) pair and returns the total mantissa+exponent
// bit cost, matching bit_alloc.
func allocAtOffset(f *FrameState, nAllChannels int, csnroffst, fsnroffst int) int {
	snroffset := (((csnroffst - 15) << 4) + fsnroffst) << 2
	bits := 0
	for b := 0; b < numBlocks; b++ {
		blk := &f.Blocks[b]
		var mantCnt [3]int
		for ch := 0; ch < nAllChannels; ch++ {
			for i := range blk.Bap[ch] {
				blk.Bap[ch][i] = 0
			}
			bitAllocation(&blk.Bap[ch], &blk.PSD[ch], &blk.Mask[ch], f.NCoefs[ch], snroffset, f.BitAlloc.Floor)
			bits += computeMantissaSize(&mantCnt, &blk.Bap[ch], f.NCoefs[ch])
			if blk.ExpStrategy[ch] > 0 {
				bits += expSizeTab[blk.ExpStrategy[ch]-1][f.NCoefs[ch]]
			}
		}
	}
	return bits
}

// cbrAllocState threads the one piece of state the CBR search carries
// across frames: the last frame's chosen coarse SNR offset, used as
// the starting point for the next frame's search (so quality doesn't
// have to be rediscovered from scratch every frame).
type cbrAllocState struct {
	lastCSNROffst int
}

// cbrBitAllocation runs the reference encoder's CBR search: decrease
// csnroffst until the allocation fits the frame, then greedily
// increase csnroffst (by 4, then by 1) and fsnroffst (by 4, then by 1)
// while it still fits, maximizing quality within the fixed frame size.
// fast (FastBitAlloc) skips both by-1 refinement passes, keeping only
// the coarse by-4 search.
func (s *cbrAllocState) cbrBitAllocation(f *FrameState, nAllChannels int, prepare bool, fgaincod int, lfeChannel int, fast bool) error {
	availBits := 16*f.FrameSize - f.FrameBits
	csnroffst := s.lastCSNROffst
	fsnroffst := 0

	if prepare {
		bitAllocPrepareFrame(f, nAllChannels, lfeChannel, fgaincod)
	}

	leftover := availBits - allocAtOffset(f, nAllChannels, csnroffst, fsnroffst)
	for csnroffst > 0 && leftover < 0 {
		csnroffst--
		if csnroffst == 0 {
			fsnroffst = 1
		}
		leftover = availBits - allocAtOffset(f, nAllChannels, csnroffst, fsnroffst)
	}
	if leftover < 0 {
		return newBudgetInfeasibleError(f.BitRate)
	}

	leftover = availBits - allocAtOffset(f, nAllChannels, csnroffst+4, fsnroffst)
	for csnroffst+4 <= 63 && leftover >= 0 {
		csnroffst += 4
		leftover = availBits - allocAtOffset(f, nAllChannels, csnroffst+4, fsnroffst)
	}
	if !fast {
		leftover = availBits - allocAtOffset(f, nAllChannels, csnroffst+1, fsnroffst)
		for csnroffst+1 <= 63 && leftover >= 0 {
			csnroffst++
			leftover = availBits - allocAtOffset(f, nAllChannels, csnroffst+1, fsnroffst)
		}
	}

	leftover = availBits - allocAtOffset(f, nAllChannels, csnroffst, fsnroffst+4)
	for fsnroffst+4 <= 15 && leftover >= 0 {
		fsnroffst += 4
		leftover = availBits - allocAtOffset(f, nAllChannels, csnroffst, fsnroffst+4)
	}
	if !fast {
		leftover = availBits - allocAtOffset(f, nAllChannels, csnroffst, fsnroffst+1)
		for fsnroffst+1 <= 15 && leftover >= 0 {
			fsnroffst++
			leftover = availBits - allocAtOffset(f, nAllChannels, csnroffst, fsnroffst+1)
		}
	}

	allocAtOffset(f, nAllChannels, csnroffst, fsnroffst)

	s.lastCSNROffst = csnroffst
	f.CSNROffst = csnroffst
	f.FSNROffst = fsnroffst
	f.Quality = ((((csnroffst-15)<<4)+fsnroffst)<<2+960) / 4
	return nil
}

// vbrBitAllocation runs the reference encoder's VBR search: convert
// the requested quality into a (csnroffst, fsnroffst) pair, find the
// smallest legal frame size the allocation fits into, then hand off to
// the CBR search (without re-preparing psd/mask) to squeeze any
// remaining bits out of that frame size.
func (s *cbrAllocState) vbrBitAllocation(f *FrameState, nAllChannels, fscod, halfratecod, quality, frmsizecodMax, fgaincod, lfeChannel int, fast bool) error {
	snroffst := quality - 240
	csnroffst := snroffst/16 + 15
	fsnroffst := snroffst % 16
	for fsnroffst < 0 {
		csnroffst--
		fsnroffst += 16
	}

	bitAllocPrepareFrame(f, nAllChannels, lfeChannel, fgaincod)

	frameSize := 0
	i := 0
	for ; i <= frmsizecodMax; i++ {
		frameSize = frmsizeTab[i][fscod]
		frameBits := f.FrameBits + allocAtOffset(f, nAllChannels, csnroffst, fsnroffst)
		if frameSize >= frameBits {
			break
		}
	}
	if i > frmsizecodMax {
		i = frmsizecodMax
	}

	f.BitRate = a52BitrateTab[i/2] >> uint(halfratecod)
	f.FrmSizeCod = i
	f.FrameSize = frameSize / 16
	f.FrameSizeMin = f.FrameSize
	s.lastCSNROffst = csnroffst

	return s.cbrBitAllocation(f, nAllChannels, false, fgaincod, lfeChannel, fast)
}

// computeBitAllocation reads the frame's decay/gain/floor codes into
// BitAllocParams, counts the frame's non-mantissa bits, and dispatches
// to the CBR or VBR search.
func (s *cbrAllocState) computeBitAllocation(f *FrameState, mode EncodingMode, fscod, halfratecod, nChannels, nAllChannels, lfeChannel int, lfe bool, acm acmod, xbsi1e, xbsi2e bool, quality, frmsizecodMax int, fast bool) error {
	f.BitAlloc = BitAllocParams{
		FSCod:       fscod,
		HalfRateCod: halfratecod,
		SDecay:      sdecaytab[f.SDecayCod] >> uint(halfratecod),
		FDecay:      fdecaytab[f.FDecayCod] >> uint(halfratecod),
		SGain:       sgaintab[f.SGainCod],
		DBKnee:      dbkneetab[f.DBKneeCod],
		Floor:       floortab[f.FloorCod],
	}

	f.FrameBits = countFrameBits(f, acm, nChannels, nAllChannels, lfe, xbsi1e, xbsi2e)

	if mode == VBR {
		return s.vbrBitAllocation(f, nAllChannels, fscod, halfratecod, quality, frmsizecodMax, f.FGainCod, lfeChannel, fast)
	}
	return s.cbrBitAllocation(f, nAllChannels, true, f.FGainCod, lfeChannel, fast)
}
