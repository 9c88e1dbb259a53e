/*
NAME
  transient.go

DESCRIPTION
  transient.go implements the block-switching transient detector: a
  three-level peak-hierarchy check over a 512-sample window (2x256,
  4x128, 8x64 sub-blocks) that decides whether a block should be coded
  with the short (256-point) or long (512-point) MDCT, plus the
  dither-strategy computation that follows from the per-block
  block-switch flags.

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
	transientMax = 100.0 / 32768.0
	transientT1  = 0.100
	transientT2  = 0.075
	transientT3  = 0.050
)

// detectTransient runs the reference encoder's level1/level2/level3
// peak-hierarchy test over a 512-sample transient-detect-filtered
// window and reports whether the block should switch to the
// short (256-point) MDCT.
//
// LFE channels never run this: the decoder never reads a block-switch
// flag for the LFE channel, so callers must not call this for ch ==
// the LFE channel index (see encoder.go's pipeline).
func detectTransient(in []float64) bool {
	var level1 [2]float64
	for i := 0; i < 2; i++ {
		level1[i] = peakAbs(in[i*256 : i*256+256])
		if level1[i] < transientMax {
			return false
		}
		if i > 0 && level1[i]*transientT1 > level1[i-1] {
			return true
		}
	}

	var level2 [4]float64
	for i := 1; i < 4; i++ {
		level2[i] = peakAbs(in[i*128 : i*128+128])
		if i > 1 && level2[i]*transientT2 > level2[i-1] {
			return true
		}
	}

	var level3 [8]float64
	for i := 3; i < 8; i++ {
		level3[i] = peakAbs(in[i*64 : i*64+64])
		if i > 3 && level3[i]*transientT3 > level3[i-1] {
			return true
		}
	}

	return false
}

// computeDitherStrategy sets dithflag for every block/channel: dither
// is disabled for a block whenever that block or the preceding block
// used the short (transient) MDCT, since the short transform already
// injects enough high-frequency content that a decoder-side dither
// reconstruction would be redundant.
func computeDitherStrategy(blocks []BlockState, nChannels int) {
	var prev *BlockState
	for b := range blocks {
		blk := &blocks[b]
		for ch := 0; ch < nChannels; ch++ {
			switch {
			case blk.BlkSw[ch]:
				blk.DithFlag[ch] = false
			case prev != nil && prev.BlkSw[ch]:
				blk.DithFlag[ch] = false
			default:
				blk.DithFlag[ch] = true
			}
		}
		prev = blk
	}
}
