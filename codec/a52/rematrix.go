/*
NAME
  rematrix.go

DESCRIPTION
  rematrix.go implements 2/0 (stereo) rematrixing: for each of four
  fixed coefficient bands, decide whether sum/difference coding beats
  left/right coding for that band, and if so replace the two channels'
  coefficients in place with their sum/difference (halved).

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

// calcRematrixing evaluates and applies rematrixing for every block of
// a stereo (acmod == 2/0) frame. When disabled, it still emits the
// required bitstream shape: block 0 signals "new strategy, no bands
// remapped" and every later block signals "reuse previous strategy".
func calcRematrixing(f *FrameState, ncoefsL int, useRematrixing bool) {
	if !useRematrixing {
		f.Blocks[0].RematStr = true
		for bnd := 0; bnd < 4; bnd++ {
			f.Blocks[0].RematFlag[bnd] = false
		}
		for b := 1; b < numBlocks; b++ {
			f.Blocks[b].RematStr = false
		}
		return
	}

	for b := 0; b < numBlocks; b++ {
		blk := &f.Blocks[b]
		blk.RematStr = b == 0

		for bnd := 0; bnd < 4; bnd++ {
			blk.RematFlag[bnd] = false
			var sumL, sumR, sumSum, sumDiff float64

			lo, hi := rematBndTab[bnd][0], rematBndTab[bnd][1]
			for i := lo; i <= hi; i++ {
				if i == ncoefsL {
					break
				}
				lt := blk.MDCTCoef[0][i]
				rt := blk.MDCTCoef[1][i]
				sumL += lt * lt
				sumR += rt * rt
				sumSum += (lt + rt) * (lt + rt) / 4.0
				sumDiff += (lt - rt) * (lt - rt) / 4.0
			}

			if sumL+sumR >= (sumSum+sumDiff)/2.0 {
				blk.RematFlag[bnd] = true
				for i := lo; i <= hi; i++ {
					if i == ncoefsL {
						break
					}
					c1 := blk.MDCTCoef[0][i] * 0.5
					c2 := blk.MDCTCoef[1][i] * 0.5
					blk.MDCTCoef[0][i] = c1 + c2
					blk.MDCTCoef[1][i] = c1 - c2
				}
			}

			if b != 0 && !blk.RematStr && blk.RematFlag[bnd] != f.Blocks[b-1].RematFlag[bnd] {
				blk.RematStr = true
			}
		}
	}
}
