/*
NAME
  quantize.go

DESCRIPTION
  quantize.go quantizes MDCT coefficients into mantissas according to
  each coefficient's bap value: symmetric quantization on 3/5/7/11/15
  levels (with 2-or-3-way mantissa grouping for the 3/5/11-level cases,
  since those don't divide evenly into whole bits), or asymmetric
  quantization otherwise: 2^(bap-1) levels for bap 6..13, 2^14 levels
  for bap 14 and 2^16 levels for bap 15.

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

// mantissaGroupSentinel marks a qmant slot whose value was folded into
// an earlier slot's combined code word; the packer must not emit bits
// for a sentinel slot.
const mantissaGroupSentinel = 128

// symQuant performs symmetric quantization of a 24-bit fixed-point
// coefficient c at exponent e onto `levels` levels (3, 5, 7, 11 or 15).
func symQuant(c, e, levels int) int {
	return ((((levels*c)>>uint(24-e))+1)>>1 + (levels >> 1))
}

// asymQuant performs asymmetric quantization onto 2^qbits levels.
func asymQuant(c, e, qbits int) int {
	lshift := e + (qbits - 1) - 24
	var v int
	if lshift >= 0 {
		v = c << uint(lshift)
	} else {
		v = c >> uint(-lshift)
	}
	m := 1 << uint(qbits-1)
	v = clampInt(v, -m, m-1)
	return v & ((1 << uint(qbits)) - 1)
}

// quantizeMantissas quantizes every transmitted coefficient of every
// channel in a block, grouping bap==1 (3 values/codeword), bap==2 (3
// values/codeword) and bap==4 (2 values/codeword) mantissas into their
// combined code words and marking the folded-in slots as sentinels.
func quantizeMantissas(blk *BlockState, nAllChannels int, ncoefs *[maxChannels]int) {
	var mant1Cnt, mant2Cnt, mant4Cnt int
	var qmant1Ptr, qmant2Ptr, qmant4Ptr *int

	for ch := 0; ch < nAllChannels; ch++ {
		for i := 0; i < ncoefs[ch]; i++ {
			c := int(blk.MDCTCoef[ch][i] * float64(int64(1)<<24))
			e := int(blk.Exp[ch][i])
			b := blk.Bap[ch][i]

			var v int
			switch b {
			case 0:
				v = 0
			case 1:
				v = symQuant(c, e, 3)
				switch mant1Cnt {
				case 0:
					qmant1Ptr = &blk.QMant[ch][i]
					v = 9 * v
				case 1:
					*qmant1Ptr += 3 * v
					v = mantissaGroupSentinel
				default:
					*qmant1Ptr += v
					v = mantissaGroupSentinel
				}
				mant1Cnt = (mant1Cnt + 1) % 3
			case 2:
				v = symQuant(c, e, 5)
				switch mant2Cnt {
				case 0:
					qmant2Ptr = &blk.QMant[ch][i]
					v = 25 * v
				case 1:
					*qmant2Ptr += 5 * v
					v = mantissaGroupSentinel
				default:
					*qmant2Ptr += v
					v = mantissaGroupSentinel
				}
				mant2Cnt = (mant2Cnt + 1) % 3
			case 3:
				v = symQuant(c, e, 7)
			case 4:
				v = symQuant(c, e, 11)
				if mant4Cnt == 0 {
					qmant4Ptr = &blk.QMant[ch][i]
					v = 11 * v
				} else {
					*qmant4Ptr += v
					v = mantissaGroupSentinel
				}
				mant4Cnt = (mant4Cnt + 1) % 2
			case 5:
				v = symQuant(c, e, 15)
			case 14:
				v = asymQuant(c, e, 14)
			case 15:
				v = asymQuant(c, e, 16)
			default:
				v = asymQuant(c, e, b-1)
			}
			blk.QMant[ch][i] = v
		}
	}
}
