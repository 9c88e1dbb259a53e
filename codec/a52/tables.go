/*
NAME
  tables.go

DESCRIPTION
  tables.go holds the fixed lookup tables the A/52 psychoacoustic model
  and bit allocator are built from: the log-add table, absolute hearing
  threshold table, bit-allocation-pointer table, decay/gain/floor coding
  tables, critical-band boundaries, and the frame-size table.

  Values are ported directly from the reference bit allocator; they are
  part of the A/52 standard's bit-allocation model, not implementation
  choices, so they are kept byte-for-byte.

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

// a52Freqs are the three canonical A/52 sample rates, indexed by fscod.
var a52Freqs = [3]int{48000, 44100, 32000}

// a52BitrateTab are the 19 legal A/52 bitrates in kbps.
var a52BitrateTab = [19]int{
	32, 40, 48, 56, 64, 80, 96, 112, 128,
	160, 192, 224, 256, 320, 384, 448, 512, 576, 640,
}

// latab is the log-add correction table used while integrating PSD
// values into per-band energy: logadd(a,b) = max(a,b) + latab[|a-b|>>1].
var latab = [260]int{
	64, 63, 62, 61, 60, 59, 58, 57, 56, 55,
	54, 53, 52, 52, 51, 50, 49, 48, 47, 47,
	46, 45, 44, 44, 43, 42, 41, 41, 40, 39,
	38, 38, 37, 36, 36, 35, 35, 34, 33, 33,
	32, 32, 31, 30, 30, 29, 29, 28, 28, 27,
	27, 26, 26, 25, 25, 24, 24, 23, 23, 22,
	22, 21, 21, 21, 20, 20, 19, 19, 19, 18,
	18, 18, 17, 17, 17, 16, 16, 16, 15, 15,
	15, 14, 14, 14, 13, 13, 13, 13, 12, 12,
	12, 12, 11, 11, 11, 11, 10, 10, 10, 10,
	10, 9, 9, 9, 9, 9, 8, 8, 8, 8,
	8, 8, 7, 7, 7, 7, 7, 7, 6, 6,
	6, 6, 6, 6, 6, 6, 5, 5, 5, 5,
	5, 5, 5, 5, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// hth is the absolute hearing threshold, indexed by [band][fscod].
var hth = [50][3]int{
	{0x04d0, 0x04f0, 0x0580}, {0x04d0, 0x04f0, 0x0580},
	{0x0440, 0x0460, 0x04b0}, {0x0400, 0x0410, 0x0450},
	{0x03e0, 0x03e0, 0x0420}, {0x03c0, 0x03d0, 0x03f0},
	{0x03b0, 0x03c0, 0x03e0}, {0x03b0, 0x03b0, 0x03d0},
	{0x03a0, 0x03b0, 0x03c0}, {0x03a0, 0x03a0, 0x03b0},
	{0x03a0, 0x03a0, 0x03b0}, {0x03a0, 0x03a0, 0x03b0},
	{0x03a0, 0x03a0, 0x03a0}, {0x0390, 0x03a0, 0x03a0},
	{0x0390, 0x0390, 0x03a0}, {0x0390, 0x0390, 0x03a0},
	{0x0380, 0x0390, 0x03a0}, {0x0380, 0x0380, 0x03a0},
	{0x0370, 0x0380, 0x03a0}, {0x0370, 0x0380, 0x03a0},
	{0x0360, 0x0370, 0x0390}, {0x0360, 0x0370, 0x0390},
	{0x0350, 0x0360, 0x0390}, {0x0350, 0x0360, 0x0390},
	{0x0340, 0x0350, 0x0380}, {0x0340, 0x0350, 0x0380},
	{0x0330, 0x0340, 0x0380}, {0x0320, 0x0340, 0x0370},
	{0x0310, 0x0320, 0x0360}, {0x0300, 0x0310, 0x0350},
	{0x02f0, 0x0300, 0x0340}, {0x02f0, 0x02f0, 0x0330},
	{0x02f0, 0x02f0, 0x0320}, {0x02f0, 0x02f0, 0x0310},
	{0x0300, 0x02f0, 0x0300}, {0x0310, 0x0300, 0x02f0},
	{0x0340, 0x0320, 0x02f0}, {0x0390, 0x0350, 0x02f0},
	{0x03e0, 0x0390, 0x0300}, {0x0420, 0x03e0, 0x0310},
	{0x0460, 0x0420, 0x0330}, {0x0490, 0x0450, 0x0350},
	{0x04a0, 0x04a0, 0x03c0}, {0x0460, 0x0490, 0x0410},
	{0x0440, 0x0460, 0x0470}, {0x0440, 0x0440, 0x04a0},
	{0x0520, 0x0480, 0x0460}, {0x0800, 0x0630, 0x0440},
	{0x0840, 0x0840, 0x0450}, {0x0840, 0x0840, 0x04e0},
}

// baptab maps a 6-bit address (derived from psd - mask) to one of the
// 16 bit-allocation pointer values.
var baptab = [64]int{
	0, 1, 1, 1, 1, 1, 2, 2, 3, 3, 3, 4, 4, 5, 5, 6,
	6, 6, 6, 7, 7, 7, 7, 8, 8, 8, 8, 9, 9, 9, 9, 10,
	10, 10, 10, 11, 11, 11, 11, 12, 12, 12, 12, 13, 13, 13, 13, 14,
	14, 14, 14, 14, 14, 14, 14, 15, 15, 15, 15, 15, 15, 15, 15, 15,
}

var sdecaytab = [4]int{0x0f, 0x11, 0x13, 0x15}
var fdecaytab = [4]int{0x3f, 0x53, 0x67, 0x7b}
var sgaintab = [4]int{0x540, 0x4d8, 0x478, 0x410}
var dbkneetab = [4]int{0x000, 0x700, 0x900, 0xb00}
var floortab = [8]int{0x2f0, 0x2b0, 0x270, 0x230, 0x1f0, 0x170, 0x0f0, -0x800}
var fgaintab = [8]int{0x080, 0x100, 0x180, 0x200, 0x280, 0x300, 0x380, 0x400}

// bndsz is the width, in MDCT coefficients, of each of the 50 critical
// bands starting at coefficient 0.
var bndsz = [50]int{
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 3, 3, 3, 3, 3, 3,
	3, 6, 6, 6, 6, 6, 6, 12, 12, 12, 12, 24, 24, 24, 24, 24,
}

// rematBndTab gives the [start,end] coefficient range of each of the
// four rematrixing bands.
var rematBndTab = [4][2]int{{13, 24}, {25, 36}, {37, 60}, {61, 252}}

// psdTab, bndTab, maskTab, frmsizeTab and expSizeTab are derived tables,
// built once in init() the way bitalloc_init() builds them.
var (
	psdTab     [25]int
	bndTab     [51]int
	maskTab    [253]int
	frmsizeTab [38][3]int  // in bits, indexed by [frmsizecod][fscod]
	expSizeTab [3][256]int // in bits, indexed by [strategy-1][ncoefs]
)

func init() {
	for i := 0; i < 25; i++ {
		psdTab[i] = 3072 - (i << 7)
	}

	k, l, i := 0, 0, 0
	bndTab[i] = l
	for i < 50 {
		v := bndsz[i]
		for j := 0; j < v; j++ {
			maskTab[k] = i
			k++
		}
		l += v
		i++
		bndTab[i] = l
	}

	for i := 0; i < 19; i++ {
		for j := 0; j < 3; j++ {
			v := a52BitrateTab[i] * 96000 / a52Freqs[j]
			frmsizeTab[i*2][j] = v * 16
			frmsizeTab[i*2+1][j] = v * 16
			if j == 1 {
				frmsizeTab[i*2+1][j] += 16
			}
		}
	}

	for strat := 1; strat < 4; strat++ {
		for nc := 0; nc < 256; nc++ {
			grpsize := strat
			if strat == expD45 {
				grpsize = 4
			}
			var ngrps int
			if nc == 7 {
				ngrps = 2
			} else {
				ngrps = (nc + (grpsize * 3) - 4) / (3 * grpsize)
			}
			expSizeTab[strat-1][nc] = 4 + ngrps*7 // 4-bit DC exponent + ngrps 7-bit group codes
		}
	}
}
