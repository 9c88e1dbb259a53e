/*
NAME
  mdct.go

DESCRIPTION
  mdct.go implements the 512-point and two-interleaved-256-point
  Modified Discrete Cosine Transforms used to turn a windowed time
  block into 256 frequency coefficients. Both run as a DCT-IV built
  from a pre-rotation, a complex FFT, and a post-rotation, using
  github.com/mjibson/go-dsp/fft for the FFT step (the same package the
  teacher repository's codec/pcm filters use for fastConvolve). Because
  that FFT is unnormalized (unlike the reference encoder's hand-rolled
  one, which halves every butterfly output), dctIV applies the missing
  1/(n/4) scale explicitly after the transform.

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

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// mdctTwiddle holds the pre/post-rotation twiddle factors for one DCT-IV
// size, matching mdct_init's xc/xs tables.
type mdctTwiddle struct {
	n  int // transform size (256 or 512)
	rc []float64
	rs []float64
}

func newMDCTTwiddle(n int) *mdctTwiddle {
	n2 := n / 2
	n4 := n / 4
	rc := make([]float64, n4)
	rs := make([]float64, n4)
	for i := 0; i < n4; i++ {
		alpha := math.Pi * (float64(i) + 0.125) / float64(n2)
		rc[i] = -math.Cos(alpha)
		rs[i] = -math.Sin(alpha)
	}
	return &mdctTwiddle{n: n, rc: rc, rs: rs}
}

var (
	twiddle256 = newMDCTTwiddle(256)
	twiddle512 = newMDCTTwiddle(512)
)

// dctIV computes a size-n DCT-IV of in (length n), writing n/2 values
// to out, via pre-rotation + complex FFT of size n/4 + post-rotation.
//
// The reference encoder's hand-rolled fft() (dsp.c) halves both
// butterfly outputs at every one of its log2(n/4) stages, which bakes
// a cumulative 1/(n/4) normalization into the transform itself.
// fft.FFT is an unnormalized forward transform, so that scale has to
// be applied explicitly here or every coefficient downstream comes out
// n/4 times too large.
func dctIV(tw *mdctTwiddle, out, in []float64) {
	n := tw.n
	n2 := n / 2
	n4 := n / 4
	scale := 1.0 / float64(n4)

	x := make([]complex128, n4)
	for i := 0; i < n4; i++ {
		re := (in[2*i] - in[n-1-2*i]) / 2.0
		im := -(in[n2+2*i] - in[n2-1-2*i]) / 2.0
		rot := complex(-tw.rc[i], tw.rs[i])
		x[i] = complex(re, im) * rot
	}

	x = fft.FFT(x)

	for i := 0; i < n4; i++ {
		rot := complex(tw.rs[i], tw.rc[i])
		v := x[i] * rot * complex(scale, 0)
		out[2*i] = imag(v)
		out[n2-1-2*i] = real(v)
	}
}

// mdct512 computes the 512-point MDCT (long block) of a 512-sample
// windowed input, producing 256 coefficients. The reference encoder's
// pre-shuffle (xx[i]=-in[i+384] for i<128, else in[i-128]) absorbs the
// 50%-overlap history into the transform input.
func mdct512(out, in []float64) {
	xx := make([]float64, 512)
	for i := 0; i < 128; i++ {
		xx[i] = -in[i+384]
	}
	for i := 128; i < 512; i++ {
		xx[i] = in[i-128]
	}
	dctIV(twiddle512, out, xx)
}

// mdct256 computes two interleaved 256-point MDCTs (short blocks) of a
// 512-sample windowed input, producing 256 coefficients split evenly
// between the two half-blocks.
func mdct256(out, in []float64) {
	coefA := make([]float64, 128)
	coefB := make([]float64, 128)
	xx := make([]float64, 256)

	dctIV(twiddle256, coefA, in)

	for i := 0; i < 128; i++ {
		xx[i] = -in[i+384]
		xx[i+128] = in[i+256]
	}
	dctIV(twiddle256, coefB, xx)

	for i := 0; i < 128; i++ {
		out[2*i] = coefA[i]
		out[2*i+1] = coefB[i]
	}
}

// forwardMDCT dispatches on blksw: a 1 (transient detected) selects two
// 256-point transforms for better time resolution, a 0 selects the
// single 512-point long transform for better frequency resolution.
func forwardMDCT(out, in []float64, shortBlock bool) {
	if shortBlock {
		mdct256(out, in)
	} else {
		mdct512(out, in)
	}
}
