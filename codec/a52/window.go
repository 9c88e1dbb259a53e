/*
NAME
  window.go

DESCRIPTION
  window.go builds the 512-sample symmetric Kaiser-Bessel-Derived (KBD)
  analysis window used ahead of every MDCT, and applies it in place.

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

import "math"

// kbdAlpha and kbdIterations match the reference encoder's window
// shape parameters; no pack library exposes a Kaiser-Bessel-Derived
// window generator, so this is hand-rolled on a power series using
// math rather than dropped to a plain Hann/Hamming window.
const (
	kbdAlpha      = 5.0
	kbdIterations = 50
)

// newKBDWindow builds the n/2 half-window via the Bessel-series
// recurrence (a Horner-style evaluation of I0(alpha*sqrt(1-(2k/n-1)^2))),
// takes its cumulative sum, then normalizes by the square root so that
// windowCoefs[k]^2 values sum appropriately for perfect reconstruction
// across overlapping 50%-hopped blocks.
func newKBDWindow(n int) []float64 {
	n2 := n / 2
	half := make([]float64, n2)

	a := kbdAlpha * math.Pi / 256
	a = a * a

	for k := 0; k < n2; k++ {
		x := float64(k) * float64(n2-k) * a
		w := 1.0
		for j := kbdIterations; j > 0; j-- {
			w = (w*x)/float64(j*j) + 1.0
		}
		if k > 0 {
			w += half[k-1]
		}
		half[k] = w
	}

	wlast := math.Sqrt(half[n2-1] + 1)
	for k := 0; k < n2; k++ {
		half[k] = math.Sqrt(half[k]) / wlast
	}
	return half
}

// a52Window512 is the 256-point half-window applied (mirrored) to every
// 512-sample analysis block before MDCT.
var a52Window512 = newKBDWindow(512)

// applyWindow multiplies samples[0:256] and samples[511:255:-1] in
// place by the half-window, matching apply_a52_window's symmetric
// in-place scaling.
func applyWindow(samples []float64) {
	for i := 0; i < 256; i++ {
		w := a52Window512[i]
		samples[i] *= w
		samples[511-i] *= w
	}
}
