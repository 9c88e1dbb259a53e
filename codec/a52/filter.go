/*
NAME
  filter.go

DESCRIPTION
  filter.go implements the pre-filter chain applied to each channel
  before windowing and MDCT: a one-pole DC-removal high-pass, a
  cascaded-biquad transient-detect high-pass, a cascaded Butterworth
  channel-bandwidth low-pass, and a cascaded Butterworth LFE low-pass.
  It generalizes codec/pcm's SelectiveFrequencyFilter (a windowed-sinc
  FIR design) into the four IIR filter kinds the encoder actually
  needs, matching the shapes and cutoires the reference encoder uses.

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

	"gonum.org/v1/gonum/floats"
)

// filterKind selects the run function a biquad-shaped filter uses;
// direct form I keeps separate delay lines per cascade stage, direct
// form II shares one canonical state per stage.
type filterKind int

const (
	filterOnePole filterKind = iota
	filterBiquadI
	filterBiquadII
	filterButterworthI
	filterButterworthII
)

type filterType int

const (
	lowpass filterType = iota
	highpass
)

// biquadState holds the five IIR coefficients (b0,b1,b2,a1,a2, all
// normalized by a0; the a terms are subtracted when filtering) and up
// to two cascaded stages' worth of delay-line state.
type biquadState struct {
	coefs    [5]float64
	state    [2][5]float64
	cascaded bool
}

// onePoleState holds a single real pole and its last output sample.
type onePoleState struct {
	p    float64
	last float64
}

// Filter is a single-channel IIR filter built for one sample rate and
// cutoff; it is reused across every frame pulled for that channel so
// its delay lines persist between calls, the way the reference
// encoder's per-channel FilterContext persists across frames.
type Filter struct {
	kind   filterKind
	ftype  filterType
	biquad *biquadState
	pole   *onePoleState
}

// NewOnePole builds a single-pole, no cascade, high/low-pass filter.
// Used for DC removal (highpass, 3 Hz cutoff).
func NewOnePole(ftype filterType, cutoff, sampleRate float64) (*Filter, error) {
	if err := checkCutoff(cutoff, sampleRate); err != nil {
		return nil, err
	}
	fc := cutoff / sampleRate
	o := &onePoleState{}
	omega := 2 * math.Pi * fc
	switch ftype {
	case lowpass:
		cs := 2.0 - math.Cos(omega)
		o.p = cs - math.Sqrt(cs*cs-1.0)
	case highpass:
		cs := 2.0 + math.Cos(omega)
		o.p = cs - math.Sqrt(cs*cs-1.0)
	default:
		return nil, newInternalAssertionError("unknown filter type %d", ftype)
	}
	return &Filter{kind: filterOnePole, ftype: ftype, pole: o}, nil
}

// NewBiquad builds a direct-form-I or -II biquad, optionally cascaded
// (run twice in series), shaped as a standard RBJ lowpass/highpass.
// Used for the transient-detect high-pass (cascaded biquad-I, 8kHz).
func NewBiquad(kind filterKind, ftype filterType, cutoff, sampleRate float64, cascaded bool) (*Filter, error) {
	if err := checkCutoff(cutoff, sampleRate); err != nil {
		return nil, err
	}
	fc := cutoff / sampleRate
	b := &biquadState{cascaded: cascaded}
	generateBiquad(b, ftype, fc)
	return &Filter{kind: kind, ftype: ftype, biquad: b}, nil
}

// NewButterworth builds a 2nd-order Butterworth lowpass/highpass,
// optionally cascaded. Used for the channel-bandwidth low-pass and the
// LFE low-pass (both cascaded direct-form-II).
func NewButterworth(kind filterKind, ftype filterType, cutoff, sampleRate float64, cascaded bool) (*Filter, error) {
	if err := checkCutoff(cutoff, sampleRate); err != nil {
		return nil, err
	}
	fc := cutoff / sampleRate
	b := &biquadState{cascaded: cascaded}
	generateButterworth(b, ftype, fc)
	return &Filter{kind: kind, ftype: ftype, biquad: b}, nil
}

func checkCutoff(cutoff, sampleRate float64) error {
	if sampleRate <= 0 {
		return newConfigError("filter sample rate must be positive")
	}
	if cutoff < 0 || cutoff > sampleRate/2.0 {
		return newConfigError("filter cutoff %f out of range for sample rate %f", cutoff, sampleRate)
	}
	return nil
}

func generateBiquad(b *biquadState, ftype filterType, fc float64) {
	omega := 2.0 * math.Pi * fc
	alpha := math.Sin(omega) / 2.0
	cs := math.Cos(omega)

	a0 := 1.0 + alpha
	a1 := -2.0 * cs
	a2 := 1.0 - alpha
	var b0, b1, b2 float64
	switch ftype {
	case lowpass:
		b0 = (1.0 - cs) / 2.0
		b1 = 1.0 - cs
		b2 = (1.0 - cs) / 2.0
	case highpass:
		b0 = (1.0 + cs) / 2.0
		b1 = -(1.0 + cs)
		b2 = (1.0 + cs) / 2.0
	}
	b.coefs = [5]float64{b0 / a0, b1 / a0, b2 / a0, a1 / a0, a2 / a0}
}

func generateButterworth(b *biquadState, ftype filterType, fc float64) {
	const sqrt2 = math.Sqrt2
	switch ftype {
	case lowpass:
		c := 1.0 / math.Tan(math.Pi*fc)
		c2 := c * c
		k := 1.0 / (c2 + sqrt2*c + 1.0)
		b.coefs = [5]float64{
			k, 2.0 * k, k,
			2.0 * (1.0 - c2) * k,
			(c2 - sqrt2*c + 1.0) * k,
		}
	case highpass:
		c := math.Tan(math.Pi * fc)
		c2 := c * c
		k := 1.0 / (c2 + sqrt2*c + 1.0)
		b.coefs = [5]float64{
			k, -2.0 * k, k,
			2.0 * (c2 - 1.0) * k,
			(c2 - sqrt2*c + 1.0) * k,
		}
	}
}

// Run filters n samples of in into out; in and out may alias for the
// one-pole case but must not for the cascaded biquad/Butterworth case.
func (f *Filter) Run(out, in []float64) {
	switch f.kind {
	case filterOnePole:
		f.runOnePole(out, in)
	case filterBiquadI, filterButterworthI:
		f.runBiquadI(out, in)
	case filterBiquadII, filterButterworthII:
		f.runBiquadII(out, in)
	}
}

func (f *Filter) runOnePole(out, in []float64) {
	o := f.pole
	var p1 float64
	switch f.ftype {
	case lowpass:
		p1 = 1.0 - o.p
	case highpass:
		p1 = o.p - 1.0
	}
	for i := range in {
		v := p1*in[i] + o.p*o.last
		v = clip1(v)
		o.last = v
		out[i] = v
	}
}

func (f *Filter) runBiquadI(out, in []float64) {
	b := f.biquad
	loops := 1
	tmp := in
	if b.cascaded {
		loops = 2
		tmp = append([]float64(nil), in...)
	}
	for j := 0; j < loops; j++ {
		for i := range tmp {
			b.state[j][0] = tmp[i]
			v := b.coefs[0]*b.state[j][0] + b.coefs[1]*b.state[j][1] + b.coefs[2]*b.state[j][2]
			v -= b.coefs[3]*b.state[j][3] + b.coefs[4]*b.state[j][4]
			b.state[j][2] = b.state[j][1]
			b.state[j][1] = b.state[j][0]
			b.state[j][4] = b.state[j][3]
			b.state[j][3] = v
			out[i] = clip1(v)
		}
		if b.cascaded && j != loops-1 {
			tmp = append(tmp[:0], out...)
		}
	}
}

func (f *Filter) runBiquadII(out, in []float64) {
	b := f.biquad
	loops := 1
	tmp := in
	if b.cascaded {
		loops = 2
		tmp = append([]float64(nil), in...)
	}
	for j := 0; j < loops; j++ {
		for i := range tmp {
			b.state[j][0] = tmp[i]
			v := b.coefs[0]*b.state[j][0] + b.state[j][1]
			b.state[j][1] = b.coefs[1]*b.state[j][0] - b.coefs[3]*v + b.state[j][2]
			b.state[j][2] = b.coefs[2]*b.state[j][0] - b.coefs[4]*v
			out[i] = clip1(v)
		}
		if b.cascaded && j != loops-1 {
			tmp = append(tmp[:0], out...)
		}
	}
}

func clip1(v float64) float64 {
	if v < -1.0 {
		return -1.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// peakAbs returns the largest absolute sample value in s, used by the
// transient detector's three level checks.
func peakAbs(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return math.Max(floats.Max(s), -floats.Min(s))
}
