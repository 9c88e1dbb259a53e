/*
NAME
  encoder.go

DESCRIPTION
  encoder.go is the package's public entry point: Encoder wraps a
  validated EncoderConfig together with everything that must persist
  across frames (per-channel filter delay lines, the 256-sample
  analysis history, and the CBR SNR-offset search state), and
  EncodeFrame runs one 1536-sample frame through the full pipeline:
  filter -> transient-detect -> window/MDCT -> rematrix -> exponents ->
  bit allocation -> quantize -> pack.

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

// historyLen is the number of trailing samples per channel carried
// from one frame into the next so each frame's first block can form a
// full 512-sample, 50%-overlapped analysis window.
const historyLen = 256

// Encoder turns successive 1536-sample, A/52-channel-ordered frames of
// float64 audio into encoded A/52 bitstream frames.
type Encoder struct {
	cfg EncoderConfig
	res *resolved

	dcFilter        [maxChannels]*Filter
	bwFilter        [maxChannels]*Filter
	transientFilter [maxChannels]*Filter

	history  [maxChannels][historyLen]float64
	ncoefs   [maxChannels]int
	alloc    cbrAllocState
	frameNum int
}

// NewEncoder validates cfg and builds a ready-to-use Encoder. It never
// returns a partially-usable Encoder: any error here means cfg was
// rejected outright.
func NewEncoder(cfg EncoderConfig) (*Encoder, error) {
	res, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	e := &Encoder{cfg: cfg, res: res}
	sampleRate := float64(cfg.SampleRate)

	for ch := 0; ch < res.nAllChannels; ch++ {
		isLFE := ch == res.lfeChannel

		if cfg.UseDCFilter {
			f, err := NewOnePole(highpass, 3.0, sampleRate)
			if err != nil {
				return nil, err
			}
			e.dcFilter[ch] = f
		}

		tf, err := NewBiquad(filterBiquadI, highpass, 8000.0, sampleRate, true)
		if err != nil {
			return nil, err
		}
		e.transientFilter[ch] = tf

		if isLFE {
			if cfg.UseLFEFilter {
				f, err := NewButterworth(filterButterworthII, lowpass, 120.0, sampleRate, true)
				if err != nil {
					return nil, err
				}
				e.bwFilter[ch] = f
			}
			e.ncoefs[ch] = 7
			continue
		}

		e.ncoefs[ch] = channelBandwidthCoefs(cfg.Bandwidth, res.bitrate, res.nChannels, ch)
		if cfg.UseBWFilter {
			cutoff := bandwidthCutoffHz(cfg.Bandwidth, sampleRate)
			f, err := NewButterworth(filterButterworthII, lowpass, cutoff, sampleRate, true)
			if err != nil {
				return nil, err
			}
			e.bwFilter[ch] = f
		}
	}

	e.alloc.lastCSNROffst = 15 // aften_encode_init's initial coarse SNR offset

	return e, nil
}

// channelBandwidthCoefs picks the number of transmitted MDCT
// coefficients (37..253) for a non-LFE channel.
//
// Automatic bandwidth (-2) scales with the stream's overall per-channel
// share of the target bitrate, the same trade-off frame_init makes
// when deriving a default bwcode, and gives every channel the same
// coefficient count.
//
// Adaptive-per-stream bandwidth (-1) instead derives each channel's own
// share from its position in the channel layout: front channels (L/C/R)
// carry the bulk of program energy and get 6/5 of the per-channel
// share, while surround channels (present once nChannels >= 4, from
// index 3 on) get 4/5 of it, since they typically carry less energy
// and spectral content in practice. chIdx is the channel's index among
// the non-LFE channels.
//
// An explicit bwcode (0..60) maps directly via the reference encoder's
// ncoefs = 3*bwcode + 73 relation.
func channelBandwidthCoefs(bwcode, bitrateKbps, nChannels, chIdx int) int {
	switch bwcode {
	case -2:
		bwcode = bwcodeForShare(bitrateKbps / nChannels)
	case -1:
		isSurround := nChannels >= 4 && chIdx >= 3
		share := bitrateKbps / nChannels
		if isSurround {
			share = share * 4 / 5
		} else {
			share = share * 6 / 5
		}
		bwcode = bwcodeForShare(share)
	}
	n := 3*bwcode + 73
	return clampInt(n, 37, maxCoefs)
}

// bwcodeForShare maps a channel's per-channel bitrate share (kbps) to
// the bandwidth code frame_init's automatic-bandwidth heuristic uses.
func bwcodeForShare(perChannelKbps int) int {
	switch {
	case perChannelKbps >= 128:
		return 60
	case perChannelKbps >= 64:
		return 52
	case perChannelKbps >= 32:
		return 36
	default:
		return 20
	}
}

// bandwidthCutoffHz is the low-pass cutoff frequency implied by a
// bandwidth code, linearly spanning 4kHz (bwcode 0) to the Nyquist-ish
// upper edge (bwcode 60) the channel bandwidth filter targets.
func bandwidthCutoffHz(bwcode int, sampleRate float64) float64 {
	if bwcode < 0 {
		bwcode = 60
	}
	lo, hi := 4000.0, sampleRate/2*0.98
	return lo + (hi-lo)*float64(bwcode)/60.0
}

// EncodeFrame encodes one frame. channels must hold exactly
// res.nAllChannels slices, each exactly samplesPerFrame samples long,
// in A/52 bitstream channel order (see RemapWAVToA52).
func (e *Encoder) EncodeFrame(channels [][]float64) ([]byte, error) {
	if len(channels) != e.res.nAllChannels {
		return nil, newInputFormatError("expected %d channels, got %d", e.res.nAllChannels, len(channels))
	}
	for ch, c := range channels {
		if len(c) != samplesPerFrame {
			return nil, newInputFormatError("channel %d: expected %d samples, got %d", ch, samplesPerFrame, len(c))
		}
	}

	f := newFrameState()
	f.FrameNum = e.frameNum
	f.BitRate = e.res.bitrate
	f.FrmSizeCod = e.res.frmsizecod
	f.NCoefs = e.ncoefs
	// CBR's search reuses this as its fixed frame size; VBR overwrites
	// both fields once it has picked the smallest frame the allocation
	// fits in (see vbrBitAllocation).
	f.FrameSize = frmsizeTab[e.res.frmsizecod][e.res.fscod] / 16

	var filtered [maxChannels][samplesPerFrame]float64
	for ch := 0; ch < e.res.nAllChannels; ch++ {
		e.filterChannel(ch, channels[ch], filtered[ch][:])
	}

	for ch := 0; ch < e.res.nAllChannels; ch++ {
		e.analyzeChannel(f, ch, filtered[ch][:])
	}

	computeDitherStrategy(f.Blocks[:], e.res.nChannels)

	if e.res.acmod == ACMod2_0 {
		calcRematrixing(f, e.ncoefs[0], e.cfg.UseRematrixing)
	}

	for b := range f.Blocks {
		blk := &f.Blocks[b]
		for ch := 0; ch < e.res.nAllChannels; ch++ {
			extractExponentsBlock(&blk.Exp[ch], &blk.MDCTCoef[ch], e.ncoefs[ch])
		}
	}
	for ch := 0; ch < e.res.nAllChannels; ch++ {
		processExponents(f, ch, e.ncoefs[ch], e.cfg.FastExpStrategy)
	}

	for b := range f.Blocks {
		peak := peakAbs(channels[0][b*samplesPerBlock : (b+1)*samplesPerBlock])
		peakDB := dbFromLinear(peak)
		f.Blocks[b].DynRng = EncodeDynrng(e.cfg.DRC, peakDB)
	}

	if err := e.alloc.computeBitAllocation(f, e.cfg.Mode, e.res.fscod, e.res.halfratecod,
		e.res.nChannels, e.res.nAllChannels, e.res.lfeChannel, e.res.lfeChannel >= 0,
		e.res.acmod, e.cfg.Meta.XBSI1E, e.cfg.Meta.XBSI2E, e.cfg.Quality, len(a52BitrateTab)*2-1,
		e.cfg.FastBitAlloc); err != nil {
		return nil, err
	}

	for b := range f.Blocks {
		quantizeMantissas(&f.Blocks[b], e.res.nAllChannels, &e.ncoefs)
	}

	data, err := packFrame(f, &e.cfg, e.res)
	if err != nil {
		return nil, err
	}

	for ch := 0; ch < e.res.nAllChannels; ch++ {
		copy(e.history[ch][:], filtered[ch][samplesPerFrame-historyLen:])
	}
	e.frameNum++
	return data, nil
}

// filterChannel applies the DC and bandwidth/LFE filters (whichever are
// configured) to one channel's raw frame, in place into out. The
// one-pole DC filter tolerates in/out aliasing; the cascaded
// Butterworth bandwidth filter does not, so it runs through a scratch
// buffer.
func (e *Encoder) filterChannel(ch int, in []float64, out []float64) {
	copy(out, in)
	if f := e.dcFilter[ch]; f != nil {
		f.Run(out, out)
	}
	if f := e.bwFilter[ch]; f != nil {
		scratch := make([]float64, len(out))
		f.Run(scratch, out)
		copy(out, scratch)
	}
}

// analyzeChannel builds each of the six blocks' 512-sample analysis
// window (carrying 50% overlap via e.history), runs transient
// detection (skipped for the LFE channel, which never block-switches),
// windows and transforms it, and stores the resulting coefficients.
func (e *Encoder) analyzeChannel(f *FrameState, ch int, filtered []float64) {
	full := make([]float64, historyLen+samplesPerFrame)
	copy(full[:historyLen], e.history[ch][:])
	copy(full[historyLen:], filtered)

	isLFE := ch == e.res.lfeChannel

	// The transient-detect filter is run once, continuously, over the
	// frame's whole history-plus-frame span rather than per 512-sample
	// window, so within a frame the overlap between neighbouring
	// windows is filtered only once. The 256 history samples at the
	// start of the span were already filtered as the previous frame's
	// tail, so they pass through the filter's delay line a second time;
	// no filtered transient history is kept between frames.
	var transientFull []float64
	if !isLFE {
		transientFull = make([]float64, len(full))
		e.transientFilter[ch].Run(transientFull, full)
	}

	for b := 0; b < numBlocks; b++ {
		blk := &f.Blocks[b]
		window := full[b*samplesPerBlock : b*samplesPerBlock+512]
		copy(blk.InputSamples[ch][:], window)

		if !isLFE {
			blk.BlkSw[ch] = detectTransient(transientFull[b*samplesPerBlock : b*samplesPerBlock+512])
		}

		var toTransform [512]float64
		copy(toTransform[:], window)
		applyWindow(toTransform[:])
		forwardMDCT(blk.MDCTCoef[ch][:], toTransform[:], blk.BlkSw[ch])
	}
}

// dbFromLinear converts a linear peak amplitude in [0,1] to dBFS,
// floored at a nominal silence level rather than -Inf for a zero peak.
func dbFromLinear(peak float64) float64 {
	if peak <= 0 {
		return -100
	}
	return 20 * math.Log10(peak)
}
