/*
NAME
  config.go

DESCRIPTION
  config.go defines the encoder's configuration and stream metadata
  structs, plus the Validate pass that runs once at construction time.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package a52 implements the core encoding pipeline of an A/52 (AC-3)
// perceptual audio encoder: windowing and MDCT, exponent extraction,
// stereo rematrixing, psychoacoustic masking, bit allocation, mantissa
// quantization and MSB-first bitstream packing with CRC-16 protection.
//
// The package does not parse any container or WAV header, does not
// implement a decoder, E-AC-3, or the coupling channel; those are left
// to callers, matching the "pull interface" boundary described for the
// rest of the pipeline.
package a52

import "github.com/ausocean/utils/logging"

// Log is the package-level logger, nil by default, following the same
// convention codec/jpeg and codec/codecutil use. No code in this
// package writes to it.
var Log logging.Logger

// EncodingMode selects how the bit-allocation search paces itself
// across frames.
type EncodingMode int

const (
	// CBR targets a fixed bitrate; every frame has the frame size of
	// the bitrate's even frmsizecod entry. Frame size does not
	// alternate between frames to track a fractional bits-per-frame
	// count, so at 44.1 kHz the stream runs slightly below the nominal
	// bitrate.
	CBR EncodingMode = iota
	// VBR targets a fixed perceptual quality; frame size is chosen
	// from the frmsizecod table to fit the allocation at that quality.
	VBR
)

// acmod identifies the Dolby channel configuration; it both selects the
// channel count and governs which mix-level fields appear in the
// bitstream header.
type acmod int

const (
	ACMod1_0 acmod = 1 // C
	ACMod2_0 acmod = 2 // L, R
	ACMod3_0 acmod = 3 // L, C, R
	ACMod2_1 acmod = 4 // L, R, S
	ACMod3_1 acmod = 5 // L, C, R, S
	ACMod2_2 acmod = 6 // L, R, SL, SR
	ACMod3_2 acmod = 7 // L, C, R, SL, SR

	acModDualMono acmod = 0 // 1+1, two independent mono programs
)

// acmodToChannels mirrors util.c's acmod_to_ch: total non-LFE channel
// count per acmod index 0..7.
var acmodToChannels = [8]int{2, 1, 2, 3, 3, 4, 4, 5}

// Metadata carries the Dolby audio-production fields that ride in the
// bitstream header alongside the coded audio. Zero value is a
// conservative, silent default (no dialnorm attenuation, no extended
// bitstream info).
type Metadata struct {
	DialNorm int // dialnorm code, 1..31 (31 == -31dBFS reference level, aften default)

	CMixLev  int // center mix level code, used when acmod has a center channel
	SurMixLev int // surround mix level code, used when acmod has surrounds
	DSurMod  int // dsurmod, used only for 2/0 (stereo) acmod

	XBSI1E       bool // extended bitstream info 1 present
	DMixMod      int
	LtRtCMixLev  int
	LtRtSMixLev  int
	LoRoCMixLev  int
	LoRoSMixLev  int

	XBSI2E        bool // extended bitstream info 2 present
	DSurExMod     int
	DHeadphonMod  int
	ADConvType    int
}

// DRCProfile selects a dynamic-range compression curve applied to the
// per-block dynrng code. See dynrng.go.
type DRCProfile int

const (
	DRCNone DRCProfile = iota
	DRCFilmLight
	DRCFilmStandard
	DRCMusicLight
	DRCMusicStandard
	DRCSpeech
)

// EncoderConfig is the full set of parameters an Encoder is built from.
// Construction fails closed: NewEncoder only ever returns a usable
// *Encoder, never one that is partially configured.
type EncoderConfig struct {
	SampleRate int // 48000, 44100, 32000, or their /2 and /4 half-rate variants
	Channels   int // total input channels, 1..6, including LFE if present
	LFE        bool

	Mode      EncodingMode
	BitRate   int // kbps, CBR only; 0 selects the channel-count default
	Quality   int // 0..1023, VBR only
	// Bandwidth selects the channel bandwidth policy: -2 is automatic
	// (bitrate-scaled, the same coefficient count for every channel),
	// -1 is adaptive-per-stream (each channel's cutoff is derived from
	// its own share of the target bitrate rather than a single shared
	// value), and 0..60 is an explicit bwcode applied to every channel.
	Bandwidth int

	UseBlockSwitching bool
	UseRematrixing    bool
	UseDCFilter       bool
	UseBWFilter       bool
	UseLFEFilter      bool

	// FastBitAlloc trades bit-allocation accuracy for speed: the coarse
	// SNR-offset search skips the fine per-step refinement pass.
	FastBitAlloc bool
	// FastExpStrategy makes the exponent-strategy search use
	// fastCandidateStrategies, which codes every new block as D25,
	// instead of the run-length-dependent D15/D25/D45 rows. Both tables
	// have 32 rows, so the search is not shorter.
	FastExpStrategy bool

	DRC DRCProfile

	Meta Metadata
}

// acmodBitRateDefault mirrors aften_encode_init's per-channel-count CBR
// default bitrate table (kbps).
var acmodBitRateDefault = map[int]int{1: 96, 2: 192, 3: 256, 4: 384, 5: 448}

// resolved holds the values Validate derives from the raw config so the
// rest of the pipeline never has to re-derive them.
type resolved struct {
	fscod        int
	halfratecod  int
	bsid         int
	acmod        acmod
	nChannels    int // non-LFE channels
	nAllChannels int // total channels including LFE
	lfeChannel   int // index of the LFE channel, or -1
	frmsizecod   int
	bitrate      int // kbps, effective target (CBR) or seed (VBR)
}

// Validate checks an EncoderConfig for internal consistency and derives
// the bitstream-level fields (fscod, acmod, bsid, frmsizecod) a caller
// never sets directly. It returns a *ConfigError, never a bare error,
// so callers can type-assert uniformly.
func (c *EncoderConfig) Validate() (*resolved, error) {
	if c.Channels < 1 || c.Channels > 6 {
		return nil, newConfigError("channels must be 1..6, got %d", c.Channels)
	}
	if c.Channels == 6 && !c.LFE {
		return nil, newConfigError("6-channel audio must carry an LFE channel")
	}
	if c.Channels == 1 && c.LFE {
		return nil, newConfigError("cannot encode a stand-alone LFE channel")
	}

	nAll := c.Channels
	nCh := c.Channels
	lfeCh := -1
	if c.LFE {
		nCh--
		lfeCh = c.Channels - 1
	}

	acm, ok := acmodForChannels(nCh)
	if !ok {
		return nil, newConfigError("no acmod for %d non-LFE channels", nCh)
	}

	fscod, halfratecod, ok := fscodFor(c.SampleRate)
	if !ok {
		return nil, newConfigError("unsupported sample rate %d", c.SampleRate)
	}

	bsid := 8
	if halfratecod != 0 {
		bsid = 8 + halfratecod
	} else if c.Meta.XBSI1E || c.Meta.XBSI2E {
		bsid = 6
	}

	brate := c.BitRate
	switch c.Mode {
	case CBR:
		if brate == 0 {
			def, ok := acmodBitRateDefault[nCh]
			if !ok {
				return nil, newConfigError("no default bitrate for %d channels; set BitRate explicitly", nCh)
			}
			brate = def
		}
	case VBR:
		if c.Quality < 0 || c.Quality > 1023 {
			return nil, newConfigError("quality must be 0..1023, got %d", c.Quality)
		}
	default:
		return nil, newConfigError("unknown encoding mode %d", c.Mode)
	}

	idx := -1
	for i, r := range a52BitrateTab {
		if (r >> uint(halfratecod)) == brate {
			idx = i
			break
		}
	}
	if idx == -1 {
		if c.Mode == CBR {
			return nil, newConfigError("invalid CBR bitrate %d kbps", brate)
		}
		idx = len(a52BitrateTab) - 1
	}

	if c.Bandwidth < -2 || c.Bandwidth > 60 {
		return nil, newConfigError("bandwidth code must be -2..60 (-1 adaptive-per-stream, -2 automatic), got %d", c.Bandwidth)
	}
	if c.UseBWFilter && c.Bandwidth <= -1 {
		return nil, newConfigError("cannot use the bandwidth filter with automatic or adaptive-per-stream bandwidth")
	}
	if c.UseLFEFilter && !c.LFE {
		return nil, newConfigError("cannot use the LFE filter without an LFE channel")
	}

	r := &resolved{
		fscod:        fscod,
		halfratecod:  halfratecod,
		bsid:         bsid,
		acmod:        acm,
		nChannels:    nCh,
		nAllChannels: nAll,
		lfeChannel:   lfeCh,
		frmsizecod:   idx * 2,
		bitrate:      a52BitrateTab[idx] >> uint(halfratecod),
	}
	return r, nil
}

// acmodForChannels mirrors util.c's ch_to_acmod for the non-extensible
// (plain WAV) case: the default acmod for N non-LFE channels.
func acmodForChannels(n int) (acmod, bool) {
	switch n {
	case 1:
		return ACMod1_0, true
	case 2:
		return ACMod2_0, true
	case 3:
		return ACMod3_0, true
	case 4:
		return ACMod3_1, true
	case 5:
		return ACMod3_2, true
	default:
		return 0, false
	}
}

// fscodFor finds the (fscod, halfratecod) pair for a sample rate, where
// halfratecod selects the /2 or /4 "DolbyNet" half-rate variants of the
// three canonical A/52 frequencies.
func fscodFor(rate int) (fscod, halfratecod int, ok bool) {
	for hr := 0; hr < 3; hr++ {
		for fs, base := range a52Freqs {
			if (base >> uint(hr)) == rate {
				return fs, hr, true
			}
		}
	}
	return 0, 0, false
}
