/*
NAME
  sampleconv.go

DESCRIPTION
  sampleconv.go converts interleaved PCM sample buffers in any of the
  formats the encoder accepts (U8, S16, S20, S24, S32, F32, F64) into
  the de-interleaved float64 channel buffers the core pipeline
  operates on, and remaps WAV channel order onto A/52 channel order.

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
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// SampleFormat identifies the binary layout of one interleaved PCM
// sample, mirroring codec/pcm.SampleFormat's style but covering the
// full set aften.c's fmt_convert handles.
type SampleFormat int

const (
	U8 SampleFormat = iota
	S16LE
	S20LE
	S24LE
	S32LE
	F32LE
	F64LE
)

// BytesPerSample returns the on-the-wire width of one sample in f.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case U8:
		return 1
	case S16LE:
		return 2
	case S20LE, S24LE:
		return 3
	case S32LE, F32LE:
		return 4
	case F64LE:
		return 8
	default:
		return 0
	}
}

// Deinterleave converts an interleaved PCM buffer of the given format
// and channel count into nChannels float64 slices, each scaled to
// [-1, 1). frames is the number of sample frames data holds.
func Deinterleave(data []byte, format SampleFormat, nChannels int) ([][]float64, error) {
	width := format.BytesPerSample()
	if width == 0 {
		return nil, errors.Errorf("unsupported sample format %d", format)
	}
	frameBytes := width * nChannels
	if len(data)%frameBytes != 0 {
		return nil, errors.Errorf("data length %d is not a multiple of frame size %d", len(data), frameBytes)
	}
	frames := len(data) / frameBytes

	out := make([][]float64, nChannels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}

	for i := 0; i < frames; i++ {
		base := i * frameBytes
		for ch := 0; ch < nChannels; ch++ {
			s := data[base+ch*width : base+(ch+1)*width]
			out[ch][i] = decodeSample(s, format)
		}
	}
	return out, nil
}

// decodeSample reads one sample of the given format and scales it to a
// float64 in [-1, 1).
func decodeSample(b []byte, format SampleFormat) float64 {
	switch format {
	case U8:
		return (float64(b[0]) - 128) / 128
	case S16LE:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768
	case S20LE:
		// 20-bit samples travel in a 3-byte container holding the
		// sign-extended value in its low 20 bits.
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		v <<= 8
		return float64(v>>8) / float64(1<<19)
	case S24LE:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= ^int32(0xffffff)
		}
		return float64(v) / float64(1<<23)
	case S32LE:
		return float64(int32(binary.LittleEndian.Uint32(b))) / float64(1<<31)
	case F32LE:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case F64LE:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	default:
		return 0
	}
}

// wavChannelOrder gives, for each acmod, the WAV/Microsoft channel
// order the input is assumed to arrive in (L, R, C, LFE, SL, SR),
// mirroring util.c's wav_chmap.
var wavChannelOrder = map[acmod][]int{
	ACMod1_0: {0},          // C
	ACMod2_0: {0, 1},       // L, R
	ACMod3_0: {0, 1, 2},    // L, R, C
	ACMod2_1: {0, 1, 2},    // L, R, S
	ACMod3_1: {0, 1, 2, 3}, // L, R, C, S
	ACMod2_2: {0, 1, 2, 3}, // L, R, SL, SR
	ACMod3_2: {0, 1, 2, 3, 4},
}

// a52ChannelOrder gives the A/52 bitstream channel order (the order
// processExponents/calcRematrixing/etc. expect) for each acmod, using
// the same source indices as wavChannelOrder but permuted, mirroring
// util.c's remap_wav_to_a52_* family.
var a52ChannelOrder = map[acmod][]int{
	ACMod1_0: {0},
	ACMod2_0: {0, 1},
	ACMod3_0: {0, 2, 1},       // L, C, R
	ACMod2_1: {0, 1, 2},       // L, R, S
	ACMod3_1: {0, 2, 1, 3},    // L, C, R, S
	ACMod2_2: {0, 1, 2, 3},    // L, R, SL, SR
	ACMod3_2: {0, 2, 1, 3, 4}, // L, C, R, SL, SR
}

// RemapWAVToA52 reorders a de-interleaved set of WAV-ordered channel
// buffers into A/52 bitstream order for the given acmod. The LFE
// channel, if present, is taken from the last input channel and
// appended unchanged; an LFE channel placed elsewhere in the input (as
// in the WAV order above, where it follows C) is not located.
func RemapWAVToA52(channels [][]float64, acm acmod, lfe bool) ([][]float64, error) {
	order, ok := a52ChannelOrder[acm]
	if !ok {
		return nil, errors.Errorf("no channel remap for acmod %d", acm)
	}
	want := len(order)
	if lfe {
		want++
	}
	if len(channels) != want {
		return nil, errors.Errorf("expected %d channels for acmod %d (lfe=%v), got %d", want, acm, lfe, len(channels))
	}

	out := make([][]float64, 0, want)
	for _, srcIdx := range order {
		out = append(out, channels[srcIdx])
	}
	if lfe {
		out = append(out, channels[len(channels)-1])
	}
	return out, nil
}
