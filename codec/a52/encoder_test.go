package a52

import "testing"

func silentFrame(nChannels int) [][]float64 {
	chans := make([][]float64, nChannels)
	for ch := range chans {
		chans[ch] = make([]float64, samplesPerFrame)
	}
	return chans
}

func toneFrame(nChannels int, freq, sampleRate float64) [][]float64 {
	chans := make([][]float64, nChannels)
	for ch := range chans {
		s := make([]float64, samplesPerFrame)
		for i := range s {
			// A sine from the sin2pi approximation below, which keeps
			// the fixture free of a math import.
			s[i] = 0.25 * sin2pi(freq*float64(i)/sampleRate)
		}
		chans[ch] = s
	}
	return chans
}

func sin2pi(x float64) float64 {
	const tau = 6.283185307179586
	// Bhaskara I's sine approximation, adequate for exercising the
	// pipeline without importing math just for a test fixture.
	x -= float64(int(x))
	rad := tau * x
	for rad > 3.141592653589793 {
		rad -= tau
	}
	for rad < -3.141592653589793 {
		rad += tau
	}
	pi := 3.141592653589793
	num := 16 * rad * (pi - absF(rad))
	den := 5*pi*pi - 4*absF(rad)*(pi-absF(rad))
	return num / den
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestNewEncoderRejectsInvalidConfig(t *testing.T) {
	_, err := NewEncoder(EncoderConfig{SampleRate: 48000, Channels: 0, Mode: CBR})
	if err == nil {
		t.Fatal("expected NewEncoder to reject an invalid config")
	}
}

func TestEncodeFrameStereoSilence(t *testing.T) {
	enc, err := NewEncoder(EncoderConfig{
		SampleRate: 48000,
		Channels:   2,
		Mode:       CBR,
		BitRate:    192,
	})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	data, err := enc.EncodeFrame(silentFrame(2))
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	if len(data) < 4 {
		t.Fatalf("frame too short: %d bytes", len(data))
	}
	if data[0] != 0x0b || data[1] != 0x77 {
		t.Fatalf("sync word = %02x%02x, want 0b77", data[0], data[1])
	}

	wantSize := frmsizeTab[enc.res.frmsizecod][enc.res.fscod] / 16 * 2
	if len(data) != wantSize {
		t.Fatalf("frame size = %d bytes, want %d", len(data), wantSize)
	}
}

func TestEncodeFrameCRCZeroesOnVerify(t *testing.T) {
	enc, err := NewEncoder(EncoderConfig{
		SampleRate: 48000,
		Channels:   2,
		Mode:       CBR,
		BitRate:    192,
	})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	data, err := enc.EncodeFrame(toneFrame(2, 1000, 48000))
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	frameSizeWords := len(data) / 2
	fs58 := (frameSizeWords >> 1) + (frameSizeWords >> 3)
	split := fs58 * 2

	// spec Testable Property #2: a decoder's forward CRC-16 over the
	// first 5/8 of the frame, starting at the crc1 field itself (not
	// the sync word), must come out to zero.
	if got := crc16(data[2:split]); got != 0 {
		t.Errorf("crc16(data[2:split]) = %#04x, want 0", got)
	}

	// The trailing 3/8 CRC is appended after its own span, so it
	// self-cancels the same way.
	if got := crc16(data[split:]); got != 0 {
		t.Errorf("crc16(data[split:]) = %#04x, want 0", got)
	}
}

func TestEncodeFrameRejectsWrongChannelCount(t *testing.T) {
	enc, err := NewEncoder(EncoderConfig{SampleRate: 48000, Channels: 2, Mode: CBR, BitRate: 192})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if _, err := enc.EncodeFrame(silentFrame(3)); err == nil {
		t.Fatal("expected error for a channel-count mismatch")
	}
}

func TestEncodeFrameRejectsWrongSampleCount(t *testing.T) {
	enc, err := NewEncoder(EncoderConfig{SampleRate: 48000, Channels: 2, Mode: CBR, BitRate: 192})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	chans := [][]float64{make([]float64, 100), make([]float64, 100)}
	if _, err := enc.EncodeFrame(chans); err == nil {
		t.Fatal("expected error for a frame of the wrong sample count")
	}
}

func TestEncodeFrame51WithLFE(t *testing.T) {
	enc, err := NewEncoder(EncoderConfig{
		SampleRate:   48000,
		Channels:     6,
		LFE:          true,
		Mode:         CBR,
		BitRate:      448,
		UseDCFilter:  true,
		UseLFEFilter: true,
	})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	data, err := enc.EncodeFrame(toneFrame(6, 200, 48000))
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty frame")
	}
}

func TestEncodeFrameVBR(t *testing.T) {
	enc, err := NewEncoder(EncoderConfig{
		SampleRate: 48000,
		Channels:   2,
		Mode:       VBR,
		Quality:    440,
	})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	data, err := enc.EncodeFrame(toneFrame(2, 440, 48000))
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty frame")
	}
}

func TestChannelBandwidthCoefsAutomaticIsUniform(t *testing.T) {
	front := channelBandwidthCoefs(-2, 384, 5, 0)
	surround := channelBandwidthCoefs(-2, 384, 5, 4)
	if front != surround {
		t.Fatalf("automatic bandwidth (-2) gave front=%d surround=%d, want equal", front, surround)
	}
}

func TestChannelBandwidthCoefsAdaptiveFavorsFrontChannels(t *testing.T) {
	front := channelBandwidthCoefs(-1, 384, 5, 0)
	surround := channelBandwidthCoefs(-1, 384, 5, 4)
	if front <= surround {
		t.Fatalf("adaptive-per-stream bandwidth (-1) gave front=%d surround=%d, want front > surround", front, surround)
	}
}

func TestChannelBandwidthCoefsExplicitBwcode(t *testing.T) {
	got := channelBandwidthCoefs(30, 384, 2, 0)
	want := clampInt(3*30+73, 37, maxCoefs)
	if got != want {
		t.Fatalf("channelBandwidthCoefs(30, ...) = %d, want %d", got, want)
	}
}

func TestEncodeFrameConsecutiveFramesAdvanceHistory(t *testing.T) {
	enc, err := NewEncoder(EncoderConfig{SampleRate: 48000, Channels: 2, Mode: CBR, BitRate: 192})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := enc.EncodeFrame(toneFrame(2, 300+float64(i)*50, 48000)); err != nil {
			t.Fatalf("EncodeFrame #%d: %v", i, err)
		}
	}
	if enc.frameNum != 3 {
		t.Fatalf("frameNum = %d, want 3", enc.frameNum)
	}
}
