package a52

import "testing"

func TestValidateRejectsBadChannelCount(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 0, Mode: CBR}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero channels")
	}
}

func TestValidateRejects6ChannelsWithoutLFE(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 6, LFE: false, Mode: CBR}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("expected error for 6 channels without LFE")
	}
}

func TestValidateRejectsStandaloneLFE(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 1, LFE: true, Mode: CBR}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a stand-alone LFE channel")
	}
}

func TestValidateRejectsUnsupportedSampleRate(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 12345, Channels: 2, Mode: CBR}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("expected error for an unsupported sample rate")
	}
}

func TestValidateStereoDefaults(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 2, Mode: CBR}
	r, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if r.acmod != ACMod2_0 {
		t.Errorf("acmod = %v, want ACMod2_0", r.acmod)
	}
	if r.nChannels != 2 || r.nAllChannels != 2 || r.lfeChannel != -1 {
		t.Errorf("unexpected channel layout: %+v", r)
	}
	if r.bitrate != 192 {
		t.Errorf("default stereo bitrate = %d, want 192", r.bitrate)
	}
}

func TestValidateFiveOneLayout(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 6, LFE: true, Mode: CBR}
	r, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if r.acmod != ACMod3_2 {
		t.Errorf("acmod = %v, want ACMod3_2", r.acmod)
	}
	if r.nChannels != 5 || r.nAllChannels != 6 || r.lfeChannel != 5 {
		t.Errorf("unexpected channel layout: %+v", r)
	}
}

func TestValidateRejectsInvalidCBRBitrate(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 2, Mode: CBR, BitRate: 1}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a bitrate not in the A/52 table")
	}
}

func TestValidateVBRQualityRange(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 2, Mode: VBR, Quality: 2000}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range VBR quality")
	}
}

func TestValidateRejectsBWFilterWithAutoBandwidth(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 2, Mode: CBR, Bandwidth: -2, UseBWFilter: true}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("expected error combining automatic bandwidth with the bandwidth filter")
	}
}

func TestValidateRejectsBWFilterWithAdaptiveBandwidth(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 2, Mode: CBR, Bandwidth: -1, UseBWFilter: true}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("expected error combining adaptive-per-stream bandwidth with the bandwidth filter")
	}
}

func TestValidateAcceptsAdaptiveBandwidthWithoutFilter(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 2, Mode: CBR, Bandwidth: -1}
	if _, err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsLFEFilterWithoutLFE(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 48000, Channels: 2, Mode: CBR, UseLFEFilter: true}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("expected error using the LFE filter without an LFE channel")
	}
}

func TestValidateHalfRateSampleRate(t *testing.T) {
	cfg := &EncoderConfig{SampleRate: 24000, Channels: 2, Mode: CBR}
	r, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if r.halfratecod != 1 {
		t.Errorf("halfratecod = %d, want 1 for a half-rate sample rate", r.halfratecod)
	}
}
