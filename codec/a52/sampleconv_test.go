package a52

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestDecodeSampleS16LE(t *testing.T) {
	cases := []struct {
		b    []byte
		want float64
	}{
		{[]byte{0x00, 0x00}, 0},
		{[]byte{0xff, 0x7f}, 32767.0 / 32768},
		{[]byte{0x00, 0x80}, -1},
	}
	for _, c := range cases {
		if got := decodeSample(c.b, S16LE); !almostEqual(got, c.want, 1e-9) {
			t.Errorf("decodeSample(%v, S16LE) = %v, want %v", c.b, got, c.want)
		}
	}
}

func TestDecodeSampleU8(t *testing.T) {
	cases := []struct {
		b    []byte
		want float64
	}{
		{[]byte{128}, 0},
		{[]byte{255}, 127.0 / 128},
		{[]byte{0}, -1},
	}
	for _, c := range cases {
		if got := decodeSample(c.b, U8); !almostEqual(got, c.want, 1e-9) {
			t.Errorf("decodeSample(%v, U8) = %v, want %v", c.b, got, c.want)
		}
	}
}

func TestDecodeSampleS24LESignExtension(t *testing.T) {
	// -1 in 24-bit two's complement, little-endian.
	got := decodeSample([]byte{0xff, 0xff, 0xff}, S24LE)
	want := -1.0 / float64(1<<23)
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("decodeSample(S24LE, -1) = %v, want %v", got, want)
	}
}

func TestDecodeSampleF32LE(t *testing.T) {
	// 0x3F000000 is 0.5f in IEEE 754.
	got := decodeSample([]byte{0x00, 0x00, 0x00, 0x3f}, F32LE)
	if !almostEqual(got, 0.5, 1e-6) {
		t.Errorf("decodeSample(F32LE) = %v, want 0.5", got)
	}
}

func TestDeinterleaveStereo(t *testing.T) {
	// Two stereo frames of S16LE: (L=0, R=32767), (L=-32768, R=0).
	data := []byte{
		0x00, 0x00, 0xff, 0x7f,
		0x00, 0x80, 0x00, 0x00,
	}
	chans, err := Deinterleave(data, S16LE, 2)
	if err != nil {
		t.Fatalf("Deinterleave: %v", err)
	}
	if len(chans) != 2 || len(chans[0]) != 2 || len(chans[1]) != 2 {
		t.Fatalf("unexpected shape: %d channels, lens %v", len(chans), []int{len(chans[0]), len(chans[1])})
	}
	if chans[0][0] != 0 {
		t.Errorf("chans[0][0] = %v, want 0", chans[0][0])
	}
	if chans[1][1] != 0 {
		t.Errorf("chans[1][1] = %v, want 0", chans[1][1])
	}
	if chans[0][1] != -1 {
		t.Errorf("chans[0][1] = %v, want -1", chans[0][1])
	}
}

func TestDeinterleaveRejectsMisalignedLength(t *testing.T) {
	_, err := Deinterleave([]byte{0, 0, 0}, S16LE, 2)
	if err == nil {
		t.Fatal("expected error for a length not divisible by the frame size")
	}
}

func TestRemapWAVToA52ThreeZero(t *testing.T) {
	l := []float64{1, 0, 0}
	r := []float64{0, 1, 0}
	c := []float64{0, 0, 1}
	out, err := RemapWAVToA52([][]float64{l, r, c}, ACMod3_0, false)
	if err != nil {
		t.Fatalf("RemapWAVToA52: %v", err)
	}
	// A52 order for 3/0 is L, C, R.
	want := [][]float64{l, c, r}
	if diff := cmp.Diff(want, out, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("RemapWAVToA52 mismatch (-want +got):\n%s", diff)
	}
}

func TestRemapWAVToA52WithLFEPassthrough(t *testing.T) {
	l := []float64{1}
	r := []float64{2}
	lfe := []float64{9}
	out, err := RemapWAVToA52([][]float64{l, r, lfe}, ACMod2_0, true)
	if err != nil {
		t.Fatalf("RemapWAVToA52: %v", err)
	}
	if len(out) != 3 || out[2][0] != 9 {
		t.Fatalf("expected LFE passed through as last channel, got %v", out)
	}
}

func TestRemapWAVToA52WrongChannelCount(t *testing.T) {
	_, err := RemapWAVToA52([][]float64{{1}, {2}}, ACMod3_0, false)
	if err == nil {
		t.Fatal("expected error for a channel-count mismatch")
	}
}
