package a52

import "testing"

func TestDRCNoneAlwaysZeroGain(t *testing.T) {
	for _, db := range []float64{-60, -20, -6, 0} {
		if g := DRCNone.Gain(db); g != 0 {
			t.Errorf("DRCNone.Gain(%v) = %v, want 0", db, g)
		}
	}
}

func TestDRCGainMonotonicallyDecreasing(t *testing.T) {
	for profile := range drcCurves {
		prev := profile.Gain(-60)
		for db := -55.0; db <= 0; db += 5 {
			g := profile.Gain(db)
			if g > prev {
				t.Errorf("profile %v: gain increased from %v to %v as level rose to %v dB", profile, prev, g, db)
			}
			prev = g
		}
	}
}

func TestDRCGainClampedBeyondCurve(t *testing.T) {
	for profile, curve := range drcCurves {
		lo := curve[0]
		hi := curve[len(curve)-1]
		if g := profile.Gain(lo.InDB - 20); g != lo.GainDB {
			t.Errorf("profile %v: Gain below curve start = %v, want %v", profile, g, lo.GainDB)
		}
		if g := profile.Gain(hi.InDB + 20); g != hi.GainDB {
			t.Errorf("profile %v: Gain above curve end = %v, want %v", profile, g, hi.GainDB)
		}
	}
}

func TestEncodeDynrngRange(t *testing.T) {
	for _, db := range []float64{-60, -40, -20, -10, -1, 0} {
		code := EncodeDynrng(DRCFilmStandard, db)
		asInt := int(int8(code))
		if asInt > 0 {
			t.Errorf("EncodeDynrng(%v) = %d, want <= 0 (profiles never boost)", db, asInt)
		}
	}
}

func TestEncodeDynrngNoneIsZero(t *testing.T) {
	if code := EncodeDynrng(DRCNone, -3); code != 0 {
		t.Fatalf("EncodeDynrng(DRCNone, -3) = %d, want 0", int8(code))
	}
}
