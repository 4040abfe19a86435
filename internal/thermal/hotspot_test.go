package thermal

import "testing"

// A rotor bleed-through pixel is replaced by the frame minimum, never
// zero, and the contamination is reported.
func TestFilterHotPixelsSubstitutesFrameMinimum(t *testing.T) {
	f := uniformFrame(4, 32, 30.0)
	f.Set(0, 0, 18.0)  // coldest pixel
	f.Set(2, 15, 42.0)
	f.Set(1, 7, 300.0) // rotor bleed-through

	out, rotor := FilterHotPixels(f, 150.0)
	if !rotor {
		t.Fatal("expected rotorDetected=true")
	}
	if got := out.At(1, 7); got != 18.0 {
		t.Fatalf("expected contaminated pixel replaced with frame minimum 18.0, got %v", got)
	}
	// input frame untouched
	if f.At(1, 7) != 300.0 {
		t.Fatal("input frame must not be mutated")
	}
}

func TestFilterHotPixelsCleanFrame(t *testing.T) {
	f := uniformFrame(4, 32, 45.0)

	out, rotor := FilterHotPixels(f, 150.0)
	if rotor {
		t.Fatal("expected rotorDetected=false for a clean frame")
	}
	if out != f {
		t.Fatal("clean frames should be returned unchanged, without copying")
	}
}

// The post-condition holds even with several contaminated pixels.
func TestFilterHotPixelsCeilingGuarantee(t *testing.T) {
	f := uniformFrame(4, 32, 60.0)
	f.Set(0, 3, 200.0)
	f.Set(1, 3, 500.0)
	f.Set(3, 31, 151.0)

	out, rotor := FilterHotPixels(f, 150.0)
	if !rotor {
		t.Fatal("expected rotorDetected=true")
	}
	for i, v := range out.Temps {
		if v > 150.0 {
			t.Fatalf("pixel %d = %v exceeds ceiling after filtering", i, v)
		}
	}
}
