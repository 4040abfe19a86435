package thermal

// FilterHotPixels replaces pixels above the ceiling with the frame's
// minimum plausible value and reports whether any were found. Pixels this
// hot are brake-rotor bleed-through, not tyre rubber; substituting the
// frame minimum (rather than zero) keeps downstream statistics from being
// skewed cold. The input frame is not modified: when contamination is
// found a filtered copy is returned, otherwise the input is returned
// unchanged.
//
// After filtering, every pixel is <= ceiling.
func FilterHotPixels(f *ThermalFrame, ceiling float64) (*ThermalFrame, bool) {
	contaminated := false
	// Minimum over uncontaminated pixels only; a 300C rotor spike must not
	// be a substitution candidate for another spike.
	min := ceiling
	haveMin := false
	for _, v := range f.Temps {
		if v > ceiling {
			contaminated = true
			continue
		}
		if !haveMin || v < min {
			min = v
			haveMin = true
		}
	}
	if !contaminated {
		return f, false
	}

	out := f.Clone()
	for i, v := range out.Temps {
		if v > ceiling {
			out.Temps[i] = min
		}
	}
	return out, true
}
