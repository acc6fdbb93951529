package marine

// Sourced is a value paired with the provider it came from.
type Sourced struct {
	Value  float64
	Source Source
}

// Usability decides whether an override value may replace the baseline.
type Usability func(v float64) bool

// NonZero treats zero as "no data". Providers report missing values as 0.
func NonZero(v float64) bool { return v != 0 }

// ZeroOK accepts every present value, for fields where zero is a real reading.
func ZeroOK(float64) bool { return true }

// FieldPolicy maps overridable fields to their usability predicate. Fields
// without an entry use NonZero.
type FieldPolicy map[Field]Usability

// For returns the predicate for f.
func (p FieldPolicy) For(f Field) Usability {
	if u, ok := p[f]; ok && u != nil {
		return u
	}
	return NonZero
}

// Merge keeps the baseline unless the override is present and usable.
func Merge(baseline Sourced, override *float64, overrideSource Source, usable Usability) Sourced {
	if override == nil {
		return baseline
	}
	if usable == nil {
		usable = NonZero
	}
	if !usable(*override) {
		return baseline
	}
	return Sourced{Value: *override, Source: overrideSource}
}

const msToKmh = 3.6

// KmhFromMS converts a wind speed in m/s to km/h, keeping nil as nil.
func KmhFromMS(v *float64) *float64 {
	if v == nil {
		return nil
	}
	kmh := *v * msToKmh
	return &kmh
}

// swellOrWave returns the swell value unless it is nil or zero, in which case
// the combined-wave value (or 0) is used.
func swellOrWave(swell, wave *float64) float64 {
	if swell != nil && *swell != 0 {
		return *swell
	}
	return valueOr(wave, 0)
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
