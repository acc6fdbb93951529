package marine

import "math"

// tideFlatThreshold is the sea-level change below which the window is treated as slack high water.
const tideFlatThreshold = 0.01

// Aggregate folds the records whose local hour falls inside window into one
// AggregatedWindow. Numeric fields are unweighted means; provenance is the
// most common source per field (first seen if tied). An empty selection yields
// zero values and TideUnknown.
func Aggregate(records []HourlyRecord, window DaypartWindow) AggregatedWindow {
	selected := make([]HourlyRecord, 0, window.End-window.Start)
	for _, r := range records {
		if window.Contains(r.Time.Hour()) {
			selected = append(selected, r)
		}
	}

	if len(selected) == 0 {
		return AggregatedWindow{
			Window:    window,
			TidePhase: TideUnknown,
			Sources:   map[Field]Source{},
		}
	}

	var (
		sumWind        float64
		sumWindBearing float64
		sumAirTemp     float64
		sumSwell       float64
		sumSwellPeriod float64
		sumSwellDir    float64
		sumSeaTemp     float64
		sumSeaLevel    float64
	)

	for _, r := range selected {
		sumWind += r.WindSpeedKmh
		sumWindBearing += r.WindBearing
		sumAirTemp += r.AirTempC
		sumSwell += r.SwellHeightM
		sumSwellPeriod += r.SwellPeriodS
		sumSwellDir += r.SwellBearing
		sumSeaTemp += r.SeaTempC
		sumSeaLevel += r.SeaLevel
	}

	n := float64(len(selected))

	return AggregatedWindow{
		Window:       window,
		WindSpeedKmh: sumWind / n,
		WindBearing:  sumWindBearing / n,
		AirTempC:     sumAirTemp / n,
		SwellHeightM: sumSwell / n,
		SwellPeriodS: sumSwellPeriod / n,
		SwellBearing: sumSwellDir / n,
		SeaTempC:     sumSeaTemp / n,
		SeaLevel:     sumSeaLevel / n,
		TidePhase:    TidePhaseForWindow(selected, window.Start, window.End),
		Count:        len(selected),
		Sources:      dominantSources(selected),
	}
}

// TidePhaseForWindow compares sea level between the first record at or after
// startHour (else the first record) and the first record at or after endHour
// (else the last record). It never returns TideLow.
func TidePhaseForWindow(records []HourlyRecord, startHour, endHour int) TidePhase {
	if len(records) == 0 {
		return TideUnknown
	}

	start := records[0]
	for _, r := range records {
		if r.Time.Hour() >= startHour {
			start = r
			break
		}
	}
	end := records[len(records)-1]
	for _, r := range records {
		if r.Time.Hour() >= endHour {
			end = r
			break
		}
	}

	delta := end.SeaLevel - start.SeaLevel
	switch {
	case math.Abs(delta) < tideFlatThreshold:
		return TideHigh
	case delta > 0:
		return TideRising
	default:
		return TideFalling
	}
}

var aggregatedFields = []Field{
	FieldWindSpeed,
	FieldWindBearing,
	FieldAirTemp,
	FieldSwellHeight,
	FieldSwellPeriod,
	FieldSwellDirection,
	FieldSeaTemp,
	FieldTide,
}

func dominantSources(records []HourlyRecord) map[Field]Source {
	out := make(map[Field]Source, len(aggregatedFields))
	for _, f := range aggregatedFields {
		counts := make(map[Source]int)
		var order []Source
		for _, r := range records {
			src := r.Provenance[f]
			if src == "" {
				continue
			}
			if counts[src] == 0 {
				order = append(order, src)
			}
			counts[src]++
		}

		best, bestCount := Source(""), 0
		for _, src := range order {
			if counts[src] > bestCount {
				best, bestCount = src, counts[src]
			}
		}
		if best != "" {
			out[f] = best
		}
	}
	return out
}
