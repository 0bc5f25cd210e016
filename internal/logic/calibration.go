package logic

// Band maps a lower-bound threshold to the percentile reported at or above it
type Band struct {
	Threshold  float64
	Percentile int
}

// Bands must be sorted by ascending threshold
type Bands []Band

// Percentile returns the percentile of the highest band whose threshold is
// at or below v, or 0 when v is below every band.
func (b Bands) Percentile(v float64) int {
	p := 0
	for _, band := range b {
		if v < band.Threshold {
			break
		}
		p = band.Percentile
	}
	return p
}

// Calibration holds heuristic constants used by aggregation. None of these
// are derived from a live player population; they are reference bands that
// may need recalibration.
type Calibration struct {
	// DeckShareOfLinux estimates handheld minutes as a share of reported linux minutes.
	DeckShareOfLinux float64

	HoursBands         Bands
	LibraryBands       Bands
	ConcentrationBands Bands
	VeteranBands       Bands
}

func DefaultCalibration() Calibration {
	return Calibration{
		DeckShareOfLinux: 0.3,
		HoursBands: Bands{
			{0, 5}, {100, 20}, {500, 40}, {1000, 55}, {2000, 70},
			{5000, 85}, {10000, 95}, {20000, 99},
		},
		LibraryBands: Bands{
			{0, 5}, {10, 20}, {50, 45}, {100, 60}, {250, 75},
			{500, 88}, {1000, 95}, {2500, 99},
		},
		ConcentrationBands: Bands{
			{0, 10}, {30, 30}, {50, 50}, {70, 75}, {85, 90}, {95, 97},
		},
		VeteranBands: Bands{
			{0, 5}, {2, 20}, {5, 45}, {8, 65}, {12, 85}, {15, 95}, {18, 99},
		},
	}
}
