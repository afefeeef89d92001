package glider

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Dataset holds the per-sample series of one glider mission as fetched from
// ERDDAP or read back from a NetCDF file. All per-sample slices share the
// same length.
//
// ProfileIndex and RowSize are the contiguous ragged representation of the
// dive profiles: one entry per profile, with RowSize counting how many
// samples belong to it. They are nil when the mission was fetched without
// the profile columns.
type Dataset struct {
	ID        string
	Time      []time.Time
	Longitude []float64
	Latitude  []float64
	Pressure  []float64

	ProfileIndex []float64
	RowSize      []int64

	// Per-sample expansions filled in by AddProfileTime.
	ProfileNum      []float64
	ProfileMeanTime []time.Time

	// Units by column name, from the second header line of the csv
	// response.
	Units map[string]string
}

func (d *Dataset) Len() int {
	return len(d.Time)
}

// MeanPosition returns the mission mean longitude, latitude and time.
// Samples without a fix (NaN coordinates) are skipped; the mean time is
// over all samples.
func (d *Dataset) MeanPosition() (lon, lat float64, t time.Time) {
	return nanMean(d.Longitude), nanMean(d.Latitude), meanTime(d.Time)
}

// MaxPressure returns the deepest pressure sample, ignoring NaN gaps.
// It returns NaN when no valid sample exists.
func (d *Dataset) MaxPressure() float64 {
	kept := dropNaN(d.Pressure)
	if len(kept) == 0 {
		return math.NaN()
	}
	return floats.Max(kept)
}

func nanMean(values []float64) float64 {
	kept := dropNaN(values)
	if len(kept) == 0 {
		return math.NaN()
	}
	return stat.Mean(kept, nil)
}

func dropNaN(values []float64) []float64 {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	return kept
}

// meanTime averages times as integer offsets from the first entry instead
// of going through float64, which cannot represent nanosecond epochs
// exactly. Returns the zero time for an empty slice.
func meanTime(times []time.Time) time.Time {
	if len(times) == 0 {
		return time.Time{}
	}
	base := times[0]
	var sum int64
	for _, t := range times {
		sum += t.Sub(base).Nanoseconds()
	}
	return base.Add(time.Duration(sum / int64(len(times))))
}
