package nearest

import (
	"errors"
	"time"

	"github.com/ctessum/geom"

	"glidermatch/smhi"
)

// ErrNoMatch means nothing satisfied the search tolerances. A legitimate
// empty result, not a failure.
var ErrNoMatch = errors.New("no match within tolerances")

// Window is a rectangular tolerance region around a reference point, one
// half-width per axis.
type Window struct {
	Lon  float64
	Lat  float64
	Time time.Duration
}

// ProfilesInRange returns the id of the visit closest in time to the center
// among those strictly inside the window and strictly deeper than minDepth.
// Boundary values are excluded on every axis; ties on the time distance go
// to the visit appearing first in the table.
func ProfilesInRange(visits []smhi.Visit, lon, lat float64, center time.Time, w Window, minDepth float64) (string, error) {
	box := &geom.Bounds{
		Min: geom.Point{X: lon - w.Lon, Y: lat - w.Lat},
		Max: geom.Point{X: lon + w.Lon, Y: lat + w.Lat},
	}
	minTime := center.Add(-w.Time)
	maxTime := center.Add(w.Time)

	var best string
	var bestDiff time.Duration
	found := false
	for _, v := range visits {
		point := geom.Point{X: v.Longitude, Y: v.Latitude}
		if point.Within(box) != geom.Inside {
			continue
		}
		if !v.Date.After(minTime) || !v.Date.Before(maxTime) {
			continue
		}
		if v.WaterDepth <= minDepth {
			continue
		}
		diff := v.Date.Sub(center).Abs()
		if !found || diff < bestDiff {
			best, bestDiff, found = v.ID, diff, true
		}
	}
	if !found {
		return "", ErrNoMatch
	}
	return best, nil
}
