package nearest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"glidermatch/argo"
	"glidermatch/glider"
)

// FloatOptions are the search tolerances for the float matcher.
type FloatOptions struct {
	Window Window
}

// DefaultFloatOptions use a tighter time window than the station search,
// floats surface often enough for that.
var DefaultFloatOptions = FloatOptions{
	Window: Window{Lon: 1, Lat: 0.5, Time: 7 * 24 * time.Hour},
}

// FloatMatch is the Argo profile nearest in time to a glider mission, with
// the offset of the float relative to the glider mean.
type FloatMatch struct {
	Profile argo.Profile

	East     string
	North    string
	TimeDiff string
}

func (m *FloatMatch) Description() string {
	return fmt.Sprintf("Nearest float is %s, %s & %s than mean of glider data",
		m.East, m.North, m.TimeDiff)
}

// NearestFloat searches the float network around the mission mean position
// for the profile closest in time to the mission mean. The search box spans
// the window on both map axes, pressures from the surface down to the
// mission's deepest reading, and the window on both sides in time.
//
// An empty region maps to ErrNoMatch; transport and decoding failures stay
// distinct so callers can tell "no floats exist here" from "the service is
// unreachable".
func NearestFloat(ctx context.Context, fetcher *argo.Fetcher, ds *glider.Dataset, opt FloatOptions) (*FloatMatch, error) {
	lon, lat, mean := ds.MeanPosition()
	maxPressure := ds.MaxPressure()
	if math.IsNaN(maxPressure) {
		return nil, errors.New("glider dataset has no pressure readings")
	}

	region := argo.Region{
		LonMin:  lon - opt.Window.Lon,
		LonMax:  lon + opt.Window.Lon,
		LatMin:  lat - opt.Window.Lat,
		LatMax:  lat + opt.Window.Lat,
		PresMin: 0,
		PresMax: maxPressure,
		Start:   mean.Add(-opt.Window.Time),
		End:     mean.Add(opt.Window.Time),
	}

	profiles, err := fetcher.Profiles(ctx, region)
	if errors.Is(err, argo.ErrNoProfiles) {
		return nil, ErrNoMatch
	}
	if err != nil {
		return nil, err
	}

	best := 0
	bestDiff := profiles[0].Time.Sub(mean).Abs()
	for i, p := range profiles[1:] {
		if diff := p.Time.Sub(mean).Abs(); diff < bestDiff {
			best, bestDiff = i+1, diff
		}
	}
	profile := profiles[best]

	east, north, timeDiff := FormatDifference(profile.Longitude-lon, profile.Latitude-lat, profile.Time.Sub(mean))
	return &FloatMatch{
		Profile:  profile,
		East:     east,
		North:    north,
		TimeDiff: timeDiff,
	}, nil
}
