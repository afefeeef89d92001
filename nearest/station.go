package nearest

import (
	"fmt"
	"time"

	"glidermatch/glider"
	"glidermatch/smhi"
)

// StationOptions are the search tolerances for the station matcher.
type StationOptions struct {
	Window   Window
	MinDepth float64
}

// DefaultStationOptions reflect how far apart a station cast and a glider
// mission may be and still count as co-located.
var DefaultStationOptions = StationOptions{
	Window:   Window{Lon: 1, Lat: 0.5, Time: 10 * 24 * time.Hour},
	MinDepth: 80,
}

// StationMatch is the station visit nearest to a glider mission, with the
// raw sample rows backing it and the offset of the glider mean relative to
// the station.
type StationMatch struct {
	VisitID string
	Visit   smhi.Visit
	Rows    []smhi.Observation

	East     string
	North    string
	TimeDiff string
}

func (m *StationMatch) Description() string {
	return fmt.Sprintf("Nearest station profile is %s, %s & %s than mean of glider data",
		m.East, m.North, m.TimeDiff)
}

// NearestStation finds the station visit closest to the mission mean
// position and time. The observation table is reduced to one row per visit
// first, so the search sees each station cast once. Returns ErrNoMatch when
// no visit falls inside the tolerances.
func NearestStation(obs []smhi.Observation, ds *glider.Dataset, opt StationOptions) (*StationMatch, error) {
	visits := smhi.Visits(obs)
	lon, lat, mean := ds.MeanPosition()

	id, err := ProfilesInRange(visits, lon, lat, mean, opt.Window, opt.MinDepth)
	if err != nil {
		return nil, err
	}

	var visit smhi.Visit
	for _, v := range visits {
		if v.ID == id {
			visit = v
			break
		}
	}

	east, north, timeDiff := FormatDifference(lon-visit.Longitude, lat-visit.Latitude, mean.Sub(visit.Date))
	return &StationMatch{
		VisitID:  id,
		Visit:    visit,
		Rows:     smhi.VisitRows(obs, id),
		East:     east,
		North:    north,
		TimeDiff: timeDiff,
	}, nil
}
