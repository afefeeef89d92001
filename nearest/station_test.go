package nearest

import (
	"errors"
	"testing"
	"time"

	"glidermatch/glider"
	"glidermatch/smhi"
)

func missionAround(lon, lat float64, mean time.Time) *glider.Dataset {
	return &glider.Dataset{
		ID:        "nrt_SEA067_M15",
		Time:      []time.Time{mean.Add(-6 * time.Hour), mean.Add(6 * time.Hour)},
		Longitude: []float64{lon - 0.1, lon + 0.1},
		Latitude:  []float64{lat - 0.1, lat + 0.1},
		Pressure:  []float64{10, 60},
	}
}

func TestNearestStationEmptyTable(t *testing.T) {
	ds := missionAround(10, 55, day(0))

	_, err := NearestStation(nil, ds, DefaultStationOptions)
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("Got %v, wanted ErrNoMatch", err)
	}
}

func TestNearestStation(t *testing.T) {
	obs := []smhi.Observation{
		{StationVisit: "1", StationName: "Å17", VisitDate: smhi.DateTime{Time: day(0)},
			Longitude: 10, Latitude: 55, WaterDepth: 100, SampleDepth: 0, Parameter: "Salinity"},
		{StationVisit: "1", StationName: "Å17", VisitDate: smhi.DateTime{Time: day(0)},
			Longitude: 10, Latitude: 55, WaterDepth: 100, SampleDepth: 10, Parameter: "Salinity"},
		{StationVisit: "2", StationName: "SLÄGGÖ", VisitDate: smhi.DateTime{Time: day(2)},
			Longitude: 10.2, Latitude: 55.1, WaterDepth: 90, SampleDepth: 0, Parameter: "Salinity"},
	}

	// Mission mean sits 0.2 deg east, 0.1 deg north and 12 hours after
	// visit 1.
	ds := missionAround(10.2, 55.1, day(0).Add(12*time.Hour))

	opt := StationOptions{Window: Window{Lon: 1, Lat: 1, Time: 48 * time.Hour}, MinDepth: 80}
	match, err := NearestStation(obs, ds, opt)
	if err != nil {
		t.Fatal(err)
	}

	if match.VisitID != "1" {
		t.Errorf("Got %q, wanted %q", match.VisitID, "1")
	}
	if len(match.Rows) != 2 {
		t.Errorf("Got %d rows, wanted 2", len(match.Rows))
	}
	if match.Visit.StationName != "Å17" {
		t.Errorf("Got %q, wanted %q", match.Visit.StationName, "Å17")
	}

	if match.East != "22.2 km E" {
		t.Errorf("Got %q, wanted %q", match.East, "22.2 km E")
	}
	if match.North != "11.1 km N" {
		t.Errorf("Got %q, wanted %q", match.North, "11.1 km N")
	}
	if match.TimeDiff != "12.0 hours later" {
		t.Errorf("Got %q, wanted %q", match.TimeDiff, "12.0 hours later")
	}

	expected := "Nearest station profile is 22.2 km E, 11.1 km N & 12.0 hours later than mean of glider data"
	if match.Description() != expected {
		t.Errorf("Got %q, wanted %q", match.Description(), expected)
	}
}

// A mission without position fixes has NaN means, which cannot fall inside
// any window.
func TestNearestStationNoFixes(t *testing.T) {
	ds := missionAround(10, 55, day(0))
	ds.Longitude = []float64{}
	ds.Latitude = []float64{}

	obs := []smhi.Observation{
		{StationVisit: "1", VisitDate: smhi.DateTime{Time: day(0)}, Longitude: 10, Latitude: 55, WaterDepth: 100},
	}

	_, err := NearestStation(obs, ds, DefaultStationOptions)
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("Got %v, wanted ErrNoMatch", err)
	}
}
