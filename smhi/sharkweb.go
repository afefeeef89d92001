// Package smhi reads SHARKweb exports, the delimited files of physical and
// chemical water samples served by the Swedish national archive.
package smhi

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

// Observation is one sample row of a SHARKweb export. Column names follow
// the archive's English headers. Value stays a raw string since censored
// readings like "<0.1" appear in some parameters.
type Observation struct {
	StationVisit string   `csv:"station_visit"`
	StationName  string   `csv:"station_name"`
	VisitDate    DateTime `csv:"visit_date"`
	Longitude    float64  `csv:"sample_longitude_dd"`
	Latitude     float64  `csv:"sample_latitude_dd"`
	WaterDepth   float64  `csv:"water_depth_m"`
	SampleDepth  float64  `csv:"sample_depth_m"`
	Parameter    string   `csv:"parameter"`
	Value        string   `csv:"value"`
	Unit         string   `csv:"unit"`
}

// DateTime parses the timestamp formats found in SHARKweb exports, date
// only or date with time.
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unsupported date %q", value)
}

// ReadObservations loads a SHARKweb export. SHARKweb serves tab separated
// files by default, pass the separator the export was made with.
func ReadObservations(path string, sep rune) ([]Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = sep
	// Station names occasionally carry stray quotes
	reader.LazyQuotes = true

	var obs []Observation
	if err := gocsv.UnmarshalCSV(reader, &obs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return obs, nil
}

// Visit is one station visit reduced to the first row of its group.
type Visit struct {
	ID          string
	StationName string
	Date        time.Time
	Longitude   float64
	Latitude    float64
	WaterDepth  float64
}

// Visits reduces per-sample rows to one entry per station visit, keeping
// the values of the first row of each visit. Order follows first appearance
// in the export.
func Visits(obs []Observation) []Visit {
	seen := make(map[string]bool, len(obs))
	visits := make([]Visit, 0, len(obs))
	for _, o := range obs {
		if seen[o.StationVisit] {
			continue
		}
		seen[o.StationVisit] = true
		visits = append(visits, Visit{
			ID:          o.StationVisit,
			StationName: o.StationName,
			Date:        o.VisitDate.Time,
			Longitude:   o.Longitude,
			Latitude:    o.Latitude,
			WaterDepth:  o.WaterDepth,
		})
	}
	return visits
}

// VisitRows returns every sample row belonging to the given station visit.
func VisitRows(obs []Observation, id string) []Observation {
	var rows []Observation
	for _, o := range obs {
		if o.StationVisit == id {
			rows = append(rows, o)
		}
	}
	return rows
}
