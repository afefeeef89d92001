// Package argo fetches Argo float observations from an ERDDAP mirror of
// the global array and reshapes them from point rows into profiles.
package argo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"glidermatch/erddap"
)

// DefaultServer is the Ifremer ERDDAP hosting the ArgoFloats dataset.
const DefaultServer = "https://erddap.ifremer.fr/erddap"

const datasetID = "ArgoFloats"

// ErrNoProfiles means the region query came back empty: no float surfaced
// there in the requested range. Distinct from transport failures, which
// pass through unwrapped into this.
var ErrNoProfiles = errors.New("no profiles in region")

// Fetcher queries one Argo ERDDAP server.
type Fetcher struct {
	Client *erddap.Client
}

// NewFetcher returns a fetcher against the given server, the Ifremer
// mirror when empty.
func NewFetcher(server string) *Fetcher {
	if server == "" {
		server = DefaultServer
	}
	return &Fetcher{Client: erddap.New(server)}
}

// Region is a geographic box plus a pressure range and a time range. Time
// bounds are sent as calendar days, which is how coarse the float search
// needs to be.
type Region struct {
	LonMin, LonMax   float64
	LatMin, LatMax   float64
	PresMin, PresMax float64
	Start, End       time.Time
}

func (r Region) constraints() map[string]string {
	return map[string]string{
		"longitude>=": formatFloat(r.LonMin),
		"longitude<=": formatFloat(r.LonMax),
		"latitude>=":  formatFloat(r.LatMin),
		"latitude<=":  formatFloat(r.LatMax),
		"pres>=":      formatFloat(r.PresMin),
		"pres<=":      formatFloat(r.PresMax),
		"time>=":      r.Start.UTC().Format(time.DateOnly),
		"time<=":      r.End.UTC().Format(time.DateOnly),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Point is one raw measurement row of the ArgoFloats dataset.
type Point struct {
	Platform    string    `csv:"platform_number"`
	Cycle       int       `csv:"cycle_number"`
	Time        time.Time `csv:"time"`
	Longitude   float64   `csv:"longitude"`
	Latitude    float64   `csv:"latitude"`
	Pressure    float64   `csv:"pres"`
	Temperature float64   `csv:"temp"`
	Salinity    float64   `csv:"psal"`
}

var pointVariables = []string{
	"platform_number", "cycle_number", "time", "longitude", "latitude",
	"pres", "temp", "psal",
}

// FetchRegion returns the raw point observations inside the region.
// ErrNoProfiles when the region is empty.
func (f *Fetcher) FetchRegion(ctx context.Context, region Region) ([]Point, error) {
	body, err := f.Client.FetchCSV(ctx, datasetID, pointVariables, region.constraints())
	if errors.Is(err, erddap.ErrNoResults) {
		return nil, ErrNoProfiles
	}
	if err != nil {
		return nil, fmt.Errorf("fetch argo region: %w", err)
	}
	defer body.Close()

	var points []Point
	if err := erddap.DecodeCSV(body, &points); err != nil {
		return nil, fmt.Errorf("decode argo response: %w", err)
	}
	return points, nil
}

// Level is one depth level of a profile.
type Level struct {
	Pressure    float64
	Temperature float64
	Salinity    float64
}

// Profile is one float cycle: position and time taken from its first
// point, with the measurements of every level it sampled.
type Profile struct {
	Platform  string
	Cycle     int
	Time      time.Time
	Longitude float64
	Latitude  float64
	Levels    []Level
}

// Profiles fetches a region and reshapes the point rows into one entry per
// profile, keyed by platform and cycle, in order of first appearance.
func (f *Fetcher) Profiles(ctx context.Context, region Region) ([]Profile, error) {
	points, err := f.FetchRegion(ctx, region)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrNoProfiles
	}

	type key struct {
		platform string
		cycle    int
	}
	index := make(map[key]int)
	var profiles []Profile
	for _, p := range points {
		k := key{p.Platform, p.Cycle}
		level := Level{Pressure: p.Pressure, Temperature: p.Temperature, Salinity: p.Salinity}
		if i, ok := index[k]; ok {
			profiles[i].Levels = append(profiles[i].Levels, level)
			continue
		}
		index[k] = len(profiles)
		profiles = append(profiles, Profile{
			Platform:  p.Platform,
			Cycle:     p.Cycle,
			Time:      p.Time,
			Longitude: p.Longitude,
			Latitude:  p.Latitude,
			Levels:    []Level{level},
		})
	}
	return profiles, nil
}
