package nearest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"glidermatch/argo"
)

const argoHeader = "platform_number,cycle_number,time,longitude,latitude,pres,temp,psal\n" +
	",,UTC,degrees_east,degrees_north,decibar,degree_Celsius,psu\n"

func TestNearestFloat(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		fmt.Fprint(w, argoHeader+strings.Join([]string{
			"6903550,12,2021-09-02T00:00:00Z,10.5,55.2,5.0,14.2,34.9",
			"6903550,12,2021-09-02T00:00:00Z,10.5,55.2,50.0,8.1,35.1",
			"6903551,3,2021-09-05T00:00:00Z,10.8,55.4,5.0,13.9,34.8",
		}, "\n")+"\n")
	}))
	defer srv.Close()

	// Mission mean is (10, 55) at 2021-09-01T12:00Z.
	ds := missionAround(10, 55, day(0).Add(12*time.Hour))

	match, err := NearestFloat(context.Background(), argo.NewFetcher(srv.URL), ds, DefaultFloatOptions)
	if err != nil {
		t.Fatal(err)
	}

	if match.Profile.Platform != "6903550" || match.Profile.Cycle != 12 {
		t.Errorf("Got %s cycle %d, wanted 6903550 cycle 12", match.Profile.Platform, match.Profile.Cycle)
	}
	if len(match.Profile.Levels) != 2 {
		t.Errorf("Got %d levels, wanted 2", len(match.Profile.Levels))
	}

	expected := "Nearest float is 55.5 km E, 22.2 km N & 12.0 hours later than mean of glider data"
	if match.Description() != expected {
		t.Errorf("Got %q, wanted %q", match.Description(), expected)
	}

	// The time constraints are calendar days around the mission mean.
	if !strings.Contains(query, "time>=2021-08-25") || !strings.Contains(query, "time<=2021-09-08") {
		t.Errorf("Got query %q, wanted calendar day time bounds", query)
	}
	if !strings.Contains(query, "pres<=60") {
		t.Errorf("Got query %q, wanted a pressure bound at the mission maximum", query)
	}
}

func TestNearestFloatEmptyRegion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `Error { code=404; message="Not Found: Your query produced no matching results." }`,
			http.StatusNotFound)
	}))
	defer srv.Close()

	ds := missionAround(10, 55, day(0))

	_, err := NearestFloat(context.Background(), argo.NewFetcher(srv.URL), ds, DefaultFloatOptions)
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("Got %v, wanted ErrNoMatch", err)
	}
}

// A broken service is not the same as an empty region.
func TestNearestFloatServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ds := missionAround(10, 55, day(0))

	_, err := NearestFloat(context.Background(), argo.NewFetcher(srv.URL), ds, DefaultFloatOptions)
	if err == nil || errors.Is(err, ErrNoMatch) {
		t.Errorf("Got %v, wanted a distinct failure", err)
	}
}

func TestNearestFloatNoPressure(t *testing.T) {
	ds := missionAround(10, 55, day(0))
	ds.Pressure = []float64{math.NaN(), math.NaN()}

	_, err := NearestFloat(context.Background(), argo.NewFetcher("http://localhost:1"), ds, DefaultFloatOptions)
	if err == nil || errors.Is(err, ErrNoMatch) {
		t.Errorf("Got %v, wanted a pressure error", err)
	}
}
