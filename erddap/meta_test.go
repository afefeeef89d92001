package erddap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

const infoCSV = `Row Type,Variable Name,Attribute Name,Data Type,Value
attribute,NC_GLOBAL,acknowledgement,String,VOTO
attribute,NC_GLOBAL,deployment_id,int,57
attribute,NC_GLOBAL,qc_threshold,double,1.5
attribute,NC_GLOBAL,glider_serial,String,SEA067
attribute,NC_GLOBAL,glider_devices,String,"{'ctd': {'make': 'RBR', 'serial': 205512}}"
attribute,NC_GLOBAL,variables,String,"time
longitude
latitude"
variable,time,,double,
attribute,time,units,String,seconds since 1970-01-01T00:00:00Z
`

func TestTypedValue(t *testing.T) {
	cases := []struct {
		tag      string
		dataType string
		value    string
		want     any
	}{
		{"int", "int", "57", int64(57)},
		{"long", "long", "9000000000", int64(9000000000)},
		{"double", "double", "1.5", 1.5},
		{"float", "float", "2.25", 2.25},
		{"string", "String", "SEA067", "SEA067"},
		{"int array stays string", "int", "1, 2, 3", "1, 2, 3"},
		{"double array stays string", "double", "35.0, 36.5", "35.0, 36.5"},
	}
	for _, c := range cases {
		t.Log(c.tag)
		if got := typedValue(c.dataType, c.value); got != c.want {
			t.Errorf("Got %#v, wanted %#v", got, c.want)
		}
	}
}

func TestGlobalAttributes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/info/nrt_SEA067_M15/index.csv" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, infoCSV)
	}))
	defer srv.Close()

	attrs, err := New(srv.URL).GlobalAttributes(context.Background(), "nrt_SEA067_M15")
	if err != nil {
		t.Fatal(err)
	}

	if attrs["acknowledgement"] != "VOTO" {
		t.Errorf("Got %#v, wanted VOTO", attrs["acknowledgement"])
	}
	if attrs["deployment_id"] != int64(57) {
		t.Errorf("Got %#v, wanted int64 57", attrs["deployment_id"])
	}
	if attrs["qc_threshold"] != 1.5 {
		t.Errorf("Got %#v, wanted 1.5", attrs["qc_threshold"])
	}
	if want := []string{"time", "longitude", "latitude"}; !reflect.DeepEqual(attrs["variables"], want) {
		t.Errorf("Got %#v, wanted %v", attrs["variables"], want)
	}
	wantDevices := map[string]any{
		"ctd": map[string]any{"make": "RBR", "serial": int64(205512)},
	}
	if !reflect.DeepEqual(attrs["glider_devices"], wantDevices) {
		t.Errorf("Got %#v, wanted %#v", attrs["glider_devices"], wantDevices)
	}
	// Attributes of individual variables stay out of the global set.
	if _, ok := attrs["units"]; ok {
		t.Error("Got the time units attribute, wanted NC_GLOBAL rows only")
	}
}

func TestGlobalAttributesBadLiteral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Row Type,Variable Name,Attribute Name,Data Type,Value\n"+
			"attribute,NC_GLOBAL,glider_devices,String,{broken\n")
	}))
	defer srv.Close()

	_, err := New(srv.URL).GlobalAttributes(context.Background(), "nrt_SEA067_M15")
	if err == nil || !strings.Contains(err.Error(), "glider_devices") {
		t.Errorf("Got %v, wanted a parse error naming the attribute", err)
	}
}

func TestFetchMeta(t *testing.T) {
	base := time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC)

	var dataQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/info/"):
			fmt.Fprint(w, infoCSV)
		case r.URL.RawQuery == "time":
			fmt.Fprint(w, "time\nUTC\n")
			for i := 0; i < 60; i++ {
				fmt.Fprintln(w, base.Add(time.Duration(i)*time.Minute).Format(time.RFC3339))
			}
		default:
			dataQuery = r.URL.RawQuery
			fmt.Fprint(w, "time,longitude,latitude,pressure\n"+
				"UTC,degrees_east,degrees_north,dbar\n"+
				"2021-09-01T00:50:00Z,10.0,55.0,5.0\n"+
				"2021-09-01T00:55:00Z,10.1,55.1,25.0\n")
		}
	}))
	defer srv.Close()

	meta, err := New(srv.URL).FetchMeta(context.Background(), "nrt_SEA067_M15")
	if err != nil {
		t.Fatal(err)
	}

	// 60 time records, so the probe starts 50 rows from the end.
	if want := "time>=2021-09-01T00%3A10%3A00Z"; !strings.Contains(dataQuery, want) {
		t.Errorf("Got query %q, wanted it to contain %q", dataQuery, want)
	}
	if meta.Recent.Len() != 2 {
		t.Errorf("Got %d recent rows, wanted 2", meta.Recent.Len())
	}
	if meta.Attributes["deployment_id"] != int64(57) {
		t.Errorf("Got %#v, wanted deployment id 57", meta.Attributes["deployment_id"])
	}
	if meta.DatasetID != "nrt_SEA067_M15" {
		t.Errorf("Got %s, wanted nrt_SEA067_M15", meta.DatasetID)
	}
}

func TestFetchMetaShortDataset(t *testing.T) {
	var dataQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/info/"):
			fmt.Fprint(w, infoCSV)
		case r.URL.RawQuery == "time":
			fmt.Fprint(w, "time\nUTC\n"+
				"2021-09-01T00:00:00Z\n"+
				"2021-09-01T00:10:00Z\n"+
				"2021-09-01T00:20:00Z\n")
		default:
			dataQuery = r.URL.RawQuery
			fmt.Fprint(w, "time,longitude,latitude,pressure\n"+
				"UTC,degrees_east,degrees_north,dbar\n"+
				"2021-09-01T00:00:00Z,10.0,55.0,5.0\n")
		}
	}))
	defer srv.Close()

	if _, err := New(srv.URL).FetchMeta(context.Background(), "nrt_SEA067_M15"); err != nil {
		t.Fatal(err)
	}

	// Fewer records than the probe depth: probe from the first one.
	if want := "time>=2021-09-01T00%3A00%3A00Z"; !strings.Contains(dataQuery, want) {
		t.Errorf("Got query %q, wanted it to contain %q", dataQuery, want)
	}
}

func TestFetchMetaNoTimes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "time\nUTC\n")
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchMeta(context.Background(), "nrt_SEA067_M15")
	if err == nil || !strings.Contains(err.Error(), "no time records") {
		t.Errorf("Got %v, wanted a no time records error", err)
	}
}
