package glider

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// ReadNetCDF loads a mission from a NetCDF file, such as the ones ERDDAP
// serves for delayed mode datasets. The file must carry the time,
// longitude, latitude and pressure series; the ragged profile columns are
// picked up when present.
func ReadNetCDF(path string) (*Dataset, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer g.Close()

	ds := &Dataset{ID: strings.TrimSuffix(filepath.Base(path), ".nc")}

	if ds.Time, err = readTimes(g, "time"); err != nil {
		return nil, err
	}
	if ds.Longitude, err = readFloats(g, "longitude"); err != nil {
		return nil, err
	}
	if ds.Latitude, err = readFloats(g, "latitude"); err != nil {
		return nil, err
	}
	if ds.Pressure, err = readFloats(g, "pressure"); err != nil {
		return nil, err
	}

	if index, err := readFloats(g, "profile_index"); err == nil {
		sizes, err := readInts(g, "rowSize")
		if err != nil {
			return nil, fmt.Errorf("profile_index without usable rowSize: %w", err)
		}
		ds.ProfileIndex = index
		ds.RowSize = sizes
	}

	return ds, nil
}

func readFloats(g api.Group, name string) ([]float64, error) {
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	return toFloats(v.Values, name)
}

func readInts(g api.Group, name string) ([]int64, error) {
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	switch vs := v.Values.(type) {
	case []int64:
		return vs, nil
	case []int32:
		return widen(vs), nil
	case []int16:
		return widen(vs), nil
	case []int8:
		return widen(vs), nil
	}
	return nil, fmt.Errorf("variable %s has unsupported type %T", name, v.Values)
}

func toFloats(values any, name string) ([]float64, error) {
	switch vs := values.(type) {
	case []float64:
		return vs, nil
	case []float32:
		return widenFloat(vs), nil
	case []int64:
		return widenFloat(vs), nil
	case []int32:
		return widenFloat(vs), nil
	case []int16:
		return widenFloat(vs), nil
	case []int8:
		return widenFloat(vs), nil
	}
	return nil, fmt.Errorf("variable %s has unsupported type %T", name, values)
}

func widen[T int8 | int16 | int32](vs []T) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = int64(v)
	}
	return out
}

func widenFloat[T int8 | int16 | int32 | int64 | float32](vs []T) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float64(v)
	}
	return out
}

func readTimes(g api.Group, name string) ([]time.Time, error) {
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}

	// ERDDAP writes epoch seconds. Other sources vary, so honor the CF
	// units attribute when there is one.
	units := "seconds since 1970-01-01T00:00:00Z"
	if raw, has := v.Attributes.Get("units"); has {
		if s, ok := raw.(string); ok {
			units = s
		}
	}
	scale, epoch, err := parseTimeUnits(units)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}

	values, err := toFloats(v.Values, name)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, len(values))
	for i, val := range values {
		times[i] = epoch.Add(time.Duration(val * float64(scale)))
	}
	return times, nil
}

// parseTimeUnits understands CF style time units such as
// "seconds since 1970-01-01T00:00:00Z" or "days since 1950-01-01".
func parseTimeUnits(units string) (time.Duration, time.Time, error) {
	unit, epochStr, found := strings.Cut(units, " since ")
	if !found {
		return 0, time.Time{}, fmt.Errorf("unsupported time units %q", units)
	}

	var scale time.Duration
	switch strings.TrimSpace(unit) {
	case "days":
		scale = 24 * time.Hour
	case "hours":
		scale = time.Hour
	case "minutes":
		scale = time.Minute
	case "seconds":
		scale = time.Second
	case "milliseconds":
		scale = time.Millisecond
	case "microseconds":
		scale = time.Microsecond
	case "nanoseconds":
		scale = time.Nanosecond
	default:
		return 0, time.Time{}, fmt.Errorf("unsupported time units %q", units)
	}

	epochStr = strings.TrimSuffix(strings.TrimSpace(epochStr), " UTC")
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly}
	for _, layout := range layouts {
		if epoch, err := time.Parse(layout, epochStr); err == nil {
			return scale, epoch, nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("unsupported epoch %q in time units", epochStr)
}
