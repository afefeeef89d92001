package glider

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

// erddapRow mirrors the per-sample columns of a tabledap csv response.
// The names are ERDDAP destination names. ProfileIndex is a pointer so a
// missing column can be told apart from a zero value.
type erddapRow struct {
	Time         time.Time `csv:"time"`
	Longitude    float64   `csv:"longitude"`
	Latitude     float64   `csv:"latitude"`
	Pressure     float64   `csv:"pressure"`
	ProfileIndex *float64  `csv:"profile_index"`
}

// ParseCSV decodes a tabledap csv response into a Dataset. Tabledap
// responses carry two header lines, the column names and their units; the
// units line is kept in Dataset.Units.
//
// Tabledap flattens the ragged profile columns to one value per sample, so
// a profile_index column is run-length encoded back into ProfileIndex and
// RowSize.
func ParseCSV(r io.Reader, id string) (*Dataset, error) {
	br := bufio.NewReader(r)
	names, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read column header: %w", err)
	}
	units, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read units header: %w", err)
	}

	var rows []erddapRow
	if err := gocsv.Unmarshal(io.MultiReader(strings.NewReader(names), br), &rows); err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	ds := &Dataset{
		ID:        id,
		Time:      make([]time.Time, len(rows)),
		Longitude: make([]float64, len(rows)),
		Latitude:  make([]float64, len(rows)),
		Pressure:  make([]float64, len(rows)),
		Units:     unitsByName(names, units),
	}
	hasIndex := false
	for i, row := range rows {
		ds.Time[i] = row.Time
		ds.Longitude[i] = row.Longitude
		ds.Latitude[i] = row.Latitude
		ds.Pressure[i] = row.Pressure
		if row.ProfileIndex != nil {
			hasIndex = true
		}
	}
	if hasIndex {
		index := make([]float64, len(rows))
		for i, row := range rows {
			if row.ProfileIndex == nil {
				index[i] = math.NaN()
			} else {
				index[i] = *row.ProfileIndex
			}
		}
		ds.ProfileIndex, ds.RowSize = compressRuns(index)
	}
	return ds, nil
}

func unitsByName(names, units string) map[string]string {
	nameFields, err := csv.NewReader(strings.NewReader(names)).Read()
	if err != nil {
		return nil
	}
	unitFields, _ := csv.NewReader(strings.NewReader(units)).Read()

	m := make(map[string]string, len(nameFields))
	for i, name := range nameFields {
		if i < len(unitFields) {
			m[name] = unitFields[i]
		} else {
			m[name] = ""
		}
	}
	return m
}

// compressRuns run-length encodes a per-sample profile index back into the
// ragged representation. Consecutive NaN samples form a single run, they
// mark the transitions between dives.
func compressRuns(index []float64) (values []float64, sizes []int64) {
	for i := 0; i < len(index); {
		j := i + 1
		for j < len(index) && sameIndex(index[i], index[j]) {
			j++
		}
		values = append(values, index[i])
		sizes = append(sizes, int64(j-i))
		i = j
	}
	return values, sizes
}

func sameIndex(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
