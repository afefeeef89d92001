package glider

import (
	"fmt"
	"math"
	"time"
)

// AddProfileTime expands the ragged profile representation to one profile
// number per sample and stamps every sample with the mean time of its
// profile. Samples sharing a profile number belong to the same profile even
// when their runs are not adjacent.
//
// The ragged representation must be consistent: one RowSize entry per
// ProfileIndex entry, no negative sizes, and the sizes must sum to the
// sample count.
func (d *Dataset) AddProfileTime() error {
	if len(d.ProfileIndex) != len(d.RowSize) {
		return fmt.Errorf("profile_index has %d entries, rowSize has %d", len(d.ProfileIndex), len(d.RowSize))
	}

	var total int64
	for i, size := range d.RowSize {
		if size < 0 {
			return fmt.Errorf("rowSize[%d] is negative (%d)", i, size)
		}
		total += size
	}
	if total != int64(d.Len()) {
		return fmt.Errorf("rowSize sums to %d samples, dataset has %d", total, d.Len())
	}

	d.ProfileNum = make([]float64, d.Len())
	groups := make(map[float64][]int)
	var nanRuns [][]int

	start := 0
	for i, size := range d.RowSize {
		num := d.ProfileIndex[i]
		rows := make([]int, 0, size)
		for j := start; j < start+int(size); j++ {
			d.ProfileNum[j] = num
			rows = append(rows, j)
		}
		start += int(size)

		// NaN indices never compare equal, so each NaN run keeps its
		// own mean instead of collapsing into one group.
		if math.IsNaN(num) {
			nanRuns = append(nanRuns, rows)
			continue
		}
		groups[num] = append(groups[num], rows...)
	}

	d.ProfileMeanTime = make([]time.Time, d.Len())
	for _, rows := range groups {
		d.stampMeanTime(rows)
	}
	for _, rows := range nanRuns {
		d.stampMeanTime(rows)
	}
	return nil
}

func (d *Dataset) stampMeanTime(rows []int) {
	if len(rows) == 0 {
		return
	}
	times := make([]time.Time, len(rows))
	for i, r := range rows {
		times[i] = d.Time[r]
	}
	mean := meanTime(times)
	for _, r := range rows {
		d.ProfileMeanTime[r] = mean
	}
}
