package erddap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"glidermatch/glider"
)

// allDatasets is the builtin tabledap dataset listing every dataset the
// server carries, itself included.
const allDatasets = "allDatasets"

// DatasetIDs lists the dataset ids on the server. With nrtOnly only the
// near real time missions are kept, the ones whose id starts with "nrt".
func (c *Client) DatasetIDs(ctx context.Context, nrtOnly bool) ([]string, error) {
	body, err := c.FetchCSV(ctx, allDatasets, []string{"datasetID"}, nil)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer body.Close()

	var rows []struct {
		ID string `csv:"datasetID"`
	}
	if err := DecodeCSV(body, &rows); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.ID == allDatasets {
			continue
		}
		if nrtOnly && !strings.HasPrefix(row.ID, "nrt") {
			continue
		}
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// FetchDataset downloads a dataset as csv and parses it into a Dataset.
// Variables may be nil to fetch every column; constraints use tabledap
// syntax keys such as "time>=".
func (c *Client) FetchDataset(ctx context.Context, datasetID string, variables []string, constraints map[string]string) (*glider.Dataset, error) {
	body, err := c.FetchCSV(ctx, datasetID, variables, constraints)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", datasetID, err)
	}
	defer body.Close()

	ds, err := glider.ParseCSV(body, datasetID)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", datasetID, err)
	}
	return ds, nil
}

// TimeColumn fetches only the time variable of a dataset, in row order.
func (c *Client) TimeColumn(ctx context.Context, datasetID string) ([]time.Time, error) {
	body, err := c.FetchCSV(ctx, datasetID, []string{"time"}, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s times: %w", datasetID, err)
	}
	defer body.Close()

	var rows []struct {
		Time time.Time `csv:"time"`
	}
	if err := DecodeCSV(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s times: %w", datasetID, err)
	}
	times := make([]time.Time, len(rows))
	for i, row := range rows {
		times[i] = row.Time
	}
	return times, nil
}
