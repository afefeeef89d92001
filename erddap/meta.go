package erddap

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"glidermatch/glider"
)

// Meta is the header of a dataset: its global attributes plus a probe of
// the most recent records.
type Meta struct {
	DatasetID  string
	Attributes map[string]any
	Recent     *glider.Dataset
}

// The probe reaches this many time records back from the end of the
// dataset, recent enough to reflect the current deployment.
const metaProbeRows = 50

// FetchMeta collects a dataset's global attributes together with its most
// recent rows. Short datasets are probed from their first record.
func (c *Client) FetchMeta(ctx context.Context, datasetID string) (*Meta, error) {
	times, err := c.TimeColumn(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("dataset %s has no time records", datasetID)
	}
	probe := len(times) - metaProbeRows
	if probe < 0 {
		probe = 0
	}
	since := times[probe]

	recent, err := c.FetchDataset(ctx, datasetID, nil, map[string]string{
		"time>=": since.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}

	attrs, err := c.GlobalAttributes(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	return &Meta{DatasetID: datasetID, Attributes: attrs, Recent: recent}, nil
}

// infoRow is one line of the info/<id>/index.csv table.
type infoRow struct {
	RowType   string `csv:"Row Type"`
	Variable  string `csv:"Variable Name"`
	Attribute string `csv:"Attribute Name"`
	DataType  string `csv:"Data Type"`
	Value     string `csv:"Value"`
}

// GlobalAttributes fetches the NC_GLOBAL attributes of a dataset. Numeric
// attributes become int64 or float64, the multi-line variables list becomes
// a []string, and string-encoded dictionaries are parsed into maps instead
// of staying opaque blobs.
func (c *Client) GlobalAttributes(ctx context.Context, datasetID string) (map[string]any, error) {
	body, err := c.fetch(ctx, c.Server+"/info/"+datasetID+"/index.csv")
	if err != nil {
		return nil, fmt.Errorf("fetch %s info: %w", datasetID, err)
	}
	defer body.Close()

	var rows []infoRow
	if err := gocsv.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s info: %w", datasetID, err)
	}

	attrs := make(map[string]any)
	for _, row := range rows {
		if row.RowType != "attribute" || row.Variable != "NC_GLOBAL" {
			continue
		}
		attrs[row.Attribute] = typedValue(row.DataType, row.Value)
	}

	if raw, ok := attrs["variables"].(string); ok && strings.Contains(raw, "\n") {
		attrs["variables"] = strings.Split(raw, "\n")
	}
	for key, val := range attrs {
		s, ok := val.(string)
		if !ok || !strings.Contains(s, "{") {
			continue
		}
		parsed, err := ParseLiteral(s)
		if err != nil {
			return nil, fmt.Errorf("attribute %s of %s: %w", key, datasetID, err)
		}
		attrs[key] = parsed
	}
	return attrs, nil
}

// typedValue converts an info table value according to its declared type.
// Array attributes arrive comma joined and stay strings.
func typedValue(dataType, value string) any {
	switch dataType {
	case "byte", "short", "int", "long":
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	case "float", "double":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return value
}
