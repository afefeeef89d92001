// Package erddap is a client for the tabledap protocol of ERDDAP servers,
// enough to list, download and inspect the VOTO glider datasets.
package erddap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

// DefaultServer is the VOTO ERDDAP instance holding the glider missions.
const DefaultServer = "https://erddap.observations.voiceoftheocean.org/erddap"

// ErrNoResults is the server's "no matching results" answer: the
// constraints were valid but select an empty table.
var ErrNoResults = errors.New("query produced no matching results")

// Tabledap phrases an empty result set like this inside a 404 body.
const noResultsMarker = "Your query produced no matching results"

type Client struct {
	Server string
	client *http.Client
}

// New returns a client for the given server base URL, the VOTO server when
// empty. The base URL is the part before "/tabledap".
func New(server string) *Client {
	if server == "" {
		server = DefaultServer
	}
	return &Client{
		Server: strings.TrimSuffix(server, "/"),
		// Full mission downloads can run long
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// TabledapURL builds the csv request for a dataset. Variables may be empty,
// tabledap then returns every column. Constraint keys carry their operator
// the way tabledap spells them, "time>=" style; values get escaped.
func (c *Client) TabledapURL(datasetID string, variables []string, constraints map[string]string) string {
	base := c.Server + "/tabledap/" + datasetID + ".csv"

	query := strings.Join(variables, ",")
	keys := make([]string, 0, len(constraints))
	for k := range constraints {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		query += "&" + k + url.QueryEscape(constraints[k])
	}

	if query == "" {
		return base
	}
	return base + "?" + query
}

// FetchCSV runs a tabledap query and hands back the raw body. The caller
// closes it.
func (c *Client) FetchCSV(ctx context.Context, datasetID string, variables []string, constraints map[string]string) (io.ReadCloser, error) {
	return c.fetch(ctx, c.TabledapURL(datasetID, variables, constraints))
}

func (c *Client) fetch(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if strings.Contains(string(body), noResultsMarker) {
			return nil, ErrNoResults
		}
		return nil, fmt.Errorf("%s replied %s: %s", u, resp.Status, compact(body))
	}
	return resp.Body, nil
}

// compact squeezes an error body onto one line for wrapping.
func compact(body []byte) string {
	msg := strings.Join(strings.Fields(string(body)), " ")
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// DecodeCSV decodes a tabledap csv response into out, a pointer to a slice
// of csv-tagged structs. Tabledap sends two header lines, names then units;
// the units line is dropped.
func DecodeCSV(r io.Reader, out any) error {
	br := bufio.NewReader(r)
	names, err := br.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read column header: %w", err)
	}
	if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read units header: %w", err)
	}
	return gocsv.Unmarshal(io.MultiReader(strings.NewReader(names), br), out)
}
