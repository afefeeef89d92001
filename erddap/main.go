package erddap

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// DatasetsConfig lists the dataset ids available on the server.
type DatasetsConfig struct {
	NrtOnly bool   `arg:"--nrt-only" help:"only list near real time datasets"`
	Server  string `arg:"--server,env:VOTO_ERDDAP_URL" help:"ERDDAP server base URL"`
}

func (DatasetsConfig) Description() string {
	return `List the glider dataset ids available on the VOTO ERDDAP server.
The server can be overridden with the "VOTO_ERDDAP_URL" environment variable.`
}

func (config *DatasetsConfig) Execute() {
	ids, err := New(config.Server).DatasetIDs(context.TODO(), config.NrtOnly)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}

// DownloadConfig bulk downloads datasets by id.
type DownloadConfig struct {
	IDs         []string `arg:"positional,required" help:"dataset ids to download"`
	Variables   []string `arg:"-v,--variables" help:"data variables to download, all when empty"`
	NrtOnly     bool     `arg:"--nrt-only" help:"skip dataset ids that are not near real time"`
	DelayedOnly bool     `arg:"--delayed-only" help:"skip dataset ids that are not delayed mode"`
	NoCache     bool     `arg:"--no-cache" help:"do not cache delayed mode datasets on disk"`
	CacheDir    string   `arg:"--cache-dir,env:GLIDER_CACHE_DIR" help:"where cached datasets live (default voto_erddap_data_cache)"`
	Server      string   `arg:"--server,env:VOTO_ERDDAP_URL" help:"ERDDAP server base URL"`
}

func (DownloadConfig) Description() string {
	return `Download glider datasets by id.
Delayed mode datasets are final, so they are cached on disk by id and later
runs load them from there instead of hitting the server again.`
}

func (config *DownloadConfig) Execute() {
	datasets, err := New(config.Server).Download(context.TODO(), config.IDs, DownloadOptions{
		Variables:   config.Variables,
		NrtOnly:     config.NrtOnly,
		DelayedOnly: config.DelayedOnly,
		Cache:       !config.NoCache,
		CacheDir:    config.CacheDir,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	ids := make([]string, 0, len(datasets))
	for id := range datasets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Printf("%s: %d rows\n", id, datasets[id].Len())
	}
}

// MetaConfig shows the global attributes and most recent rows of a dataset.
type MetaConfig struct {
	ID     string `arg:"positional" required:"true" help:"dataset id"`
	Server string `arg:"--server,env:VOTO_ERDDAP_URL" help:"ERDDAP server base URL"`
}

func (MetaConfig) Description() string {
	return `Show the global attributes of a dataset along with its most recent rows,
useful to check what a deployment is doing without downloading the mission.`
}

func (config *MetaConfig) Execute() {
	meta, err := New(config.Server).FetchMeta(context.TODO(), config.ID)
	if err != nil {
		fmt.Println(err)
		return
	}

	keys := make([]string, 0, len(meta.Attributes))
	for key := range meta.Attributes {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Printf("%s: %v\n", key, meta.Attributes[key])
	}

	fmt.Printf("\n%d recent rows", meta.Recent.Len())
	if n := meta.Recent.Len(); n > 0 {
		fmt.Printf(", last at %s", meta.Recent.Time[n-1].UTC().Format(time.RFC3339))
	}
	fmt.Println()
}
