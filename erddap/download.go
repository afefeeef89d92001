package erddap

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/requestcache"

	"glidermatch/glider"
	"glidermatch/utils"
)

// DefaultCacheDir matches the directory name the research scripts already
// use, so existing caches stay in the same place.
const DefaultCacheDir = "voto_erddap_data_cache"

// ErrConflictingModes rejects a download asked to keep only nrt and only
// delayed datasets at the same time.
var ErrConflictingModes = errors.New("cannot set both nrt-only and delayed-only")

// DownloadOptions control filtering and caching for bulk downloads.
type DownloadOptions struct {
	// Variables restricts which columns are fetched; nil fetches all.
	Variables []string
	// NrtOnly and DelayedOnly drop dataset ids of the other mode.
	NrtOnly     bool
	DelayedOnly bool
	// Cache keeps delayed mode datasets on disk, keyed by dataset id.
	Cache    bool
	CacheDir string
}

func init() {
	// Disk cache entries are gob encoded datasets.
	gob.Register(&glider.Dataset{})
}

// Download fetches the given datasets, filtered by mode when asked. Delayed
// mode datasets are final, so with caching enabled they are written to disk
// once and loaded from there afterwards; nrt datasets are always fetched
// fresh.
func (c *Client) Download(ctx context.Context, datasetIDs []string, opt DownloadOptions) (map[string]*glider.Dataset, error) {
	if opt.NrtOnly && opt.DelayedOnly {
		return nil, ErrConflictingModes
	}
	if opt.NrtOnly {
		datasetIDs = utils.FilterSubstring(datasetIDs, "nrt", "%s is not nrt. Ignoring")
	} else if opt.DelayedOnly {
		datasetIDs = utils.FilterSubstring(datasetIDs, "delayed", "%s is not delayed. Ignoring")
	}

	if opt.CacheDir == "" {
		opt.CacheDir = DefaultCacheDir
	}

	var cache *requestcache.Cache
	if opt.Cache {
		if err := ensureCacheDir(opt.CacheDir); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		fetch := func(ctx context.Context, request interface{}) (interface{}, error) {
			return c.FetchDataset(ctx, request.(string), opt.Variables, nil)
		}
		cache = requestcache.NewCache(fetch, 1, requestcache.Deduplicate(),
			requestcache.Memory(100),
			requestcache.Disk(opt.CacheDir, requestcache.MarshalGob, requestcache.UnmarshalGob))
	}

	datasets := make(map[string]*glider.Dataset, len(datasetIDs))
	bar := utils.NewBar(len(datasetIDs), "Downloading datasets")
	for _, id := range datasetIDs {
		ds, err := c.download(ctx, id, cache, opt)
		if err != nil {
			return nil, err
		}
		datasets[id] = ds
		bar.Add(1)
	}
	return datasets, nil
}

func (c *Client) download(ctx context.Context, id string, cache *requestcache.Cache, opt DownloadOptions) (*glider.Dataset, error) {
	if cache == nil || !strings.Contains(id, "delayed") {
		slog.Info("Downloading " + id)
		return c.FetchDataset(ctx, id, opt.Variables, nil)
	}

	if _, err := os.Stat(filepath.Join(opt.CacheDir, id+".dat")); err == nil {
		slog.Info(fmt.Sprintf("Found cached %s. Loading from disk", id))
	} else {
		slog.Info("Downloading " + id)
	}
	result, err := cache.NewRequest(ctx, id, id).Result()
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", id, err)
	}
	ds, ok := result.(*glider.Dataset)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry %T for %s", result, id)
	}
	return ds, nil
}

func ensureCacheDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if abs, err := filepath.Abs(dir); err == nil {
		slog.Info(fmt.Sprintf("Creating directory to cache datasets at %s", abs))
	}
	return os.MkdirAll(dir, 0o755)
}
