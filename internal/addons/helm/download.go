package helm

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/repo"
)

var (
	memoryCache   = map[string]*chart.Chart{}
	memoryCacheMu sync.Mutex
)

// GetCachePath returns the directory downloaded chart archives are stored in.
func GetCachePath() string {
	return getCachePath()
}

func getCachePath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "chartstack", "charts")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "chartstack", "charts")
	}
	return filepath.Join(home, ".cache", "chartstack", "charts")
}

// ClearMemoryCache drops every chart loaded during this process.
func ClearMemoryCache() {
	memoryCacheMu.Lock()
	defer memoryCacheMu.Unlock()
	memoryCache = map[string]*chart.Chart{}
}

// clearCache removes the on-disk chart cache.
func clearCache() error {
	return os.RemoveAll(getCachePath())
}

func cacheKey(spec ChartSpec) string {
	return spec.Repository + "|" + spec.Name + "|" + spec.Version
}

func archiveName(spec ChartSpec) string {
	return fmt.Sprintf("%s-%s.tgz", spec.Name, spec.Version)
}

// DownloadChart resolves the chart in its repository index, downloads the
// archive and loads it. Archives are cached on disk and loaded charts are
// cached in memory for the lifetime of the process.
func DownloadChart(ctx context.Context, spec ChartSpec) (*chart.Chart, error) {
	if spec.Repository == "" || spec.Name == "" {
		return nil, fmt.Errorf("incomplete chart spec %q from %q", spec.Name, spec.Repository)
	}

	key := cacheKey(spec)
	memoryCacheMu.Lock()
	if ch, ok := memoryCache[key]; ok {
		memoryCacheMu.Unlock()
		return ch, nil
	}
	memoryCacheMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cached := filepath.Join(getCachePath(), archiveName(spec))
	if spec.Version != "" {
		if ch, err := loadChartFromPath(cached); err == nil {
			storeInMemory(key, ch)
			return ch, nil
		}
	}

	data, err := fetchArchive(spec)
	if err != nil {
		return nil, err
	}

	ch, err := loader.LoadArchive(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load chart %s: %w", spec.Name, err)
	}

	if spec.Version != "" {
		if err := os.MkdirAll(filepath.Dir(cached), 0o750); err == nil {
			_ = os.WriteFile(cached, data, 0o600)
		}
	}

	storeInMemory(key, ch)
	return ch, nil
}

func storeInMemory(key string, ch *chart.Chart) {
	memoryCacheMu.Lock()
	defer memoryCacheMu.Unlock()
	memoryCache[key] = ch
}

func fetchArchive(spec ChartSpec) ([]byte, error) {
	providers := getter.All(cli.New())

	chartURL, err := repo.FindChartInRepoURL(
		spec.Repository,
		spec.Name,
		spec.Version,
		"", "", "",
		providers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find chart %s in repo %s: %w", spec.Name, spec.Repository, err)
	}

	u, err := url.Parse(chartURL)
	if err != nil {
		return nil, fmt.Errorf("invalid chart URL %q: %w", chartURL, err)
	}
	g, err := providers.ByScheme(strings.ToLower(u.Scheme))
	if err != nil {
		return nil, fmt.Errorf("no getter for chart URL %q: %w", chartURL, err)
	}

	buf, err := g.Get(chartURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download chart %s: %w", spec.Name, err)
	}
	return buf.Bytes(), nil
}

func loadChartFromPath(path string) (*chart.Chart, error) {
	ch, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart from %s: %w", path, err)
	}
	return ch, nil
}
