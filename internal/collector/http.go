package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

// Named JHU CSSE global time series.
const (
	DatasetConfirmed = "confirmed"
	DatasetDeaths    = "deaths"
	DatasetRecovered = "recovered"
)

const jhuBaseURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data/csse_covid_19_time_series/"

// DatasetURLs maps a dataset name to its CSV resource.
var DatasetURLs = map[string]string{
	DatasetConfirmed: jhuBaseURL + "time_series_covid19_confirmed_global.csv",
	DatasetDeaths:    jhuBaseURL + "time_series_covid19_deaths_global.csv",
	DatasetRecovered: jhuBaseURL + "time_series_covid19_recovered_global.csv",
}

// HTTPFetcher implements Fetcher with a single GET of a CSV resource.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher with optional proxy support.
// A zero timeout leaves the request bounded only by ctx.
func NewHTTPFetcher(rawURL, proxyURL string, timeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			log.WithFields(log.Fields{"prefix": logPrefix, "proxy": proxyURL, "error": err}).Warn("ignoring invalid proxy")
		}
	}
	return &HTTPFetcher{
		URL: rawURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// Fetch issues one request; there is no retry.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, &FetchError{URL: f.URL, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	started := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: f.URL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &FetchError{
			URL:        f.URL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %q", string(body)),
		}
	}

	log.WithFields(log.Fields{
		"prefix":  logPrefix,
		"url":     f.URL,
		"elapsed": time.Since(started).Round(time.Millisecond),
	}).Debug("table response received")

	return NewTable(resp.Body)
}
