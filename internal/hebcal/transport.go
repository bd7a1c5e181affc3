package hebcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

const (
	// DefaultBaseURL is the production host of the hebcal REST API.
	DefaultBaseURL = "https://www.hebcal.com"

	defaultTimeout = 10 * time.Second

	// The error-body substring the service sends when a geonameid cannot
	// be resolved.
	geoNotFoundMarker = "can't find geonameid"
)

// ClientConfig carries shared construction settings for the endpoint clients.
// The zero value is usable: production base URL, a 10s-timeout HTTP client,
// and the default logger.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Headers    map[string]string
	Logger     *logger.Logger
}

// transport issues the single GET every endpoint client shares. It performs
// no retries and no schema validation; a successful response is returned as
// the decoded JSON value unconditionally.
type transport struct {
	baseURL string
	client  *http.Client
	headers map[string]string
	log     *logger.Logger
}

func newTransport(cfg ClientConfig) *transport {
	t := &transport{
		baseURL: cfg.BaseURL,
		client:  cfg.HTTPClient,
		headers: cfg.Headers,
		log:     cfg.Logger,
	}
	if t.baseURL == "" {
		t.baseURL = DefaultBaseURL
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: defaultTimeout}
	}
	if t.log == nil {
		t.log = logger.Default()
	}
	return t
}

func (t *transport) fetchJSON(ctx context.Context, endpoint string, params Params) (any, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	fullURL := fmt.Sprintf("%s/%s?%s", strings.TrimSuffix(t.baseURL, "/"), endpoint, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &FetchError{URL: fullURL, Err: err}
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		t.log.Error("request failed", "url", fullURL, "error", err)
		return nil, &FetchError{URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: fullURL, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusNotFound {
			var errBody struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(body, &errBody) == nil && strings.Contains(errBody.Error, geoNotFoundMarker) {
				t.log.Error("location not resolvable", "url", fullURL, "error", errBody.Error)
				return nil, &InvalidLocationError{URL: fullURL, Message: errBody.Error}
			}
		}
		t.log.Error("http status error", "url", fullURL, "status", resp.StatusCode)
		return nil, &FetchError{URL: fullURL, StatusCode: resp.StatusCode}
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &FetchError{URL: fullURL, StatusCode: resp.StatusCode, Err: err}
	}

	t.log.Debug("fetched successfully", "url", fullURL)
	return parsed, nil
}
