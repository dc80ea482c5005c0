package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/tartampluch/birthday-feed/internal/config"
)

// Source describes where the raw contact payload comes from.
type Source struct {
	Mode     string // config.SourceModeLocal or config.SourceModeWeb
	Path     string // Absolute path to the .vcf file (local mode)
	URL      string // Plain HTTP(S) or CardDAV URL (web mode)
	Username string // HTTP Basic Auth username
	Password string // HTTP Basic Auth password

	// CardDAVQuery switches the web mode from a plain GET to an
	// addressbook-query REPORT against a CardDAV collection.
	CardDAVQuery bool
}

// Descriptor identifies the source for cache-key derivation. Credentials are
// deliberately excluded; two users of the same address book share one feed.
func (s Source) Descriptor() string {
	if s.Mode == config.SourceModeLocal {
		return s.Path
	}
	return s.URL
}

// Fetcher retrieves the raw contact payload for a source. The payload is zero
// or more concatenated vCard records as a single string.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) (string, error)
}

// HTTPFetcher implements Fetcher over the local filesystem and net/http.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher with the standard bounded timeout, so a
// stalled remote can never hang the pipeline.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch dispatches on the source mode. Every failure path is wrapped in
// *SourceError.
func (f *HTTPFetcher) Fetch(ctx context.Context, src Source) (string, error) {
	switch src.Mode {
	case config.SourceModeLocal:
		if src.Path == "" {
			return "", &SourceError{Op: "open", Err: errors.New(config.ErrLocalPathEmpty)}
		}
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return "", &SourceError{Op: "open", Err: err}
		}
		return string(data), nil
	case config.SourceModeWeb:
		if src.URL == "" {
			return "", &SourceError{Op: "get", Err: errors.New(config.ErrWebURLEmpty)}
		}
		if src.CardDAVQuery {
			return f.fetchReport(ctx, src)
		}
		return f.fetchGet(ctx, src)
	default:
		return "", &SourceError{Op: "open", Err: fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)}
	}
}

// fetchGet downloads the payload with a plain GET.
func (f *HTTPFetcher) fetchGet(ctx context.Context, src Source) (string, error) {
	body, err := f.do(ctx, http.MethodGet, src, nil, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// do runs one bounded-size HTTP exchange and returns the response body.
// It sanitizes the URL for logging to avoid leaking tokens in query strings.
func (f *HTTPFetcher) do(ctx context.Context, method string, src Source, reqBody io.Reader, configure func(*http.Request)) ([]byte, error) {
	u, err := url.Parse(src.URL)
	if err != nil {
		return nil, &SourceError{Op: "get", Err: fmt.Errorf("%s: %w", config.ErrInvalidURL, err)}
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, &SourceError{Op: "get", Err: fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)}
	}

	safeURL := u.Scheme + "://" + u.Host + u.Path
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, safeURL),
	)
	log.Debug(config.MsgFetchStart)

	req, err := http.NewRequestWithContext(ctx, method, src.URL, reqBody)
	if err != nil {
		return nil, &SourceError{Op: "get", Err: err}
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if src.Username != "" || src.Password != "" {
		req.SetBasicAuth(src.Username, src.Password)
	}
	if configure != nil {
		configure(req)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &SourceError{Op: "get", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		log.Warn(config.MsgFetchStatus,
			slog.Int(config.LogKeyStatus, resp.StatusCode),
		)
		return nil, &SourceError{Op: "get", Err: fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)}
	}

	log.Info(config.MsgFetchBody,
		slog.Int64("content_length", resp.ContentLength),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxHTTPResponseSize))
	if err != nil {
		return nil, &SourceError{Op: "get", Err: err}
	}
	return body, nil
}
