package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-feed/internal/cache"
	"github.com/tartampluch/birthday-feed/internal/config"
	"github.com/tartampluch/birthday-feed/internal/feed"
	"github.com/tartampluch/birthday-feed/internal/fetch"
	"github.com/tartampluch/birthday-feed/internal/i18n"
)

const samplePayload = "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:John Doe\r\nBDAY:19900515\r\nEND:VCARD\r\n"

type stubFetcher struct {
	payload string
	err     error
}

func (f stubFetcher) Fetch(_ context.Context, _ fetch.Source) (string, error) {
	return f.payload, f.err
}

type stubClock struct {
	t time.Time
}

func (c stubClock) Now() time.Time {
	return c.t
}

type statusLog struct {
	codes []int
}

func (s *statusLog) RecordHTTPStatus(code int) {
	s.codes = append(s.codes, code)
}

func newTestServer(t *testing.T, fetcher fetch.Fetcher, ttl time.Duration) (*Server, *statusLog) {
	t.Helper()
	catalog, err := i18n.NewCatalog()
	require.NoError(t, err)

	statuses := &statusLog{}
	return &Server{
		Port: config.DefaultPort,
		Service: &feed.Service{
			Fetcher: fetcher,
			Cache:   cache.NewMemory[feed.Entry](),
			Clock:   stubClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
			Catalog: catalog,
		},
		Request: feed.Request{
			Source:   fetch.Source{Mode: config.SourceModeWeb, URL: "https://dav.example.com/book/"},
			Language: "en",
			CacheTTL: ttl,
		},
		Status: statuses,
	}, statuses
}

func TestHandleFeedRequest_OK(t *testing.T) {
	srv, statuses := newTestServer(t, stubFetcher{payload: samplePayload}, time.Minute)

	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))

	resp := rec.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Equal(t, config.AttachmentICS, resp.Header.Get(config.HeaderContentDisp))
	assert.Equal(t, "private, max-age=60", resp.Header.Get(config.HeaderCacheControl))
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
	assert.NotEmpty(t, resp.Header.Get(config.HeaderLastModified))
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Equal(t, []int{http.StatusOK}, statuses.codes)
}

func TestHandleFeedRequest_Head(t *testing.T) {
	srv, _ := newTestServer(t, stubFetcher{payload: samplePayload}, time.Minute)

	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, httptest.NewRequest(http.MethodHead, config.RouteFeed, nil))

	resp := rec.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag), "validators are present on HEAD")
	assert.Empty(t, rec.Body.String(), "HEAD carries no body")
}

func TestHandleFeedRequest_MethodNotAllowed(t *testing.T) {
	srv, statuses := newTestServer(t, stubFetcher{payload: samplePayload}, time.Minute)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		srv.handleFeedRequest(rec, httptest.NewRequest(method, config.RouteFeed, nil))

		resp := rec.Result()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
	}
	assert.Equal(t, []int{405, 405, 405}, statuses.codes)
}

func TestHandleFeedRequest_IfNoneMatch(t *testing.T) {
	srv, statuses := newTestServer(t, stubFetcher{payload: samplePayload}, time.Minute)

	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
	etag := rec.Result().Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, config.RouteFeed, nil)
	req.Header.Set(config.HeaderIfNoneMatch, etag)
	rec = httptest.NewRecorder()
	srv.handleFeedRequest(rec, req)

	resp := rec.Result()
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, []int{http.StatusOK, http.StatusNotModified}, statuses.codes)
}

func TestHandleFeedRequest_IfNoneMatchStale(t *testing.T) {
	srv, _ := newTestServer(t, stubFetcher{payload: samplePayload}, time.Minute)

	req := httptest.NewRequest(http.MethodGet, config.RouteFeed, nil)
	req.Header.Set(config.HeaderIfNoneMatch, `"deadbeef"`)
	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, req)

	assert.Equal(t, http.StatusOK, rec.Result().StatusCode)
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}

func TestHandleFeedRequest_IfModifiedSince(t *testing.T) {
	srv, _ := newTestServer(t, stubFetcher{payload: samplePayload}, time.Minute)
	built := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		since  string
		status int
	}{
		{"exact build instant", built.Format(http.TimeFormat), http.StatusNotModified},
		{"after build", built.Add(time.Hour).Format(http.TimeFormat), http.StatusNotModified},
		{"before build", built.Add(-time.Hour).Format(http.TimeFormat), http.StatusOK},
		{"unparseable", "not a date", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, config.RouteFeed, nil)
			req.Header.Set(config.HeaderIfModifiedSince, tc.since)
			rec := httptest.NewRecorder()
			srv.handleFeedRequest(rec, req)

			assert.Equal(t, tc.status, rec.Result().StatusCode)
		})
	}
}

func TestHandleFeedRequest_PipelineFailure(t *testing.T) {
	srv, statuses := newTestServer(t, stubFetcher{err: errors.New("connection refused")}, time.Minute)

	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))

	resp := rec.Result()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	// Only the localized message leaves the server, never the cause.
	assert.Contains(t, rec.Body.String(), "could not be loaded")
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Equal(t, []int{http.StatusInternalServerError}, statuses.codes)
}

func TestCacheControl(t *testing.T) {
	srv, _ := newTestServer(t, stubFetcher{payload: samplePayload}, 0)
	assert.Equal(t, config.CacheControlNoStore, srv.cacheControl())

	srv.Request.CacheTTL = 5 * time.Minute
	assert.Equal(t, "private, max-age=300", srv.cacheControl())
}

func TestStart_PortRequired(t *testing.T) {
	srv := &Server{}
	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, config.ErrPortRequired)
}

func TestStart_GracefulShutdown(t *testing.T) {
	srv, _ := newTestServer(t, stubFetcher{payload: samplePayload}, time.Minute)
	srv.Port = "0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}
