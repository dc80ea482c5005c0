// Package server exposes the generated feed over HTTP.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tartampluch/birthday-feed/internal/config"
	"github.com/tartampluch/birthday-feed/internal/feed"
)

// StatusRecorder receives the status code of every feed response.
type StatusRecorder interface {
	RecordHTTPStatus(code int)
}

// Server serves the calendar document produced by the pipeline. Every request
// goes through the orchestrator; request coalescing is the cache's job, not
// the server's.
type Server struct {
	Port    string
	Service *feed.Service
	Request feed.Request

	// Metrics optionally serves the Prometheus registry on /metrics.
	Metrics http.Handler
	// Status optionally counts response codes.
	Status StatusRecorder
}

// Start runs the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteFeed, s.handleFeedRequest)
	if s.Metrics != nil {
		mux.Handle(config.RouteMetrics, s.Metrics)
	}

	srv := &http.Server{
		Addr:         config.AddrSeparator + s.Port,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, 1)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// handleFeedRequest serves the ICS content with HTTP caching support.
func (s *Server) handleFeedRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		s.reply(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	entry, err := s.Service.Produce(r.Context(), s.Request)
	if err != nil {
		// The orchestrator already logged the cause; clients only get the
		// localized message.
		msg := s.Service.Catalog.Localizer(s.Request.Language).Get(config.TKeySyncFailed)
		s.reply(w, msg, http.StatusInternalServerError)
		return
	}

	hash := sha256.Sum256(entry.Body)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))
	lastModified := entry.GeneratedAt.UTC()

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderContentDisp, config.AttachmentICS)
	w.Header().Set(config.HeaderCacheControl, s.cacheControl())
	w.Header().Set(config.HeaderETag, etag)
	w.Header().Set(config.HeaderLastModified, lastModified.Format(http.TimeFormat))

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == etag {
		slog.Debug(config.MsgNotModified,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyETag, etag,
		)
		s.status(w, http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			// The header carries second precision only; compare accordingly.
			if !lastModified.Truncate(time.Second).After(clientTime) {
				s.status(w, http.StatusNotModified)
				return
			}
		}
	}

	s.record(http.StatusOK)
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(entry.Body)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// cacheControl mirrors the pipeline TTL towards HTTP clients.
func (s *Server) cacheControl() string {
	if s.Request.CacheTTL <= 0 {
		return config.CacheControlNoStore
	}
	return fmt.Sprintf(config.CacheControlMaxAge, int64(s.Request.CacheTTL.Seconds()))
}

func (s *Server) reply(w http.ResponseWriter, msg string, code int) {
	s.record(code)
	http.Error(w, msg, code)
}

func (s *Server) status(w http.ResponseWriter, code int) {
	s.record(code)
	w.WriteHeader(code)
}

func (s *Server) record(code int) {
	if s.Status != nil {
		s.Status.RecordHTTPStatus(code)
	}
}
