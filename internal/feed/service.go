// Package feed orchestrates the contact-to-calendar pipeline: cache lookup,
// fetch, parse, generate, cache store.
package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/birthday-feed/internal/config"
	"github.com/tartampluch/birthday-feed/internal/engine"
	"github.com/tartampluch/birthday-feed/internal/fetch"
	"github.com/tartampluch/birthday-feed/internal/i18n"
)

// Entry is a rendered feed together with its build instant. The pair is what
// the cache stores and what conditional HTTP responses compare against.
type Entry struct {
	Body        []byte
	GeneratedAt time.Time
}

// Cache is the key-value collaborator shared across concurrent requests.
type Cache interface {
	Get(key string) (Entry, bool)
	Put(key string, e Entry, ttl time.Duration)
}

// Metrics receives pipeline observations. All methods must be cheap.
type Metrics interface {
	RecordCacheHit()
	RecordCacheMiss()
	RecordBuildSuccess()
	RecordBuildFailure()
	RecordBuildDuration(d time.Duration)
}

// Request carries everything one feed production needs.
type Request struct {
	Source   fetch.Source
	Language string
	Reminder engine.ReminderConfig
	CacheTTL time.Duration
}

// Service wires the pipeline stages together. All fields are required except
// Metrics.
type Service struct {
	Fetcher fetch.Fetcher
	Cache   Cache
	Clock   engine.Clock
	Catalog *i18n.Catalog
	Metrics Metrics
}

// Produce returns the rendered feed for the request, reusing the cached copy
// when one is live. At most one fetch+parse+generate runs per cache key per
// TTL window; failed runs never write to the cache, so the next request
// retries from scratch.
func (s *Service) Produce(ctx context.Context, req Request) (Entry, error) {
	key := cacheKey(req.Source, req.Language)
	log := slog.With(
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyMode, req.Source.Mode,
		config.LogKeyLang, req.Language,
	)

	if req.CacheTTL > 0 {
		if entry, ok := s.Cache.Get(key); ok {
			s.recordCacheHit()
			log.Debug(config.MsgCacheHit, config.LogKeyCacheKey, key)
			return entry, nil
		}
	}
	s.recordCacheMiss()

	start := time.Now()
	log.Info(config.MsgSyncStarted)

	loc := s.Catalog.Localizer(req.Language)

	payload, err := s.Fetcher.Fetch(ctx, req.Source)
	if err != nil {
		return Entry{}, s.fail(log, loc, err)
	}

	parser := &engine.Parser{FallbackName: loc.Get(config.TKeyUnknownContact)}
	records := parser.Parse(payload)

	gen := &engine.Generator{
		Clock:         s.Clock,
		FormatSummary: summaryFormatter(loc),
	}
	body, err := gen.Generate(records, req.Reminder)
	if err != nil {
		return Entry{}, s.fail(log, loc, err)
	}

	entry := Entry{
		Body:        body,
		GeneratedAt: s.Clock.Now().UTC(),
	}
	if req.CacheTTL > 0 {
		s.Cache.Put(key, entry, req.CacheTTL)
		log.Debug(config.MsgCacheStored,
			config.LogKeyCacheKey, key,
			config.LogKeyTTL, int64(req.CacheTTL.Seconds()),
		)
	}

	s.recordBuildSuccess(time.Since(start))
	log.Debug(config.MsgGenSuccess,
		config.LogKeySizeBytes, len(body),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return entry, nil
}

// fail converts any pipeline error into the single localized user-facing
// failure, keeping the technical cause in the chain for logs.
func (s *Service) fail(log *slog.Logger, loc *i18n.Localizer, err error) error {
	if s.Metrics != nil {
		s.Metrics.RecordBuildFailure()
	}
	log.Error(config.MsgSyncFailed, config.LogKeyError, err)
	return fmt.Errorf("%s: %w", loc.Get(config.TKeySyncFailed), err)
}

func (s *Service) recordCacheHit() {
	if s.Metrics != nil {
		s.Metrics.RecordCacheHit()
	}
}

func (s *Service) recordCacheMiss() {
	if s.Metrics != nil {
		s.Metrics.RecordCacheMiss()
	}
}

func (s *Service) recordBuildSuccess(d time.Duration) {
	if s.Metrics != nil {
		s.Metrics.RecordBuildSuccess()
		s.Metrics.RecordBuildDuration(d)
	}
}

// cacheKey derives the deterministic cache key for a (source, language) pair.
func cacheKey(src fetch.Source, lang string) string {
	sum := sha256.Sum256([]byte(src.Descriptor() + "|" + lang))
	return config.CacheKeyPrefix + hex.EncodeToString(sum[:config.CacheKeyHashLen])
}

// summaryFormatter localizes event titles. Four phrasings: year unknown,
// born this year, turning one, turning N.
func summaryFormatter(loc *i18n.Localizer) func(name string, age int, yearKnown bool) string {
	return func(name string, age int, yearKnown bool) string {
		data := map[string]any{"Name": name}
		switch {
		case !yearKnown:
			return loc.GetWith(config.TKeyEvtSummary, data)
		case age == 0:
			return loc.GetWith(config.TKeyEvtSummaryBirth, data)
		default:
			data["Age"] = age
			return loc.GetPlural(config.TKeyEvtSummaryAge, age, data)
		}
	}
}
