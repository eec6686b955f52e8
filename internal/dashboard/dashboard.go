// Package dashboard computes the read-only overview shown on the landing page.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

const summaryCacheKey = "dashboard:summary"

type Source interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	AssetTypeCounts(ctx context.Context) ([]domain.AssetTypeCount, error)
	WarrantyExpiring(ctx context.Context, from, to time.Time, limit int) ([]*domain.Asset, error)
}

type Summary struct {
	Stats          *domain.DashboardStats  `json:"stats"`
	AssetTypes     []domain.AssetTypeCount `json:"assetTypes"`
	WarrantyAlerts []domain.WarrantyAlert  `json:"warrantyAlerts"`
}

// cachedSummary remembers the day it was computed on, since warranty day
// counts are only valid for that day.
type cachedSummary struct {
	Day     string   `json:"day"`
	Summary *Summary `json:"summary"`
}

type Service struct {
	source Source
	cache  Cache
	ttl    time.Duration

	windowDays int
	alertLimit int
	now        func() time.Time
}

type Option func(*Service)

// WithCache keeps computed summaries in cache for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithWarrantyWindow(days, limit int) Option {
	return func(s *Service) {
		s.windowDays = days
		s.alertLimit = limit
	}
}

func NewService(source Source, opts ...Option) *Service {
	s := &Service{
		source:     source,
		windowDays: 90,
		alertLimit: 10,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.source.DashboardStats(ctx)
}

func (s *Service) AssetTypeCounts(ctx context.Context) ([]domain.AssetTypeCount, error) {
	return s.source.AssetTypeCounts(ctx)
}

// WarrantyAlerts lists non-retired assets whose warranty ends between today
// and today plus the window, both inclusive, nearest first.
func (s *Service) WarrantyAlerts(ctx context.Context) ([]domain.WarrantyAlert, error) {
	return s.warrantyAlerts(ctx, s.now())
}

func (s *Service) warrantyAlerts(ctx context.Context, now time.Time) ([]domain.WarrantyAlert, error) {
	today := domain.DateOf(now)
	until := today.AddDate(0, 0, s.windowDays)

	assets, err := s.source.WarrantyExpiring(ctx, today, until, s.alertLimit)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.WarrantyAlert, 0, len(assets))
	for _, a := range assets {
		expiry := domain.DateOf(*a.WarrantyExpiryDate)
		alerts = append(alerts, domain.WarrantyAlert{
			AssetID:            a.ID,
			AssetName:          a.AssetName,
			SerialNumber:       a.SerialNumber,
			WarrantyExpiryDate: expiry,
			DaysUntilExpiry:    int(expiry.Sub(today).Hours() / 24),
		})
	}
	return alerts, nil
}

// Summary returns every dashboard section, served from cache when possible.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	now := s.now()
	if s.cache != nil {
		if summary, ok := s.cached(ctx, now); ok {
			return summary, nil
		}
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	types, err := s.AssetTypeCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("asset type counts: %w", err)
	}
	alerts, err := s.warrantyAlerts(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("warranty alerts: %w", err)
	}

	summary := &Summary{
		Stats:          stats,
		AssetTypes:     types,
		WarrantyAlerts: alerts,
	}

	if s.cache != nil {
		s.store(ctx, summary, now)
	}
	return summary, nil
}

// Invalidate drops the cached summary. Called after every committed mutation.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, summaryCacheKey); err != nil {
		slog.Warn("failed to invalidate dashboard cache", "error", err)
	}
}

func (s *Service) cached(ctx context.Context, now time.Time) (*Summary, bool) {
	data, err := s.cache.Get(ctx, summaryCacheKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("failed to read dashboard cache", "error", err)
		}
		return nil, false
	}

	var entry cachedSummary
	if err := json.Unmarshal(data, &entry); err != nil || entry.Summary == nil {
		slog.Warn("discarding malformed dashboard cache entry", "error", err)
		return nil, false
	}
	if entry.Day != now.Format(domain.DateLayout) {
		return nil, false
	}
	return entry.Summary, true
}

func (s *Service) store(ctx context.Context, summary *Summary, now time.Time) {
	data, err := json.Marshal(cachedSummary{Day: now.Format(domain.DateLayout), Summary: summary})
	if err != nil {
		slog.Warn("failed to encode dashboard summary", "error", err)
		return
	}
	if err := s.cache.Set(ctx, summaryCacheKey, data, ttlUntilMidnight(now, s.ttl)); err != nil {
		slog.Warn("failed to write dashboard cache", "error", err)
	}
}

// ttlUntilMidnight caps ttl so an entry never outlives the day it was
// computed on.
func ttlUntilMidnight(now time.Time, ttl time.Duration) time.Duration {
	y, m, d := now.Date()
	left := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Sub(now)
	if ttl <= 0 || left < ttl {
		return left
	}
	return ttl
}
