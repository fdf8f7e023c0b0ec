package service

import (
	"context"
	"fmt"
	"sort"
	"time"
	"userpanel/internal/domain/model"
	"userpanel/internal/domain/repository"
)

// Bucket is one period's count. Periods with no rows are omitted, never
// zero-filled.
type Bucket struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

type GlobalStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalAuditRecords int64 `json:"total_audit_records"`
}

type PeriodStats struct {
	PerDay   []Bucket `json:"per_day"`
	PerWeek  []Bucket `json:"per_week"`
	PerMonth []Bucket `json:"per_month"`
}

// StatsService groups timestamped rows into day/week/month buckets. The
// repositories hand back raw timestamps; all windowing and bucketing is done
// here so the boundary rules live in one place.
type StatsService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	audit     *AuditService
	weeks     int

	now func() time.Time
}

func NewStatsService(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	audit *AuditService,
	weeks int,
) *StatsService {
	if weeks <= 0 {
		weeks = 4
	}
	return &StatsService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		audit:     audit,
		weeks:     weeks,
		now:       time.Now,
	}
}

// Global returns the high-level KPI counts.
func (s *StatsService) Global(ctx context.Context, actor *model.User) (*GlobalStats, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	totalRecords, err := s.auditRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit records: %w", err)
	}

	s.audit.Record(ctx, model.ActionStatsGlobal,
		fmt.Sprintf("admin #%d viewed global stats", actor.ID), &actor.ID)

	return &GlobalStats{TotalUsers: totalUsers, TotalAuditRecords: totalRecords}, nil
}

// Activity buckets audit records by day, week and month.
func (s *StatsService) Activity(ctx context.Context, actor *model.User) (*PeriodStats, error) {
	stats, err := s.periodStats(ctx, s.auditRepo.CreatedSince)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.ActionStatsActivity,
		fmt.Sprintf("admin #%d viewed activity stats", actor.ID), &actor.ID)
	return stats, nil
}

// Signups buckets user registrations by day, week and month.
func (s *StatsService) Signups(ctx context.Context, actor *model.User) (*PeriodStats, error) {
	stats, err := s.periodStats(ctx, s.userRepo.CreatedSince)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.ActionStatsSignups,
		fmt.Sprintf("admin #%d viewed signup stats", actor.ID), &actor.ID)
	return stats, nil
}

func (s *StatsService) periodStats(
	ctx context.Context,
	createdSince func(context.Context, time.Time) ([]time.Time, error),
) (*PeriodStats, error) {
	now := s.now()

	// One fetch at the widest window; the narrower windows filter in memory.
	stamps, err := createdSince(ctx, monthCutoff(now))
	if err != nil {
		return nil, fmt.Errorf("failed to read timestamps: %w", err)
	}

	return &PeriodStats{
		PerDay:   bucketize(stamps, now, dayCutoff(now), dayKey),
		PerWeek:  bucketize(stamps, now, weekCutoff(now, s.weeks), weekKey),
		PerMonth: bucketize(stamps, now, monthCutoff(now), monthKey),
	}, nil
}

func dayCutoff(now time.Time) time.Time   { return now.AddDate(0, 0, -7) }
func monthCutoff(now time.Time) time.Time { return now.AddDate(0, -6, 0) }
func weekCutoff(now time.Time, weeks int) time.Time {
	return now.AddDate(0, 0, -7*weeks)
}

func dayKey(t time.Time) string   { return t.Format("2006-01-02") }
func monthKey(t time.Time) string { return t.Format("2006-01") }

// weekKey uses ISO week numbering, week starting Monday.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// bucketize counts timestamps within [cutoff, now] per period key, ascending
// by period. The boundary is inclusive on both ends; future rows never count.
func bucketize(stamps []time.Time, now, cutoff time.Time, key func(time.Time) string) []Bucket {
	counts := map[string]int{}
	for _, t := range stamps {
		if t.Before(cutoff) || t.After(now) {
			continue
		}
		counts[key(t)]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for period, count := range counts {
		buckets = append(buckets, Bucket{Period: period, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	return buckets
}
