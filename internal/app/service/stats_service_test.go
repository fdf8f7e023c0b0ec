package service

import (
	"context"
	"testing"
	"time"
	"userpanel/internal/domain/model"
)

func fixedStatsService(stamps []time.Time, now time.Time, weeks int) *StatsService {
	auditRepo := &mockAuditRepo{
		createdSinceFn: func(_ context.Context, cutoff time.Time) ([]time.Time, error) {
			var out []time.Time
			for _, t := range stamps {
				if !t.Before(cutoff) {
					out = append(out, t)
				}
			}
			return out, nil
		},
	}
	svc := NewStatsService(&mockUserRepo{}, auditRepo, NewAuditService(&mockAuditRepo{}), weeks)
	svc.now = func() time.Time { return now }
	return svc
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestActivityDayWindowBoundaries(t *testing.T) {
	// now = 2024-01-08: 01-01 sits exactly on the 7-day boundary
	// (inclusive), 01-10 lies in the future (excluded).
	now := day("2024-01-08")
	svc := fixedStatsService([]time.Time{
		day("2024-01-01"),
		day("2024-01-03"),
		day("2024-01-10"),
	}, now, 4)

	stats, err := svc.Activity(context.Background(), adminActor())
	if err != nil {
		t.Fatalf("activity error: %v", err)
	}

	want := []Bucket{
		{Period: "2024-01-01", Count: 1},
		{Period: "2024-01-03", Count: 1},
	}
	if len(stats.PerDay) != len(want) {
		t.Fatalf("expected %d day buckets, got %+v", len(want), stats.PerDay)
	}
	for i, b := range want {
		if stats.PerDay[i] != b {
			t.Fatalf("day bucket %d: expected %+v, got %+v", i, b, stats.PerDay[i])
		}
	}
}

func TestActivityBucketsAscendingWithGapsOmitted(t *testing.T) {
	now := day("2024-03-15")
	svc := fixedStatsService([]time.Time{
		day("2024-03-14"),
		day("2024-03-14"),
		day("2024-03-10"),
		// Nothing on the days in between: no zero-filled buckets.
	}, now, 4)

	stats, err := svc.Activity(context.Background(), adminActor())
	if err != nil {
		t.Fatalf("activity error: %v", err)
	}
	if len(stats.PerDay) != 2 {
		t.Fatalf("expected 2 day buckets, got %+v", stats.PerDay)
	}
	if stats.PerDay[0].Period != "2024-03-10" || stats.PerDay[0].Count != 1 {
		t.Fatalf("unexpected first bucket: %+v", stats.PerDay[0])
	}
	if stats.PerDay[1].Period != "2024-03-14" || stats.PerDay[1].Count != 2 {
		t.Fatalf("unexpected second bucket: %+v", stats.PerDay[1])
	}
}

func TestActivityWeekAndMonthWindows(t *testing.T) {
	now := day("2024-03-15")
	svc := fixedStatsService([]time.Time{
		day("2024-03-14"), // current ISO week
		day("2024-03-04"), // earlier ISO week, within 4 weeks
		day("2024-01-10"), // outside 4 weeks, within 6 months
		day("2023-08-01"), // outside 6 months entirely
	}, now, 4)

	stats, err := svc.Activity(context.Background(), adminActor())
	if err != nil {
		t.Fatalf("activity error: %v", err)
	}

	if len(stats.PerWeek) != 2 {
		t.Fatalf("expected 2 week buckets, got %+v", stats.PerWeek)
	}
	if stats.PerWeek[0].Period != "2024-W10" || stats.PerWeek[1].Period != "2024-W11" {
		t.Fatalf("unexpected week buckets: %+v", stats.PerWeek)
	}

	if len(stats.PerMonth) != 2 {
		t.Fatalf("expected 2 month buckets, got %+v", stats.PerMonth)
	}
	if stats.PerMonth[0].Period != "2024-01" || stats.PerMonth[1].Period != "2024-03" {
		t.Fatalf("unexpected month buckets: %+v", stats.PerMonth)
	}
	if stats.PerMonth[1].Count != 2 {
		t.Fatalf("expected 2 march rows, got %+v", stats.PerMonth[1])
	}
}

func TestGlobalCounts(t *testing.T) {
	userRepo := &mockUserRepo{countFn: func(context.Context) (int64, error) { return 12, nil }}
	auditRepo := &mockAuditRepo{countFn: func(context.Context) (int64, error) { return 34, nil }}
	recording := &mockAuditRepo{}
	svc := NewStatsService(userRepo, auditRepo, NewAuditService(recording), 4)

	stats, err := svc.Global(context.Background(), adminActor())
	if err != nil {
		t.Fatalf("global error: %v", err)
	}
	if stats.TotalUsers != 12 || stats.TotalAuditRecords != 34 {
		t.Fatalf("unexpected global stats: %+v", stats)
	}

	records := recording.recorded()
	if len(records) != 1 || records[0].Action != model.ActionStatsGlobal {
		t.Fatalf("expected a stats_global audit record, got %+v", records)
	}
}
