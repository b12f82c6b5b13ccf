package service

import (
	"testing"
	"time"

	"gigstream-go/internal/model"
)

func accessLog(ip, country string, watchTime *int, at time.Time) model.AccessLog {
	return model.AccessLog{
		IPAddress: ip,
		Country:   country,
		WatchTime: watchTime,
		CreatedAt: at,
	}
}

func intPtr(v int) *int { return &v }

func TestAggregateAccessLogsEmpty(t *testing.T) {
	data := aggregateAccessLogs(1, "2026-08-01", "2026-08-28", nil)

	if data.TotalViews != 0 || data.UniqueViewers != 0 {
		t.Errorf("empty logs: total = %d, unique = %d, want 0/0", data.TotalViews, data.UniqueViewers)
	}
	if data.AverageWatchTime != 0 {
		t.Errorf("empty logs: average watch time = %v, want 0", data.AverageWatchTime)
	}
	if len(data.TopCountries) != 0 || len(data.DailyViews) != 0 {
		t.Errorf("empty logs should produce empty slices, got %v / %v", data.TopCountries, data.DailyViews)
	}
}

func TestAggregateAccessLogsUniqueViewers(t *testing.T) {
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	logs := []model.AccessLog{
		accessLog("10.0.0.1", "CN", nil, day),
		accessLog("10.0.0.1", "CN", nil, day),
		accessLog("10.0.0.2", "US", nil, day),
	}

	data := aggregateAccessLogs(1, "2026-08-20", "2026-08-20", logs)

	if data.TotalViews != 3 {
		t.Errorf("total views = %d, want 3", data.TotalViews)
	}
	if data.UniqueViewers != 2 {
		t.Errorf("unique viewers = %d, want 2", data.UniqueViewers)
	}
}

func TestAggregateAccessLogsAverageWatchTime(t *testing.T) {
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	logs := []model.AccessLog{
		accessLog("10.0.0.1", "", intPtr(10), day),
		accessLog("10.0.0.2", "", intPtr(20), day),
		accessLog("10.0.0.3", "", intPtr(30), day),
		// 未上报时长的记录不参与平均
		accessLog("10.0.0.4", "", nil, day),
	}

	data := aggregateAccessLogs(1, "2026-08-20", "2026-08-20", logs)

	if data.AverageWatchTime != 20.0 {
		t.Errorf("average watch time = %v, want 20.0", data.AverageWatchTime)
	}
}

func TestAggregateAccessLogsTopCountries(t *testing.T) {
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	var logs []model.AccessLog

	countries := map[string]int{"CN": 5, "US": 3, "DE": 2, "JP": 2, "FR": 1, "BR": 1}
	i := 0
	for country, n := range countries {
		for j := 0; j < n; j++ {
			logs = append(logs, accessLog("10.0.0."+string(rune('a'+i)), country, nil, day))
			i++
		}
	}
	// 未知国家不进榜
	logs = append(logs, accessLog("10.0.1.1", "", nil, day))

	data := aggregateAccessLogs(1, "2026-08-20", "2026-08-20", logs)

	if len(data.TopCountries) != 5 {
		t.Fatalf("top countries len = %d, want 5", len(data.TopCountries))
	}
	if data.TopCountries[0].Country != "CN" || data.TopCountries[0].Views != 5 {
		t.Errorf("top country = %+v, want CN/5", data.TopCountries[0])
	}
	if data.TopCountries[1].Country != "US" {
		t.Errorf("second country = %s, want US", data.TopCountries[1].Country)
	}
	for _, cv := range data.TopCountries {
		if cv.Country == "" {
			t.Error("empty country should not appear in top countries")
		}
	}
}

func TestAggregateAccessLogsDailyViewsSorted(t *testing.T) {
	logs := []model.AccessLog{
		accessLog("10.0.0.1", "", nil, time.Date(2026, 8, 22, 9, 0, 0, 0, time.UTC)),
		accessLog("10.0.0.2", "", nil, time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)),
		accessLog("10.0.0.3", "", nil, time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)),
		accessLog("10.0.0.4", "", nil, time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)),
	}

	data := aggregateAccessLogs(1, "2026-08-20", "2026-08-22", logs)

	if len(data.DailyViews) != 3 {
		t.Fatalf("daily views len = %d, want 3", len(data.DailyViews))
	}
	wantDates := []string{"2026-08-20", "2026-08-21", "2026-08-22"}
	wantViews := []int64{2, 1, 1}
	for i, dv := range data.DailyViews {
		if dv.Date != wantDates[i] || dv.Views != wantViews[i] {
			t.Errorf("daily[%d] = %+v, want %s/%d", i, dv, wantDates[i], wantViews[i])
		}
	}
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"both empty defaults to last 30 days", "", "", false},
		{"valid range", "2026-08-01", "2026-08-28", false},
		{"same day", "2026-08-20", "2026-08-20", false},
		{"bad start format", "08/01/2026", "2026-08-28", true},
		{"bad end format", "2026-08-01", "yesterday", true},
		{"end before start", "2026-08-28", "2026-08-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseDateRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDateRange(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !end.After(start) && !end.Equal(start) {
				t.Errorf("range end %v not after start %v", end, start)
			}
		})
	}
}

func TestParseDateRangeEndExtendsToDayEnd(t *testing.T) {
	_, end, err := parseDateRange("2026-08-20", "2026-08-20")
	if err != nil {
		t.Fatal(err)
	}
	// 闭区间：当天 23:59:59 的访问也要包含进来
	if end.Hour() != 23 || end.Minute() != 59 {
		t.Errorf("end = %v, want end of day", end)
	}
}
