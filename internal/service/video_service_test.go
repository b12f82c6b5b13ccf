package service

import (
	"testing"
	"time"

	"gigstream-go/internal/model"
)

func TestBuildMediaListDataPagination(t *testing.T) {
	tests := []struct {
		name           string
		total          int64
		pageSize       int
		wantTotalPages int64
	}{
		{"exact pages", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"less than one page", 5, 20, 1},
		{"empty", 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildMediaListData(nil, tt.total, 1, tt.pageSize)
			if data.TotalPages != tt.wantTotalPages {
				t.Errorf("total_pages = %d, want %d", data.TotalPages, tt.wantTotalPages)
			}
		})
	}
}

func TestToMediaInfoJobsOnlyWhenRequested(t *testing.T) {
	now := time.Now()
	video := &model.Video{
		ID:      1,
		OwnerID: 2,
		Title:   "演示片段",
		Status:  model.VideoStatusReady,
		TranscodeJobs: []model.TranscodeJob{
			{ID: 10, VideoID: 1, Format: "hls", Resolution: "hd", Status: model.JobStatusCompleted},
		},
		UploadedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	withJobs := toMediaInfo(video, true)
	if len(withJobs.TranscodeJobs) != 1 {
		t.Errorf("with jobs: len = %d, want 1", len(withJobs.TranscodeJobs))
	}

	withoutJobs := toMediaInfo(video, false)
	if len(withoutJobs.TranscodeJobs) != 0 {
		t.Errorf("without jobs: len = %d, want 0", len(withoutJobs.TranscodeJobs))
	}

	if withJobs.ID != 1 || withJobs.Title != "演示片段" || withJobs.Status != model.VideoStatusReady {
		t.Errorf("converted info mismatch: %+v", withJobs)
	}
}
