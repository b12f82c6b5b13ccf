package service

import (
	"testing"

	"gigstream-go/internal/model"
)

func TestBuildTranscodeJobsCartesian(t *testing.T) {
	tests := []struct {
		name        string
		formats     []string
		resolutions []string
		wantCount   int
	}{
		{"3x2 fan-out", []string{"mp4", "webm", "hls"}, []string{"hd", "fhd"}, 6},
		{"single pair", []string{"mp4"}, []string{"sd"}, 1},
		{"1x3", []string{"hls"}, []string{"sd", "hd", "fhd"}, 3},
		{"empty formats", nil, []string{"hd"}, 0},
		{"empty resolutions", []string{"mp4"}, nil, 0},
		{"both empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := buildTranscodeJobs(7, tt.formats, tt.resolutions)
			if len(jobs) != tt.wantCount {
				t.Fatalf("buildTranscodeJobs() len = %d, want %d", len(jobs), tt.wantCount)
			}

			// 每个（格式, 分辨率）组合恰好一条，全部 pending
			seen := make(map[[2]string]bool, len(jobs))
			for i := range jobs {
				job := &jobs[i]
				if job.VideoID != 7 {
					t.Errorf("job video_id = %d, want 7", job.VideoID)
				}
				if job.Status != model.JobStatusPending {
					t.Errorf("job (%s, %s) status = %q, want pending", job.Format, job.Resolution, job.Status)
				}
				pair := [2]string{job.Format, job.Resolution}
				if seen[pair] {
					t.Errorf("duplicate job for pair (%s, %s)", job.Format, job.Resolution)
				}
				seen[pair] = true
			}

			for _, f := range tt.formats {
				for _, r := range tt.resolutions {
					if !seen[[2]string{f, r}] {
						t.Errorf("missing job for pair (%s, %s)", f, r)
					}
				}
			}
		})
	}
}
