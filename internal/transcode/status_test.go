package transcode

import (
	"testing"

	"gigstream-go/internal/model"
)

func jobWithStatus(status string) model.TranscodeJob {
	return model.TranscodeJob{Status: status}
}

func TestResolveVideoStatus(t *testing.T) {
	tests := []struct {
		name        string
		statuses    []string
		wantStatus  string
		wantSettled bool
	}{
		{
			name:        "no jobs yet",
			statuses:    nil,
			wantSettled: false,
		},
		{
			name:        "pending job blocks settlement",
			statuses:    []string{model.JobStatusCompleted, model.JobStatusPending},
			wantSettled: false,
		},
		{
			name:        "processing job blocks settlement",
			statuses:    []string{model.JobStatusFailed, model.JobStatusProcessing},
			wantSettled: false,
		},
		{
			name:        "all completed",
			statuses:    []string{model.JobStatusCompleted, model.JobStatusCompleted},
			wantStatus:  model.VideoStatusReady,
			wantSettled: true,
		},
		{
			name: "partial success still ready",
			statuses: []string{
				model.JobStatusCompleted,
				model.JobStatusCompleted,
				model.JobStatusCompleted,
				model.JobStatusFailed,
			},
			wantStatus:  model.VideoStatusReady,
			wantSettled: true,
		},
		{
			name:        "single completed",
			statuses:    []string{model.JobStatusCompleted},
			wantStatus:  model.VideoStatusReady,
			wantSettled: true,
		},
		{
			name:        "all failed",
			statuses:    []string{model.JobStatusFailed, model.JobStatusFailed},
			wantStatus:  model.VideoStatusFailed,
			wantSettled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := make([]model.TranscodeJob, 0, len(tt.statuses))
			for _, s := range tt.statuses {
				jobs = append(jobs, jobWithStatus(s))
			}

			status, settled := ResolveVideoStatus(jobs)
			if settled != tt.wantSettled {
				t.Fatalf("ResolveVideoStatus() settled = %v, want %v", settled, tt.wantSettled)
			}
			if settled && status != tt.wantStatus {
				t.Errorf("ResolveVideoStatus() status = %q, want %q", status, tt.wantStatus)
			}
		})
	}
}

func TestIngestTransition(t *testing.T) {
	tests := []struct {
		current     string
		wantNext    string
		wantAdvance bool
	}{
		// 提取开始时就推进，源文件下载失败的媒资也卡在 processing 而不是 uploading
		{model.VideoStatusUploading, model.VideoStatusProcessing, true},
		{model.VideoStatusProcessing, "", false},
		{model.VideoStatusReady, "", false},
		{model.VideoStatusFailed, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			next, advance := IngestTransition(tt.current)
			if advance != tt.wantAdvance {
				t.Fatalf("IngestTransition(%q) advance = %v, want %v", tt.current, advance, tt.wantAdvance)
			}
			if next != tt.wantNext {
				t.Errorf("IngestTransition(%q) next = %q, want %q", tt.current, next, tt.wantNext)
			}
		})
	}
}

func TestResolveVideoStatusIdempotent(t *testing.T) {
	jobs := []model.TranscodeJob{
		jobWithStatus(model.JobStatusCompleted),
		jobWithStatus(model.JobStatusFailed),
	}

	first, _ := ResolveVideoStatus(jobs)
	second, _ := ResolveVideoStatus(jobs)
	if first != second {
		t.Errorf("repeated resolution differs: %q vs %q", first, second)
	}
}
