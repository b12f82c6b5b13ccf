package transcode

import "testing"

func TestThumbnailOffset(t *testing.T) {
	tests := []struct {
		duration int
		want     float64
	}{
		{0, 1.0},
		{-5, 1.0},
		{10, 1.0},
		{120, 12.0},
		{3600, 360.0},
	}

	for _, tt := range tests {
		if got := ThumbnailOffset(tt.duration); got != tt.want {
			t.Errorf("ThumbnailOffset(%d) = %v, want %v", tt.duration, got, tt.want)
		}
	}
}
