package transcode

import (
	"strings"
	"testing"
)

func TestBuildTranscodeArgs(t *testing.T) {
	hd, _ := LookupRendition("hd")

	tests := []struct {
		name     string
		format   string
		contains []string
		excludes []string
	}{
		{
			name:   "mp4 uses h264 with faststart",
			format: FormatMP4,
			contains: []string{
				"libx264", "aac", "+faststart",
				"scale=1280:720", "2800k", "3080k", "5600k", "128k",
			},
			excludes: []string{"libvpx-vp9"},
		},
		{
			name:   "webm uses vp9 and opus",
			format: FormatWEBM,
			contains: []string{
				"libvpx-vp9", "libopus",
				"scale=1280:720", "2800k",
			},
			excludes: []string{"libx264", "+faststart"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := BuildTranscodeArgs("/tmp/src", "/tmp/dst", tt.format, hd)
			joined := strings.Join(args, " ")

			for _, s := range tt.contains {
				if !strings.Contains(joined, s) {
					t.Errorf("args missing %q: %s", s, joined)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(joined, s) {
					t.Errorf("args should not contain %q: %s", s, joined)
				}
			}

			if args[len(args)-1] != "/tmp/dst" {
				t.Errorf("last arg = %q, want output file", args[len(args)-1])
			}
		})
	}
}

func TestOutputKey(t *testing.T) {
	tests := []struct {
		format     string
		resolution string
		want       string
	}{
		{FormatMP4, "hd", "renditions/42/hd_mp4.mp4"},
		{FormatWEBM, "fhd", "renditions/42/fhd_webm.webm"},
	}

	for _, tt := range tests {
		if got := OutputKey(42, tt.format, tt.resolution); got != tt.want {
			t.Errorf("OutputKey(42, %q, %q) = %q, want %q", tt.format, tt.resolution, got, tt.want)
		}
	}
}

func TestOutputContentType(t *testing.T) {
	if got := OutputContentType(FormatMP4); got != "video/mp4" {
		t.Errorf("OutputContentType(mp4) = %q", got)
	}
	if got := OutputContentType(FormatWEBM); got != "video/webm" {
		t.Errorf("OutputContentType(webm) = %q", got)
	}
}

func TestThumbnailKey(t *testing.T) {
	if got := ThumbnailKey(7); got != "thumbnails/7.jpg" {
		t.Errorf("ThumbnailKey(7) = %q", got)
	}
}
