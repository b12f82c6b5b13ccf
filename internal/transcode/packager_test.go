package transcode

import (
	"strings"
	"testing"

	"gigstream-go/internal/model"
)

func hlsJob(videoID int64, resolution, status string) model.TranscodeJob {
	return model.TranscodeJob{
		VideoID:    videoID,
		Format:     FormatHLS,
		Resolution: resolution,
		Status:     status,
	}
}

func TestBuildMasterPlaylistRelative(t *testing.T) {
	jobs := []model.TranscodeJob{
		hlsJob(1, "fhd", model.JobStatusCompleted),
		hlsJob(1, "hd", model.JobStatusCompleted),
	}

	want := "#EXTM3U\n" +
		"#EXT-X-VERSION:3\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=3200000,RESOLUTION=1280x720\n" +
		"hd/playlist.m3u8\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=5800000,RESOLUTION=1920x1080\n" +
		"fhd/playlist.m3u8\n"

	// 变体按档位表顺序输出，与作业入库顺序无关
	if got := BuildMasterPlaylist(jobs, ""); got != want {
		t.Errorf("BuildMasterPlaylist() =\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildMasterPlaylistAbsolute(t *testing.T) {
	jobs := []model.TranscodeJob{
		hlsJob(9, "hd", model.JobStatusCompleted),
	}

	got := BuildMasterPlaylist(jobs, "https://cdn.example.com/public-media/")
	want := "#EXTM3U\n" +
		"#EXT-X-VERSION:3\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=3200000,RESOLUTION=1280x720\n" +
		"https://cdn.example.com/public-media/hls/9/hd/playlist.m3u8\n"

	if got != want {
		t.Errorf("BuildMasterPlaylist() =\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildMasterPlaylistSkipsUnfinishedAndNonHLS(t *testing.T) {
	jobs := []model.TranscodeJob{
		hlsJob(1, "hd", model.JobStatusCompleted),
		hlsJob(1, "fhd", model.JobStatusProcessing),
		hlsJob(1, "uhd", model.JobStatusFailed),
		{VideoID: 1, Format: FormatMP4, Resolution: "sd", Status: model.JobStatusCompleted},
	}

	got := BuildMasterPlaylist(jobs, "")
	if !strings.Contains(got, "hd/playlist.m3u8") {
		t.Errorf("playlist missing completed hd variant:\n%s", got)
	}
	for _, banned := range []string{"fhd/", "uhd/", "sd/"} {
		if strings.Contains(got, banned) {
			t.Errorf("playlist should not reference %q:\n%s", banned, got)
		}
	}
}

func TestCompletedHLSJobs(t *testing.T) {
	jobs := []model.TranscodeJob{
		hlsJob(1, "uhd", model.JobStatusCompleted),
		hlsJob(1, "sd", model.JobStatusCompleted),
		hlsJob(1, "hd", model.JobStatusPending),
		{VideoID: 1, Format: FormatWEBM, Resolution: "fhd", Status: model.JobStatusCompleted},
	}

	got := CompletedHLSJobs(jobs)
	if len(got) != 2 {
		t.Fatalf("CompletedHLSJobs() len = %d, want 2", len(got))
	}
	// 按档位表从低到高返回
	if got[0].Resolution != "sd" || got[1].Resolution != "uhd" {
		t.Errorf("CompletedHLSJobs() order = [%s, %s], want [sd, uhd]", got[0].Resolution, got[1].Resolution)
	}
}

func TestVariantKeys(t *testing.T) {
	if got := HLSPrefix(3); got != "hls/3/" {
		t.Errorf("HLSPrefix(3) = %q", got)
	}
	if got := VariantPrefix(3, "hd"); got != "hls/3/hd/" {
		t.Errorf("VariantPrefix(3, hd) = %q", got)
	}
	if got := VariantPlaylistKey(3, "hd"); got != "hls/3/hd/playlist.m3u8" {
		t.Errorf("VariantPlaylistKey(3, hd) = %q", got)
	}
}

func TestBuildHLSArgs(t *testing.T) {
	hd, _ := LookupRendition("hd")
	args := BuildHLSArgs("/tmp/src", "/tmp/out", hd, 6)
	joined := strings.Join(args, " ")

	for _, s := range []string{
		"-hls_time 6",
		"-hls_playlist_type vod",
		"scale=1280:720",
		"/tmp/out/playlist.m3u8",
	} {
		if !strings.Contains(joined, s) {
			t.Errorf("hls args missing %q: %s", s, joined)
		}
	}
}

func TestBuildHLSArgsDefaultSegmentDuration(t *testing.T) {
	hd, _ := LookupRendition("hd")
	args := BuildHLSArgs("/tmp/src", "/tmp/out", hd, 0)
	if !strings.Contains(strings.Join(args, " "), "-hls_time 6") {
		t.Errorf("segment duration should default to 6: %v", args)
	}
}

func TestHLSContentType(t *testing.T) {
	if got := HLSContentType("playlist.m3u8"); got != "application/vnd.apple.mpegurl" {
		t.Errorf("HLSContentType(m3u8) = %q", got)
	}
	if got := HLSContentType("segment_001.ts"); got != "video/mp2t" {
		t.Errorf("HLSContentType(ts) = %q", got)
	}
}
