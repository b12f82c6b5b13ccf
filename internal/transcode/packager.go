package transcode

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gigstream-go/internal/model"
)

// HLSPrefix 媒资全部 HLS 对象的公共前缀（删除时整体清理）
func HLSPrefix(videoID int64) string {
	return fmt.Sprintf("hls/%d/", videoID)
}

// VariantPrefix 单个档位的 HLS 对象前缀
func VariantPrefix(videoID int64, resolution string) string {
	return fmt.Sprintf("hls/%d/%s/", videoID, resolution)
}

// VariantPlaylistKey 档位变体播放列表的对象键
func VariantPlaylistKey(videoID int64, resolution string) string {
	return VariantPrefix(videoID, resolution) + "playlist.m3u8"
}

// BuildHLSArgs 构造 HLS 切片的 ffmpeg 参数（单档位：变体播放列表 + ts 切片）
func BuildHLSArgs(srcFile, outDir string, r Rendition, segmentSeconds int) []string {
	if segmentSeconds <= 0 {
		segmentSeconds = 6
	}
	return []string{
		"-i", srcFile,
		"-c:v", "libx264",
		"-preset", "medium",
		"-c:a", "aac",
		"-vf", fmt.Sprintf("scale=%d:%d", r.Width, r.Height),
		"-b:v", fmt.Sprintf("%dk", r.VideoBitrateKbps),
		"-maxrate", fmt.Sprintf("%dk", r.VideoBitrateKbps*11/10),
		"-bufsize", fmt.Sprintf("%dk", r.VideoBitrateKbps*2),
		"-b:a", r.AudioBitrate,
		"-hls_time", fmt.Sprintf("%d", segmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", filepath.Join(outDir, "segment_%03d.ts"),
		"-y",
		filepath.Join(outDir, "playlist.m3u8"),
	}
}

// PackageHLS 将源文件切成单档位 HLS 流，返回生成的本地文件路径
// 输出目录必须已存在
func PackageHLS(srcFile, outDir string, r Rendition, segmentSeconds int) ([]string, error) {
	args := BuildHLSArgs(srcFile, outDir, r, segmentSeconds)

	cmd := exec.Command("ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg hls package failed: %w\noutput: %s", err, string(output))
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("read hls output dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(outDir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no hls output in %s", outDir)
	}
	return files, nil
}

// HLSContentType HLS 产物的 Content-Type
func HLSContentType(fileName string) string {
	if strings.HasSuffix(fileName, ".m3u8") {
		return "application/vnd.apple.mpegurl"
	}
	return "video/mp2t"
}

// BuildMasterPlaylist 根据当前已完成的 HLS 作业实时生成主播放列表
// 不落盘、不缓存：后续有新档位完成时下一次读取自然包含进来
// 变体按档位表从低到高排列；baseURL 为空时引用相对路径 {resolution}/playlist.m3u8，
// 否则引用 baseURL 下的变体对象键（主播放列表由 API 动态返回，变体在 CDN 上）
func BuildMasterPlaylist(jobs []model.TranscodeJob, baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")

	var builder strings.Builder
	builder.WriteString("#EXTM3U\n")
	builder.WriteString("#EXT-X-VERSION:3\n")

	for _, r := range renditionTable {
		for _, job := range jobs {
			if job.Format != FormatHLS || job.Status != model.JobStatusCompleted || job.Resolution != r.Name {
				continue
			}
			builder.WriteString(fmt.Sprintf("#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%dx%d\n",
				r.Bandwidth, r.Width, r.Height))
			if baseURL == "" {
				builder.WriteString(fmt.Sprintf("%s/playlist.m3u8\n", r.Name))
			} else {
				builder.WriteString(fmt.Sprintf("%s/%s\n", baseURL, VariantPlaylistKey(job.VideoID, r.Name)))
			}
			break
		}
	}

	return builder.String()
}

// CompletedHLSJobs 过滤出已完成的 HLS 作业，按档位表顺序返回
func CompletedHLSJobs(jobs []model.TranscodeJob) []model.TranscodeJob {
	result := make([]model.TranscodeJob, 0, len(jobs))
	for _, r := range renditionTable {
		for _, job := range jobs {
			if job.Format == FormatHLS && job.Status == model.JobStatusCompleted && job.Resolution == r.Name {
				result = append(result, job)
				break
			}
		}
	}
	return result
}
