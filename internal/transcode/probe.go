package transcode

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// ProbeResult 源文件探测结果
type ProbeResult struct {
	Duration    int
	Codec       string
	Width       int
	Height      int
	BitrateKbps int
}

// Probe 用 ffprobe 探测媒体文件的时长、编码、分辨率和码率
func Probe(mediaFile string) (*ProbeResult, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		mediaFile,
	}

	cmd := exec.Command("ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var data struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			BitRate  string `json:"bit_rate"`
		} `json:"format"`
	}

	if err := json.Unmarshal(output, &data); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	probe := &ProbeResult{}

	if data.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil {
			probe.Duration = int(dur)
		}
	}
	if data.Format.BitRate != "" {
		if br, err := strconv.ParseInt(data.Format.BitRate, 10, 64); err == nil {
			probe.BitrateKbps = int(br / 1000)
		}
	}

	for _, s := range data.Streams {
		if s.CodecType == "video" && s.Width > 0 && s.Height > 0 {
			probe.Codec = s.CodecName
			probe.Width = s.Width
			probe.Height = s.Height
			break
		}
	}

	return probe, nil
}

// ThumbnailOffset 缩略图截取位置：时长的 10%
// 时长未知时回退到第 1 秒
func ThumbnailOffset(durationSeconds int) float64 {
	if durationSeconds <= 0 {
		return 1.0
	}
	return float64(durationSeconds) * 0.1
}

// ExtractThumbnail 从视频中截取一帧作为缩略图
func ExtractThumbnail(videoFile, thumbFile string, atSeconds float64) error {
	args := []string{
		"-ss", fmt.Sprintf("%.2f", atSeconds),
		"-i", videoFile,
		"-vframes", "1",
		"-q:v", "2",
		"-y",
		thumbFile,
	}

	cmd := exec.Command("ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract thumbnail failed: %w\noutput: %s", err, string(output))
	}
	return nil
}
