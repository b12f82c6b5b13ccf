package transcode

import (
	"fmt"
	"os/exec"

	"gigstream-go/pkg/logger"

	"go.uber.org/zap"
)

// BuildTranscodeArgs 构造单文件转码的 ffmpeg 参数
// 码率参数来自档位表，maxrate/bufsize 按惯例取码率的 1.1 倍和 2 倍
func BuildTranscodeArgs(srcFile, dstFile, format string, r Rendition) []string {
	args := []string{"-i", srcFile}

	switch format {
	case FormatWEBM:
		args = append(args,
			"-c:v", "libvpx-vp9",
			"-c:a", "libopus",
		)
	default: // mp4
		args = append(args,
			"-c:v", "libx264",
			"-preset", "medium",
			"-c:a", "aac",
		)
	}

	args = append(args,
		"-vf", fmt.Sprintf("scale=%d:%d", r.Width, r.Height),
		"-b:v", fmt.Sprintf("%dk", r.VideoBitrateKbps),
		"-maxrate", fmt.Sprintf("%dk", r.VideoBitrateKbps*11/10),
		"-bufsize", fmt.Sprintf("%dk", r.VideoBitrateKbps*2),
		"-b:a", r.AudioBitrate,
	)

	if format == FormatMP4 {
		args = append(args, "-movflags", "+faststart")
	}

	args = append(args, "-y", dstFile)
	return args
}

// Transcode 执行单文件转码（mp4/webm）
func Transcode(srcFile, dstFile, format string, r Rendition) error {
	args := BuildTranscodeArgs(srcFile, dstFile, format, r)

	cmd := exec.Command("ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg transcode failed: %w\noutput: %s", err, string(output))
	}

	logger.Info("FFmpeg transcode completed",
		zap.String("format", format),
		zap.String("resolution", r.Name),
		zap.String("dst", dstFile),
	)
	return nil
}

// OutputExtension 格式对应的文件扩展名
func OutputExtension(format string) string {
	if format == FormatWEBM {
		return "webm"
	}
	return "mp4"
}

// OutputContentType 格式对应的 Content-Type
func OutputContentType(format string) string {
	if format == FormatWEBM {
		return "video/webm"
	}
	return "video/mp4"
}

// OutputKey 单文件产物的对象键
func OutputKey(videoID int64, format, resolution string) string {
	return fmt.Sprintf("renditions/%d/%s_%s.%s", videoID, resolution, format, OutputExtension(format))
}

// ThumbnailKey 缩略图对象键
func ThumbnailKey(videoID int64) string {
	return fmt.Sprintf("thumbnails/%d.jpg", videoID)
}
