package transcode

import (
	"fmt"
	"strings"
)

// 目标格式
const (
	FormatMP4  = "mp4"
	FormatWEBM = "webm"
	FormatHLS  = "hls"
)

// Rendition 分辨率档位：宽高和码率固定成表，保证同档位产物质量一致
type Rendition struct {
	Name             string
	Width            int
	Height           int
	VideoBitrateKbps int
	AudioBitrate     string
	Bandwidth        int // HLS master playlist 中声明的带宽（bps）
}

// renditionTable 档位表，从低到高排列
var renditionTable = []Rendition{
	{"sd", 854, 480, 1200, "96k", 1400000},
	{"hd", 1280, 720, 2800, "128k", 3200000},
	{"fhd", 1920, 1080, 5000, "192k", 5800000},
	{"qhd", 2560, 1440, 9000, "192k", 10000000},
	{"uhd", 3840, 2160, 16000, "192k", 18000000},
}

var validFormats = map[string]bool{
	FormatMP4:  true,
	FormatWEBM: true,
	FormatHLS:  true,
}

// AllFormats 返回全部支持的格式
func AllFormats() []string {
	return []string{FormatMP4, FormatWEBM, FormatHLS}
}

// AllResolutions 返回全部档位名（从低到高）
func AllResolutions() []string {
	names := make([]string, 0, len(renditionTable))
	for _, r := range renditionTable {
		names = append(names, r.Name)
	}
	return names
}

// LookupRendition 查档位表
func LookupRendition(name string) (Rendition, bool) {
	for _, r := range renditionTable {
		if r.Name == name {
			return r, true
		}
	}
	return Rendition{}, false
}

// NormalizeFormats 校验并归一化目标格式列表
// 空列表使用默认值；非法格式返回错误；重复项去重并保持顺序
func NormalizeFormats(formats, defaults []string) ([]string, error) {
	if len(formats) == 0 {
		formats = defaults
	}

	seen := make(map[string]bool, len(formats))
	result := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !validFormats[f] {
			return nil, fmt.Errorf("不支持的目标格式: %s，可选: %s", f, strings.Join(AllFormats(), "/"))
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		result = append(result, f)
	}
	return result, nil
}

// NormalizeResolutions 校验并归一化分辨率档位列表
func NormalizeResolutions(resolutions, defaults []string) ([]string, error) {
	if len(resolutions) == 0 {
		resolutions = defaults
	}

	seen := make(map[string]bool, len(resolutions))
	result := make([]string, 0, len(resolutions))
	for _, name := range resolutions {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := LookupRendition(name); !ok {
			return nil, fmt.Errorf("不支持的分辨率档位: %s，可选: %s", name, strings.Join(AllResolutions(), "/"))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	return result, nil
}
