package transcode

import (
	"reflect"
	"testing"
)

func TestLookupRendition(t *testing.T) {
	tests := []struct {
		name       string
		wantOK     bool
		wantWidth  int
		wantHeight int
		wantKbps   int
	}{
		{"sd", true, 854, 480, 1200},
		{"hd", true, 1280, 720, 2800},
		{"fhd", true, 1920, 1080, 5000},
		{"qhd", true, 2560, 1440, 9000},
		{"uhd", true, 3840, 2160, 16000},
		{"4k", false, 0, 0, 0},
		{"", false, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := LookupRendition(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("LookupRendition(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if r.Width != tt.wantWidth || r.Height != tt.wantHeight {
				t.Errorf("LookupRendition(%q) = %dx%d, want %dx%d",
					tt.name, r.Width, r.Height, tt.wantWidth, tt.wantHeight)
			}
			if r.VideoBitrateKbps != tt.wantKbps {
				t.Errorf("LookupRendition(%q) bitrate = %d, want %d", tt.name, r.VideoBitrateKbps, tt.wantKbps)
			}
		})
	}
}

func TestAllResolutionsOrderedLowToHigh(t *testing.T) {
	want := []string{"sd", "hd", "fhd", "qhd", "uhd"}
	if got := AllResolutions(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllResolutions() = %v, want %v", got, want)
	}
}

func TestNormalizeFormats(t *testing.T) {
	defaults := []string{"mp4", "hls"}

	tests := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{"empty uses defaults", nil, []string{"mp4", "hls"}, false},
		{"single", []string{"webm"}, []string{"webm"}, false},
		{"uppercase normalized", []string{"MP4", " HLS "}, []string{"mp4", "hls"}, false},
		{"duplicates removed keep order", []string{"hls", "mp4", "hls"}, []string{"hls", "mp4"}, false},
		{"invalid format", []string{"mp4", "avi"}, nil, true},
		{"blank entry", []string{"  "}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeFormats(tt.input, defaults)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeFormats(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeFormats(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeResolutions(t *testing.T) {
	defaults := []string{"hd", "fhd"}

	tests := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{"empty uses defaults", nil, []string{"hd", "fhd"}, false},
		{"valid tiers", []string{"sd", "uhd"}, []string{"sd", "uhd"}, false},
		{"uppercase normalized", []string{"FHD"}, []string{"fhd"}, false},
		{"duplicates removed", []string{"hd", "hd", "sd"}, []string{"hd", "sd"}, false},
		{"unknown tier", []string{"720p"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeResolutions(tt.input, defaults)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeResolutions(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeResolutions(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
