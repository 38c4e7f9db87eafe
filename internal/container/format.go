package container

import (
	"path/filepath"
	"strings"
)

// Format identifies one of the supported container formats.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatWebP
	FormatWAV
	FormatMP3
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatWebP:
		return "WebP"
	case FormatWAV:
		return "WAV"
	case FormatMP3:
		return "MP3"
	}
	return "unknown"
}

// FormatFromPath detects the container format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG
	case ".webp":
		return FormatWebP
	case ".wav", ".wave":
		return FormatWAV
	case ".mp3":
		return FormatMP3
	}
	return FormatUnknown
}
