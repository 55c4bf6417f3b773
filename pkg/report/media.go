package report

import (
	"path"
	"strings"
)

// MediaKind classifies an object for inline embedding.
type MediaKind int

const (
	MediaOther MediaKind = iota
	MediaImage
	MediaVideo
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
	".bmp":  true,
	".ico":  true,
	".avif": true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".m4v":  true,
	".ogv":  true,
	".mkv":  true,
	".avi":  true,
}

// MediaKindOf classifies name by its extension, ignoring case.
func MediaKindOf(name string) MediaKind {
	ext := strings.ToLower(path.Ext(name))
	switch {
	case imageExtensions[ext]:
		return MediaImage
	case videoExtensions[ext]:
		return MediaVideo
	default:
		return MediaOther
	}
}
