package mime

import (
	"path/filepath"
	"strings"
)

// Extension maps a file extension (including the leading dot, lower-cased) to its MIME.
// It must not be modified after the server has started.
var Extension = map[string]MIME{
	".avif":  AVIF,
	".css":   CSS,
	".csv":   CSV,
	".gif":   GIF,
	".htm":   HTML,
	".html":  HTML,
	".jpeg":  JPEG,
	".jpg":   JPEG,
	".js":    JS,
	".mjs":   JS,
	".json":  JSON,
	".md":    Markdown,
	".pdf":   PDF,
	".png":   PNG,
	".svg":   SVG,
	".wasm":  WASM,
	".webp":  WEBP,
	".xml":   XML,
	".gz":    GZIP,
	".yaml":  YAML,
	".yml":   YAML,
	".zip":   ZIP,
	".ico":   ICO,
	".txt":   Plain,
	".woff":  WOFF,
	".woff2": WOFF2,
	".mp4":   MP4,
	".mp3":   MP3,
}

// ByPath returns the MIME corresponding to the extension of the path. Unknown
// extensions fall back to Plain.
func ByPath(path string) MIME {
	ext := filepath.Ext(path)
	if mime, found := Extension[ext]; found {
		return mime
	}

	if mime, found := Extension[strings.ToLower(ext)]; found {
		return mime
	}

	return Plain
}
