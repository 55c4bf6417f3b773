package naming

import (
	"path/filepath"
	"strings"
)

// ResolveObjectName picks the object name for an upload of sourcePath.
//
// Precedence:
//  1. name: its own extension is kept when it has one; otherwise the
//     source file's extension is appended.
//  2. title: sanitized and given the source file's extension. A title that
//     already ends in that extension does not get it twice.
//  3. the source file's base name.
func ResolveObjectName(sourcePath, title, name string) (string, error) {
	base := filepath.Base(sourcePath)
	_, srcExt := SplitExtension(base)

	if strings.TrimSpace(name) != "" {
		stem, ext := SplitExtension(strings.TrimSpace(name))
		if ext == "" {
			ext = srcExt
		}
		return Sanitize(stem, ext)
	}

	if strings.TrimSpace(title) != "" {
		stem := strings.TrimSpace(title)
		// A title that is only the extension leaves an empty stem and is rejected.
		if srcExt != "" && len(stem) >= len(srcExt) && strings.EqualFold(stem[len(stem)-len(srcExt):], srcExt) {
			stem = stem[:len(stem)-len(srcExt)]
		}
		return Sanitize(stem, srcExt)
	}

	stem, ext := SplitExtension(base)
	return Sanitize(stem, ext)
}
