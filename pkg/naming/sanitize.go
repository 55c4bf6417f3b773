// Package naming derives object names that are safe to use both as object
// storage keys and as local file names.
//
// Sanitization is a pure function of its input: no I/O, no shared state.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength is the maximum length of a sanitized name in code points,
// extension included.
const MaxNameLength = 100

// maxExtensionLength bounds what is recognized as a file extension when
// splitting a name. Longer suffixes are treated as part of the stem.
const maxExtensionLength = 16

// illegalChars are reserved on at least one common filesystem.
const illegalChars = `<>:"/\|?*`

// Sanitize converts an arbitrary title into a safe object name and appends ext.
//
// Rules, applied in order:
//   - each of < > : " / \ | ? * and control characters becomes _
//   - every run of whitespace and/or _ collapses to a single _
//   - leading _ and trailing _ or . are trimmed
//   - the stem is truncated so that stem+ext fits MaxNameLength code points
//
// Every other code point is kept exactly as given. No Unicode normalization
// is applied, so CJK text (compatibility ideographs included) is unchanged.
//
// ext is appended after truncation. A missing leading dot is added, and runs
// of illegal characters or _ in ext collapse to a single _.
//
// Returns *InvalidNameError when nothing usable remains.
func Sanitize(title, ext string) (string, error) {
	ext = cleanExtension(ext)
	extLen := utf8.RuneCountInString(ext)
	if extLen >= MaxNameLength {
		return "", &InvalidNameError{Input: title, Reason: "extension too long"}
	}

	stem := cleanStem(title)
	stem = truncateRunes(stem, MaxNameLength-extLen)
	stem = trimStem(stem)
	if stem == "" {
		return "", &InvalidNameError{Input: title, Reason: "empty after sanitization"}
	}

	return stem + ext, nil
}

// cleanStem replaces illegal characters and collapses separator runs.
// Leading and trailing separators are dropped.
func cleanStem(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	for _, r := range s {
		if isSeparator(r) {
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}

	return b.String()
}

// cleanExtension makes ext safe to append. Whitespace is removed and runs of
// illegal characters or _ become a single _.
func cleanExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var b strings.Builder
	b.Grow(len(ext))
	lastSep := false
	for _, r := range ext {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '_' || isIllegal(r):
			if !lastSep {
				b.WriteByte('_')
			}
			lastSep = true
		default:
			b.WriteRune(r)
			lastSep = false
		}
	}

	return strings.TrimRight(b.String(), ".")
}

// isSeparator reports whether r is folded into a single _.
func isSeparator(r rune) bool {
	return r == '_' || isIllegal(r) || unicode.IsSpace(r)
}

func isIllegal(r rune) bool {
	return strings.ContainsRune(illegalChars, r) || unicode.IsControl(r)
}

// trimStem removes characters that may not start or end a file name.
func trimStem(s string) string {
	s = strings.TrimLeft(s, "_")
	return strings.TrimRight(s, "_.")
}

// truncateRunes cuts s to at most n code points without splitting a
// multi-byte character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// SplitExtension splits name into stem and extension.
//
// Only short alphanumeric suffixes count as extensions, so "v1.2 final"
// or "notes. draft" keep their dots in the stem. Dotfiles such as
// ".bashrc" have no extension.
func SplitExtension(name string) (stem, ext string) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return name, ""
	}

	candidate := name[idx+1:]
	if utf8.RuneCountInString(candidate) > maxExtensionLength {
		return name, ""
	}
	for _, r := range candidate {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return name, ""
		}
	}

	return name[:idx], name[idx:]
}
