package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFileNameRunes = 120

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName turns a client-supplied upload name into something safe to
// echo back in Content-Disposition headers and store as metadata. Accented
// letters are kept; separators and control characters are not.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
			space = false
		case unicode.IsControl(r) || r == '"':
			continue
		case unicode.IsSpace(r):
			if !space {
				b.WriteRune(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	return truncateKeepingExt(s, maxFileNameRunes), nil
}

func truncateKeepingExt(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	ext := filepath.Ext(s)
	if utf8.RuneCountInString(ext) >= limit {
		ext = ""
	}
	base := []rune(strings.TrimSuffix(s, ext))
	return string(base[:limit-utf8.RuneCountInString(ext)]) + ext
}
