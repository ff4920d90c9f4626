package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"CV Jean Dupont.pdf", "CV Jean Dupont.pdf"},
		{"  lettre   de\tmotivation.pdf ", "lettre de motivation.pdf"},
		{"dossier/sous\\cv.pdf", "dossier_sous_cv.pdf"},
		{"Hélène \"CV\".pdf", "Hélène CV.pdf"},
		{"cv\x00.pdf", "cv.pdf"},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestSanitizeFileNameRejectsTraversalAndEmpty(t *testing.T) {
	for _, in := range []string{"../etc/passwd", "   ", "\x01\x02", "."} {
		_, err := SanitizeFileName(in)
		assert.ErrorIs(t, err, ErrInvalidFileName, in)
	}
}

func TestSanitizeFileNameTruncatesKeepingExtension(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("é", 200) + ".pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
	assert.Equal(t, maxFileNameRunes, len([]rune(got)))
}
