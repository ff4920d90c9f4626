// Package extract turns uploaded résumés into plain text for back-office review.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupported is returned for formats without a text extractor.
var ErrUnsupported = errors.New("unsupported document format")

// Opener reads stored objects.
type Opener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Text reads the object at key (at most maxBytes) and extracts its text.
// The format is detected from the content, then from fileName's extension.
func Text(ctx context.Context, store Opener, key, fileName string, maxBytes int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", key, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, maxBytes))
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: read: %w", key, err)
	}

	text, err := FromBytes(ctx, raw, fileName)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", key, err)
	}
	return text, nil
}

// FromBytes extracts text from an in-memory PDF or DOCX payload.
func FromBytes(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch detect(data, fileName) {
	case mimePDF:
		return extractPDF(data)
	case mimeDOCX:
		return extractDOCX(data)
	default:
		return "", ErrUnsupported
	}
}

func extractPDF(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func detect(data []byte, fileName string) string {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return mimePDF
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) && isWordArchive(data) {
		return mimeDOCX
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	}
	return ""
}

func isWordArchive(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
