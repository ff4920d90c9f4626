package filestore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"mime"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"cozetik-backend/internal/shared/metrics"
	"cozetik-backend/internal/shared/storage/object"
	"cozetik-backend/internal/shared/util"
)

// Folders used by the intake pipeline.
const (
	FolderResumes        = "cozetik/candidatures/cv"
	FolderCoverLetters   = "cozetik/candidatures/lettres"
	FolderOtherDocuments = "cozetik/candidatures/documents"
)

// DefaultMaxBytes is the per-file size limit when none is configured.
const DefaultMaxBytes int64 = 10 << 20

// ResourceClass mirrors the handling applied to an upload.
type ResourceClass string

const (
	ResourceImage ResourceClass = "image"
	ResourceRaw   ResourceClass = "raw"
	ResourceAuto  ResourceClass = "auto"
)

// File is one attachment received from a form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload is the result of a successful upload.
type Upload struct {
	URL      string
	Key      string
	Filename string
	Class    ResourceClass
	Size     int64
}

// Client uploads attachments to the configured object store.
type Client struct {
	store    object.ObjectStore
	maxBytes int64
	now      func() time.Time
}

// New creates a Client. maxBytes <= 0 selects DefaultMaxBytes.
func New(store object.ObjectStore, maxBytes int64) *Client {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Client{store: store, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes returns the per-file limit.
func (c *Client) MaxBytes() int64 { return c.maxBytes }

// Upload stores f under folder and returns its public URL.
func (c *Client) Upload(ctx context.Context, f File, folder string) (Upload, error) {
	start := time.Now()
	up, err := c.upload(ctx, f, folder)
	kind := "ok"
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			kind = string(fe.Kind)
		}
	}
	metrics.ObserveUpload(kind, time.Since(start).Seconds())
	return up, err
}

func (c *Client) upload(ctx context.Context, f File, folder string) (Upload, error) {
	if f.Body == nil || f.Size == 0 {
		return Upload{}, newError(KindEmpty, nil)
	}
	if f.Size > c.maxBytes {
		return Upload{}, &Error{
			Kind:    KindTooLarge,
			Message: fmt.Sprintf("Le fichier %s dépasse la taille maximale autorisée (%d Mo)", f.Name, c.maxBytes>>20),
		}
	}

	ext := Extension(f.Name)
	key, err := c.newKey(folder, ext)
	if err != nil {
		return Upload{}, newError(KindTransport, err)
	}

	class := Classify(f.ContentType)
	in := object.PutInput{Key: key, Body: io.LimitReader(f.Body, c.maxBytes+1)}
	switch class {
	case ResourceImage:
		in.ContentType = f.ContentType
	case ResourceRaw:
		in.ContentType = f.ContentType
		in.ContentDisposition = attachmentDisposition(f.Name)
	}

	n, err := c.store.Put(ctx, in)
	switch {
	case err == nil:
	case errors.Is(err, object.ErrCredentials):
		return Upload{}, newError(KindCredentials, err)
	case errors.Is(err, object.ErrBucketNotFound):
		return Upload{}, newError(KindBucket, err)
	default:
		return Upload{}, newError(KindTransport, err)
	}
	if n > c.maxBytes {
		// declared size lied; drop the partial object
		_ = c.store.Delete(ctx, key)
		return Upload{}, &Error{
			Kind:    KindTooLarge,
			Message: fmt.Sprintf("Le fichier %s dépasse la taille maximale autorisée (%d Mo)", f.Name, c.maxBytes>>20),
		}
	}
	if n == 0 {
		_ = c.store.Delete(ctx, key)
		return Upload{}, newError(KindEmpty, nil)
	}

	return Upload{
		URL:      c.store.URL(key),
		Key:      key,
		Filename: f.Name,
		Class:    class,
		Size:     n,
	}, nil
}

// Delete removes a previously uploaded object.
func (c *Client) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	return c.store.Delete(ctx, key)
}

// Open streams a previously uploaded object.
func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return c.store.Open(ctx, key)
}

// Classify picks the resource class for a declared MIME type.
func Classify(contentType string) ResourceClass {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return ResourceImage
	case ct == "application/pdf",
		strings.Contains(ct, "document"),
		strings.Contains(ct, "msword"),
		strings.Contains(ct, "wordprocessingml"):
		return ResourceRaw
	default:
		return ResourceAuto
	}
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(strings.TrimSpace(name)), "."))
	return ext
}

// ExtensionMatches reports whether the URL path keeps the filename's extension.
func ExtensionMatches(rawURL, filename string) bool {
	ext := Extension(filename)
	if ext == "" {
		return true
	}
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	return strings.HasSuffix(strings.ToLower(p), "."+ext)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func (c *Client) newKey(folder, ext string) (string, error) {
	suffix := make([]byte, 6)
	radix := big.NewInt(int64(len(base36)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, radix)
		if err != nil {
			return "", fmt.Errorf("random key: %w", err)
		}
		suffix[i] = base36[n.Int64()]
	}
	name := strconv.FormatInt(c.now().UnixMilli(), 10) + "-" + string(suffix)
	if ext != "" {
		name += "." + ext
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name, nil
	}
	return folder + "/" + name, nil
}

func attachmentDisposition(name string) string {
	clean, err := util.SanitizeFileName(name)
	if err != nil {
		return "attachment"
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": clean})
}
