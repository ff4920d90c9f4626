package candidatures

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"cozetik-backend/internal/email"
	"cozetik-backend/internal/filestore"
	"cozetik-backend/internal/shared/storage/object"
)

type fakeFiles struct {
	mu       sync.Mutex
	failures map[string]error
	uploads  []string
	deleted  []string
	objects  map[string][]byte
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{failures: map[string]error{}, objects: map[string][]byte{}}
}

func (f *fakeFiles) Upload(ctx context.Context, file filestore.File, folder string) (filestore.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, folder)
	if err, ok := f.failures[folder]; ok {
		return filestore.Upload{}, err
	}
	data, _ := io.ReadAll(file.Body)
	key := folder + "/" + strings.ReplaceAll(file.Name, " ", "_")
	f.objects[key] = data
	return filestore.Upload{
		URL:      "https://files.example.com/" + key,
		Key:      key,
		Filename: file.Name,
		Size:     int64(len(data)),
	}, nil
}

func (f *fakeFiles) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

func (f *fakeFiles) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, object.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFiles) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

type fakeMailer struct {
	mu   sync.Mutex
	fail bool
	sent []email.Message
}

func (m *fakeMailer) Send(ctx context.Context, msg email.Message) email.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	if m.fail {
		return email.Result{Success: false, Err: email.ErrNotConfigured}
	}
	return email.Result{Success: true, ID: "msg"}
}

func credentialsError() error {
	return &filestore.Error{Kind: filestore.KindCredentials, Message: "Le service de stockage des fichiers est mal configuré"}
}

func newTestService() (*Service, *MemoryRepo, *fakeFiles, *fakeMailer) {
	repo := NewMemoryRepo()
	files := newFakeFiles()
	mailer := &fakeMailer{}
	svc := &Service{
		Repo:                repo,
		Files:               files,
		Mailer:              mailer,
		AdminEmail:          "admin@cozetik.fr",
		MotivationMinLength: 500,
	}
	return svc, repo, files, mailer
}
