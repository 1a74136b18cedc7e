// file: internals/features/school/students/service/photo.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	helper "escola_backend/internals/helpers"
	supa "escola_backend/internals/helpers/supabase"
)

// BlobStore stores student photos. Remote implementations return a public
// URL, the local one a relative path.
type BlobStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (ref string, err error)
	Delete(ctx context.Context, ref string) error
	// Remote distinguishes where the ref should be stored on the record
	// (photo URL vs local path — mutually exclusive).
	Remote() bool
}

/* =======================================================
   PhotoOutcome: result type for the non-fatal photo leg
   ======================================================= */

// PhotoOutcome carries either a stored reference or a non-fatal failure.
// The caller decides to log-and-continue; photo failure never aborts the
// record operation.
type PhotoOutcome struct {
	Ref     string // set on success
	Skipped bool   // no photo was supplied
	Err     error  // set on non-fatal failure
}

func (o PhotoOutcome) OK() bool { return o.Err == nil && !o.Skipped }

func (o PhotoOutcome) Warning() string {
	if o.Err == nil {
		return ""
	}
	return "photo could not be processed: " + o.Err.Error()
}

/* =======================================================
   Photo pipeline
   ======================================================= */

type PhotoService struct {
	Blob BlobStore
}

func NewPhotoService(blob BlobStore) *PhotoService { return &PhotoService{Blob: blob} }

// ProcessAndStore normalizes the supplied photo (multipart upload or data
// URL) and uploads it under a name derived from the student id plus a
// short random suffix, so a retried create never collides.
func (p *PhotoService) ProcessAndStore(ctx context.Context, studentID uuid.UUID, fh *multipart.FileHeader, dataURL string) PhotoOutcome {
	raw, err := readPhotoInput(fh, dataURL)
	if err != nil {
		return PhotoOutcome{Err: err}
	}
	if raw == nil {
		return PhotoOutcome{Skipped: true}
	}

	normalized, err := helper.NormalizePhoto(raw)
	if err != nil {
		return PhotoOutcome{Err: err}
	}

	name := fmt.Sprintf("students/%s-%s.jpg", studentID, shortSuffix())
	ref, err := p.Blob.Upload(ctx, name, "image/jpeg", normalized)
	if err != nil {
		return PhotoOutcome{Err: err}
	}
	return PhotoOutcome{Ref: ref}
}

// DeleteStored removes a previously stored photo. Best effort: failures
// are logged at the call site, never raised.
func (p *PhotoService) DeleteStored(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return p.Blob.Delete(ctx, ref)
}

func (p *PhotoService) Remote() bool { return p.Blob.Remote() }

func readPhotoInput(fh *multipart.FileHeader, dataURL string) ([]byte, error) {
	if fh != nil && fh.Size > 0 {
		return helper.ReadFormFile(fh)
	}
	if dataURL != "" {
		return helper.DecodeDataURL(dataURL)
	}
	return nil, nil
}

func shortSuffix() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "000000"
	}
	return hex.EncodeToString(b)
}

/* =======================================================
   Supabase-backed blob store
   ======================================================= */

type SupabaseBlobStore struct {
	Svc *supa.Service
}

func NewSupabaseBlobStore(svc *supa.Service) *SupabaseBlobStore {
	return &SupabaseBlobStore{Svc: svc}
}

func (b *SupabaseBlobStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	return b.Svc.UploadObject(ctx, name, contentType, data)
}

func (b *SupabaseBlobStore) Delete(ctx context.Context, ref string) error {
	name := b.Svc.ObjectNameFromPublicURL(ref)
	if name == "" {
		// Not an object from our bucket; nothing to delete.
		log.Printf("[PHOTO][WARN] ref %q is not in the storage bucket, skipping delete", ref)
		return nil
	}
	return b.Svc.DeleteObject(ctx, name)
}

func (b *SupabaseBlobStore) Remote() bool { return true }

/* =======================================================
   Local filesystem blob store
   ======================================================= */

type LocalBlobStore struct {
	Root string // media root, e.g. "./media"
}

func NewLocalBlobStore(root string) *LocalBlobStore {
	if root == "" {
		root = "media"
	}
	return &LocalBlobStore{Root: root}
}

func (b *LocalBlobStore) Upload(_ context.Context, name, _ string, data []byte) (string, error) {
	full := filepath.Join(b.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("mkdir media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return name, nil
}

func (b *LocalBlobStore) Delete(_ context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	full := filepath.Join(b.Root, filepath.FromSlash(ref))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (b *LocalBlobStore) Remote() bool { return false }

/* =======================================================
   Mock for unit tests
   ======================================================= */

type MockBlobStore struct {
	UploadFn func(ctx context.Context, name, contentType string, data []byte) (string, error)
	DeleteFn func(ctx context.Context, ref string) error
	IsRemote bool
}

func (m *MockBlobStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if m.UploadFn == nil {
		return "", errors.New("not implemented")
	}
	return m.UploadFn(ctx, name, contentType, data)
}

func (m *MockBlobStore) Delete(ctx context.Context, ref string) error {
	if m.DeleteFn == nil {
		return errors.New("not implemented")
	}
	return m.DeleteFn(ctx, ref)
}

func (m *MockBlobStore) Remote() bool { return m.IsRemote }
