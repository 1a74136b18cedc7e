// file: internals/helpers/supabase/storage.go
package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// UploadObject PUTs data under name in the service bucket and returns the
// public URL. name may contain a folder prefix ("students/<id>-abc.jpg").
func (s *Service) UploadObject(ctx context.Context, name, contentType string, data []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.BaseURL, s.Bucket, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	s.authHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload object: status %d: %s", resp.StatusCode, string(body))
	}
	return s.PublicURL(name), nil
}

// DeleteObject removes an object by name. A 404 is treated as success so
// retried deletes stay idempotent.
func (s *Service) DeleteObject(ctx context.Context, name string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.BaseURL, s.Bucket, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	s.authHeaders(req)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("delete object: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// PublicURL builds the public download URL for an object name. Segments
// are escaped one by one so a folder prefix keeps its literal separator,
// matching the path the upload wrote to.
func (s *Service) PublicURL(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.BaseURL, s.Bucket, strings.Join(parts, "/"))
}

// ObjectNameFromPublicURL inverts PublicURL; empty string when the URL is
// not from this bucket.
func (s *Service) ObjectNameFromPublicURL(publicURL string) string {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", s.BaseURL, s.Bucket)
	if len(publicURL) <= len(prefix) || publicURL[:len(prefix)] != prefix {
		return ""
	}
	name, err := url.PathUnescape(publicURL[len(prefix):])
	if err != nil {
		return ""
	}
	return name
}
