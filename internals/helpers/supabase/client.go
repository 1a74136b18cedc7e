// file: internals/helpers/supabase/client.go
package supabase

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"escola_backend/internals/configs"
)

// Service is a thin REST client for the hosted backend: PostgREST table
// API, object storage, and the auth endpoint. Calls are stateless; the
// http.Client is only reused for its pooling.
type Service struct {
	BaseURL    string
	ServiceKey string
	AnonKey    string
	Bucket     string
	HTTP       *http.Client
}

// NewServiceFromEnv builds a Service from the loaded config. bucket is the
// storage bucket used for uploads (e.g. "image").
func NewServiceFromEnv(bucket string) (*Service, error) {
	if configs.SupabaseURL == "" || configs.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("SUPABASE_PROJECT_URL or SUPABASE_SERVICE_ROLE_KEY not set")
	}
	if bucket == "" {
		bucket = "image"
	}
	return &Service{
		BaseURL:    strings.TrimRight(configs.SupabaseURL, "/"),
		ServiceKey: configs.SupabaseServiceKey,
		AnonKey:    configs.SupabaseAnonKey,
		Bucket:     bucket,
		HTTP:       &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (s *Service) authHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)
	req.Header.Set("apikey", s.ServiceKey)
}
