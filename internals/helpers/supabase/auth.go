// file: internals/helpers/supabase/auth.go
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// SignIn performs a password-grant login against the auth API.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	endpoint := fmt.Sprintf("%s/auth/v1/token?grant_type=password", s.BaseURL)

	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	key := s.AnonKey
	if key == "" {
		key = s.ServiceKey
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sign in: status %d: %s", resp.StatusCode, string(raw))
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// SignOut revokes the session's access token. Best effort: a failed
// revoke still means the client should drop its token.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	endpoint := fmt.Sprintf("%s/auth/v1/logout", s.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build sign-out request: %w", err)
	}
	key := s.AnonKey
	if key == "" {
		key = s.ServiceKey
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sign out: status %d", resp.StatusCode)
	}
	return nil
}
