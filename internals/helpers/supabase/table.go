// file: internals/helpers/supabase/table.go
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// The table API follows PostgREST conventions: writes carry
// Prefer: return=representation so the written row comes back, and a write
// that returns no row is treated as a failed write by callers.

func (s *Service) tableEndpoint(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", s.BaseURL, table)
}

func (s *Service) doTableRequest(ctx context.Context, method, endpoint string, payload any) ([]map[string]any, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build table request: %w", err)
	}
	s.authHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("table request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("table request: status %d: %s", resp.StatusCode, string(raw))
	}

	var rows []map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode table response: %w", err)
		}
	}
	return rows, nil
}

// InsertRow inserts record into table and returns the written row.
func (s *Service) InsertRow(ctx context.Context, table string, record any) (map[string]any, error) {
	rows, err := s.doTableRequest(ctx, http.MethodPost, s.tableEndpoint(table), record)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", table)
	}
	return rows[0], nil
}

// UpdateRow patches the row where pkColumn equals id and returns it.
func (s *Service) UpdateRow(ctx context.Context, table, pkColumn, id string, record any) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s?%s=eq.%s", s.tableEndpoint(table), pkColumn, id)
	rows, err := s.doTableRequest(ctx, http.MethodPatch, endpoint, record)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("update of %s/%s matched no row", table, id)
	}
	return rows[0], nil
}

// DeleteRow deletes the row where pkColumn equals id. A delete that
// matches no row is an error: the caller treats it as a failed operation.
func (s *Service) DeleteRow(ctx context.Context, table, pkColumn, id string) error {
	endpoint := fmt.Sprintf("%s?%s=eq.%s", s.tableEndpoint(table), pkColumn, id)
	rows, err := s.doTableRequest(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("delete of %s/%s matched no row", table, id)
	}
	return nil
}
