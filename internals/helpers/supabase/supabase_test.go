// file: internals/helpers/supabase/supabase_test.go
package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(ts *httptest.Server) *Service {
	return &Service{
		BaseURL:    ts.URL,
		ServiceKey: "service-key",
		AnonKey:    "anon-key",
		Bucket:     "student-photos",
		HTTP:       ts.Client(),
	}
}

func TestUploadObjectReturnsPublicURL(t *testing.T) {
	var gotPath, gotAuth, gotUpsert string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	svc := testService(ts)
	url, err := svc.UploadObject(context.Background(), "students/abc.jpg", "image/jpeg", []byte("jpegdata"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/student-photos/students/abc.jpg", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, []byte("jpegdata"), gotBody)
	assert.Equal(t, svc.PublicURL("students/abc.jpg"), url)
}

func TestUploadObjectSurfacesErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bucket not found", http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := testService(ts).UploadObject(context.Background(), "x.jpg", "image/jpeg", []byte("d"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestDeleteObjectTreats404AsSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	assert.NoError(t, testService(ts).DeleteObject(context.Background(), "gone.jpg"))
}

func TestPublicURLKeepsFolderSeparator(t *testing.T) {
	svc := &Service{BaseURL: "https://proj.supabase.co", Bucket: "student-photos"}

	got := svc.PublicURL("students/abc-123.jpg")
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/student-photos/students/abc-123.jpg",
		got, "the public URL must address the same path the upload wrote to")
	assert.NotContains(t, got, "%2F")

	// Characters inside a segment still get escaped.
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/student-photos/students/foto%20final.jpg",
		svc.PublicURL("students/foto final.jpg"))
}

func TestObjectNameFromPublicURL(t *testing.T) {
	svc := &Service{BaseURL: "https://proj.supabase.co", Bucket: "student-photos"}

	name := "students/abc-123.jpg"
	assert.Equal(t, name, svc.ObjectNameFromPublicURL(svc.PublicURL(name)))

	assert.Empty(t, svc.ObjectNameFromPublicURL("https://elsewhere.example/photo.jpg"))
	assert.Empty(t, svc.ObjectNameFromPublicURL(""))
}

func TestInsertRowReturnsRepresentation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/students", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{payload})
	}))
	defer ts.Close()

	row, err := testService(ts).InsertRow(context.Background(), "students",
		map[string]any{"student_name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", row["student_name"])
}

func TestInsertRowWithoutRepresentationIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated) // empty body, no row back
	}))
	defer ts.Close()

	_, err := testService(ts).InsertRow(context.Background(), "students", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no row")
}

func TestUpdateRowMatchingNoRowIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "student_id=eq.abc", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer ts.Close()

	_, err := testService(ts).UpdateRow(context.Background(), "students", "student_id", "abc", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched no row")
}

func TestDeleteRowMatchingNoRowIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer ts.Close()

	err := testService(ts).DeleteRow(context.Background(), "students", "student_id", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched no row")
}

func TestSignInReturnsSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "grant_type=password", r.URL.RawQuery)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ana@escola.dev", creds["email"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Session{AccessToken: "at", RefreshToken: "rt", TokenType: "bearer", ExpiresIn: 3600})
	}))
	defer ts.Close()

	sess, err := testService(ts).SignIn(context.Background(), "ana@escola.dev", "senha123")
	require.NoError(t, err)
	assert.Equal(t, "at", sess.AccessToken)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := testService(ts).SignIn(context.Background(), "ana@escola.dev", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestDeleteRowSucceedsWhenRowReturned(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"student_id":"abc"}]`))
	}))
	defer ts.Close()

	assert.NoError(t, testService(ts).DeleteRow(context.Background(), "students", "student_id", "abc"))
}
