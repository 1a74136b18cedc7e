// file: internals/features/school/students/service/photo_test.go
package service

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "escola_backend/internals/helpers"
)

func TestProcessAndStoreSkipsWhenNoInput(t *testing.T) {
	p := NewPhotoService(&MockBlobStore{})
	outcome := p.ProcessAndStore(context.Background(), uuid.New(), nil, "")
	assert.True(t, outcome.Skipped)
	assert.NoError(t, outcome.Err)
	assert.False(t, outcome.OK())
	assert.Empty(t, outcome.Warning())
}

func TestProcessAndStoreRejectsGarbageInput(t *testing.T) {
	p := NewPhotoService(&MockBlobStore{})
	outcome := p.ProcessAndStore(context.Background(), uuid.New(), nil, "data:image/png;base64,bm90IGFuIGltYWdl")
	require.Error(t, outcome.Err)
	assert.NotEmpty(t, outcome.Warning())
}

func TestLocalBlobStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	p := NewPhotoService(NewLocalBlobStore(root))
	id := uuid.New()

	outcome := p.ProcessAndStore(context.Background(), id, nil, pngDataURL(t))
	require.True(t, outcome.OK(), "outcome err: %v", outcome.Err)
	assert.False(t, p.Remote())

	full := filepath.Join(root, filepath.FromSlash(outcome.Ref))
	data, err := os.ReadFile(full)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format, "stored photo must be normalized to jpeg")
	assert.LessOrEqual(t, img.Bounds().Dx(), helper.PhotoMaxDimension)
	assert.LessOrEqual(t, img.Bounds().Dy(), helper.PhotoMaxDimension)

	require.NoError(t, p.DeleteStored(context.Background(), outcome.Ref))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// Deleting again stays idempotent.
	assert.NoError(t, p.DeleteStored(context.Background(), outcome.Ref))
}

func TestPhotoNamesNeverCollideOnRetry(t *testing.T) {
	var names []string
	p := NewPhotoService(&MockBlobStore{
		UploadFn: func(_ context.Context, name, _ string, _ []byte) (string, error) {
			names = append(names, name)
			return name, nil
		},
	})
	id := uuid.New()
	url := pngDataURL(t)

	require.True(t, p.ProcessAndStore(context.Background(), id, nil, url).OK())
	require.True(t, p.ProcessAndStore(context.Background(), id, nil, url).OK())

	require.Len(t, names, 2)
	assert.NotEqual(t, names[0], names[1], "retried upload must get a fresh object name")
}
