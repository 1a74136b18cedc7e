// file: internals/helpers/convert_image.go
package helper

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/chai2010/webp" // register webp decoder

	"github.com/disintegration/imaging"
)

const (
	// Photos are bounded to this box; smaller images pass through unscaled.
	PhotoMaxDimension = 800
	PhotoJPEGQuality  = 85
)

// NormalizePhoto decodes raw image bytes, downscales so neither dimension
// exceeds PhotoMaxDimension (aspect preserved), and re-encodes as JPEG
// quality 85. Decode covers jpeg/png/gif/webp. Returns the re-encoded
// bytes, ready for upload.
func NormalizePhoto(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > PhotoMaxDimension || b.Dy() > PhotoMaxDimension {
		img = imaging.Fit(img, PhotoMaxDimension, PhotoMaxDimension, imaging.Lanczos)
	} else {
		// imaging.Clone also flattens exotic color models into NRGBA so
		// the JPEG encoder always gets a plain color image.
		img = imaging.Clone(img)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(PhotoJPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

// ReadFormFile reads a multipart file header fully into memory.
func ReadFormFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, src); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDataURL extracts the payload of a base64 data-URL
// ("data:image/png;base64,...."), as sent by webcam capture widgets.
func DecodeDataURL(dataURL string) ([]byte, error) {
	s := strings.TrimSpace(dataURL)
	if !strings.HasPrefix(s, "data:") {
		return nil, fmt.Errorf("not a data URL")
	}
	idx := strings.Index(s, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data URL")
	}
	meta, payload := s[:idx], s[idx+1:]
	if !strings.Contains(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data URL encoding")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return raw, nil
}
