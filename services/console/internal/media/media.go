// Package media prepares doctor photos: type and size checks, then either an
// inline data URL or an upload to S3.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
)

const MaxImageBytes = 5 << 20

type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadFile loads an image from disk and detects its content type.
func ReadFile(path string) (Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	if info.Size() > MaxImageBytes {
		return Image{}, tooLarge()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	name := filepath.Base(path)
	return Image{Name: name, ContentType: DetectContentType(name, data), Data: data}, nil
}

// DetectContentType sniffs data, falling back to the file extension.
func DetectContentType(name string, data []byte) string {
	ct := http.DetectContentType(data)
	if ct == "application/octet-stream" || strings.HasPrefix(ct, "text/plain") {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
			ct = byExt
		}
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func tooLarge() error {
	return &model.ValidationError{Message: "Image size should be less than 5MB"}
}

// Validate accepts image/* content no larger than MaxImageBytes.
func (img Image) Validate() error {
	if !strings.HasPrefix(img.ContentType, "image/") {
		return &model.ValidationError{Message: "Please select an image file"}
	}
	if len(img.Data) > MaxImageBytes {
		return tooLarge()
	}
	return nil
}

// DataURL renders the image inline as data:<type>;base64,<payload>.
func (img Image) DataURL() string {
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Uploader turns an image into the URL stored on the doctor record.
type Uploader interface {
	Upload(ctx context.Context, doctorID int64, img Image) (string, error)
}

// InlineUploader stores the photo inside the record as a data URL.
type InlineUploader struct{}

func (InlineUploader) Upload(_ context.Context, _ int64, img Image) (string, error) {
	if err := img.Validate(); err != nil {
		return "", err
	}
	return img.DataURL(), nil
}
