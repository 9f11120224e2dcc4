package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidate(t *testing.T) {
	ok := Image{Name: "a.png", ContentType: "image/png", Data: pngHeader}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid image, got %v", err)
	}
	notImage := Image{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}
	if err := notImage.Validate(); err == nil || err.Error() != "Please select an image file" {
		t.Fatalf("unexpected error %v", err)
	}
	big := Image{Name: "b.png", ContentType: "image/png", Data: make([]byte, MaxImageBytes+1)}
	if err := big.Validate(); !model.IsValidation(err) || err.Error() != "Image size should be less than 5MB" {
		t.Fatalf("unexpected error %v", err)
	}
	exact := Image{Name: "c.png", ContentType: "image/png", Data: make([]byte, MaxImageBytes)}
	if err := exact.Validate(); err != nil {
		t.Fatalf("5 MiB exactly must pass, got %v", err)
	}
}

func TestReadFileDetectsType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, pngHeader, 0o600); err != nil {
		t.Fatal(err)
	}
	img, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if img.ContentType != "image/png" || img.Name != "photo.png" {
		t.Fatalf("unexpected image %+v", img)
	}
	url, err := InlineUploader{}.Upload(context.Background(), 1, img)
	if err != nil || !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected data url %q (%v)", url, err)
	}
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Upload(t *testing.T) {
	fake := &fakeS3{}
	u := newS3Uploader(fake, S3Config{Bucket: "clinic-media", Prefix: "/photos/", PublicBaseURL: "https://cdn.clinic.local/"})
	img := Image{Name: "Face.PNG", ContentType: "image/png", Data: pngHeader}

	url, err := u.Upload(context.Background(), 4, img)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	key := aws.ToString(fake.in.Key)
	if !strings.HasPrefix(key, "photos/doctors/4/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key %q", key)
	}
	if url != "https://cdn.clinic.local/"+key {
		t.Fatalf("unexpected url %q", url)
	}
	if aws.ToString(fake.in.Bucket) != "clinic-media" || !bytes.Equal(fake.body, pngHeader) {
		t.Fatal("unexpected put input")
	}
}

func TestS3UploadRejectsBeforeNetwork(t *testing.T) {
	fake := &fakeS3{err: errors.New("must not be called")}
	u := newS3Uploader(fake, S3Config{Bucket: "b"})
	_, err := u.Upload(context.Background(), 1, Image{ContentType: "text/plain", Data: []byte("x")})
	if !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
