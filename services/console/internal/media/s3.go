package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

// S3Uploader writes photos under <prefix>/doctors/<id>/<uuid><ext>.
type S3Uploader struct {
	client     putObjectAPI
	bucket     string
	prefix     string
	publicBase string
}

// NewS3Uploader loads the default AWS config chain; AWS_ENDPOINT_URL points it
// at a local S3 compatible store.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("media: bucket is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.New(s3.Options{
		Region:       awsCfg.Region,
		Credentials:  awsCfg.Credentials,
		HTTPClient:   awsCfg.HTTPClient,
		BaseEndpoint: awsCfg.BaseEndpoint,
		UsePathStyle: true,
	})
	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client putObjectAPI, cfg S3Config) *S3Uploader {
	return &S3Uploader{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     strings.Trim(cfg.Prefix, "/"),
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

func (u *S3Uploader) objectKey(doctorID int64, name string) string {
	ext := strings.ToLower(path.Ext(name))
	key := path.Join("doctors", strconv.FormatInt(doctorID, 10), uuid.NewString()+ext)
	if u.prefix != "" {
		key = u.prefix + "/" + key
	}
	return key
}

func (u *S3Uploader) Upload(ctx context.Context, doctorID int64, img Image) (string, error) {
	if err := img.Validate(); err != nil {
		return "", err
	}
	key := u.objectKey(doctorID, img.Name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentType:   aws.String(img.ContentType),
		ContentLength: aws.Int64(int64(len(img.Data))),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if u.publicBase != "" {
		return u.publicBase + "/" + key, nil
	}
	return "https://" + u.bucket + ".s3.amazonaws.com/" + key, nil
}
