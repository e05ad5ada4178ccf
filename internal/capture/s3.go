package capture

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/proteinpal/config"
)

// S3Uploader stores captured photos in S3 and hands back presigned URLs.
type S3Uploader struct {
	s3     *config.S3Config
	expiry time.Duration
}

// NewS3Uploader creates a BlobStore that returns presigned URLs valid
// for expiry.
func NewS3Uploader(s3Config *config.S3Config, expiry time.Duration) *S3Uploader {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &S3Uploader{s3: s3Config, expiry: expiry}
}

func (u *S3Uploader) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := u.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	log.Printf("[S3Uploader] uploaded %s (%d bytes)", key, len(data))

	url, err := u.s3.GeneratePresignedURL(ctx, key, u.expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return url, nil
}
