package aws

import (
	"context"
	"pos/pkg/config"
	"time"

	"github.com/gofiber/storage/s3/v2"
)

// S3 stores objects that outlive the database, such as sale receipts.
type S3 struct {
	bucket *s3.Storage
}

func NewS3Bucket(appConfig *config.AppConfig) *S3 {
	storage := s3.New(s3.Config{
		Endpoint: appConfig.AWSEndpoint,
		Bucket:   appConfig.AWSBucket,
		Region:   appConfig.AWSDefaultRegion,
		Credentials: s3.Credentials{
			AccessKey:       appConfig.AWSAccessKey,
			SecretAccessKey: appConfig.AWSSecretKey,
		},
		MaxAttempts:    3,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	return &S3{
		bucket: storage,
	}
}

// Upload writes data under key. Objects never expire.
func (s *S3) Upload(ctx context.Context, key string, data []byte) error {
	return s.bucket.SetWithContext(ctx, key, data, 0)
}

func (s *S3) Close() error {
	return s.bucket.Close()
}
