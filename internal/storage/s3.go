package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"database-manager/internal/config"
	apperrors "database-manager/internal/errors"
)

// S3Config holds the settings of an S3 compatible bucket.
type S3Config struct {
	Bucket         string
	Region         string
	AccessKey      string
	SecretKey      string
	Endpoint       string
	ForcePathStyle bool
	Root           string
}

func s3ConfigFrom(section config.Tree) S3Config {
	return S3Config{
		Bucket:         section.String("bucket"),
		Region:         section.String("region"),
		AccessKey:      section.String("key"),
		SecretKey:      section.String("secret"),
		Endpoint:       section.String("endpoint"),
		ForcePathStyle: section.Bool("use_path_style_endpoint", false),
		Root:           section.String("root"),
	}
}

// Validate checks the required settings.
func (c S3Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	return nil
}

// S3Filesystem stores backups in an Amazon S3 bucket. The session is created
// on first use.
type S3Filesystem struct {
	config S3Config

	once    sync.Once
	initErr error
	sess    *session.Session
	client  *s3.S3
}

// NewS3Filesystem creates an S3Filesystem.
func NewS3Filesystem(cfg S3Config) (*S3Filesystem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError("invalid S3 storage configuration", err)
	}
	return &S3Filesystem{config: cfg}, nil
}

func (s *S3Filesystem) connect() error {
	s.once.Do(func() {
		awsConfig := &aws.Config{Region: aws.String(s.config.Region)}
		if s.config.AccessKey != "" {
			awsConfig.Credentials = credentials.NewStaticCredentials(s.config.AccessKey, s.config.SecretKey, "")
		}
		if s.config.Endpoint != "" {
			awsConfig.Endpoint = aws.String(s.config.Endpoint)
		}
		if s.config.ForcePathStyle {
			awsConfig.S3ForcePathStyle = aws.Bool(true)
		}

		sess, err := session.NewSession(awsConfig)
		if err != nil {
			s.initErr = apperrors.NewStorageError("failed to create AWS session", err)
			return
		}
		s.sess = sess
		s.client = s3.New(sess)
	})
	return s.initErr
}

func (s *S3Filesystem) ListContents(ctx context.Context, dir string) ([]Entry, error) {
	if err := s.connect(); err != nil {
		return nil, err
	}

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.config.Bucket),
		Prefix:    aws.String(dirPrefix(s.config.Root, dir)),
		Delimiter: aws.String("/"),
	}

	var contents []Entry
	err := s.client.ListObjectsV2PagesWithContext(ctx, input,
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, prefix := range page.CommonPrefixes {
				contents = append(contents, newDirEntry(relativeKey(s.config.Root, aws.StringValue(prefix.Prefix)), time.Time{}))
			}
			for _, obj := range page.Contents {
				key := aws.StringValue(obj.Key)
				if key == aws.StringValue(input.Prefix) {
					// Directory placeholder object.
					continue
				}
				contents = append(contents, newFileEntry(relativeKey(s.config.Root, key), aws.Int64Value(obj.Size), aws.TimeValue(obj.LastModified)))
			}
			return true
		})
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to list s3://%s/%s", s.config.Bucket, aws.StringValue(input.Prefix)), err)
	}
	return contents, nil
}

func (s *S3Filesystem) Write(ctx context.Context, p string, r io.Reader) error {
	if err := s.connect(); err != nil {
		return err
	}

	key := objectKey(s.config.Root, p)
	uploader := s3manager.NewUploader(s.sess)
	_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to upload s3://%s/%s", s.config.Bucket, key), err)
	}
	return nil
}

func (s *S3Filesystem) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := s.connect(); err != nil {
		return nil, err
	}

	key := objectKey(s.config.Root, p)
	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to download s3://%s/%s", s.config.Bucket, key), err)
	}
	return result.Body, nil
}

func (s *S3Filesystem) Close() error {
	return nil
}
