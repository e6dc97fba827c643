package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"primer-registry/archive"
	"primer-registry/config"
)

// ErrIncompleteS3Config is returned when the S3 configuration is incomplete
var ErrIncompleteS3Config = errors.New("incomplete S3 configuration")

var _ archive.Archive = (*S3Archive)(nil)

// S3Archive implements the archive interface using an s3-backed
// storage
type S3Archive struct {
	S3Client *s3.Client
	Timeout  time.Duration
	Bucket   string
}

// New creates a new s3-based archive. optFns are applied to the client
// options after the configuration values.
func New(cfg config.S3Config, optFns ...func(*s3.Options)) (*S3Archive, error) {
	// check for required S3 configuration
	if strings.TrimSpace(cfg.AccessKey) == "" ||
		strings.TrimSpace(cfg.KeyID) == "" ||
		strings.TrimSpace(cfg.Endpoint) == "" ||
		strings.TrimSpace(cfg.Region) == "" ||
		strings.TrimSpace(cfg.Bucket) == "" ||
		strings.TrimSpace(cfg.Timeout) == "" {
		return nil, fmt.Errorf("%w", ErrIncompleteS3Config)
	}

	timeoutDuration, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid S3 timeout value: %w", err)
	}

	s3Client := s3.New(s3.Options{
		UsePathStyle: true,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Region:       cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				cfg.KeyID,
				cfg.AccessKey,
				"",
			),
		),
	}, optFns...)

	return &S3Archive{
		S3Client: s3Client,
		Timeout:  timeoutDuration,
		Bucket:   cfg.Bucket,
	}, nil
}

// StorePrimerSet uploads a primer set to the bucket and returns its version
// hash
func (a *S3Archive) StorePrimerSet(
	ctx context.Context,
	name string,
	content []byte,
) (string, error) {
	versionHash := archive.VersionHash(content)
	key := archive.ObjectKey(name, versionHash)

	uploader := manager.NewUploader(a.S3Client)

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	result, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/tab-separated-values"),
	})
	if err != nil {
		var mu manager.MultiUploadFailure
		if errors.As(err, &mu) {
			log.Error().
				Str("upload_id", mu.UploadID()).
				Err(mu).
				Msg("multi-upload failure")

			return "", fmt.Errorf(
				"multi-upload failure (upload_id: %s): %w",
				mu.UploadID(),
				mu,
			)
		}

		log.Error().Err(err).Str("key", key).Msg("upload failure")

		return "", fmt.Errorf("upload failure: %w", err)
	}
	log.Info().
		Str("location", result.Location).
		Msg("successfully uploaded primer set to s3 bucket")

	return versionHash, nil
}

// GetPrimerSet retrieves a primer set by name and version hash
func (a *S3Archive) GetPrimerSet(
	ctx context.Context,
	name, versionHash string,
) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	object, err := a.S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.Bucket),
		Key:    aws.String(archive.ObjectKey(name, versionHash)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFoundErr *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFoundErr) {
			return nil, archive.ErrPrimerSetNotFound
		}

		return nil, fmt.Errorf("failed to get primer set from S3: %w", err)
	}

	if object.Body == nil {
		return []byte{}, nil
	}
	defer func() {
		if cerr := object.Body.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close S3 object body")
		}
	}()

	content, err := io.ReadAll(object.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read primer set content: %w", err)
	}

	return content, nil
}

// DeletePrimerSet deletes a primer set by name and version hash. S3 deletes
// are idempotent, so existence is checked first.
func (a *S3Archive) DeletePrimerSet(
	ctx context.Context,
	name, versionHash string,
) error {
	if _, err := a.GetPrimerSet(ctx, name, versionHash); err != nil {
		return fmt.Errorf("failed to remove primer set: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	_, err := a.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.Bucket),
		Key:    aws.String(archive.ObjectKey(name, versionHash)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete primer set from S3: %w", err)
	}

	return nil
}
