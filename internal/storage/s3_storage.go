package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "github.com/ignatzorin/kaamwala-backend/internal/config"
)

// S3API часть клиента S3, которой пользуется хранилище.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage хранит иконки в приватном бакете и отдаёт presigned ссылки.
type S3Storage struct {
	client         S3API
	presign        func(ctx context.Context, key string) (string, error)
	bucket         string
	maxUploadBytes int64
	urlTTL         time.Duration
}

// NewS3Storage создаёт клиент S3 по статическим ключам из конфигурации.
func NewS3Storage(ctx context.Context, cfg appConfig.S3Config, maxUploadMB int64) (*S3Storage, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)
	presignClient := s3.NewPresignClient(client)

	s := &S3Storage{
		client:         client,
		bucket:         cfg.Bucket,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
		urlTTL:         time.Hour,
	}
	s.presign = func(ctx context.Context, key string) (string, error) {
		req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}, func(opts *s3.PresignOptions) {
			opts.Expires = s.urlTTL
		})
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}
	return s, nil
}

var _ IconStorage = (*S3Storage)(nil)

// Save загружает файл в бакет и возвращает ключ объекта.
func (s *S3Storage) Save(ctx context.Context, categoryID, originalName, contentType string, r io.Reader) (string, int64, error) {
	content, err := readLimited(r, s.maxUploadBytes)
	if err != nil {
		return "", 0, err
	}

	key := iconKey(categoryID, originalName, time.Now())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", 0, fmt.Errorf("storage: failed to upload to S3: %w", err)
	}
	return key, int64(len(content)), nil
}

// URL presigned ссылка на объект, действует час.
func (s *S3Storage) URL(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	url, err := s.presign(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("storage: failed to generate presigned URL: %w", err)
	}
	return url, nil
}

// Delete удаляет объект из бакета.
func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("storage: failed to delete file from S3: %w", err)
	}
	return nil
}
