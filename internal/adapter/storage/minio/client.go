package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Options: параметры подключения к MinIO (S3-совместимому хранилищу).
type Options struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

func (o Options) validate() error {
	if o.Endpoint == "" || o.AccessKeyID == "" || o.SecretAccessKey == "" || o.BucketName == "" || o.Region == "" {
		return errors.New("MinIO settings (MINIO_ENDPOINT, MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY, MINIO_BUCKET_NAME, MINIO_REGION) must be set")
	}
	return nil
}

// EndpointURL возвращает полный URL эндпоинта с учётом SSL.
func (o Options) EndpointURL() string {
	if o.UseSSL {
		return "https://" + o.Endpoint
	}
	return "http://" + o.Endpoint
}

// Client представляет собой клиент для взаимодействия с MinIO.
type Client struct {
	s3Client   *s3.Client
	uploader   *manager.Uploader
	bucketName string
	endpoint   string
	logger     *slog.Logger
}

// NewMinioClient создает клиента и при необходимости создаёт бакет.
func NewMinioClient(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	cfgAws, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for MinIO: %w", err)
	}

	s3Client := s3.NewFromConfig(cfgAws, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.EndpointURL())
		o.UsePathStyle = true
	})

	c := &Client{
		s3Client:   s3Client,
		uploader:   manager.NewUploader(s3Client),
		bucketName: opts.BucketName,
		endpoint:   opts.EndpointURL(),
		logger:     logger,
	}

	if err := c.ensureBucket(ctx, opts.Region); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context, region string) error {
	headCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.s3Client.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)}); err == nil {
		c.logger.Info("bucket already exists", "bucket", c.bucketName)
		return nil
	}

	c.logger.Info("bucket not found, creating", "bucket", c.bucketName)

	input := &s3.CreateBucketInput{Bucket: aws.String(c.bucketName)}
	// us-east-1 нельзя указывать в LocationConstraint
	if region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket '%s': %w", c.bucketName, err)
	}

	waiter := s3.NewBucketExistsWaiter(c.s3Client)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)}, 30*time.Second); err != nil {
		return fmt.Errorf("failed waiting for bucket '%s' to be created: %w", c.bucketName, err)
	}

	c.logger.Info("bucket created", "bucket", c.bucketName)
	return nil
}

// UploadFile загружает объект и возвращает его URL.
func (c *Client) UploadFile(ctx context.Context, objectKey string, content io.Reader, contentType string) (string, error) {
	start := time.Now()

	if _, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        content,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", objectKey, c.bucketName, err)
	}

	c.logger.Debug("object uploaded",
		"bucket", c.bucketName,
		"key", objectKey,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ObjectURL(c.endpoint, c.bucketName, objectKey), nil
}

// GetFile получает содержимое объекта. Вызывающий закрывает reader.
func (c *Client) GetFile(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	output, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from bucket %s: %w", objectKey, c.bucketName, err)
	}
	return output.Body, nil
}

// ObjectURL собирает path-style URL объекта.
func ObjectURL(endpoint, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", endpoint, bucket, key)
}
