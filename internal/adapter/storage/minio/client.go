package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	appconfig "github.com/GoArmGo/TravelAlbum/internal/config"
)

// Client представляет собой клиент для взаимодействия с MinIO (S3-совместимым хранилищем).
type Client struct {
	s3Client    *s3.Client
	uploader    *manager.Uploader
	bucketName  string
	baseDir     string
	endpointURL string
	logger      *slog.Logger
}

// NewMinioClient создает и инициализирует новый MinIO Client, используя переданную конфигурацию.
func NewMinioClient(cfg *appconfig.Config, logger *slog.Logger) (*Client, error) {
	if cfg.MinioAccessKeyID == "" || cfg.MinioSecretAccessKey == "" || cfg.MinioBucketName == "" ||
		cfg.MinioEndpoint == "" || cfg.MinioRegion == "" {
		return nil, fmt.Errorf("MinIO credentials (MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY, MINIO_BUCKET_NAME, MINIO_ENDPOINT, MINIO_REGION) must be set in environment variables")
	}

	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)

	cfgAws, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.MinioAccessKeyID, cfg.MinioSecretAccessKey, "")),
		awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:    endpointURL,
					Source: aws.EndpointSourceCustom,
				}, nil
			})),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for MinIO: %w", err)
	}

	s3Client := s3.NewFromConfig(cfgAws, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(s3Client)

	// Проверяем существование бакета
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.MinioBucketName),
	})

	if err != nil {
		logger.Info("bucket not found, creating", "bucket", cfg.MinioBucketName)

		_, createErr := s3Client.CreateBucket(context.TODO(), &s3.CreateBucketInput{
			Bucket: aws.String(cfg.MinioBucketName),
			CreateBucketConfiguration: &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(cfg.MinioRegion),
			},
		})
		if createErr != nil {
			return nil, fmt.Errorf("failed to create bucket '%s': %w", cfg.MinioBucketName, createErr)
		}

		waiter := s3.NewBucketExistsWaiter(s3Client)
		if err := waiter.Wait(context.TODO(), &s3.HeadBucketInput{
			Bucket: aws.String(cfg.MinioBucketName),
		}, 30*time.Second); err != nil {
			return nil, fmt.Errorf("failed waiting for bucket '%s' to be created: %w", cfg.MinioBucketName, err)
		}

		logger.Info("bucket created", "bucket", cfg.MinioBucketName)
	}

	return &Client{
		s3Client:    s3Client,
		uploader:    uploader,
		bucketName:  cfg.MinioBucketName,
		baseDir:     cfg.UploadBaseDir,
		endpointURL: endpointURL,
		logger:      logger,
	}, nil
}

// ObjectKey строит ключ объекта: <baseDir>/<kind>/<uuid><ext>.
// Оригинальное имя файла ключом не становится, от него берется только расширение.
func (c *Client) ObjectKey(kind, originalName string) string {
	return objectKey(c.baseDir, kind, originalName)
}

func objectKey(baseDir, kind, originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%s/%s%s", baseDir, kind, uuid.NewString(), ext)
}

// UploadFile загружает файл в бакет и возвращает его публичный URL.
func (c *Client) UploadFile(ctx context.Context, objectKey string, fileContent io.Reader, contentType string) (string, error) {
	start := time.Now()

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        fileContent,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s to bucket %s using multipart upload: %w", objectKey, c.bucketName, err)
	}

	c.logger.Info("file uploaded",
		"key", objectKey,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return fmt.Sprintf("%s/%s/%s", c.endpointURL, c.bucketName, objectKey), nil
}

// DeleteFileByURL удаляет объект по его публичному URL.
func (c *Client) DeleteFileByURL(ctx context.Context, fileURL string) error {
	key, err := keyFromURL(fileURL, c.bucketName)
	if err != nil {
		return err
	}

	_, err = c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s from bucket %s: %w", key, c.bucketName, err)
	}

	c.logger.Info("file deleted", "key", key)
	return nil
}

// keyFromURL восстанавливает ключ объекта из публичного URL.
// Поддерживается path-style адресация: http(s)://endpoint/bucket/key.
func keyFromURL(fileURL, bucket string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("некорректный URL объекта %q: %w", fileURL, err)
	}

	key := strings.TrimPrefix(u.Path, "/")
	// при virtual-host адресации бакет сидит в хосте, а не в пути
	key = strings.TrimPrefix(key, bucket+"/")
	if key == "" {
		return "", fmt.Errorf("не удалось извлечь ключ объекта из URL %q", fileURL)
	}
	return key, nil
}
