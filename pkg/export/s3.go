package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options - параметры загрузки выгрузки в S3-совместимое хранилище
type S3Options struct {
	// Bucket - имя бакета
	Bucket string

	// Key - ключ объекта (пустой = имя файла)
	Key string

	// Region - регион AWS (пустой = из окружения/профиля)
	Region string

	// Endpoint - кастомный endpoint для S3-совместимых хранилищ
	// (MinIO, Ceph). Пустой = AWS.
	Endpoint string
}

// UploadS3 загружает файл выгрузки в S3.
// Учетные данные берутся из стандартной цепочки AWS SDK
// (окружение, профиль, IAM роль).
func UploadS3(ctx context.Context, filePath string, opts S3Options) error {
	if opts.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}

	key := opts.Key
	if key == "" {
		key = filepath.Base(filePath)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = &opts.Endpoint
			// S3-совместимые хранилища обычно не понимают virtual-hosted style
			o.UsePathStyle = true
		}
	})

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	uploader := manager.NewUploader(s3client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &opts.Bucket,
		Key:    &key,
		Body:   f,
	}); err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", opts.Bucket, key, err)
	}

	return nil
}
