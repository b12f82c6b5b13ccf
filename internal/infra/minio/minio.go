package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gigstream-go/internal/config"
	"gigstream-go/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// 存储桶划分：raw-media 保存原始上传（私有，签名访问），
// public-media 保存缩略图、转码产物和 HLS 切片（公开读，直接播放或走 CDN 回源）
const (
	RawBucket    = "raw-media"
	PublicBucket = "public-media"
)

var client *minio.Client

// Init 初始化 MinIO 客户端并确保所有 Bucket 存在
func Init(cfg *config.MinIOConfig) error {
	var err error
	client, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, bucket := range cfg.Buckets {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
			logger.Info("MinIO bucket created", zap.String("bucket", bucket))
		}
	}

	// public-media 需要公开读，供播放器直接拉取产物和 HLS 切片
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, PublicBucket)
	if err := client.SetBucketPolicy(ctx, PublicBucket, policy); err != nil {
		return fmt.Errorf("failed to set public policy for %s: %w", PublicBucket, err)
	}
	logger.Info("MinIO public bucket set to public-read", zap.String("bucket", PublicBucket))

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.Int("buckets", len(cfg.Buckets)),
	)

	return nil
}

// Get 获取 MinIO 客户端实例
func Get() *minio.Client {
	return client
}

// UploadFile 上传文件到指定 Bucket，返回对象名
func UploadFile(ctx context.Context, bucket, objectName string, reader io.Reader, fileSize int64, contentType string) (string, error) {
	_, err := client.PutObject(ctx, bucket, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}
	return objectName, nil
}

// UploadLocalFile 上传本地文件到指定 Bucket，返回写入的字节数
func UploadLocalFile(ctx context.Context, bucket, objectName, filePath, contentType string) (int64, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	if _, err := UploadFile(ctx, bucket, objectName, f, info.Size(), contentType); err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// DownloadToFile 下载对象到本地路径
func DownloadToFile(ctx context.Context, bucket, objectName, destPath string) error {
	obj, err := client.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get object %s: %w", objectName, err)
	}
	defer obj.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, obj); err != nil {
		return fmt.Errorf("failed to download object %s: %w", objectName, err)
	}
	return nil
}

// RemoveObject 删除单个对象
func RemoveObject(ctx context.Context, bucket, objectName string) error {
	if err := client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", objectName, err)
	}
	return nil
}

// RemovePrefix 删除指定前缀下的所有对象，返回被删除的对象键
// 单个对象删除失败只记录日志，不中断整体删除
func RemovePrefix(ctx context.Context, bucket, prefix string) []string {
	removed := make([]string, 0)

	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			logger.Error("List objects failed", zap.String("prefix", prefix), zap.Error(obj.Err))
			continue
		}
		if err := RemoveObject(ctx, bucket, obj.Key); err != nil {
			logger.Error("Remove object failed", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		removed = append(removed, obj.Key)
	}

	return removed
}

// GetPresignedURL 生成预签名下载 URL（有效期可配置）
func GetPresignedURL(ctx context.Context, bucket, objectName string, expiry time.Duration) (string, error) {
	reqParams := make(url.Values)
	presignedURL, err := client.PresignedGetObject(ctx, bucket, objectName, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned url: %w", err)
	}
	return presignedURL.String(), nil
}

// GetPublicURL 生成公开访问 URL（需要 Bucket 设置为 public-read）
func GetPublicURL(endpoint string, useSSL bool, bucket, objectName string) string {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, bucket, objectName)
}
