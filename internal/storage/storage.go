// Package storage 图片等二进制对象的存放，底层是 gocloud.dev/blob。
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

var ErrInvalidKey = errors.New("invalid blob key")

// Store key 形如 images/{uploaderId}/{itemId}/{filename}
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
}

// ImageKey 物品图片路径约定
func ImageKey(uploaderID, itemID, filename string) string {
	return "images/" + uploaderID + "/" + itemID + "/" + filename
}

// Bucket 对外地址为 BaseURL + "/" + key
type Bucket struct {
	b       *blob.Bucket
	BaseURL string
}

// Open 按 URL 选后端：file:///data/blobs、s3://bucket?region=...、gs://bucket
func Open(ctx context.Context, bucketURL, baseURL string) (*Bucket, error) {
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %q: %w", bucketURL, err)
	}
	return &Bucket{b: b, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// NewLocal 本地目录，不存在则创建
func NewLocal(root, baseURL string) (*Bucket, error) {
	b, err := fileblob.OpenBucket(root, &fileblob.Options{CreateDir: true, NoTempDir: true})
	if err != nil {
		return nil, fmt.Errorf("open blob root: %w", err)
	}
	return &Bucket{b: b, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func cleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	if clean == "" {
		return "", ErrInvalidKey
	}
	return clean, nil
}

func (s *Bucket) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := s.b.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return s.BaseURL + "/" + key, nil
}

func (s *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	key, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	return s.b.Exists(ctx, key)
}

func (s *Bucket) Close() error { return s.b.Close() }
