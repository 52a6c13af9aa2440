package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3PutAPI uploads knowledge documents.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SeedS3 uploads every .txt and .md file in fsys under prefix and returns
// the number of objects written. Keys keep the file's relative path.
func SeedS3(ctx context.Context, api S3PutAPI, bucket, prefix string, fsys fs.FS) (int, error) {
	if strings.TrimSpace(bucket) == "" {
		return 0, fmt.Errorf("knowledge: bucket is required")
	}

	var uploaded int
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if contentType(name) == "" {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		if len(data) > maxDocumentBytes {
			return fmt.Errorf("knowledge: %s exceeds %d bytes", name, maxDocumentBytes)
		}

		key := path.Join(prefix, name)
		if _, err := api.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType(name)),
		}); err != nil {
			return fmt.Errorf("knowledge: put s3://%s/%s: %w", bucket, key, err)
		}
		uploaded++
		return nil
	})
	return uploaded, err
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".md":
		return "text/markdown; charset=utf-8"
	default:
		return ""
	}
}
