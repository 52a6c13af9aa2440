package knowledge

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used to read knowledge documents.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// maxDocumentBytes caps how much of a single object is read.
const maxDocumentBytes = 1 << 20

// LoadS3Documents reads every .txt and .md object under prefix. Each
// document is split into blank-line separated passages.
func LoadS3Documents(ctx context.Context, api S3API, bucket, prefix string) ([]string, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, nil
	}

	var docs []string
	paginator := s3.NewListObjectsV2Paginator(api, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("knowledge: list s3://%s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			switch strings.ToLower(path.Ext(key)) {
			case ".txt", ".md":
			default:
				continue
			}

			body, err := readObject(ctx, api, bucket, key)
			if err != nil {
				return nil, err
			}
			docs = append(docs, SplitPassages(body)...)
		}
	}
	return docs, nil
}

func readObject(ctx context.Context, api S3API, bucket, key string) (string, error) {
	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("knowledge: get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("knowledge: read s3://%s/%s: %w", bucket, key, err)
	}
	return string(data), nil
}

// SplitPassages breaks text on blank lines and drops empty passages.
func SplitPassages(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
