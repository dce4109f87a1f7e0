package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// ObjectPutter is the subset of *s3.Client used by S3Exporter.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Exporter writes timelines to S3 as JSON documents.
type S3Exporter struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Exporter creates an exporter writing under s3://bucket/prefix/.
func NewS3Exporter(client ObjectPutter, bucket, prefix string) *S3Exporter {
	return &S3Exporter{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

// Export uploads events and returns the object key.
func (e *S3Exporter) Export(ctx context.Context, events []reactive.Event) (string, error) {
	data, err := json.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("encode timeline: %w", err)
	}

	key := e.now().UTC().Format("20060102T150405.000Z") + ".json"
	if e.prefix != "" {
		key = e.prefix + "/" + key
	}

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"events": fmt.Sprint(len(events)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 export to %s failed: %w", e.bucket, err)
	}
	return key, nil
}
