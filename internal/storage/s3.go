// Package storage uploads portal assets to S3-compatible object storage
// (MinIO in development). Buckets are selected by asset kind; the database
// only ever stores the resulting public URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/qdo10/loopin/internal/config"
)

// Kind selects the destination bucket for an upload.
type Kind string

const (
	KindDeliverable Kind = "deliverable" // client-facing delivered files
	KindAttachment  Kind = "attachment"  // files attached to status updates
	KindLogo        Kind = "logo"        // custom branding logos
)

// BucketFor maps an asset kind to its bucket. Unknown kinds fall back to
// the attachments bucket.
func BucketFor(kind Kind) string {
	switch kind {
	case KindDeliverable:
		return "deliverables"
	case KindLogo:
		return "branding"
	default:
		return "attachments"
	}
}

// Store wraps an S3 client plus the public base URL objects are served
// from.
type Store struct {
	client     *s3.Client
	publicBase string
}

// New builds a Store from static credentials and a custom endpoint so the
// same code talks to AWS S3 or MinIO.
func New(ctx context.Context, cfg config.Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &Store{client: client, publicBase: strings.TrimRight(cfg.S3PublicBase, "/")}, nil
}

// ObjectKey builds a collision-free key scoped under the owning entity:
// {scopeID}/{unix}-{uuid}{ext}. The original filename only contributes its
// extension.
func ObjectKey(scopeID uint64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%d/%d-%s%s", scopeID, time.Now().UTC().Unix(), uuid.New(), ext)
}

// Upload puts the object into the bucket for kind and returns its public
// URL.
func (s *Store) Upload(ctx context.Context, kind Kind, scopeID uint64, filename, contentType string, body io.Reader) (string, error) {
	bucket := BucketFor(kind)
	key := ObjectKey(scopeID, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBase, bucket, key), nil
}
