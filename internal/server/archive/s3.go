// Package archive keeps a copy of every dispatched invoice PDF in
// S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	sc "github.com/dmitrijs2005/shutterpro/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// putObjectAPI is the slice of the S3 client the archiver needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores invoice PDFs under date-partitioned keys.
type S3Archive struct {
	client putObjectAPI
	bucket string
}

// GetStorageKey builds the object key for a dispatched invoice.
func GetStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("invoices/%d/%02d/%02d/%v.pdf", d.Year(), d.Month(), d.Day(), uuid.New())
}

// NewS3Archive builds an archiver from the server config. Static credentials
// and a base endpoint keep it compatible with MinIO.
func NewS3Archive(ctx context.Context, c *sc.Config) (*S3Archive, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Archive{client: client, bucket: c.S3Bucket}, nil
}

// Store uploads the PDF and returns the object key.
func (a *S3Archive) Store(ctx context.Context, pdf []byte) (string, error) {
	key := GetStorageKey()

	contentType := "application/pdf"
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        bytes.NewReader(pdf),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3 error: %w", err)
	}

	return key, nil
}
