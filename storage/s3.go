package storage

import (
	"context"
	"io"

	"memories/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

type S3Storage struct {
	Bucket   string
	s3Client *s3.S3
}

// NewS3Storage relies on the SDK's default credential chain (env vars,
// shared config, instance role).
func NewS3Storage(bucket, region, endpoint string) *S3Storage {
	cfg := aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess := session.Must(session.NewSession(&cfg))
	return &S3Storage{
		Bucket:   bucket,
		s3Client: s3.New(sess),
	}
}

func (s *S3Storage) Upload(ctx context.Context, reader io.Reader, contentType string) (uuid.UUID, error) {
	fileID := uuid.New()
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      &s.Bucket,
		Key:         aws.String(fileID.String()),
		ContentType: &contentType,
		Body:        reader,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return fileID, nil
}

func (s *S3Storage) Open(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, string, error) {
	resp, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &s.Bucket,
		Key:    aws.String(fileID.String()),
	})
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
		return nil, "", models.ErrImageNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return resp.Body, aws.StringValue(resp.ContentType), nil
}

func (s *S3Storage) Delete(ctx context.Context, fileID uuid.UUID) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: &s.Bucket,
		Key:    aws.String(fileID.String()),
	})
	return err
}
