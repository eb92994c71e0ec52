package storage

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/mailsift/mailsift/config"
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/tracing"
)

// ArchiveService copies unsafe attachment payloads into object storage so
// flagged content can be reviewed without reopening the mailbox.
type ArchiveService struct {
	uploader *s3manager.Uploader
	bucket   string
	log      logger.Logger
}

func NewArchiveService(cfg *config.ArchiveStorageConfig, log logger.Logger) (*ArchiveService, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	s, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "create S3 session")
	}

	return &ArchiveService{
		uploader: s3manager.NewUploader(s),
		bucket:   cfg.Bucket,
		log:      log,
	}, nil
}

func (s *ArchiveService) Archive(ctx context.Context, key string, contentType string, payload []byte) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "ArchiveService.Archive")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("key", key)

	uploadInput := s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	}

	_, err := s.uploader.Upload(&uploadInput)
	if err != nil {
		err = errors.Wrapf(err, "upload %s", key)
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

var _ interfaces.AttachmentArchiver = (*ArchiveService)(nil)

// NoopArchiver stands in when no bucket is configured.
type NoopArchiver struct{}

func (NoopArchiver) Archive(ctx context.Context, key string, contentType string, payload []byte) error {
	return nil
}

var _ interfaces.AttachmentArchiver = NoopArchiver{}
