package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"go.uber.org/zap"
)

// ObjectPutter is the part of *s3.Client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ArchiveService uploads a JSON snapshot of posts to Cloudflare R2 before
// they are physically deleted.
type ArchiveService struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
	log    *zap.Logger
}

var _ Archiver = (*ArchiveService)(nil)

func NewArchiveService(ctx context.Context, r2 config.R2) (*ArchiveService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2.AccessKey, r2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	})
	return NewArchiveServiceWithClient(client, r2.BucketName), nil
}

func NewArchiveServiceWithClient(client ObjectPutter, bucket string) *ArchiveService {
	return &ArchiveService{
		client: client,
		bucket: bucket,
		now:    time.Now,
		log:    logging.WithComponent("archive"),
	}
}

type archiveSnapshot struct {
	TakenAt time.Time      `json:"takenAt"`
	Count   int            `json:"count"`
	Posts   []*models.Post `json:"posts"`
}

func (a *ArchiveService) ArchivePosts(ctx context.Context, posts []*models.Post) error {
	now := a.now().UTC()
	body, err := json.Marshal(archiveSnapshot{TakenAt: now, Count: len(posts), Posts: posts})
	if err != nil {
		return err
	}

	key := fmt.Sprintf("archive/posts-%s.json", now.Format("20060102T150405.000Z"))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		a.log.Error("upload archive", zap.String("key", key), zap.Error(err))
		return err
	}

	a.log.Info("posts archived", zap.String("key", key), zap.Int("count", len(posts)))
	return nil
}
