package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/maheshrc27/contentflow/internal/models"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestArchivePosts(t *testing.T) {
	putter := &fakePutter{}
	a := NewArchiveServiceWithClient(putter, "backups")
	a.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	posts := []*models.Post{{ID: "p1", Caption: "Launch day"}, {ID: "p2"}}
	if err := a.ArchivePosts(context.Background(), posts); err != nil {
		t.Fatalf("ArchivePosts() error = %v", err)
	}

	if *putter.input.Bucket != "backups" {
		t.Errorf("bucket = %s", *putter.input.Bucket)
	}
	if key := *putter.input.Key; !strings.HasPrefix(key, "archive/posts-20260301T090000") || !strings.HasSuffix(key, ".json") {
		t.Errorf("key = %s", key)
	}

	var snap archiveSnapshot
	if err := json.Unmarshal(putter.body, &snap); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	if snap.Count != 2 || snap.Posts[0].Caption != "Launch day" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestArchiveFailureBlocksWipe(t *testing.T) {
	archive := NewArchiveServiceWithClient(&fakePutter{err: errors.New("r2 unavailable")}, "backups")
	svc, repo := newTestService(WithArchiver(archive))
	ctx := context.Background()
	mustCreate(t, svc, models.StatusDraft, models.PlatformInstagram)

	if _, err := svc.Wipe(ctx, agencyAdmin, false); err == nil {
		t.Fatal("Wipe() succeeded although the archive failed")
	}
	if posts, _ := repo.GetAll(ctx, ""); len(posts) != 1 {
		t.Errorf("%d posts left, want 1", len(posts))
	}
}
