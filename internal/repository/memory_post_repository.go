package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/maheshrc27/contentflow/internal/models"
)

// MemoryPostRepository keeps posts in process. Reads hand out deep copies so
// callers can never mutate stored state behind the gateway's back.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
	feed  *ChangeFeed
}

var _ PostRepository = (*MemoryPostRepository)(nil)

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: make(map[string]*models.Post),
		feed:  NewChangeFeed(),
	}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Comments = append([]models.Comment(nil), p.Comments...)
	c.History = append([]models.HistoryEntry(nil), p.History...)
	c.Versions = append([]models.PostVersion(nil), p.Versions...)
	return &c
}

func (r *MemoryPostRepository) sorted(keep func(*models.Post) bool) []*models.Post {
	var out []*models.Post
	for _, p := range r.posts {
		if keep(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *MemoryPostRepository) GetAll(ctx context.Context, client string) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(p *models.Post) bool { return client == "" || p.Client == client }), nil
}

func (r *MemoryPostRepository) ListByStatus(ctx context.Context, status models.Status) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(p *models.Post) bool { return p.Status == status }), nil
}

func (r *MemoryPostRepository) GetByID(ctx context.Context, id string) (*models.Post, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, false, nil
	}
	return clonePost(p), true, nil
}

func (r *MemoryPostRepository) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := r.InsertMany(ctx, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *MemoryPostRepository) InsertMany(ctx context.Context, posts []*models.Post) error {
	r.mu.Lock()
	for _, post := range posts {
		if _, ok := r.posts[post.ID]; ok {
			r.mu.Unlock()
			return fmt.Errorf("post %s already exists", post.ID)
		}
	}
	for _, post := range posts {
		r.posts[post.ID] = clonePost(post)
	}
	r.mu.Unlock()
	r.feed.Publish()
	return nil
}

func (r *MemoryPostRepository) Write(ctx context.Context, id string, patch *models.PostPatch) error {
	r.mu.Lock()
	p, ok := r.posts[id]
	if !ok {
		r.mu.Unlock()
		return ErrPostNotFound
	}
	if patch.Client != nil {
		p.Client = *patch.Client
	}
	if patch.Campaign != nil {
		p.Campaign = *patch.Campaign
	}
	if patch.Date != nil {
		p.Date = *patch.Date
	}
	if patch.Caption != nil {
		p.Caption = *patch.Caption
	}
	if patch.MediaURL != nil {
		p.MediaURL = *patch.MediaURL
	}
	if patch.MediaType != nil {
		p.MediaType = *patch.MediaType
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.AddHistory != nil {
		p.History = append([]models.HistoryEntry{*patch.AddHistory}, p.History...)
	}
	if patch.AddVersion != nil {
		p.Versions = append(p.Versions, *patch.AddVersion)
	}
	if patch.UpdatedAt != nil {
		p.UpdatedAt = *patch.UpdatedAt
	}
	r.mu.Unlock()
	r.feed.Publish()
	return nil
}

func (r *MemoryPostRepository) AppendComment(ctx context.Context, postID string, comment models.Comment) error {
	r.mu.Lock()
	p, ok := r.posts[postID]
	if !ok {
		r.mu.Unlock()
		return ErrPostNotFound
	}
	p.Comments = append(p.Comments, comment)
	r.mu.Unlock()
	r.feed.Publish()
	return nil
}

func (r *MemoryPostRepository) Wipe(ctx context.Context, trashedOnly bool) (int64, error) {
	r.mu.Lock()
	var removed int64
	for id, p := range r.posts {
		if !trashedOnly || p.Status == models.StatusTrashed {
			delete(r.posts, id)
			removed++
		}
	}
	r.mu.Unlock()
	r.feed.Publish()
	return removed, nil
}

func (r *MemoryPostRepository) Subscribe(onChange func()) Subscription {
	return r.feed.Subscribe(onChange)
}
