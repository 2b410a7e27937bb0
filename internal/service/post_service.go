package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/policy"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/pkg/logging"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	ActionCreated    = "Asset Deployed"
	ActionTransition = "Workflow Shift"
	ActionEdited     = "Copy Refined"

	FeedbackPrefix = "[Feedback] "

	previewLength = 30
)

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04"}

// SystemActor performs transitions nobody clicked, e.g. auto-publishing.
var SystemActor = models.Actor{ID: "system", Name: "Scheduler", Role: models.RoleAgencyAdmin}

// PublishScheduler is told about every post that lands on Scheduled.
type PublishScheduler interface {
	SchedulePublish(ctx context.Context, post *models.Post) error
}

// Archiver stores a snapshot of posts before they are physically removed.
type Archiver interface {
	ArchivePosts(ctx context.Context, posts []*models.Post) error
}

type PostService interface {
	Create(ctx context.Context, draft models.PostDraft, platforms []models.Platform, actor models.Actor) ([]*models.Post, error)
	// Save creates a new group, or edits the rows in editingIDs. Platforms are
	// fixed once a group exists and are ignored on edit.
	Save(ctx context.Context, draft models.PostDraft, platforms []models.Platform, editingIDs []string, actor models.Actor) ([]*models.Post, error)
	Update(ctx context.Context, ids []string, fields models.PostFields, actor models.Actor) error
	Transition(ctx context.Context, ids []string, newStatus models.Status, actor models.Actor, feedback string) error
	AddComment(ctx context.Context, postID string, actor models.Actor, text string, isInternal bool) (*models.Comment, error)
	PublishDue(ctx context.Context, postID string) error
	Get(ctx context.Context, id string, actor models.Actor) (*models.Post, error)
	List(ctx context.Context, actor models.Actor) ([]*models.Post, error)
	Wipe(ctx context.Context, actor models.Actor, trashedOnly bool) (int64, error)
}

type postService struct {
	pr        repository.PostRepository
	scheduler PublishScheduler
	archiver  Archiver
	now       func() time.Time
	newID     func() (string, error)
	log       *zap.Logger
}

type PostServiceOption func(*postService)

func WithPublishScheduler(s PublishScheduler) PostServiceOption {
	return func(p *postService) { p.scheduler = s }
}

func WithArchiver(a Archiver) PostServiceOption {
	return func(p *postService) { p.archiver = a }
}

func WithClock(now func() time.Time) PostServiceOption {
	return func(p *postService) { p.now = now }
}

func NewPostService(pr repository.PostRepository, opts ...PostServiceOption) PostService {
	s := &postService{
		pr:    pr,
		now:   time.Now,
		newID: func() (string, error) { return gonanoid.New() },
		log:   logging.WithComponent("post-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *postService) millis() int64 {
	return s.now().UnixMilli()
}

func persistence(op string, err error) error {
	if errors.Is(err, repository.ErrPostNotFound) || errors.Is(err, repository.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &PersistenceError{Op: op, Err: err}
}

func validDate(date string) bool {
	if date == "" {
		return true
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, date); err == nil {
			return true
		}
	}
	return false
}

// ParseDate reads a post date in either stored layout, in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, date, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", date)
}

// inferMediaType guesses from the URL's extension; anything not known to be a
// video is treated as an image.
func inferMediaType(mediaURL string) models.MediaType {
	p := mediaURL
	if u, err := url.Parse(mediaURL); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if ext == "" {
		return models.MediaImage
	}
	if filetype.GetType(ext).MIME.Type == "video" {
		return models.MediaVideo
	}
	return models.MediaImage
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > previewLength {
		r = r[:previewLength]
	}
	return string(r) + "..."
}

func ownedBy(post *models.Post, actor models.Actor) bool {
	scope := actor.TenantScope()
	return scope == "" || post.Client == scope
}

func (s *postService) historyEntry(action string, actor models.Actor, details string) (models.HistoryEntry, error) {
	id, err := s.newID()
	if err != nil {
		return models.HistoryEntry{}, err
	}
	return models.HistoryEntry{
		ID:        id,
		Action:    action,
		By:        actor.Name,
		Timestamp: s.millis(),
		Details:   details,
	}, nil
}

func (s *postService) Create(ctx context.Context, draft models.PostDraft, platforms []models.Platform, actor models.Actor) ([]*models.Post, error) {
	if !policy.CanEdit(actor.Role) {
		return nil, ErrForbidden
	}

	if strings.TrimSpace(draft.Caption) == "" {
		return nil, invalid("caption", "caption cannot be empty")
	}
	if strings.TrimSpace(draft.MediaURL) == "" {
		return nil, invalid("mediaUrl", "media is required")
	}
	if len(platforms) == 0 {
		return nil, invalid("platforms", "select at least one platform")
	}
	if strings.TrimSpace(draft.Client) == "" {
		return nil, invalid("client", "client is required")
	}
	if !validDate(draft.Date) {
		return nil, invalid("date", "date must be YYYY-MM-DD or YYYY-MM-DD HH:MM")
	}

	seen := make(map[models.Platform]bool, len(platforms))
	var targets []models.Platform
	for _, p := range platforms {
		if !p.Valid() {
			return nil, invalid("platforms", fmt.Sprintf("unknown platform %q", p))
		}
		if !seen[p] {
			seen[p] = true
			targets = append(targets, p)
		}
	}

	status := draft.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() || status == models.StatusTrashed {
		return nil, invalid("status", fmt.Sprintf("cannot create a post as %q", status))
	}
	if !policy.CanApprove(actor.Role) && status != models.StatusDraft && status != models.StatusInReview {
		status = models.StatusInReview
	}

	mediaType := draft.MediaType
	if mediaType == "" {
		mediaType = inferMediaType(draft.MediaURL)
	}
	if mediaType != models.MediaImage && mediaType != models.MediaVideo {
		return nil, invalid("mediaType", fmt.Sprintf("unknown media type %q", mediaType))
	}

	created := make([]*models.Post, 0, len(targets))
	for _, platform := range targets {
		id, err := s.newID()
		if err != nil {
			return nil, err
		}
		seed, err := s.historyEntry(ActionCreated, actor, fmt.Sprintf("Initial %s phase initiated.", status))
		if err != nil {
			return nil, err
		}
		now := s.millis()

		post := &models.Post{
			ID:        id,
			Client:    draft.Client,
			Platform:  platform,
			Campaign:  draft.Campaign,
			Date:      draft.Date,
			Caption:   draft.Caption,
			MediaURL:  draft.MediaURL,
			MediaType: mediaType,
			Status:    status,
			Comments:  []models.Comment{},
			History:   []models.HistoryEntry{seed},
			Versions:  []models.PostVersion{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		created = append(created, post)
	}
	// one group is stored whole or not at all
	if err := s.pr.InsertMany(ctx, created); err != nil {
		return nil, persistence("insert posts", err)
	}

	s.log.Info("posts created",
		zap.String("client", draft.Client),
		zap.Int("platforms", len(created)),
		zap.String("status", string(status)),
		zap.String("by", actor.Name))

	if status == models.StatusScheduled {
		for _, post := range created {
			s.schedule(ctx, post)
		}
	}
	return created, nil
}

func (s *postService) Save(ctx context.Context, draft models.PostDraft, platforms []models.Platform, editingIDs []string, actor models.Actor) ([]*models.Post, error) {
	if len(editingIDs) == 0 {
		return s.Create(ctx, draft, platforms, actor)
	}

	if strings.TrimSpace(draft.Caption) == "" {
		return nil, invalid("caption", "caption cannot be empty")
	}
	if strings.TrimSpace(draft.MediaURL) == "" {
		return nil, invalid("mediaUrl", "media is required")
	}

	fields := models.PostFields{
		Campaign: &draft.Campaign,
		Date:     &draft.Date,
		Caption:  &draft.Caption,
		MediaURL: &draft.MediaURL,
	}
	if draft.MediaType != "" {
		fields.MediaType = &draft.MediaType
	}
	updateErr := s.Update(ctx, editingIDs, fields, actor)

	var be *BatchError
	if updateErr != nil && !errors.As(updateErr, &be) {
		return nil, updateErr
	}

	var posts []*models.Post
	for _, id := range editingIDs {
		post, ok, err := s.pr.GetByID(ctx, id)
		if err != nil || !ok {
			continue
		}
		posts = append(posts, post)
	}
	return posts, updateErr
}

func (s *postService) Update(ctx context.Context, ids []string, fields models.PostFields, actor models.Actor) error {
	if !policy.CanEdit(actor.Role) {
		return ErrForbidden
	}
	if fields.Caption != nil && strings.TrimSpace(*fields.Caption) == "" {
		return invalid("caption", "caption cannot be empty")
	}
	if fields.MediaURL != nil && strings.TrimSpace(*fields.MediaURL) == "" {
		return invalid("mediaUrl", "media is required")
	}
	if fields.Date != nil && !validDate(*fields.Date) {
		return invalid("date", "date must be YYYY-MM-DD or YYYY-MM-DD HH:MM")
	}
	if fields.MediaType != nil && *fields.MediaType != models.MediaImage && *fields.MediaType != models.MediaVideo {
		return invalid("mediaType", fmt.Sprintf("unknown media type %q", *fields.MediaType))
	}

	var b batch
	for _, id := range ids {
		if err := s.updateOne(ctx, id, fields, actor); err != nil {
			b.fail(id, err)
		}
	}
	return b.err()
}

func (s *postService) updateOne(ctx context.Context, id string, fields models.PostFields, actor models.Actor) error {
	post, ok, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return persistence("read post", err)
	}
	if !ok || !ownedBy(post, actor) {
		return ErrNotFound
	}

	patch := &models.PostPatch{}
	changed := false

	captionChanged := fields.Caption != nil && *fields.Caption != post.Caption
	mediaChanged := fields.MediaURL != nil && *fields.MediaURL != post.MediaURL

	if captionChanged || mediaChanged {
		versionID, err := s.newID()
		if err != nil {
			return err
		}
		version := models.PostVersion{
			ID:        versionID,
			Timestamp: s.millis(),
			Caption:   post.Caption,
			MediaURL:  post.MediaURL,
			SavedBy:   actor.Name,
		}
		patch.AddVersion = &version

		var details string
		if captionChanged {
			details = fmt.Sprintf("From: %q To: %q", preview(post.Caption), preview(*fields.Caption))
		} else {
			details = fmt.Sprintf("Media: %q To: %q", preview(post.MediaURL), preview(*fields.MediaURL))
		}
		entry, err := s.historyEntry(ActionEdited, actor, details)
		if err != nil {
			return err
		}
		patch.AddHistory = &entry
		changed = true
	}

	if captionChanged {
		patch.Caption = fields.Caption
	}
	if mediaChanged {
		patch.MediaURL = fields.MediaURL
		if fields.MediaType == nil {
			mt := inferMediaType(*fields.MediaURL)
			patch.MediaType = &mt
		}
	}
	if fields.MediaType != nil && *fields.MediaType != post.MediaType {
		patch.MediaType = fields.MediaType
		changed = true
	}
	if fields.Campaign != nil && *fields.Campaign != post.Campaign {
		patch.Campaign = fields.Campaign
		changed = true
	}
	if fields.Date != nil && *fields.Date != post.Date {
		patch.Date = fields.Date
		changed = true
	}
	if !changed {
		return nil
	}

	now := s.millis()
	patch.UpdatedAt = &now
	if err := s.pr.Write(ctx, id, patch); err != nil {
		return persistence("write post", err)
	}
	return nil
}

// authorizeTransition allows any agency editor to set any non-trash status.
// Client approvers may only approve a post under review or send it back.
func authorizeTransition(actor models.Actor, from, to models.Status) error {
	if from == models.StatusTrashed || to == models.StatusTrashed {
		if policy.CanDelete(actor.Role) {
			return nil
		}
		return ErrForbidden
	}
	if policy.CanEdit(actor.Role) {
		return nil
	}
	if policy.CanApprove(actor.Role) {
		switch to {
		case models.StatusApproved:
			if from == models.StatusInReview || from == models.StatusApproved {
				return nil
			}
		case models.StatusInReview:
			if from == models.StatusInReview || from == models.StatusApproved || from == models.StatusScheduled {
				return nil
			}
		}
	}
	return ErrForbidden
}

func (s *postService) Transition(ctx context.Context, ids []string, newStatus models.Status, actor models.Actor, feedback string) error {
	if !newStatus.Valid() {
		return invalid("status", fmt.Sprintf("unknown status %q", newStatus))
	}
	if !policy.CanEdit(actor.Role) && !policy.CanApprove(actor.Role) {
		return ErrForbidden
	}

	var b batch
	for _, id := range ids {
		if err := s.transitionOne(ctx, id, newStatus, actor, feedback); err != nil {
			b.fail(id, err)
		}
	}
	return b.err()
}

func (s *postService) transitionOne(ctx context.Context, id string, newStatus models.Status, actor models.Actor, feedback string) error {
	post, ok, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return persistence("read post", err)
	}
	if !ok || !ownedBy(post, actor) {
		return ErrNotFound
	}
	if err := authorizeTransition(actor, post.Status, newStatus); err != nil {
		return err
	}

	if strings.TrimSpace(feedback) != "" {
		if _, err := s.appendComment(ctx, id, actor, FeedbackPrefix+feedback, policy.IsInternal(actor.Role)); err != nil {
			return err
		}
	}

	if post.Status == newStatus {
		return nil
	}

	entry, err := s.historyEntry(ActionTransition, actor, fmt.Sprintf("%s → %s", post.Status, newStatus))
	if err != nil {
		return err
	}
	now := s.millis()
	patch := &models.PostPatch{
		Status:     &newStatus,
		AddHistory: &entry,
		UpdatedAt:  &now,
	}
	if err := s.pr.Write(ctx, id, patch); err != nil {
		return persistence("write post", err)
	}

	s.log.Info("post transitioned",
		zap.String("post_id", id),
		zap.String("from", string(post.Status)),
		zap.String("to", string(newStatus)),
		zap.String("by", actor.Name))

	if newStatus == models.StatusScheduled {
		post.Status = newStatus
		s.schedule(ctx, post)
	}
	return nil
}

// schedule never fails the workflow; the sweep job re-enqueues anything missed.
func (s *postService) schedule(ctx context.Context, post *models.Post) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.SchedulePublish(ctx, post); err != nil {
		s.log.Warn("could not schedule publish", zap.String("post_id", post.ID), zap.Error(err))
	}
}

func (s *postService) AddComment(ctx context.Context, postID string, actor models.Actor, text string, isInternal bool) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("text", "comment cannot be empty")
	}
	post, ok, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, persistence("read post", err)
	}
	if !ok || !ownedBy(post, actor) {
		return nil, ErrNotFound
	}
	// clients cannot write agency-only notes
	if !policy.IsInternal(actor.Role) {
		isInternal = false
	}
	return s.appendComment(ctx, postID, actor, text, isInternal)
}

func (s *postService) appendComment(ctx context.Context, postID string, actor models.Actor, text string, isInternal bool) (*models.Comment, error) {
	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	comment := models.Comment{
		ID:         id,
		Author:     actor.Name,
		Role:       actor.Role,
		Text:       text,
		Timestamp:  s.millis(),
		IsInternal: isInternal,
	}
	if err := s.pr.AppendComment(ctx, postID, comment); err != nil {
		return nil, persistence("append comment", err)
	}
	return &comment, nil
}

// PublishDue moves a post to Published if it is still Scheduled. Posts that
// were pulled back or trashed in the meantime are left alone.
func (s *postService) PublishDue(ctx context.Context, postID string) error {
	post, ok, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return persistence("read post", err)
	}
	if !ok || post.Status != models.StatusScheduled {
		return nil
	}
	return s.Transition(ctx, []string{postID}, models.StatusPublished, SystemActor, "")
}

func (s *postService) Get(ctx context.Context, id string, actor models.Actor) (*models.Post, error) {
	post, ok, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("read post", err)
	}
	if !ok || !ownedBy(post, actor) {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, actor models.Actor) ([]*models.Post, error) {
	posts, err := s.pr.GetAll(ctx, actor.TenantScope())
	if err != nil {
		return nil, persistence("list posts", err)
	}
	return posts, nil
}

func (s *postService) Wipe(ctx context.Context, actor models.Actor, trashedOnly bool) (int64, error) {
	if !policy.CanManageTeam(actor.Role) {
		return 0, ErrForbidden
	}

	if s.archiver != nil {
		posts, err := s.pr.GetAll(ctx, "")
		if err != nil {
			return 0, persistence("list posts", err)
		}
		var doomed []*models.Post
		for _, p := range posts {
			if !trashedOnly || p.Status == models.StatusTrashed {
				doomed = append(doomed, p)
			}
		}
		if len(doomed) > 0 {
			if err := s.archiver.ArchivePosts(ctx, doomed); err != nil {
				return 0, fmt.Errorf("archive before wipe: %w", err)
			}
		}
	}

	removed, err := s.pr.Wipe(ctx, trashedOnly)
	if err != nil {
		return 0, persistence("wipe posts", err)
	}
	s.log.Warn("posts wiped", zap.Int64("removed", removed), zap.Bool("trashed_only", trashedOnly), zap.String("by", actor.Name))
	return removed, nil
}
