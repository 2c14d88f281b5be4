package service

import (
	"context"
	"log/slog"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"
)

const (
	maxThreadTitleLen   = 255
	maxThreadContentLen = 5000
)

// ThreadService provides thread CRUD and listing business logic.
type ThreadService struct {
	threadRepo repository.ThreadRepository
	userRepo   repository.UserRepository
}

// NewThreadService returns a new ThreadService.
func NewThreadService(threadRepo repository.ThreadRepository, userRepo repository.UserRepository) *ThreadService {
	return &ThreadService{threadRepo: threadRepo, userRepo: userRepo}
}

// CreateThreadInput carries the thread creation fields. Title is optional;
// a non-nil ParentID makes the thread a reply.
type CreateThreadInput struct {
	UserID   uint
	Title    string
	Content  string
	ParentID *uint
}

// Create validates and inserts a thread, then re-reads it so the derived
// fields (vote_score, view_count, reply_count) come back populated.
func (s *ThreadService) Create(ctx context.Context, in CreateThreadInput) (*models.Thread, error) {
	title, content, err := validateThreadFields(in.Title, in.Content)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		if _, err := s.threadRepo.GetByID(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	thread := &models.Thread{
		UserID:   in.UserID,
		Title:    title,
		Content:  content,
		ParentID: in.ParentID,
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, err
	}

	created, err := s.threadRepo.GetByID(ctx, thread.ID)
	if err != nil {
		return nil, err
	}
	s.attachAuthors(ctx, []*models.Thread{created})
	return created, nil
}

// Get returns a thread by id and records a view. View recording is
// best-effort and never fails the read.
func (s *ThreadService) Get(ctx context.Context, id uint) (*models.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.threadRepo.RecordView(ctx, id); err != nil {
		slog.WarnContext(ctx, "failed to record thread view", "thread_id", id, "error", err)
	}

	s.attachAuthors(ctx, []*models.Thread{thread})
	return thread, nil
}

// UpdateThreadInput carries the full replacement state of a thread. A nil
// ParentID turns the thread back into a top-level post.
type UpdateThreadInput struct {
	Title    string
	Content  string
	ParentID *uint
}

// Update replaces a thread's title, content, and parent. Only the author may
// update.
func (s *ThreadService) Update(ctx context.Context, viewerID, threadID uint, in UpdateThreadInput) (*models.Thread, error) {
	thread, err := s.checkOwnership(ctx, viewerID, threadID)
	if err != nil {
		return nil, err
	}

	title, content, err := validateThreadFields(in.Title, in.Content)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		if *in.ParentID == threadID {
			return nil, models.NewValidationError("Thread cannot be its own parent")
		}
		if _, err := s.threadRepo.GetByID(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	thread.Title = title
	thread.Content = content
	thread.ParentID = in.ParentID
	if err := s.threadRepo.Update(ctx, thread); err != nil {
		return nil, err
	}

	updated, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	s.attachAuthors(ctx, []*models.Thread{updated})
	return updated, nil
}

// Delete soft-deletes a thread. Only the author may delete.
func (s *ThreadService) Delete(ctx context.Context, viewerID, threadID uint) error {
	if _, err := s.checkOwnership(ctx, viewerID, threadID); err != nil {
		return err
	}
	return s.threadRepo.Delete(ctx, threadID)
}

// validateThreadFields trims and bounds-checks the writable fields shared by
// create and update. Title may be empty, content may not.
func validateThreadFields(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	if len(title) > maxThreadTitleLen {
		return "", "", models.NewValidationError("Title too long (max 255 characters)")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", "", models.NewValidationError("Content is required")
	}
	if len(content) > maxThreadContentLen {
		return "", "", models.NewValidationError("Content too long (max 5000 characters)")
	}
	return title, content, nil
}

// checkOwnership loads the thread and verifies the viewer authored it.
// A thread that exists but belongs to someone else is PermissionDenied,
// not NotFound.
func (s *ThreadService) checkOwnership(ctx context.Context, viewerID, threadID uint) (*models.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.UserID != viewerID {
		return nil, models.NewPermissionDeniedError("You can only modify your own threads")
	}
	return thread, nil
}

// ListByHandle returns a user's threads newest first. The author must have a
// completed profile.
func (s *ThreadService) ListByHandle(ctx context.Context, handle string, claims models.CursorClaims, limit int) ([]*models.Thread, string, error) {
	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, "", err
	}
	if !user.IsProfileComplete {
		return nil, "", models.NewProfileNotCreatedError()
	}

	threads, err := s.threadRepo.ListByAuthor(ctx, user.ID, claims, limit)
	if err != nil {
		return nil, "", err
	}

	s.attachAuthors(ctx, threads)
	return threads, models.NextCursor(threads), nil
}

// ListSubthreads returns the replies of a thread, highest vote score first.
func (s *ThreadService) ListSubthreads(ctx context.Context, parentID uint, claims models.CursorClaims, limit int) ([]*models.Thread, string, error) {
	if _, err := s.threadRepo.GetByID(ctx, parentID); err != nil {
		return nil, "", err
	}

	threads, err := s.threadRepo.ListByParent(ctx, parentID, claims, limit)
	if err != nil {
		return nil, "", err
	}

	s.attachAuthors(ctx, threads)
	return threads, models.NextCursor(threads), nil
}

// attachAuthors fills each thread's Author with the public profile of its
// creator. Lookups are best-effort: threads whose author account is gone
// keep a nil Author but stay in the listing.
func (s *ThreadService) attachAuthors(ctx context.Context, threads []*models.Thread) {
	attachAuthors(ctx, s.userRepo, threads)
}

func attachAuthors(ctx context.Context, userRepo repository.UserRepository, threads []*models.Thread) {
	for _, thread := range threads {
		user, err := userRepo.GetByID(ctx, thread.UserID)
		if err != nil {
			continue
		}
		profile := user.Public()
		thread.Author = &profile
	}
}
