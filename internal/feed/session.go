package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sitefeed/internal/domain/reviews"
	"sitefeed/internal/domain/updates"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UpdateSource is the part of UpdateRepository a Session uses.
type UpdateSource interface {
	FetchUpdates(ctx context.Context, sectionID string) (*updates.Document, error)
	PostUpdate(ctx context.Context, post updates.Post) error
}

// ReviewService is the part of ReviewLedger a Session uses.
type ReviewService interface {
	Submit(ctx context.Context, documentID, updateID string, author Author, text string) (*reviews.Review, error)
	Edit(ctx context.Context, documentID, updateID string, current reviews.Review, author Author, newText string) (*reviews.Review, error)
	Remove(ctx context.Context, documentID, updateID string, current reviews.Review, author Author) error
}

// Uploader moves a local image to the asset host and returns its durable URL.
// progress receives 0..100 for img.Key while the transfer runs.
type Uploader interface {
	Upload(ctx context.Context, img LocalImage, progress func(percent int)) (string, error)
	Destroy(ctx context.Context, url string) error
}

// SessionConfig identifies the section a session shows and who is viewing it.
type SessionConfig struct {
	SectionID   string
	SectionType updates.SectionType
	SectionName string
	Author      Author
	// BaseDomain resolves server-relative image paths in Feed.
	BaseDomain string
	Logger     *zap.SugaredLogger
}

// Session is the state of one mounted feed screen. Create one per mount and
// Close it on unmount; sessions never share state, so two sessions on the same
// section can diverge until each refreshes.
//
// Every call is tied to the session's lifetime: once Close runs, in-flight
// requests are cancelled and late responses are dropped rather than written.
type Session struct {
	cfg      SessionConfig
	source   UpdateSource
	ledger   ReviewService
	uploader Uploader
	logger   *zap.SugaredLogger

	feed     *Reconciler
	progress *ProgressTracker

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewSession mounts a session. uploader may be nil when the screen only reads.
func NewSession(parent context.Context, cfg SessionConfig, source UpdateSource, ledger ReviewService, uploader Uploader) *Session {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		cfg:      cfg,
		source:   source,
		ledger:   ledger,
		uploader: uploader,
		logger:   cfg.Logger.With("section_id", cfg.SectionID),
		feed:     NewReconciler(),
		progress: NewProgressTracker(),
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]struct{}),
	}
}

// Close unmounts the session.
func (s *Session) Close() {
	s.cancel()
}

func (s *Session) Author() Author { return s.cfg.Author }

// CanModify reports whether edit/delete controls should be offered for rv. It
// is a convenience gate only; the server decides.
func (s *Session) CanModify(rv reviews.Review) bool {
	return s.cfg.Author.Owns(rv)
}

// Feed returns the reconciled state with image paths resolved.
func (s *Session) Feed() Feed {
	f := s.feed.Snapshot()
	for i := range f.Updates {
		f.Updates[i].Images = resolveImages(s.cfg.BaseDomain, f.Updates[i].Images)
	}
	return f
}

// Progress returns upload progress per local image key for the running publish.
func (s *Session) Progress() map[string]int {
	return s.progress.Snapshot()
}

// Refresh refetches the section and replaces the feed. Entries whose reviews
// could not be loaded keep the reviews this session already knew.
func (s *Session) Refresh(ctx context.Context) error {
	ctx, release, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer release()

	doc, err := s.source.FetchUpdates(ctx, s.cfg.SectionID)
	if err != nil {
		return err
	}
	if doc != nil {
		for i := range doc.Updates {
			if doc.Updates[i].Reviews != nil {
				continue
			}
			if known, ok := s.feed.KnownReviews(doc.Updates[i].ID); ok {
				doc.Updates[i].Reviews = known
			}
		}
	}

	if err := s.alive(); err != nil {
		return err
	}
	s.feed.Replace(doc)
	return nil
}

// PostUpdate posts an update whose images are already hosted, then refetches.
func (s *Session) PostUpdate(ctx context.Context, nu NewUpdate) error {
	if err := validateStruct(nu); err != nil {
		return err
	}
	done, err := s.begin("publish")
	if err != nil {
		return err
	}
	defer done()

	ctx, release, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer release()

	return s.post(ctx, nu)
}

// Publish uploads the draft's images, posts the update and refetches. Images
// uploaded before a failure are destroyed on a best-effort basis.
func (s *Session) Publish(ctx context.Context, d Draft) error {
	if err := validateStruct(d); err != nil {
		return err
	}
	if s.uploader == nil {
		return ErrNoUploader
	}
	done, err := s.begin("publish")
	if err != nil {
		return err
	}
	defer done()

	ctx, release, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer release()

	keys := make([]string, len(d.Images))
	for i, img := range d.Images {
		keys[i] = img.Key
		s.progress.Report(img.Key, 0)
	}
	defer s.progress.Clear(keys...)

	urls := make([]string, len(d.Images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range d.Images {
		g.Go(func() error {
			u, err := s.uploader.Upload(gctx, img, s.progress.Reporter(img.Key))
			if err != nil {
				return fmt.Errorf("upload %s: %w", img.Key, err)
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Errorw("image upload failed", "error", err)
		s.discard(urls)
		return err
	}

	err = s.post(ctx, NewUpdate{
		Title:       d.Title,
		Description: d.Description,
		ImageURLs:   urls,
	})
	if err != nil && !isRefreshErr(err) {
		s.discard(urls)
	}
	return err
}

// SubmitReview posts a review and appends the confirmed entry to its update.
func (s *Session) SubmitReview(ctx context.Context, updateID, text string) (*reviews.Review, error) {
	done, err := s.begin("submit:" + updateID)
	if err != nil {
		return nil, err
	}
	defer done()

	ctx, release, err := s.bind(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	documentID := s.feed.DocumentID()
	if documentID == "" {
		return nil, fmt.Errorf("%w: section has no updates to review", ErrValidation)
	}
	created, err := s.ledger.Submit(ctx, documentID, updateID, s.cfg.Author, text)
	if err != nil {
		return nil, err
	}
	if err := s.alive(); err != nil {
		return nil, err
	}
	if !s.feed.AppendReview(updateID, *created) {
		s.logger.Infow("review confirmed for update no longer shown", "update_id", updateID, "review_id", created.ID)
	}
	return created, nil
}

// EditReview replaces the text of a review the viewing author wrote.
func (s *Session) EditReview(ctx context.Context, updateID, reviewID, text string) (*reviews.Review, error) {
	current, ok := s.feed.Review(updateID, reviewID)
	if !ok {
		return nil, fmt.Errorf("%w: review %s is not in the feed", ErrValidation, reviewID)
	}
	done, err := s.begin("review:" + reviewID)
	if err != nil {
		return nil, err
	}
	defer done()

	ctx, release, err := s.bind(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	edited, err := s.ledger.Edit(ctx, s.feed.DocumentID(), updateID, current, s.cfg.Author, text)
	if err != nil {
		return nil, err
	}
	if err := s.alive(); err != nil {
		return nil, err
	}
	s.feed.ReplaceReview(updateID, *edited)
	return edited, nil
}

// RemoveReview deletes a review the viewing author wrote.
func (s *Session) RemoveReview(ctx context.Context, updateID, reviewID string) error {
	current, ok := s.feed.Review(updateID, reviewID)
	if !ok {
		return fmt.Errorf("%w: review %s is not in the feed", ErrValidation, reviewID)
	}
	done, err := s.begin("review:" + reviewID)
	if err != nil {
		return err
	}
	defer done()

	ctx, release, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := s.ledger.Remove(ctx, s.feed.DocumentID(), updateID, current, s.cfg.Author); err != nil {
		return err
	}
	if err := s.alive(); err != nil {
		return err
	}
	s.feed.RemoveReview(updateID, reviewID)
	return nil
}

// refreshError marks a failure that happened after the server accepted a post.
type refreshError struct{ err error }

func (e *refreshError) Error() string { return "update posted but refresh failed: " + e.err.Error() }
func (e *refreshError) Unwrap() error { return e.err }

func isRefreshErr(err error) bool {
	var re *refreshError
	return errors.As(err, &re)
}

func (s *Session) post(ctx context.Context, nu NewUpdate) error {
	post := updates.Post{
		SectionType: s.cfg.SectionType,
		SectionID:   s.cfg.SectionID,
		Name:        s.cfg.SectionName,
		Updates: []updates.NewEntry{{
			Images:      nu.ImageURLs,
			Title:       nu.Title,
			Description: nu.Description,
		}},
	}
	if err := s.source.PostUpdate(ctx, post); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		return &refreshError{err: err}
	}
	return nil
}

func (s *Session) discard(urls []string) {
	if s.uploader == nil {
		return
	}
	// the session context may already be cancelled; cleanup still runs
	ctx := context.WithoutCancel(s.ctx)
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := s.uploader.Destroy(ctx, u); err != nil {
			s.logger.Warnw("failed to destroy orphaned image", "url", u, "error", err)
		}
	}
}

// bind derives a context cancelled by either ctx or the session's Close.
func (s *Session) bind(ctx context.Context) (context.Context, func(), error) {
	if err := s.alive(); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, nil
}

func (s *Session) alive() error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	return nil
}

// begin marks key as running; a second caller with the same key gets ErrBusy
// until the returned func is called.
func (s *Session) begin(key string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[key]; ok {
		return nil, ErrBusy
	}
	s.inflight[key] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}, nil
}
