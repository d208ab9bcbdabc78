package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sitefeed/internal/domain/reviews"
	"sitefeed/internal/domain/updates"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource plays the update endpoints: posts land in server state with a
// server-assigned id and are only visible through a fetch.
type fakeSource struct {
	mu          sync.Mutex
	docs        map[string]*updates.Document
	fetches     int
	posts       []updates.Post
	nextID      int
	fetchErr    error
	postErr     error
	dropReviews bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{docs: map[string]*updates.Document{
		"sec-1": {
			ID:        "doc-1",
			SectionID: "sec-1",
			Name:      "Tower A",
			Updates: []updates.Entry{{
				ID:     "upd-1",
				Title:  "Excavation",
				Images: []string{"/img/1.jpg"},
				Reviews: []reviews.Review{
					{ID: "rv-1", UserID: "alice", FirstName: "Alice", Review: "first"},
					{ID: "rv-2", UserID: "bob", FirstName: "Bob", Review: "second"},
					{ID: "rv-3", UserID: "alice", FirstName: "Alice", Review: "third"},
				},
			}},
		},
	}}
}

func (f *fakeSource) FetchUpdates(_ context.Context, sectionID string) (*updates.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	doc, ok := f.docs[sectionID]
	if !ok {
		return nil, nil
	}
	cp := *doc
	cp.Updates = cloneEntries(doc.Updates)
	if f.dropReviews {
		for i := range cp.Updates {
			cp.Updates[i].Reviews = nil
		}
	}
	return &cp, nil
}

func (f *fakeSource) PostUpdate(_ context.Context, post updates.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, post)
	if f.postErr != nil {
		return f.postErr
	}
	doc, ok := f.docs[post.SectionID]
	if !ok {
		doc = &updates.Document{ID: "doc-" + post.SectionID, SectionID: post.SectionID, Name: post.Name}
		f.docs[post.SectionID] = doc
	}
	for _, e := range post.Updates {
		f.nextID++
		doc.Updates = append(doc.Updates, updates.Entry{
			ID:          fmt.Sprintf("srv-upd-%d", f.nextID),
			Images:      e.Images,
			Title:       e.Title,
			Description: e.Description,
			Reviews:     []reviews.Review{},
		})
	}
	return nil
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type fakeUploader struct {
	mu        sync.Mutex
	failKey   string
	uploaded  []string
	destroyed []string
}

func (u *fakeUploader) Upload(_ context.Context, img LocalImage, progress func(int)) (string, error) {
	progress(50)
	if img.Key == u.failKey {
		return "", errors.New("network lost")
	}
	progress(100)
	url := "https://cdn.test/" + img.Key
	u.mu.Lock()
	u.uploaded = append(u.uploaded, url)
	u.mu.Unlock()
	return url, nil
}

func (u *fakeUploader) Destroy(_ context.Context, url string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.destroyed = append(u.destroyed, url)
	return nil
}

type sessionEnv struct {
	source    *fakeSource
	transport *httpmock.MockTransport
	uploader  *fakeUploader
	session   *Session
}

func newSessionEnv(t *testing.T, author Author) *sessionEnv {
	t.Helper()
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+reviewPath,
		httpmock.NewStringResponder(http.StatusCreated, `{"data":{"id":"srv-rv-1","userId":"alice","firstName":"Alice","review":"Looks great"}}`))
	transport.RegisterResponder(http.MethodPut, testBaseURL+reviewPath,
		httpmock.NewStringResponder(http.StatusOK, `{"data":{"id":"rv-1"}}`))
	transport.RegisterResponder(http.MethodDelete, testBaseURL+reviewPath,
		httpmock.NewStringResponder(http.StatusOK, `{"data":{"message":"review deleted"}}`))

	env := &sessionEnv{source: newFakeSource(), transport: transport, uploader: &fakeUploader{}}
	env.session = NewSession(context.Background(), SessionConfig{
		SectionID:   "sec-1",
		SectionType: updates.SectionProject,
		SectionName: "Tower A",
		Author:      author,
		BaseDomain:  "https://cdn.example.com",
	}, env.source, NewReviewLedger(client, nil), env.uploader)
	t.Cleanup(env.session.Close)

	require.NoError(t, env.session.Refresh(context.Background()))
	return env
}

func TestSession_PostUpdateForcesRefresh(t *testing.T) {
	env := newSessionEnv(t, alice)
	fetchesBefore := env.source.fetchCount()

	err := env.session.PostUpdate(context.Background(), NewUpdate{
		Title:     "Foundation poured",
		ImageURLs: []string{"https://x/1.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, fetchesBefore+1, env.source.fetchCount(), "the feed is refetched after a post")
	require.Len(t, env.source.posts, 1)
	post := env.source.posts[0]
	assert.Equal(t, updates.SectionProject, post.SectionType)
	assert.Equal(t, "Tower A", post.Name)

	f := env.session.Feed()
	require.Len(t, f.Updates, 2)
	last := f.Updates[1]
	assert.Equal(t, "srv-upd-1", last.ID, "entry id comes from the server")
	assert.Equal(t, "Foundation poured", last.Title)
	assert.Equal(t, []string{"https://x/1.jpg"}, last.Images)
}

func TestSession_PostUpdateEmptyTitle(t *testing.T) {
	env := newSessionEnv(t, alice)
	before := env.session.Feed()

	for _, title := range []string{"", "   "} {
		err := env.session.PostUpdate(context.Background(), NewUpdate{Title: title, ImageURLs: []string{"https://x/1.jpg"}})
		require.ErrorIs(t, err, ErrValidation)
	}
	err := env.session.PostUpdate(context.Background(), NewUpdate{Title: "t"})
	require.ErrorIs(t, err, ErrValidation, "at least one image")

	assert.Empty(t, env.source.posts)
	assert.Equal(t, before, env.session.Feed())
}

func TestSession_PostUpdateRejected(t *testing.T) {
	env := newSessionEnv(t, alice)
	env.source.postErr = rejected("post update", errors.New("500"))
	before := env.session.Feed()

	err := env.session.PostUpdate(context.Background(), NewUpdate{Title: "t", ImageURLs: []string{"https://x/1.jpg"}})
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, before, env.session.Feed())
}

func TestSession_SubmitReview(t *testing.T) {
	env := newSessionEnv(t, alice)

	rv, err := env.session.SubmitReview(context.Background(), "upd-1", "Looks great")
	require.NoError(t, err)
	assert.Equal(t, "srv-rv-1", rv.ID)
	assert.Equal(t, "alice", rv.UserID)
	assert.Equal(t, "Looks great", rv.Review)

	f := env.session.Feed()
	assert.Equal(t, []string{"rv-1", "rv-2", "rv-3", "srv-rv-1"}, reviewIDs(f, "upd-1"))
	assert.Equal(t, 1, env.source.fetchCount(), "no refresh after a review")
}

func TestSession_SubmitReviewToVanishedUpdate(t *testing.T) {
	env := newSessionEnv(t, alice)
	before := env.session.Feed()

	_, err := env.session.SubmitReview(context.Background(), "upd-gone", "Looks great")
	require.NoError(t, err)
	assert.Equal(t, before, env.session.Feed())
}

func TestSession_EditOthersReview(t *testing.T) {
	env := newSessionEnv(t, alice)
	before := env.session.Feed()

	_, err := env.session.EditReview(context.Background(), "upd-1", "rv-2", "hijack")
	require.ErrorIs(t, err, ErrNotOwner)
	err = env.session.RemoveReview(context.Background(), "upd-1", "rv-2")
	require.ErrorIs(t, err, ErrNotOwner)

	assert.Zero(t, env.transport.GetTotalCallCount(), "no network call")
	assert.Equal(t, before, env.session.Feed())

	rv, _ := before.Review("upd-1", "rv-2")
	assert.False(t, env.session.CanModify(rv))
}

func TestSession_EditOwnReview(t *testing.T) {
	env := newSessionEnv(t, alice)

	rv, err := env.session.EditReview(context.Background(), "upd-1", "rv-1", "rewritten")
	require.NoError(t, err)
	assert.Equal(t, "rv-1", rv.ID)

	got, ok := env.session.Feed().Review("upd-1", "rv-1")
	require.True(t, ok)
	assert.Equal(t, "rewritten", got.Review)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, []string{"rv-1", "rv-2", "rv-3"}, reviewIDs(env.session.Feed(), "upd-1"))
}

func TestSession_RemoveReviewKeepsOrder(t *testing.T) {
	env := newSessionEnv(t, alice)

	require.NoError(t, env.session.RemoveReview(context.Background(), "upd-1", "rv-1"))
	assert.Equal(t, []string{"rv-2", "rv-3"}, reviewIDs(env.session.Feed(), "upd-1"))
}

func TestSession_ReviewNotInFeed(t *testing.T) {
	env := newSessionEnv(t, alice)

	_, err := env.session.EditReview(context.Background(), "upd-1", "rv-404", "x")
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, env.transport.GetTotalCallCount())
}

func TestSession_UnknownSectionIsEmpty(t *testing.T) {
	source := newFakeSource()
	s := NewSession(context.Background(), SessionConfig{SectionID: "nowhere", Author: alice}, source, nil, nil)
	defer s.Close()

	require.NoError(t, s.Refresh(context.Background()))
	f := s.Feed()
	assert.Empty(t, f.DocumentID)
	assert.Empty(t, f.Updates)

	_, err := s.SubmitReview(context.Background(), "upd-1", "x")
	require.ErrorIs(t, err, ErrValidation)
}

func TestSession_RefreshIsIdempotent(t *testing.T) {
	env := newSessionEnv(t, alice)
	first := env.session.Feed()

	require.NoError(t, env.session.Refresh(context.Background()))
	assert.Equal(t, first, env.session.Feed())
}

func TestSession_RefreshKeepsKnownReviews(t *testing.T) {
	env := newSessionEnv(t, alice)
	env.source.dropReviews = true

	require.NoError(t, env.session.Refresh(context.Background()))
	assert.Equal(t, []string{"rv-1", "rv-2", "rv-3"}, reviewIDs(env.session.Feed(), "upd-1"))
}

func TestSession_RefreshFailureKeepsState(t *testing.T) {
	env := newSessionEnv(t, alice)
	before := env.session.Feed()
	env.source.fetchErr = rejected("fetch updates", errors.New("offline"))

	require.ErrorIs(t, env.session.Refresh(context.Background()), ErrRejected)
	assert.Equal(t, before, env.session.Feed())
}

func TestSession_FeedResolvesImages(t *testing.T) {
	env := newSessionEnv(t, alice)

	f := env.session.Feed()
	assert.Equal(t, []string{"https://cdn.example.com/img/1.jpg"}, f.Updates[0].Images)
}

func TestSession_Publish(t *testing.T) {
	env := newSessionEnv(t, alice)

	err := env.session.Publish(context.Background(), Draft{
		Title:  "Roof",
		Images: []LocalImage{{Key: "a.jpg", Path: "/tmp/a.jpg"}, {Key: "b.jpg", Path: "/tmp/b.jpg"}},
	})
	require.NoError(t, err)

	require.Len(t, env.source.posts, 1)
	assert.Equal(t, []string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg"}, env.source.posts[0].Updates[0].Images)
	assert.Empty(t, env.session.Progress(), "progress is cleared when publish ends")
	assert.Empty(t, env.uploader.destroyed)
	assert.Len(t, env.session.Feed().Updates, 2)
}

func TestSession_PublishUploadFailure(t *testing.T) {
	env := newSessionEnv(t, alice)
	env.uploader.failKey = "b.jpg"

	err := env.session.Publish(context.Background(), Draft{
		Title:  "Roof",
		Images: []LocalImage{{Key: "a.jpg", Path: "/tmp/a.jpg"}, {Key: "b.jpg", Path: "/tmp/b.jpg"}},
	})
	require.Error(t, err)

	assert.Empty(t, env.source.posts, "nothing is posted")
	assert.ElementsMatch(t, env.uploader.uploaded, env.uploader.destroyed, "uploaded images are cleaned up")
}

func TestSession_PublishPostFailure(t *testing.T) {
	env := newSessionEnv(t, alice)
	env.source.postErr = rejected("post update", errors.New("500"))

	err := env.session.Publish(context.Background(), Draft{
		Title:  "Roof",
		Images: []LocalImage{{Key: "a.jpg", Path: "/tmp/a.jpg"}},
	})
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, []string{"https://cdn.test/a.jpg"}, env.uploader.destroyed)
}

func TestSession_PublishWithoutUploader(t *testing.T) {
	s := NewSession(context.Background(), SessionConfig{SectionID: "sec-1", Author: alice}, newFakeSource(), nil, nil)
	defer s.Close()

	err := s.Publish(context.Background(), Draft{Title: "Roof", Images: []LocalImage{{Key: "a", Path: "/a"}}})
	require.ErrorIs(t, err, ErrNoUploader)
}

// blockingReviews holds Submit until released.
type blockingReviews struct {
	started      chan struct{}
	release      chan struct{}
	ignoreCancel bool
	calls        atomic.Int32
}

func newBlockingReviews() *blockingReviews {
	return &blockingReviews{started: make(chan struct{}, 4), release: make(chan struct{})}
}

func (b *blockingReviews) Submit(ctx context.Context, _, _ string, author Author, text string) (*reviews.Review, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	if b.ignoreCancel {
		<-b.release
	} else {
		select {
		case <-b.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &reviews.Review{ID: "late", UserID: author.ID, Review: text}, nil
}

func (b *blockingReviews) Edit(context.Context, string, string, reviews.Review, Author, string) (*reviews.Review, error) {
	return nil, errors.New("not used")
}

func (b *blockingReviews) Remove(context.Context, string, string, reviews.Review, Author) error {
	return errors.New("not used")
}

func newBlockingSession(t *testing.T, ledger ReviewService) *Session {
	t.Helper()
	s := NewSession(context.Background(), SessionConfig{SectionID: "sec-1", Author: alice}, newFakeSource(), ledger, nil)
	require.NoError(t, s.Refresh(context.Background()))
	return s
}

func TestSession_DuplicateSubmitIsBusy(t *testing.T) {
	ledger := newBlockingReviews()
	s := newBlockingSession(t, ledger)
	defer s.Close()

	errc := make(chan error, 1)
	go func() {
		_, err := s.SubmitReview(context.Background(), "upd-1", "one")
		errc <- err
	}()
	<-ledger.started

	_, err := s.SubmitReview(context.Background(), "upd-1", "two")
	require.ErrorIs(t, err, ErrBusy)

	close(ledger.release)
	require.NoError(t, <-errc)
	assert.Equal(t, int32(1), ledger.calls.Load())
	assert.Equal(t, []string{"rv-1", "rv-2", "rv-3", "late"}, reviewIDs(s.Feed(), "upd-1"))
}

func TestSession_CloseCancelsInFlight(t *testing.T) {
	ledger := newBlockingReviews()
	s := newBlockingSession(t, ledger)
	before := s.Feed()

	errc := make(chan error, 1)
	go func() {
		_, err := s.SubmitReview(context.Background(), "upd-1", "one")
		errc <- err
	}()
	<-ledger.started
	s.Close()

	select {
	case err := <-errc:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("submit was not cancelled by Close")
	}
	assert.Equal(t, before, s.Feed())
}

func TestSession_LateResponseAfterCloseIsDropped(t *testing.T) {
	ledger := newBlockingReviews()
	ledger.ignoreCancel = true
	s := newBlockingSession(t, ledger)
	before := s.Feed()

	errc := make(chan error, 1)
	go func() {
		_, err := s.SubmitReview(context.Background(), "upd-1", "one")
		errc <- err
	}()
	<-ledger.started
	s.Close()
	close(ledger.release)

	require.ErrorIs(t, <-errc, ErrClosed)
	assert.Equal(t, before, s.Feed())

	require.ErrorIs(t, s.Refresh(context.Background()), ErrClosed)
}

func TestSession_MutationsAfterCloseSendNothing(t *testing.T) {
	tests := []struct {
		name string
		call func(s *Session) error
	}{
		{
			name: "post update",
			call: func(s *Session) error {
				return s.PostUpdate(context.Background(), NewUpdate{Title: "after close", ImageURLs: []string{"https://x/1.jpg"}})
			},
		},
		{
			name: "publish",
			call: func(s *Session) error {
				return s.Publish(context.Background(), Draft{Title: "after close", Images: []LocalImage{{Key: "img-1", Path: "/tmp/1.jpg"}}})
			},
		},
		{
			name: "submit review",
			call: func(s *Session) error {
				_, err := s.SubmitReview(context.Background(), "upd-1", "late")
				return err
			},
		},
		{
			name: "edit review",
			call: func(s *Session) error {
				_, err := s.EditReview(context.Background(), "upd-1", "rv-1", "late")
				return err
			},
		},
		{
			name: "remove review",
			call: func(s *Session) error {
				return s.RemoveReview(context.Background(), "upd-1", "rv-1")
			},
		},
		{
			name: "refresh",
			call: func(s *Session) error {
				return s.Refresh(context.Background())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newSessionEnv(t, alice)
			fetchesBefore := env.source.fetchCount()
			before := env.session.Feed()
			env.session.Close()

			require.ErrorIs(t, tt.call(env.session), ErrClosed)

			assert.Empty(t, env.source.posts, "no update is posted")
			assert.Equal(t, fetchesBefore, env.source.fetchCount(), "no refetch")
			assert.Zero(t, env.transport.GetTotalCallCount(), "no review request")
			assert.Empty(t, env.uploader.uploaded, "no image uploaded")
			assert.Equal(t, before, env.session.Feed())
		})
	}
}
