package feed

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sitefeed/internal/domain/updates"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const documentsJSON = `{"data":[
  {"id":"doc-0","sectionId":"other","updateSectionType":"flat","name":"Flat 3B","updates":[]},
  {"id":"doc-1","sectionId":"sec-1","updateSectionType":"project","name":"Tower A","updates":[
    {"id":"upd-1","title":"Foundation poured","images":["https://x/1.jpg"]},
    {"id":"upd-2","title":"Walls","images":["/img/2.jpg"]},
    {"id":"upd-3","title":"Roof","images":["/img/3.jpg"]}
  ]}
]}`

func reviewsByUpdate(req *http.Request) (*http.Response, error) {
	switch req.URL.Query().Get("updateId") {
	case "upd-1":
		return httpmock.NewStringResponse(http.StatusOK, `{"data":[{"id":"rv-1","userId":"alice","review":"ok"}]}`), nil
	case "upd-2":
		return httpmock.NewStringResponse(http.StatusOK, `{"data":[]}`), nil
	default:
		return httpmock.NewStringResponse(http.StatusInternalServerError, `{"message":"db down"}`), nil
	}
}

func newTestRepository(t *testing.T) (*UpdateRepository, *httpmock.MockTransport) {
	t.Helper()
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+updatePath, httpmock.NewStringResponder(http.StatusOK, documentsJSON))
	transport.RegisterResponder(http.MethodGet, testBaseURL+reviewPath, reviewsByUpdate)
	return NewUpdateRepository(client, NewReviewLedger(client, nil), nil), transport
}

func TestUpdateRepository_FetchUpdates(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"))

	repo, transport := newTestRepository(t)
	doc, err := repo.FetchUpdates(context.Background(), "sec-1")
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, updates.SectionProject, doc.SectionType)
	require.Len(t, doc.Updates, 3)
	assert.Equal(t, []string{"upd-1", "upd-2", "upd-3"}, []string{doc.Updates[0].ID, doc.Updates[1].ID, doc.Updates[2].ID})

	require.Len(t, doc.Updates[0].Reviews, 1)
	assert.Equal(t, "rv-1", doc.Updates[0].Reviews[0].ID)
	assert.NotNil(t, doc.Updates[1].Reviews)
	assert.Empty(t, doc.Updates[1].Reviews)
	assert.Nil(t, doc.Updates[2].Reviews, "failed fetch leaves the thread unloaded")

	assert.Equal(t, 3, callCount(transport, http.MethodGet, reviewPath))
}

func TestUpdateRepository_FetchUnknownSection(t *testing.T) {
	repo, transport := newTestRepository(t)

	doc, err := repo.FetchUpdates(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Zero(t, callCount(transport, http.MethodGet, reviewPath))
}

func TestUpdateRepository_FetchFailure(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+updatePath, httpmock.NewStringResponder(http.StatusBadGateway, "bad gateway"))

	_, err := NewUpdateRepository(client, NewReviewLedger(client, nil), nil).FetchUpdates(context.Background(), "sec-1")
	require.ErrorIs(t, err, ErrRejected)
}

func TestUpdateRepository_FanOutLimit(t *testing.T) {
	client, transport := newMockClient(t)
	var b strings.Builder
	b.WriteString(`{"data":[{"id":"doc-1","sectionId":"sec-1","updates":[`)
	for i := range 12 {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"id":"u` + string(rune('a'+i)) + `","title":"t","images":["x"]}`)
	}
	b.WriteString(`]}]}`)
	transport.RegisterResponder(http.MethodGet, testBaseURL+updatePath, httpmock.NewStringResponder(http.StatusOK, b.String()))

	var inFlight, peak atomic.Int32
	transport.RegisterResponder(http.MethodGet, testBaseURL+reviewPath, func(*http.Request) (*http.Response, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return httpmock.NewStringResponse(http.StatusOK, `{"data":[]}`), nil
	})

	repo := NewUpdateRepository(client, NewReviewLedger(client, nil), nil)
	repo.SetFanOut(3)

	doc, err := repo.FetchUpdates(context.Background(), "sec-1")
	require.NoError(t, err)
	assert.Len(t, doc.Updates, 12)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestUpdateRepository_FetchCancelled(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FetchUpdates(ctx, "sec-1")
	require.Error(t, err)
}

func TestUpdateRepository_PostUpdate(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+updatePath,
		httpmock.NewStringResponder(http.StatusCreated, `{"data":{"message":"update posted"}}`))

	repo := NewUpdateRepository(client, NewReviewLedger(client, nil), nil)
	err := repo.PostUpdate(context.Background(), updates.Post{
		SectionType: updates.SectionProject,
		SectionID:   "sec-1",
		Name:        "Tower A",
		Updates:     []updates.NewEntry{{Images: []string{"https://x/1.jpg"}, Title: "Foundation poured"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, callCount(transport, http.MethodPost, updatePath))
}
