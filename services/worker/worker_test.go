package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/avitoworker/internal/scraper"
	"sjsage522/avitoworker/internal/search"
	errs "sjsage522/avitoworker/pkg/errors"
)

// mockStream replays a fixed slice of ads and then reports a canned error
type mockStream struct {
	ads []search.Ad
	err error
	idx int
	cur search.Ad
}

func (s *mockStream) Next() bool {
	if s.idx >= len(s.ads) {
		return false
	}
	s.cur = s.ads[s.idx]
	s.idx++
	return true
}

func (s *mockStream) Ad() search.Ad { return s.cur }
func (s *mockStream) Err() error    { return s.err }

// MockSource is a mock implementation of scraper.AdSource
type MockSource struct {
	streams   map[string]*mockStream
	searchErr error
	searched  []string
}

func (m *MockSource) Search(req search.Request) (scraper.AdStream, error) {
	m.searched = append(m.searched, req.Query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	stream, ok := m.streams[req.Query]
	if !ok {
		stream = &mockStream{}
	}
	return stream, nil
}

func (m *MockSource) GetName() string { return "avito" }

// MockPublisher is a mock implementation of publisher.Publisher
type MockPublisher struct {
	messages   map[string][][]byte
	publishErr error
	trimmed    int
	mutex      sync.Mutex
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{messages: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(key string, message []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.publishErr != nil {
		return m.publishErr
	}
	m.messages[key] = append(m.messages[key], message)
	return nil
}

func (m *MockPublisher) TrimStreams() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.trimmed++
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// MockLogger is a mock implementation of helpers.LoggerInterface
type MockLogger struct {
	errors []error
	infos  []string
}

func (m *MockLogger) LogError(source string, err error) {
	m.errors = append(m.errors, err)
}

func (m *MockLogger) LogInfo(format string, args ...interface{}) {
	m.infos = append(m.infos, format)
}

func intPtr(v int) *int { return &v }

func testAds(titles ...string) []search.Ad {
	ads := make([]search.Ad, 0, len(titles))
	for _, title := range titles {
		ads = append(ads, search.Ad{
			Title: title,
			Link:  "https://www.avito.ru/" + title,
			Price: intPtr(100),
			Date:  "2019-01-10 15:29",
		})
	}
	return ads
}

func newTestWorker(source *MockSource, pub *MockPublisher, queries ...string) (*Worker, *MockLogger) {
	requests := make([]search.Request, 0, len(queries))
	for _, q := range queries {
		requests = append(requests, search.Request{Query: q})
	}
	logger := &MockLogger{}
	w := NewWorker(context.Background(), source, requests, pub, logger, time.Minute, 100)
	return w, logger
}

func TestWorkerPublishesAds(t *testing.T) {
	source := &MockSource{
		streams: map[string]*mockStream{
			"audi tt": {ads: testAds("a1", "a2")},
			"ваз":     {ads: testAds("b1")},
		},
	}
	pub := NewMockPublisher()
	w, logger := newTestWorker(source, pub, "audi tt", "ваз")

	w.runSearches()

	require.Len(t, pub.messages["avito"], 3)
	assert.Empty(t, logger.errors)
	assert.Equal(t, 1, pub.trimmed)

	var ad search.Ad
	require.NoError(t, json.Unmarshal(pub.messages["avito"][0], &ad))
	assert.Equal(t, "a1", ad.Title)
	assert.Equal(t, "2019-01-10 15:29", ad.Date)
}

func TestWorkerCapsAdsPerQuery(t *testing.T) {
	source := &MockSource{
		streams: map[string]*mockStream{
			"audi tt": {ads: testAds("a1", "a2", "a3", "a4", "a5")},
		},
	}
	pub := NewMockPublisher()
	w, _ := newTestWorker(source, pub, "audi tt")
	w.maxAdsPerQuery = 3

	w.runSearches()

	assert.Len(t, pub.messages["avito"], 3)
}

func TestWorkerRateLimitAbortsCycle(t *testing.T) {
	source := &MockSource{
		streams: map[string]*mockStream{
			"audi tt": {err: errs.NewRateLimit("pager", "blocked")},
			"ваз":     {ads: testAds("b1")},
		},
	}
	pub := NewMockPublisher()
	w, logger := newTestWorker(source, pub, "audi tt", "ваз")

	w.runSearches()

	// The second query must not run once the source is blocking
	assert.Equal(t, []string{"audi tt"}, source.searched)
	assert.Empty(t, pub.messages["avito"])
	require.Len(t, logger.errors, 1)
	assert.True(t, errs.IsRateLimit(logger.errors[0]))
}

func TestWorkerContinuesAfterQueryError(t *testing.T) {
	source := &MockSource{
		streams: map[string]*mockStream{
			"audi tt": {err: errs.NewMissingField("extract", "price")},
			"ваз":     {ads: testAds("b1")},
		},
	}
	pub := NewMockPublisher()
	w, logger := newTestWorker(source, pub, "audi tt", "ваз")

	w.runSearches()

	assert.Equal(t, []string{"audi tt", "ваз"}, source.searched)
	assert.Len(t, pub.messages["avito"], 1)
	assert.Len(t, logger.errors, 1)
}

func TestWorkerPublishError(t *testing.T) {
	source := &MockSource{
		streams: map[string]*mockStream{
			"audi tt": {ads: testAds("a1")},
		},
	}
	pub := NewMockPublisher()
	pub.publishErr = errors.New("connection refused")
	w, logger := newTestWorker(source, pub, "audi tt")

	w.runSearches()

	require.Len(t, logger.errors, 1)
	var se *errs.ScrapeError
	require.ErrorAs(t, logger.errors[0], &se)
	assert.Equal(t, errs.ErrorTypePublisher, se.Type)
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &MockSource{streams: map[string]*mockStream{}}
	pub := NewMockPublisher()
	w := NewWorker(ctx, source, []search.Request{{Query: "audi tt"}}, pub, &MockLogger{}, time.Hour, 100)

	done := make(chan error, 1)
	go func() {
		done <- w.Start()
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(1 * time.Second):
		t.Error("worker did not stop after context cancellation")
	}
}
