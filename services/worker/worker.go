package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sjsage522/avitoworker/helpers"
	"sjsage522/avitoworker/internal/scraper"
	"sjsage522/avitoworker/internal/search"
	errs "sjsage522/avitoworker/pkg/errors"
	"sjsage522/avitoworker/services/publisher"
)

// Worker runs the configured searches on a schedule and publishes every
// normalized ad
type Worker struct {
	ctx            context.Context
	source         scraper.AdSource
	requests       []search.Request
	publisher      publisher.Publisher
	logger         helpers.LoggerInterface
	crawlInterval  time.Duration
	maxAdsPerQuery int
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	source scraper.AdSource,
	requests []search.Request,
	pub publisher.Publisher,
	logger helpers.LoggerInterface,
	crawlInterval time.Duration,
	maxAdsPerQuery int,
) *Worker {
	return &Worker{
		ctx:            ctx,
		source:         source,
		requests:       requests,
		publisher:      pub,
		logger:         logger,
		crawlInterval:  crawlInterval,
		maxAdsPerQuery: maxAdsPerQuery,
	}
}

// Start runs search cycles until the context is cancelled. The first cycle
// starts immediately.
func (w *Worker) Start() error {
	w.runSearches()

	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-time.After(w.crawlInterval):
			w.runSearches()
		}
	}
}

// runSearches executes every configured search once. A rate limit aborts the
// remaining searches of the cycle since they would hit the same block.
func (w *Worker) runSearches() {
	w.logger.LogInfo("Starting search cycle with %d queries", len(w.requests))

	for _, req := range w.requests {
		published, err := w.searchAndPublish(req)
		if err != nil {
			w.logger.LogError(w.source.GetName(), err)
			if errs.IsRateLimit(err) {
				w.logger.LogInfo("Source is blocking requests, aborting cycle")
				return
			}
			continue
		}
		w.logger.LogInfo("Published %d ads for query %q", published, req.Query)
	}

	if err := w.publisher.TrimStreams(); err != nil {
		w.logger.LogError("publisher", err)
	}
}

// searchAndPublish runs one search and publishes its ads as JSON, stopping at
// the per-query cap. It returns the number of ads published.
func (w *Worker) searchAndPublish(req search.Request) (int, error) {
	stream, err := w.source.Search(req)
	if err != nil {
		return 0, err
	}

	published := 0
	for published < w.maxAdsPerQuery && stream.Next() {
		ad := stream.Ad()

		data, err := json.Marshal(ad)
		if err != nil {
			return published, errs.NewPublisher("worker", fmt.Sprintf("failed to marshal ad %q", ad.Title), err)
		}
		if err := w.publisher.Publish(w.source.GetName(), data); err != nil {
			return published, errs.NewPublisher("worker", fmt.Sprintf("failed to publish ad %q", ad.Title), err)
		}
		published++
	}

	if err := stream.Err(); err != nil {
		return published, err
	}
	return published, nil
}
