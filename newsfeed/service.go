package newsfeed

import (
	"context"
	"strings"

	"opportunity-radar/logging"
	"opportunity-radar/metrics"
	"opportunity-radar/models"
)

// Searcher is the upstream used by Service; *Client implements it.
type Searcher interface {
	Search(ctx context.Context, query string) (Response, error)
}

// Service runs a query through the webhook, the parser and the transformer.
type Service struct {
	searcher    Searcher
	transformer *Transformer
	logger      logging.Logger
	metrics     *metrics.Collector
}

func NewService(searcher Searcher, transformer *Transformer, logger logging.Logger, m *metrics.Collector) *Service {
	return &Service{
		searcher:    searcher,
		transformer: transformer,
		logger:      logger,
		metrics:     m,
	}
}

// Search returns the events for query. A blank query returns no events
// without calling upstream, and unparseable text yields an empty list.
func (s *Service) Search(ctx context.Context, query, domain string) ([]models.GlobalEvent, error) {
	if strings.TrimSpace(query) == "" {
		return []models.GlobalEvent{}, nil
	}

	resp, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.metrics.ObserveSearch("error", 0)
		s.logger.WithError(err).WithField("query", query).Error("News search failed")
		return nil, err
	}

	items := ParseResponse(resp.AsString)
	events := s.transformer.ToEvents(items, domain)

	outcome := "ok"
	if len(events) == 0 {
		outcome = "empty"
	}
	s.metrics.ObserveSearch(outcome, len(events))
	s.logger.WithFields(logging.Fields{
		"query":  query,
		"domain": domain,
		"events": len(events),
	}).Info("News search finished")

	return events, nil
}
