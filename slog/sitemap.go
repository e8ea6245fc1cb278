package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docmill/docmill"
)

var _ docmill.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with discovery logging.
type LoggingSitemapService struct {
	next   docmill.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next docmill.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the outcome.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	begin := time.Now()
	urls, err := s.next.DiscoverURLs(ctx, baseURL)
	if err != nil {
		s.logger.Warn("sitemap discovery",
			"base_url", baseURL,
			"duration", time.Since(begin),
			"err", err.Error(),
		)
		return nil, err
	}
	s.logger.Info("sitemap discovery",
		"base_url", baseURL,
		"urls", len(urls),
		"duration", time.Since(begin),
	)
	return urls, nil
}
