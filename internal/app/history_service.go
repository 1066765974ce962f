package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/domain"
)

// HistoryService answers questions about past download attempts
type HistoryService struct {
	repo   domain.DownloadRepository
	logger *zap.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(repo domain.DownloadRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		repo:   repo,
		logger: logger,
	}
}

// ListDownloads lists recorded attempts, newest first
func (s *HistoryService) ListDownloads(filter domain.DownloadFilter, limit int) ([]*domain.Download, error) {
	if filter.Status != "" && !domain.ValidateStatus(filter.Status) {
		return nil, fmt.Errorf("invalid status: %s", filter.Status)
	}
	if filter.Mode != "" && !domain.ValidateMode(filter.Mode) {
		return nil, fmt.Errorf("invalid mode: %s", filter.Mode)
	}
	return s.repo.FindAll(filter, limit)
}

// GetDownload retrieves a recorded attempt by ID
func (s *HistoryService) GetDownload(id string) (*domain.Download, error) {
	return s.repo.FindByID(id)
}

// LastAttempt returns the most recent attempt for url, or nil
func (s *HistoryService) LastAttempt(url string) (*domain.Download, error) {
	return s.repo.FindByURL(url, nil)
}

// DeleteDownload removes a record. A record still in progress cannot be removed.
func (s *HistoryService) DeleteDownload(id string) error {
	download, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	if !download.IsTerminal() {
		return fmt.Errorf("%w: %s", domain.ErrInProgress, download.ID)
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}

	s.logger.Info("Download record deleted", zap.String("id", id), zap.String("url", download.URL))
	return nil
}

// GetStats returns counts per status
func (s *HistoryService) GetStats() (*domain.DownloadStats, error) {
	return s.repo.GetStats()
}
