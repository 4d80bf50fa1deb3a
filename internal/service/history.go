package service

import (
	"context"

	"github.com/vbonduro/foodlens/internal/domain"
)

func (s *AnalysisService) HistoryEnabled() bool {
	return s.reports != nil
}

func (s *AnalysisService) ListReports(ctx context.Context, limit int) ([]*domain.Report, error) {
	if s.reports == nil {
		return nil, ErrHistoryDisabled
	}
	return s.reports.List(ctx, limit)
}

func (s *AnalysisService) SearchReports(ctx context.Context, query string, limit int) ([]*domain.Report, error) {
	if s.reports == nil {
		return nil, ErrHistoryDisabled
	}
	return s.reports.Search(ctx, query, limit)
}

// GetReport returns nil, nil when id is unknown.
func (s *AnalysisService) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	if s.reports == nil {
		return nil, ErrHistoryDisabled
	}
	return s.reports.GetByID(ctx, id)
}

// DeleteReport removes a report and the photo it kept, if any.
func (s *AnalysisService) DeleteReport(ctx context.Context, id string) error {
	if s.reports == nil {
		return ErrHistoryDisabled
	}
	report, err := s.reports.Delete(ctx, id)
	if err != nil {
		return err
	}
	if report.PhotoKey != "" && s.photoStg != nil {
		if err := s.photoStg.Delete(ctx, report.PhotoKey); err != nil {
			s.logger.Error("failed to delete photo file", "storage_key", report.PhotoKey, "error", err)
		}
	}
	return nil
}
