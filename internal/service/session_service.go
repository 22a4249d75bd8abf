package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Brekey53/atec-admin-api/internal/dto"
	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
	ListDetailByClass(ctx context.Context, classID string) ([]models.SessionDetail, error)
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteFutureByClass(ctx context.Context, classID string, from time.Time) (int, error)
}

// SessionService serves timetable reads and session removal.
type SessionService struct {
	repo      sessionRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo sessionRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns sessions plus pagination data.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, *models.Pagination, error) {
	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return sessions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Timetable returns a class timetable, optionally narrowed to a date range.
// Full-class reads are served from cache when possible.
func (s *SessionService) Timetable(ctx context.Context, query dto.TimetableQuery) ([]models.SessionDetail, error) {
	if query.ClassID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}

	key := fmt.Sprintf("timetable:%s:%s:%s", query.ClassID, query.DateFrom, query.DateTo)
	var cached []models.SessionDetail
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	sessions, err := s.repo.ListDetailByClass(ctx, query.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	filtered, err := filterTimetableRange(sessions, query.DateFrom, query.DateTo)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, filtered, s.cacheTTL); err != nil {
		s.logger.Warn("timetable cache write failed", zap.String("class_id", query.ClassID), zap.Error(err))
	}
	return filtered, nil
}

// Delete removes one session. Sessions that already started are immutable.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	startsAt := dateOnly(session.Date).Add(time.Duration(parseClock(session.StartTime)) * time.Minute)
	if !s.now().Before(startsAt) {
		return appErrors.Clone(appErrors.ErrSessionStarted, "session already started")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("timetable:%s:*", session.ClassID)); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.String("class_id", session.ClassID), zap.Error(err))
	}
	return nil
}

// ClearUpcoming removes a class's future sessions, typically before a fresh
// generation run. Past days are never touched.
func (s *SessionService) ClearUpcoming(ctx context.Context, classID string, from string) (int, error) {
	if classID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}

	cutoff := dateOnly(s.now().AddDate(0, 0, 1))
	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return 0, appErrors.Clone(appErrors.ErrValidation, "from must use the 2006-01-02 format")
		}
		if parsed.After(cutoff) {
			cutoff = parsed
		}
	}

	removed, err := s.repo.DeleteFutureByClass(ctx, classID, cutoff)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear upcoming sessions")
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("timetable:%s:*", classID)); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.String("class_id", classID), zap.Error(err))
	}
	s.logger.Info("upcoming sessions cleared", zap.String("class_id", classID), zap.Int("removed", removed))
	return removed, nil
}

func filterTimetableRange(sessions []models.SessionDetail, fromStr, toStr string) ([]models.SessionDetail, error) {
	var from, to *time.Time
	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dateFrom must use the 2006-01-02 format")
		}
		from = &parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dateTo must use the 2006-01-02 format")
		}
		to = &parsed
	}

	filtered := make([]models.SessionDetail, 0, len(sessions))
	for _, session := range sessions {
		day := dateOnly(session.Date)
		if from != nil && day.Before(*from) {
			continue
		}
		if to != nil && day.After(*to) {
			continue
		}
		filtered = append(filtered, session)
	}
	return filtered, nil
}
