package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Brekey53/atec-admin-api/internal/dto"
	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

type schedulerClassReader interface {
	FindDetail(ctx context.Context, id string) (*models.ClassDetail, error)
}

type curriculumFetcher interface {
	ListByClass(ctx context.Context, classID string) ([]models.CurriculumModuleDetail, error)
}

type assignmentFetcher interface {
	ListByClass(ctx context.Context, classID string) ([]models.TrainerAssignmentDetail, error)
}

type availabilityFetcher interface {
	ListByTrainer(ctx context.Context, trainerID string) ([]models.AvailabilityWindow, error)
}

type roomFetcher interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type sessionFeeder interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Session, error)
	SumHoursByModule(ctx context.Context, classID string) (map[string]int, error)
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, sessions []models.Session) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type timetableInvalidator interface {
	InvalidateClass(ctx context.Context, classID string) error
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	MaxBlockHours    int
	MinBlockHours    int
	MaxActiveModules int
	OverrunMonths    int
}

// ScheduleGeneratorService builds conflict-free session calendars for a class.
type ScheduleGeneratorService struct {
	classes      schedulerClassReader
	curriculum   curriculumFetcher
	assignments  assignmentFetcher
	availability availabilityFetcher
	rooms        roomFetcher
	sessions     sessionFeeder
	tx           txProvider
	invalidator  timetableInvalidator
	validator    *validator.Validate
	logger       *zap.Logger
	config       ScheduleGeneratorConfig
}

// NewScheduleGeneratorService wires scheduler dependencies.
func NewScheduleGeneratorService(
	classes schedulerClassReader,
	curriculum curriculumFetcher,
	assignments assignmentFetcher,
	availability availabilityFetcher,
	rooms roomFetcher,
	sessions sessionFeeder,
	tx txProvider,
	invalidator timetableInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGeneratorService{
		classes:      classes,
		curriculum:   curriculum,
		assignments:  assignments,
		availability: availability,
		rooms:        rooms,
		sessions:     sessions,
		tx:           tx,
		invalidator:  invalidator,
		validator:    validate,
		logger:       logger,
		config:       cfg,
	}
}

// Generate loads the fully resolved scheduling material, runs the timetable
// engine and optionally persists the generated sessions in one transaction.
// Incomplete modules are reported through the summary, never as errors.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	class, err := s.classes.FindDetail(ctx, req.ClassID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	var minStart *time.Time
	if req.MinStartDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.MinStartDate)
		if parseErr != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "minStartDate must use the 2006-01-02 format")
		}
		minStart = &parsed
	}

	curriculum, err := s.curriculum.ListByClass(ctx, req.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum modules")
	}
	if len(curriculum) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "class has no curriculum modules")
	}

	trainers, err := s.resolveTrainers(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	roomList, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room inventory")
	}

	taught, err := s.sessions.SumHoursByModule(ctx, req.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taught hours")
	}

	cfg := s.engineConfig(req)
	committed, err := s.loadCommitted(ctx, class, minStart, cfg)
	if err != nil {
		return nil, err
	}

	template, err := buildDayTemplate(class.Methodology)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, "class methodology has a malformed day template")
	}

	input := engineInput{
		classID:    class.ID,
		classStart: class.StartDate,
		classEnd:   class.EndDate,
		minStart:   minStart,
		template:   template,
		modules:   buildEngineModules(curriculum, trainers, taught),
		rooms:     buildEngineRooms(roomList),
		committed: committed,
		config:    cfg,
	}

	result := generateTimetable(input)

	resp := &dto.GenerateScheduleResponse{
		ClassID:  class.ID,
		Sessions: make([]dto.SessionProposal, 0, len(result.sessions)),
		Summary:  result.summary,
	}
	moduleNames := make(map[string]string, len(curriculum))
	for _, entry := range curriculum {
		moduleNames[entry.ID] = entry.ModuleName
	}
	for _, session := range result.sessions {
		resp.Sessions = append(resp.Sessions, dto.SessionProposal{
			CurriculumModuleID: session.curriculumModuleID,
			ModuleName:         moduleNames[session.curriculumModuleID],
			TrainerID:          session.trainerID,
			RoomID:             session.roomID,
			Date:               session.date.Format("2006-01-02"),
			StartTime:          formatClock(session.start),
			EndTime:            formatClock(session.end),
		})
	}

	if req.Persist && len(result.sessions) > 0 {
		if err := s.persist(ctx, result.sessions); err != nil {
			return nil, err
		}
		resp.Persisted = true
		if s.invalidator != nil {
			if err := s.invalidator.InvalidateClass(ctx, class.ID); err != nil {
				s.logger.Warn("failed to invalidate timetable cache", zap.String("class_id", class.ID), zap.Error(err))
			}
		}
	}

	s.logger.Info("schedule generated",
		zap.String("class_id", class.ID),
		zap.Int("sessions", len(resp.Sessions)),
		zap.Int("modules", len(resp.Summary)),
		zap.Bool("persisted", resp.Persisted),
	)
	return resp, nil
}

func (s *ScheduleGeneratorService) engineConfig(req dto.GenerateScheduleRequest) engineConfig {
	cfg := engineConfig{
		maxBlockHours:    s.config.MaxBlockHours,
		minBlockHours:    s.config.MinBlockHours,
		maxActiveModules: s.config.MaxActiveModules,
		overrunMonths:    s.config.OverrunMonths,
	}
	if req.MaxBlockHours > 0 {
		cfg.maxBlockHours = req.MaxBlockHours
	}
	if req.MinBlockHours > 0 {
		cfg.minBlockHours = req.MinBlockHours
	}
	if req.MaxActiveModules > 0 {
		cfg.maxActiveModules = req.MaxActiveModules
	}
	return cfg.withDefaults()
}

// resolveTrainers maps curriculum module ids to their assigned trainer with
// availability windows pre-loaded. At most one trainer per module is honored.
func (s *ScheduleGeneratorService) resolveTrainers(ctx context.Context, classID string) (map[string]*engineTrainer, error) {
	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer assignments")
	}

	byTrainer := make(map[string]*engineTrainer)
	byModule := make(map[string]*engineTrainer, len(assignments))
	for _, assignment := range assignments {
		if _, taken := byModule[assignment.CurriculumModuleID]; taken {
			continue
		}
		trainer, seen := byTrainer[assignment.TrainerID]
		if !seen {
			windows, loadErr := s.availability.ListByTrainer(ctx, assignment.TrainerID)
			if loadErr != nil {
				return nil, appErrors.Wrap(loadErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer availability")
			}
			trainer = &engineTrainer{
				id:      assignment.TrainerID,
				name:    assignment.TrainerName,
				windows: make([]availabilityWindow, 0, len(windows)),
			}
			for _, window := range windows {
				trainer.windows = append(trainer.windows, availabilityWindow{
					date:  dateOnly(window.Date),
					start: parseClock(window.StartTime),
					end:   parseClock(window.EndTime),
				})
			}
			byTrainer[assignment.TrainerID] = trainer
		}
		byModule[assignment.CurriculumModuleID] = trainer
	}
	return byModule, nil
}

// loadCommitted materialises every session that can collide with this run,
// including other classes sharing trainers or rooms.
func (s *ScheduleGeneratorService) loadCommitted(ctx context.Context, class *models.ClassDetail, minStart *time.Time, cfg engineConfig) ([]bookedSession, error) {
	from := dateOnly(class.StartDate)
	if minStart != nil && minStart.After(from) {
		from = dateOnly(*minStart)
	}
	to := dateOnly(class.EndDate).AddDate(0, cfg.overrunMonths, 0)

	existing, err := s.sessions.ListBetween(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committed sessions")
	}

	committed := make([]bookedSession, 0, len(existing))
	for _, session := range existing {
		committed = append(committed, bookedSession{
			classID:            session.ClassID,
			curriculumModuleID: session.CurriculumModuleID,
			trainerID:          session.TrainerID,
			roomID:             session.RoomID,
			date:               dateOnly(session.Date),
			start:              parseClock(session.StartTime),
			end:                parseClock(session.EndTime),
		})
	}
	return committed, nil
}

func (s *ScheduleGeneratorService) persist(ctx context.Context, sessions []bookedSession) error {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}

	records := make([]models.Session, 0, len(sessions))
	for _, session := range sessions {
		records = append(records, models.Session{
			ClassID:            session.classID,
			CurriculumModuleID: session.curriculumModuleID,
			TrainerID:          session.trainerID,
			RoomID:             session.roomID,
			Date:               session.date,
			StartTime:          formatClock(session.start),
			EndTime:            formatClock(session.end),
		})
	}

	if err := s.sessions.BulkCreateWithTx(ctx, tx, records); err != nil {
		_ = tx.Rollback()
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated sessions")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit generated sessions")
	}
	return nil
}

func buildEngineModules(curriculum []models.CurriculumModuleDetail, trainers map[string]*engineTrainer, taught map[string]int) []engineModule {
	modules := make([]engineModule, 0, len(curriculum))
	for _, entry := range curriculum {
		modules = append(modules, engineModule{
			curriculumModuleID: entry.ID,
			name:               entry.ModuleName,
			priority:           entry.Priority,
			requiredHours:      entry.TotalHours,
			taughtHours:        taught[entry.ID],
			roomCategories:     entry.RoomCategories,
			trainer:            trainers[entry.ID],
		})
	}
	return modules
}

func buildDayTemplate(m models.Methodology) (dayTemplate, error) {
	var template dayTemplate
	for _, field := range []struct {
		raw    string
		target *int
	}{
		{m.DayStart, &template.dayStart},
		{m.DayEnd, &template.dayEnd},
		{m.LunchStart, &template.lunchStart},
		{m.LunchEnd, &template.lunchEnd},
	} {
		minutes, err := parseClockStrict(field.raw)
		if err != nil {
			return dayTemplate{}, err
		}
		*field.target = minutes
	}
	return template, nil
}

func buildEngineRooms(rooms []models.Room) []engineRoom {
	out := make([]engineRoom, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, engineRoom{id: room.ID, name: room.Name, category: room.Category})
	}
	return out
}
