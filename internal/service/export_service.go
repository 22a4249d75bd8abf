package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Brekey53/atec-admin-api/internal/dto"
	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
	"github.com/Brekey53/atec-admin-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

type timetableReader interface {
	Timetable(ctx context.Context, query dto.TimetableQuery) ([]models.SessionDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportPayload carries a rendered export ready for download.
type ExportPayload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders class timetables as downloadable files.
type ExportService struct {
	timetables timetableReader
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(timetables timetableReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{timetables: timetables, csv: csv, pdf: pdf, logger: logger}
}

// Timetable renders a class timetable in the requested format.
func (s *ExportService) Timetable(ctx context.Context, query dto.TimetableQuery, format ExportFormat) (*ExportPayload, error) {
	sessions, err := s.timetables.Timetable(ctx, query)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Date", "Start", "End", "Module", "Trainer", "Room"},
		Rows:    make([][]string, 0, len(sessions)),
	}
	for _, session := range sessions {
		dataset.Rows = append(dataset.Rows, []string{
			session.Date.Format("2006-01-02"),
			session.StartTime,
			session.EndTime,
			session.ModuleName,
			session.TrainerName,
			session.RoomName,
		})
	}

	switch strings.ToLower(string(format)) {
	case string(FormatCSV), "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV export")
		}
		return &ExportPayload{
			Filename:    fmt.Sprintf("timetable-%s.csv", query.ClassID),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case string(FormatPDF):
		data, err := s.pdf.Render(dataset, fmt.Sprintf("Class timetable %s", query.ClassID))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF export")
		}
		return &ExportPayload{
			Filename:    fmt.Sprintf("timetable-%s.pdf", query.ClassID),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// ScheduleSummary renders a generation summary in the requested format.
func (s *ExportService) ScheduleSummary(classID string, summary []dto.ModuleSummaryEntry, format ExportFormat) (*ExportPayload, error) {
	dataset := export.Dataset{
		Headers: []string{"Module", "Trainer", "Required hours", "Scheduled hours", "Completed", "Diagnostic"},
		Rows:    make([][]string, 0, len(summary)),
	}
	for _, entry := range summary {
		dataset.Rows = append(dataset.Rows, []string{
			entry.ModuleName,
			entry.TrainerName,
			fmt.Sprintf("%d", entry.RequiredHours),
			fmt.Sprintf("%d", entry.ScheduledHours),
			fmt.Sprintf("%t", entry.Completed),
			entry.Diagnostic,
		})
	}

	switch strings.ToLower(string(format)) {
	case string(FormatCSV), "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV export")
		}
		return &ExportPayload{
			Filename:    fmt.Sprintf("schedule-summary-%s.csv", classID),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case string(FormatPDF):
		data, err := s.pdf.Render(dataset, fmt.Sprintf("Schedule summary %s", classID))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF export")
		}
		return &ExportPayload{
			Filename:    fmt.Sprintf("schedule-summary-%s.pdf", classID),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
