package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/internal/store"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
	"github.com/noah-isme/studybloom-api/pkg/export"
)

// ReportService renders study data into downloadable documents.
type ReportService struct {
	store  *store.Store
	pdf    *export.PDFExporter
	csv    *export.CSVExporter
	logger *zap.Logger
}

// NewReportService creates a new report service.
func NewReportService(st *store.Store, pdf *export.PDFExporter, csv *export.CSVExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{store: st, pdf: pdf, csv: csv, logger: logger}
}

// SubjectReport renders a single subject's grades, absences and notes as a
// PDF. It returns the document bytes and a suggested filename.
func (s *ReportService) SubjectReport(ctx context.Context, subjectID string) ([]byte, string, error) {
	subject, ok := s.store.FindSubject(subjectID)
	if !ok {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	dataset := export.Dataset{Headers: []string{"Item", "Detail", "Value"}}
	for _, grade := range subject.Grades {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Item":   "Grade",
			"Detail": grade.Description,
			"Value":  strconv.FormatFloat(grade.Value, 'f', -1, 64),
		})
	}
	dataset.Rows = append(dataset.Rows, map[string]string{
		"Item":  "Average",
		"Value": FormatAverage(Average(subject.Grades)),
	})
	for _, absence := range subject.Absences {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Item":   "Absence",
			"Detail": absence.Date.String(),
		})
	}
	for _, note := range subject.Notes {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Item":   "Note",
			"Detail": note.Content,
			"Value":  note.CreatedAt.Format("2006-01-02"),
		})
	}

	payload, err := s.pdf.Render(dataset, fmt.Sprintf("Subject Report - %s", subject.Name))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	s.logger.Info("subject report rendered", zap.String("subject_id", subjectID))
	return payload, fmt.Sprintf("subject-%s-report.pdf", subjectID), nil
}

// ActivitiesCSV exports every activity as a CSV document.
func (s *ReportService) ActivitiesCSV(ctx context.Context) ([]byte, error) {
	state := s.store.Snapshot()

	subjects := make(map[string]models.Subject, len(state.Subjects))
	for _, subject := range state.Subjects {
		subjects[subject.ID] = subject
	}

	dataset := export.Dataset{Headers: []string{"ID", "Title", "Date", "Type", "Status", "Subject"}}
	for _, activity := range state.Activities {
		row := map[string]string{
			"ID":     activity.ID,
			"Title":  activity.Title,
			"Type":   string(activity.Type),
			"Status": string(activity.Status),
		}
		if activity.Date != nil {
			row["Date"] = activity.Date.String()
		}
		if subject, ok := subjects[activity.SubjectID]; ok {
			row["Subject"] = subject.Name
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, nil
}
