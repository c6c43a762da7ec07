package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/feedback-api/internal/models"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
	"github.com/noah-isme/feedback-api/pkg/export"
	"github.com/noah-isme/feedback-api/pkg/storage"
)

const noDataLabel = "No data"

// systemViewer is the identity background report jobs run under. Access was
// checked when the job was created.
var systemViewer = models.Identity{UserID: "report-worker", Role: models.RoleAdmin}

type exportStatsSource interface {
	FacultyStats(ctx context.Context, viewer models.Identity, facultyID string) (*models.FacultyStatistics, error)
	BatchStats(ctx context.Context, viewer models.Identity, batchID string) (*models.BatchStatistics, error)
}

type exportFacultyReader interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

type exportBatchReader interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
}

type fileStorage interface {
	Save(relPath string, data []byte) (string, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
	CleanupOlderThan(now time.Time, ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// RenderedReport is a report rendered in memory for direct download.
type RenderedReport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService turns computed statistics into report documents. Numbers are
// taken from the aggregation results as they are; nothing is recomputed here.
type ExportService struct {
	stats     exportStatsSource
	faculty   exportFacultyReader
	batches   exportBatchReader
	storage   fileStorage
	signer    *storage.SignedURLSigner
	renderers map[models.ReportFormat]export.Renderer
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(stats exportStatsSource, faculty exportFacultyReader, batches exportBatchReader, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		stats:   stats,
		faculty: faculty,
		batches: batches,
		storage: files,
		signer:  signer,
		renderers: map[models.ReportFormat]export.Renderer{
			models.ReportFormatCSV: export.NewCSVExporter(),
			models.ReportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Authorize checks that viewer may report on the subject before a job is queued.
func (s *ExportService) Authorize(ctx context.Context, viewer models.Identity, reportType models.ReportType, subjectID string) error {
	switch reportType {
	case models.ReportTypeFaculty:
		faculty, err := s.loadFaculty(ctx, subjectID)
		if err != nil {
			return err
		}
		if !viewer.CanAccess(faculty.College, faculty.Department) {
			return appErrors.Clone(appErrors.ErrForbidden, "faculty is outside your department")
		}
	case models.ReportTypeBatch:
		batch, err := s.loadBatch(ctx, subjectID)
		if err != nil {
			return err
		}
		if !viewer.CanAccess(batch.College, batch.Department) {
			return appErrors.Clone(appErrors.ErrForbidden, "batch is outside your department")
		}
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unsupported report type")
	}
	return nil
}

// FacultyDocument lays out one faculty member's statistics with parameters in
// registry order. Faculty without ratings get an explicit empty report.
func (s *ExportService) FacultyDocument(ctx context.Context, viewer models.Identity, facultyID string) (export.Document, error) {
	faculty, err := s.loadFaculty(ctx, facultyID)
	if err != nil {
		return export.Document{}, err
	}
	stats, err := s.stats.FacultyStats(ctx, viewer, facultyID)
	if err != nil && !errors.Is(err, ErrNoData) {
		return export.Document{}, err
	}
	return facultyDocument(faculty, stats), nil
}

// BatchDocument lays out one row per faculty member of a batch.
func (s *ExportService) BatchDocument(ctx context.Context, viewer models.Identity, batchID string) (export.Document, error) {
	batch, err := s.loadBatch(ctx, batchID)
	if err != nil {
		return export.Document{}, err
	}
	stats, err := s.stats.BatchStats(ctx, viewer, batchID)
	if err != nil {
		return export.Document{}, err
	}
	return batchDocument(batch, stats), nil
}

// Render builds and renders a report in memory.
func (s *ExportService) Render(ctx context.Context, viewer models.Identity, reportType models.ReportType, subjectID string, format models.ReportFormat) (*RenderedReport, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}

	var doc export.Document
	var err error
	switch reportType {
	case models.ReportTypeFaculty:
		doc, err = s.FacultyDocument(ctx, viewer, subjectID)
	case models.ReportTypeBatch:
		doc, err = s.BatchDocument(ctx, viewer, subjectID)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report type")
	}
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return &RenderedReport{
		Filename:    s.buildFilename(reportType, subjectID, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// Generate renders the report for a queued job, stores it and signs a
// download link.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	rendered, err := s.Render(ctx, systemViewer, job.Type, job.Params.SubjectID, job.Params.Format)
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(job.ID+"/"+rendered.Filename, rendered.Body)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (storage.DownloadToken, error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(s.now(), ttl)
}

// ContentType reports the MIME type for format.
func (s *ExportService) ContentType(format models.ReportFormat) string {
	if r, ok := s.renderers[format]; ok {
		return r.ContentType()
	}
	return "application/octet-stream"
}

func (s *ExportService) loadFaculty(ctx context.Context, id string) (*models.Faculty, error) {
	faculty, err := s.faculty.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

func (s *ExportService) loadBatch(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	return batch, nil
}

func (s *ExportService) buildFilename(reportType models.ReportType, subjectID, ext string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", reportType, sanitizeFilename(subjectID), timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func facultyDocument(faculty *models.Faculty, stats *models.FacultyStatistics) export.Document {
	doc := export.Document{
		Title:    "Faculty Feedback Report",
		Subtitle: fmt.Sprintf("%s (%s)", faculty.Name, faculty.Code),
		Summary: []export.Field{
			{Label: "Subject", Value: faculty.Subject},
			{Label: "Department", Value: faculty.College + " / " + faculty.Department},
		},
	}

	var slots []*models.SlotStatistics
	if stats != nil {
		slots = stats.PresentSlots()
	}

	headers := []string{"Parameter"}
	for _, slot := range slots {
		n := strconv.Itoa(slot.Slot)
		headers = append(headers, "Slot "+n+" Average", "Slot "+n+" %", "Slot "+n+" Ratings")
	}
	doc.Table.Headers = headers

	for _, param := range models.Parameters() {
		row := []string{param}
		for _, slot := range slots {
			ps, ok := slot.ParameterStats[param]
			if !ok {
				row = append(row, "-", "-", "0")
				continue
			}
			row = append(row, formatAverage(ps.Average), formatPercentage(ps.Percentage), strconv.Itoa(ps.TotalRatings))
		}
		doc.Table.Rows = append(doc.Table.Rows, row)
	}

	if stats == nil {
		doc.Summary = append(doc.Summary,
			export.Field{Label: "Overall Average", Value: noDataLabel},
			export.Field{Label: "Satisfaction %", Value: noDataLabel},
			export.Field{Label: "Responses", Value: "0"},
		)
		doc.Notes = append(doc.Notes, "No feedback has been recorded for this faculty member yet.")
		return doc
	}

	doc.Summary = append(doc.Summary,
		export.Field{Label: "Overall Average", Value: formatAverage(stats.OverallAverage)},
		export.Field{Label: "Satisfaction %", Value: formatPercentage(stats.SatisfactionPercentage)},
		export.Field{Label: "Responses", Value: strconv.Itoa(stats.TotalResponses)},
		export.Field{Label: "Ratings", Value: strconv.Itoa(stats.TotalRatings)},
	)
	for _, slot := range slots {
		n := strconv.Itoa(slot.Slot)
		doc.Summary = append(doc.Summary,
			export.Field{Label: "Slot " + n + " Overall Average", Value: formatAverage(slot.OverallAverage)},
			export.Field{Label: "Slot " + n + " Satisfaction %", Value: formatPercentage(slot.SatisfactionPercentage)},
		)
	}
	doc.Notes = append(doc.Notes, "Ratings use a 1 to 10 scale. Satisfaction is the average expressed as a percentage of 10.")
	return doc
}

func batchDocument(batch *models.Batch, stats *models.BatchStatistics) export.Document {
	doc := export.Document{
		Title:    "Batch Feedback Report",
		Subtitle: batch.ID,
		Summary: []export.Field{
			{Label: "College", Value: batch.College},
			{Label: "Department", Value: batch.Department},
			{Label: "Class", Value: strings.Join([]string{batch.Branch, batch.Year, batch.Semester, batch.Section}, " / ")},
			{Label: "Slot", Value: fmt.Sprintf("%d (%s)", batch.Slot, batch.SlotLabel)},
			{Label: "Responses", Value: strconv.Itoa(stats.TotalResponses)},
		},
		Table: export.Table{
			Headers: []string{"Code", "Faculty", "Subject", "Responses", "Ratings", "Overall Average", "Satisfaction %"},
		},
	}

	withData := 0
	for _, entry := range stats.Faculty {
		row := []string{entry.Faculty.Code, entry.Faculty.Name, entry.Faculty.Subject}
		if !entry.HasData || entry.Stats == nil {
			row = append(row, "0", "0", noDataLabel, noDataLabel)
		} else {
			withData++
			row = append(row,
				strconv.Itoa(entry.Stats.TotalResponses),
				strconv.Itoa(entry.Stats.TotalRatings),
				formatAverage(entry.Stats.OverallAverage),
				formatPercentage(entry.Stats.SatisfactionPercentage),
			)
		}
		doc.Table.Rows = append(doc.Table.Rows, row)
	}
	doc.Summary = append(doc.Summary, export.Field{Label: "Faculty With Feedback", Value: fmt.Sprintf("%d of %d", withData, len(stats.Faculty))})
	if withData == 0 {
		doc.Notes = append(doc.Notes, "No feedback has been recorded for this batch yet.")
	}
	return doc
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPercentage(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
