package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/foodlens/internal/chart"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/extract"
	"github.com/vbonduro/foodlens/internal/generate"
	"github.com/vbonduro/foodlens/internal/lookup"
	"github.com/vbonduro/foodlens/internal/lookup/classifier"
	"github.com/vbonduro/foodlens/internal/photostore"
	"github.com/vbonduro/foodlens/internal/prompt"
)

var (
	// ErrLookupUnavailable is returned when an operation needs a lookup
	// service that was not configured.
	ErrLookupUnavailable = errors.New("lookup service is not configured")
	// ErrHistoryDisabled is returned by history reads when no report store is wired.
	ErrHistoryDisabled = errors.New("report history is disabled")
	// ErrNoIngredients is returned by AnalyzeQuantities when every row is blank.
	ErrNoIngredients = errors.New("at least one ingredient is required")
	// ErrLookupFailed wraps errors returned by OCR and classifier calls.
	ErrLookupFailed = errors.New("lookup failed")
	// ErrUnreadableImage is returned when an uploaded photo cannot be decoded.
	ErrUnreadableImage = errors.New("photo could not be decoded")
)

// reportRepository is the subset of store.ReportStore that AnalysisService requires.
type reportRepository interface {
	Save(ctx context.Context, r *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, limit int) ([]*domain.Report, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Report, error)
	Delete(ctx context.Context, id string) (*domain.Report, error)
}

// Deps holds the optional collaborators. Any nil field disables the
// features that need it.
type Deps struct {
	Scorer     extract.Scorer
	Photos     lookup.PhotoFinder
	Nutrients  lookup.NutrientLookup
	OCR        lookup.OCR
	Classifier lookup.Classifier
	Reports    reportRepository
	PhotoStore photostore.PhotoStore
}

type AnalysisService struct {
	generator  generate.Generator
	scorer     extract.Scorer
	photos     lookup.PhotoFinder
	nutrients  lookup.NutrientLookup
	ocr        lookup.OCR
	classifier lookup.Classifier
	reports    reportRepository
	photoStg   photostore.PhotoStore
	logger     *slog.Logger
}

func NewAnalysisService(gen generate.Generator, deps Deps, logger *slog.Logger) *AnalysisService {
	scorer := deps.Scorer
	if scorer == nil {
		scorer = extract.DefaultScorer()
	}
	return &AnalysisService{
		generator:  gen,
		scorer:     scorer,
		photos:     deps.Photos,
		nutrients:  deps.Nutrients,
		ocr:        deps.OCR,
		classifier: deps.Classifier,
		reports:    deps.Reports,
		photoStg:   deps.PhotoStore,
		logger:     logger,
	}
}

// Analyze runs the pipeline for one template. An empty subject is rejected
// before any remote call.
func (s *AnalysisService) Analyze(ctx context.Context, id domain.TemplateID, req domain.AnalysisRequest) (*domain.Report, error) {
	report, err := s.run(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.save(ctx, report)
	return report, nil
}

// run is Analyze without persistence.
func (s *AnalysisService) run(ctx context.Context, id domain.TemplateID, req domain.AnalysisRequest) (*domain.Report, error) {
	text, err := prompt.Build(id, req)
	if err != nil {
		return nil, err
	}
	return s.generateReport(ctx, id, req, text)
}

// generateReport sends a rendered prompt and builds the report from the reply.
func (s *AnalysisService) generateReport(ctx context.Context, id domain.TemplateID, req domain.AnalysisRequest, text string) (*domain.Report, error) {
	s.logger.Info("analysis started", "template", id, "subject", req.SubjectText, "items", len(req.Items))
	start := time.Now()
	raw, err := s.generator.Generate(ctx, text)
	if err != nil {
		s.logger.Error("generation failed", "template", id, "error", err)
		return nil, err
	}
	s.logger.Info("generation complete", "template", id, "chars", len(raw), "duration_ms", time.Since(start).Milliseconds())

	report := newReport(id, req)
	report.RawText = raw
	report.Fields = extract.ExtractAll(raw, extract.RulesFor(id, s.scorer)...)

	switch id {
	case domain.TemplateFoodImageScore:
		report.PhotoURL = s.findPhoto(ctx, req.SubjectText, report)
	case domain.TemplateDietPlan:
		report.Nutrients = s.lookupNutrients(ctx, report.Fields.Lists[extract.KeyFoods], report)
	}

	report.Charts = chart.For(id, report.Fields, report.Nutrients)
	s.logger.Debug("extraction complete", "template", id, "scores", len(report.Fields.Scores),
		"lists", len(report.Fields.Lists), "charts", len(report.Charts))
	return report, nil
}

func newReport(id domain.TemplateID, req domain.AnalysisRequest) *domain.Report {
	return &domain.Report{
		ID:        uuid.NewString(),
		Template:  id,
		Request:   req,
		Fields:    domain.NewExtractedFields(),
		CreatedAt: time.Now().UTC(),
	}
}

// findPhoto never fails: a lookup error or an empty result falls back to
// the placeholder image.
func (s *AnalysisService) findPhoto(ctx context.Context, query string, report *domain.Report) string {
	if s.photos == nil {
		return lookup.PlaceholderPhotoURL
	}
	url, err := s.photos.FindPhoto(ctx, query)
	if err != nil {
		s.logger.Warn("photo lookup failed", "query", query, "error", err)
		report.Warnings = append(report.Warnings, "Could not fetch a photo: "+err.Error())
		return lookup.PlaceholderPhotoURL
	}
	if url == "" {
		return lookup.PlaceholderPhotoURL
	}
	return url
}

// lookupNutrients skips foods the nutrient service does not know.
func (s *AnalysisService) lookupNutrients(ctx context.Context, foods []string, report *domain.Report) []domain.Nutrients {
	if s.nutrients == nil || len(foods) == 0 {
		return nil
	}
	var out []domain.Nutrients
	for _, food := range foods {
		n, err := s.nutrients.Lookup(ctx, food)
		if err != nil {
			s.logger.Warn("nutrient lookup failed", "food", food, "error", err)
			report.Warnings = append(report.Warnings, fmt.Sprintf("No nutrition data for %s: %v", food, err))
			continue
		}
		if n == nil {
			s.logger.Debug("nutrient lookup found nothing", "food", food)
			continue
		}
		out = append(out, *n)
	}
	return out
}

// IngredientQuantity is one row of the quantity safety check.
type IngredientQuantity struct {
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
}

// AnalyzeQuantities makes one generation call per ingredient and charts the
// word count of each answer. Blank ingredient rows are ignored. When the
// caller names the food item, a stock photo of it is attached.
func (s *AnalysisService) AnalyzeQuantities(ctx context.Context, subject string, rows []IngredientQuantity) (*domain.Report, error) {
	var kept []IngredientQuantity
	for _, row := range rows {
		row.Ingredient = strings.TrimSpace(row.Ingredient)
		row.Quantity = strings.TrimSpace(row.Quantity)
		if row.Ingredient != "" {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoIngredients
	}

	items := make([]string, len(kept))
	names := make([]string, len(kept))
	for i, row := range kept {
		names[i] = row.Ingredient
		items[i] = row.Ingredient + ": " + row.Quantity
	}
	subject = strings.TrimSpace(subject)
	named := subject != ""
	if !named {
		subject = strings.Join(names, ", ")
	}

	report := newReport(domain.TemplateIngredientQuantity, domain.AnalysisRequest{SubjectText: subject, Items: items})
	if named {
		report.PhotoURL = s.findPhoto(ctx, subject, report)
	}
	var raw []string
	for _, row := range kept {
		sub, err := s.run(ctx, domain.TemplateIngredientQuantity, domain.AnalysisRequest{
			SubjectText: row.Ingredient,
			Items:       []string{row.Quantity},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to analyze %s: %w", row.Ingredient, err)
		}
		report.Sections = append(report.Sections, domain.Section{Title: row.Ingredient, RawText: sub.RawText})
		report.Fields.Scores[row.Ingredient] = sub.Fields.Scores[extract.KeyWords]
		raw = append(raw, "## "+row.Ingredient+"\n"+sub.RawText)
	}
	report.RawText = strings.Join(raw, "\n\n")
	report.Charts = []domain.Chart{chart.SafetyBars(names, report.Fields.Scores)}

	s.save(ctx, report)
	return report, nil
}

// AnalyzeLabelPhoto reads the ingredient list off a label photo and runs the
// ingredient analysis on the extracted text.
func (s *AnalysisService) AnalyzeLabelPhoto(ctx context.Context, filename string, data []byte) (*domain.Report, error) {
	if len(data) == 0 {
		return nil, lookup.ErrEmptyImage
	}
	if s.ocr == nil {
		return nil, fmt.Errorf("%w: ocr", ErrLookupUnavailable)
	}

	s.logger.Info("ocr started", "filename", filename, "bytes", len(data))
	text, err := s.ocr.ExtractText(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read label: %w", ErrLookupFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: failed to read label: %w", ErrLookupFailed, lookup.ErrNoText)
	}
	s.logger.Info("ocr complete", "chars", len(text))

	report, err := s.run(ctx, domain.TemplateIngredientOCR, domain.AnalysisRequest{SubjectText: text})
	if err != nil {
		return nil, err
	}
	report.PhotoKey = s.keepPhoto(ctx, "label", photostore.MIMEForKey(filename), data, report)
	s.save(ctx, report)
	return report, nil
}

// AnalyzeFoodPhoto names the dish in a photo with the classifier, then
// scores it like a typed-in food.
func (s *AnalysisService) AnalyzeFoodPhoto(ctx context.Context, data []byte) (*domain.Report, error) {
	if len(data) == 0 {
		return nil, lookup.ErrEmptyImage
	}
	if s.classifier == nil {
		return nil, fmt.Errorf("%w: classifier", ErrLookupUnavailable)
	}

	img, err := classifier.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableImage, err)
	}
	label, confidence, err := s.classifier.Classify(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to classify photo: %w", ErrLookupFailed, err)
	}
	dish := classifier.DisplayName(label)
	s.logger.Info("food photo classified", "label", label, "confidence", confidence)

	report, err := s.run(ctx, domain.TemplateFoodImageScore, domain.AnalysisRequest{SubjectText: dish})
	if err != nil {
		return nil, err
	}
	report.Fields.Labels["dish"] = dish
	report.Fields.Labels["confidence"] = fmt.Sprintf("%.2f", confidence)
	mimeType, _ := photostore.DetectImageMIME(data)
	report.PhotoKey = s.keepPhoto(ctx, "dish", mimeType, data, report)
	s.save(ctx, report)
	return report, nil
}

// keepPhoto stores an uploaded photo alongside the report. Storage failures
// only add a warning.
func (s *AnalysisService) keepPhoto(ctx context.Context, prefix, mimeType string, data []byte, report *domain.Report) string {
	if s.photoStg == nil {
		return ""
	}
	key, err := s.photoStg.Save(ctx, prefix, mimeType, bytes.NewReader(data))
	if err != nil {
		s.logger.Error("failed to save photo", "prefix", prefix, "error", err)
		report.Warnings = append(report.Warnings, "The uploaded photo could not be kept.")
		return ""
	}
	s.logger.Debug("photo saved", "storage_key", key)
	return key
}

// save records a finished report. History is optional; a failure is logged
// and the report is still returned.
func (s *AnalysisService) save(ctx context.Context, report *domain.Report) {
	if s.reports == nil {
		return
	}
	if err := s.reports.Save(ctx, report); err != nil {
		s.logger.Error("failed to save report", "report_id", report.ID, "error", err)
		return
	}
	s.logger.Info("report saved", "report_id", report.ID, "template", report.Template)
}
