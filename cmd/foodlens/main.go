package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/foodlens/internal/config"
	"github.com/vbonduro/foodlens/internal/db"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/generate"
	"github.com/vbonduro/foodlens/internal/logging"
	"github.com/vbonduro/foodlens/internal/lookup/classifier"
	"github.com/vbonduro/foodlens/internal/lookup/nutritionix"
	"github.com/vbonduro/foodlens/internal/lookup/ocrspace"
	"github.com/vbonduro/foodlens/internal/lookup/pexels"
	"github.com/vbonduro/foodlens/internal/photostore"
	"github.com/vbonduro/foodlens/internal/photostore/local"
	miniostore "github.com/vbonduro/foodlens/internal/photostore/minio"
	"github.com/vbonduro/foodlens/internal/service"
	"github.com/vbonduro/foodlens/internal/store"
	"github.com/vbonduro/foodlens/internal/web"
	"github.com/vbonduro/foodlens/internal/web/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "analyze" {
		if err := runAnalyze(ctx, cfg, logger, os.Args[2:]); err != nil {
			logger.Error("analysis failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	gen, err := generate.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGenerator(gen, logger)
	logger.Info("using generation backend", "backend", cfg.GenerationBackend)

	photoStg, err := newPhotoStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize photo store: %w", err)
	}

	deps := newLookups(cfg, logger)
	deps.Reports = store.NewReportStore(database)
	deps.PhotoStore = photoStg

	if cfg.ClassifierModel != "" {
		clf, err := classifier.NewOnnxClassifier(cfg.ClassifierModel, cfg.OnnxRuntimeLib, cfg.ClassifierInput, cfg.ClassifierOutput)
		if err != nil {
			logger.Error("food photo classifier disabled", "error", err)
		} else {
			defer func() {
				if err := clf.Close(); err != nil {
					logger.Error("failed to close classifier", "error", err)
				}
			}()
			deps.Classifier = clf
			logger.Info("food photo classifier loaded", "model", cfg.ClassifierModel)
		}
	}

	svc := service.NewAnalysisService(gen, deps, logging.Component(logger, "service"))
	server := web.NewServer(svc, templates.FS, web.Options{
		PhotoStore:  photoStg,
		DB:          database,
		CORSOrigins: cfg.CORSOrigins,
	}, logging.Component(logger, "web"))

	return server.ListenAndServe(ctx, cfg.ListenAddr)
}

func closeGenerator(gen generate.Generator, logger *slog.Logger) {
	if err := generate.Close(gen); err != nil {
		logger.Error("failed to close generator", "error", err)
	}
}

// newLookups wires the optional external lookups that have credentials.
func newLookups(cfg *config.Config, logger *slog.Logger) service.Deps {
	var deps service.Deps
	if cfg.PexelsAPIKey != "" {
		deps.Photos = pexels.NewPexelsFinder(cfg.PexelsAPIKey)
	} else {
		logger.Warn("PEXELS_API_KEY not set, stock photos disabled")
	}
	if cfg.NutritionixAppID != "" && cfg.NutritionixAPIKey != "" {
		deps.Nutrients = nutritionix.NewNutritionixLookup(cfg.NutritionixAppID, cfg.NutritionixAPIKey)
	} else {
		logger.Warn("Nutritionix credentials not set, nutrient charts disabled")
	}
	if cfg.OCRAPIKey != "" {
		deps.OCR = ocrspace.NewOCRSpaceClient(cfg.OCRAPIKey, cfg.OCRLanguage)
	} else {
		logger.Warn("OCR_API_KEY not set, label photos disabled")
	}
	return deps
}

func newPhotoStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (photostore.PhotoStore, error) {
	switch cfg.PhotoBackend {
	case "minio":
		logger.Info("using minio photo store", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
		return miniostore.Connect(ctx, cfg.MinioEndpoint, cfg.MinioRegion, cfg.MinioBucket,
			cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	case "local", "":
		logger.Info("using local photo store", "path", cfg.PhotoPath)
		return local.NewLocalPhotoStore(cfg.PhotoPath)
	default:
		return nil, fmt.Errorf("unknown photo backend %q", cfg.PhotoBackend)
	}
}

// runAnalyze runs one text pipeline and prints the report as JSON. Nothing
// is written to the report history.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	tmpl := fs.String("template", string(domain.TemplateFoodRisk), "prompt template id")
	subject := fs.String("subject", "", "food, ingredient list or condition to analyze")
	category := fs.String("category", "", "consumption frequency (food_risk only)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: foodlens analyze -template ID -subject TEXT [item ...]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	gen, err := generate.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGenerator(gen, logger)
	svc := service.NewAnalysisService(gen, newLookups(cfg, logger), logging.Component(logger, "service"))

	report, err := svc.Analyze(ctx, domain.TemplateID(*tmpl), domain.AnalysisRequest{
		SubjectText: *subject,
		Items:       fs.Args(),
		Category:    domain.ParseFrequency(*category),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
