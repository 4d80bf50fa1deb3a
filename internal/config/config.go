package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr  string   `yaml:"listen_addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	DBPath      string   `yaml:"db_path"`
	LogLevel    string   `yaml:"log_level"`
	LogFile     string   `yaml:"log_file"`

	// Generation backend: gemini, claude, openai, openrouter or ollama.
	GenerationBackend string `yaml:"generation_backend"`
	GeminiAPIKey      string `yaml:"gemini_api_key"`
	GeminiModel       string `yaml:"gemini_model"`
	ClaudeAPIKey      string `yaml:"claude_api_key"`
	ClaudeModel       string `yaml:"claude_model"`
	OpenAIAPIKey      string `yaml:"openai_api_key"`
	OpenAIModel       string `yaml:"openai_model"`
	OpenAIBaseURL     string `yaml:"openai_base_url"`
	OpenRouterAPIKey  string `yaml:"openrouter_api_key"`
	OpenRouterModel   string `yaml:"openrouter_model"`
	OllamaHost        string `yaml:"ollama_host"`
	OllamaModel       string `yaml:"ollama_model"`

	PexelsAPIKey      string `yaml:"pexels_api_key"`
	NutritionixAppID  string `yaml:"nutritionix_app_id"`
	NutritionixAPIKey string `yaml:"nutritionix_api_key"`
	OCRAPIKey         string `yaml:"ocr_api_key"`
	OCRLanguage       string `yaml:"ocr_language"`

	// Classifier is disabled when ClassifierModel is empty.
	ClassifierModel  string `yaml:"classifier_model"`
	OnnxRuntimeLib   string `yaml:"onnxruntime_lib"`
	ClassifierInput  string `yaml:"classifier_input"`
	ClassifierOutput string `yaml:"classifier_output"`

	PhotoBackend   string `yaml:"photo_backend"`
	PhotoPath      string `yaml:"photo_path"`
	MinioEndpoint  string `yaml:"minio_endpoint"`
	MinioAccessKey string `yaml:"minio_access_key"`
	MinioSecretKey string `yaml:"minio_secret_key"`
	MinioBucket    string `yaml:"minio_bucket"`
	MinioRegion    string `yaml:"minio_region"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:        ":8080",
		DBPath:            "/data/foodlens.db",
		LogLevel:          "info",
		GenerationBackend: "gemini",
		GeminiModel:       "gemini-1.5-flash",
		ClaudeModel:       "claude-sonnet-4-5",
		OpenAIModel:       "gpt-4o-mini",
		OpenRouterModel:   "openai/gpt-4o-mini",
		OllamaHost:        "http://localhost:11434",
		OllamaModel:       "llama3.2",
		OCRLanguage:       "eng",
		ClassifierInput:   "input_1",
		ClassifierOutput:  "dense",
		PhotoBackend:      "local",
		PhotoPath:         "/data/photos",
		MinioBucket:       "foodlens",
		MinioRegion:       "us-east-1",
	}
}

// Load builds the configuration once at startup. Values come from defaults,
// then the optional YAML file named by CONFIG_FILE, then environment
// variables (a .env file in the working directory is loaded first if present).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}

	cfg.GenerationBackend = getEnv("GENERATION_BACKEND", cfg.GenerationBackend)
	cfg.GeminiAPIKey = getEnv("GOOGLE_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", cfg.ClaudeAPIKey)
	cfg.ClaudeModel = getEnv("CLAUDE_MODEL", cfg.ClaudeModel)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenRouterAPIKey = getEnv("OPENROUTER_API_KEY", cfg.OpenRouterAPIKey)
	cfg.OpenRouterModel = getEnv("OPENROUTER_MODEL", cfg.OpenRouterModel)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)

	cfg.PexelsAPIKey = getEnv("PEXELS_API_KEY", cfg.PexelsAPIKey)
	cfg.NutritionixAppID = getEnv("NUTRITIONIX_APP_ID", cfg.NutritionixAppID)
	cfg.NutritionixAPIKey = getEnv("NUTRITIONIX_API_KEY", cfg.NutritionixAPIKey)
	cfg.OCRAPIKey = getEnv("OCR_API_KEY", cfg.OCRAPIKey)
	cfg.OCRLanguage = getEnv("OCR_LANGUAGE", cfg.OCRLanguage)

	cfg.ClassifierModel = getEnv("CLASSIFIER_MODEL", cfg.ClassifierModel)
	cfg.OnnxRuntimeLib = getEnv("ONNXRUNTIME_LIB", cfg.OnnxRuntimeLib)
	cfg.ClassifierInput = getEnv("CLASSIFIER_INPUT", cfg.ClassifierInput)
	cfg.ClassifierOutput = getEnv("CLASSIFIER_OUTPUT", cfg.ClassifierOutput)

	cfg.PhotoBackend = getEnv("PHOTO_BACKEND", cfg.PhotoBackend)
	cfg.PhotoPath = getEnv("PHOTO_LOCAL_PATH", cfg.PhotoPath)
	cfg.MinioEndpoint = getEnv("MINIO_ENDPOINT", cfg.MinioEndpoint)
	cfg.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinioAccessKey)
	cfg.MinioSecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinioSecretKey)
	cfg.MinioBucket = getEnv("MINIO_BUCKET", cfg.MinioBucket)
	cfg.MinioRegion = getEnv("MINIO_REGION", cfg.MinioRegion)
	cfg.MinioUseSSL = getEnvBool("MINIO_USE_SSL", cfg.MinioUseSSL)

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
