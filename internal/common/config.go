package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database     DatabaseConfig
	OCR          OCRConfig
	Oracle       OracleConfig
	Segmentation SegmentationConfig
	Output       OutputConfig
	Log          LogConfig
}

// DatabaseConfig holds database-related configuration. An empty DSN disables persistence.
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// OCRConfig holds page text extraction configuration
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Pdfinfo       string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	Engine        string // "exec" | "gosseract"
	Direct        bool   // try the embedded text layer before shelling out
}

// OracleConfig holds the boundary oracle configuration
type OracleConfig struct {
	Provider               string // "ollama" | "openai" | "anthropic" | "none"
	URL                    string
	Model                  string
	APIKey                 string
	Temperature            float32
	Timeout                time.Duration // per page
	RPS                    float64       // 0 = unlimited
	Retries                int
	MaxConsecutiveFailures int // 0 = never trip
	MaxPromptChars         int
	Proxy                  string
	ProxyUser              string
	ProxyPass              string
}

// SegmentationConfig holds the page loop configuration
type SegmentationConfig struct {
	Locale             string
	PrefetchPages      int
	Strategy           string // "first-page" | "first-found"
	HeuristicEnabled   bool
	HeuristicRulesFile string
}

// OutputConfig holds export configuration
type OutputConfig struct {
	Dir     string
	Formats []string
}

type LogConfig struct {
	Level  string
	Format string // "json" | "text"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM", "pdftoppm"),
			Pdfinfo:       getEnv("PDFINFO", "pdfinfo"),
			Tesseract:     getEnv("TESSERACT", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "por"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			Engine:        getEnv("OCR_ENGINE", "exec"),
			Direct:        getEnvAsBool("OCR_DIRECT", true),
		},
		Oracle: OracleConfig{
			Provider:               getEnv("ORACLE_PROVIDER", "ollama"),
			URL:                    getEnv("ORACLE_URL", ""), // empty: provider default
			Model:                  getEnv("ORACLE_MODEL", "llava"),
			APIKey:                 getEnv("ORACLE_API_KEY", ""),
			Temperature:            getEnvAsFloat32("ORACLE_TEMPERATURE", 0.0),
			Timeout:                getEnvAsDuration("ORACLE_TIMEOUT", 5*time.Minute),
			RPS:                    getEnvAsFloat64("ORACLE_RPS", 0),
			Retries:                getEnvAsInt("ORACLE_RETRIES", 0),
			MaxConsecutiveFailures: getEnvAsInt("ORACLE_MAX_CONSECUTIVE_FAILURES", 0),
			MaxPromptChars:         getEnvAsInt("ORACLE_MAX_PROMPT_CHARS", 4000),
			Proxy:                  getEnv("ORACLE_PROXY", getEnv("HTTPS_PROXY", os.Getenv("HTTP_PROXY"))),
			ProxyUser:              getEnv("ORACLE_PROXY_USER", ""),
			ProxyPass:              getEnv("ORACLE_PROXY_PASS", ""),
		},
		Segmentation: SegmentationConfig{
			Locale:             getEnv("DOCSPLIT_LOCALE", "pt"),
			PrefetchPages:      getEnvAsInt("PREFETCH_PAGES", 1),
			Strategy:           getEnv("CONSOLIDATION_STRATEGY", "first-page"),
			HeuristicEnabled:   getEnvAsBool("HEURISTIC_ENABLED", true),
			HeuristicRulesFile: getEnv("HEURISTIC_RULES_FILE", ""),
		},
		Output: OutputConfig{
			Dir:     getEnv("OUTPUT_DIR", "./output"),
			Formats: getEnvAsList("OUTPUT_FORMATS", []string{"json", "xlsx"}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("ORACLE_PROVIDER", c.Oracle.Provider, OneOf("ollama", "openai", "anthropic", "none"))
	if c.Oracle.Provider != "none" {
		v.Field("ORACLE_MODEL", c.Oracle.Model, Required)
		v.Field("ORACLE_TIMEOUT", c.Oracle.Timeout, NonNegative)
		v.Field("ORACLE_RPS", c.Oracle.RPS, NonNegative)
		v.Field("ORACLE_RETRIES", c.Oracle.Retries, NonNegative)
		v.Field("ORACLE_MAX_CONSECUTIVE_FAILURES", c.Oracle.MaxConsecutiveFailures, NonNegative)
	}
	if c.Oracle.Provider == "anthropic" {
		v.Field("ORACLE_API_KEY", c.Oracle.APIKey, Required)
	}
	v.Field("OCR_ENGINE", c.OCR.Engine, OneOf("exec", "gosseract"))
	v.Field("OCR_DPI", c.OCR.DPI, Positive)
	v.Field("DOCSPLIT_LOCALE", c.Segmentation.Locale, OneOf("pt", "en"))
	v.Field("PREFETCH_PAGES", c.Segmentation.PrefetchPages, NonNegative)
	v.Field("CONSOLIDATION_STRATEGY", c.Segmentation.Strategy, OneOf("first-page", "first-found"))
	v.Field("OUTPUT_DIR", c.Output.Dir, Required)
	for _, f := range c.Output.Formats {
		v.Field("OUTPUT_FORMATS", f, OneOf("json", "xlsx"))
	}
	v.Field("LOG_FORMAT", c.Log.Format, OneOf("json", "text"))
	return ValidateAndReturnError(v)
}
