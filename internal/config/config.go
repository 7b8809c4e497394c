package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	DBName      string
	Port        string
	GinMode     string
	CORSOrigins []string

	// Auth
	AccessSecret  string
	RefreshSecret string
	BcryptCost    int

	// Gemini
	GeminiAPIKey string
	GeminiModel  string
	GeminiTier   string

	// Upload handling
	MaxFileSize         int64
	SyncProcessingLimit int64
	AllowedTypes        []string
	UploadStagingDir    string

	// Relevance scoring knobs; defaults mirror internal/relevance.DefaultConfig.
	ScoreWordWeight     int
	ScorePhraseWeight   int
	ScoreFilenameWeight int
	ScorePDFBonus       int
	ScoreMinScore       int
	Stopwords           []string

	// Fallback context assembly
	FallbackMaxDocs   int
	FallbackPrefixLen int

	// Chat context augmentation
	SimilarQuestionLimit int
	SessionHistoryLimit  int

	// Redis
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Retention job: Q&A records older than this many days are pruned.
	QARetentionDays int
	RetentionCron   string

	// Telemetry
	OTLPEndpoint   string
	TracingEnabled bool
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/bilgin"),
		DBName:      getEnv("DB_NAME", "bilgin"),
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),

		AccessSecret:  getEnv("ACCESS_SECRET", ""),
		RefreshSecret: getEnv("REFRESH_SECRET", ""),
		BcryptCost:    getEnvInt("BCRYPT_COST", 12),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTier:   getEnv("GEMINI_TIER", "free"),

		MaxFileSize:         getEnvInt64("MAX_FILE_SIZE", 52428800),         // 50MB
		SyncProcessingLimit: getEnvInt64("SYNC_PROCESSING_LIMIT", 10485760), // 10MB; larger files go to the worker
		AllowedTypes: strings.Split(getEnv("ALLOWED_FILE_TYPES",
			"application/pdf,application/vnd.openxmlformats-officedocument.wordprocessingml.document,text/plain"), ","),
		UploadStagingDir: getEnv("UPLOAD_STAGING_DIR", "/tmp/bilgin-uploads"),

		ScoreWordWeight:     getEnvInt("SCORE_WORD_WEIGHT", 2),
		ScorePhraseWeight:   getEnvInt("SCORE_PHRASE_WEIGHT", 1),
		ScoreFilenameWeight: getEnvInt("SCORE_FILENAME_WEIGHT", 3),
		ScorePDFBonus:       getEnvInt("SCORE_PDF_BONUS", 0),
		ScoreMinScore:       getEnvInt("SCORE_MIN_SCORE", 2),
		Stopwords:           splitNonEmpty(getEnv("STOPWORDS", "")),

		FallbackMaxDocs:   getEnvInt("FALLBACK_MAX_DOCS", 2),
		FallbackPrefixLen: getEnvInt("FALLBACK_PREFIX_LEN", 1000),

		SimilarQuestionLimit: getEnvInt("SIMILAR_QUESTION_LIMIT", 3),
		SessionHistoryLimit:  getEnvInt("SESSION_HISTORY_LIMIT", 5),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		QARetentionDays: getEnvInt("QA_RETENTION_DAYS", 180),
		RetentionCron:   getEnv("RETENTION_CRON", "0 4 * * *"),

		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
	}

	// Validate required fields
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("ACCESS_SECRET is required - set it in .env file")
	}

	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("REFRESH_SECRET is required - set it in .env file")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	return cfg, nil
}

func splitNonEmpty(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
