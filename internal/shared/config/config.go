package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	InputDir  string
	OutputDir string

	ChunkSize   int
	WorkerLimit int
	SkipLimit   int

	RequiredKeywords []string
	OptionalKeywords []string
	ExcludedKeywords []string
	MatchingMode     string
	MatchThreshold   int

	SkillsFile string

	DuplicateExactThreshold   int
	DuplicateFuzzyThreshold   int
	DuplicatePartialThreshold int

	OrganizeFiles       bool
	OrganizeDateFolders bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env")

	return Config{
		Port:        getEnv("PORT", "8080"),
		Env:         normalizeEnv(getEnv("ENV", "dev")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		InputDir:  getEnv("CV_INPUT_DIR", "./data/input"),
		OutputDir: getEnv("CV_OUTPUT_DIR", "./data/output"),

		ChunkSize:   getEnvInt("CV_CHUNK_SIZE", 10),
		WorkerLimit: getEnvInt("CV_WORKER_LIMIT", 0),
		SkipLimit:   getEnvInt("CV_SKIP_LIMIT", 50),

		RequiredKeywords: splitAndTrim(getEnv("CV_KEYWORDS_REQUIRED", "java,spring")),
		OptionalKeywords: splitAndTrim(getEnv("CV_KEYWORDS_OPTIONAL", "aws,docker,microservices")),
		ExcludedKeywords: splitAndTrim(getEnv("CV_KEYWORDS_EXCLUDED", "intern,internship,fresher")),
		MatchingMode:     getEnv("CV_MATCHING_MODE", "AND"),
		MatchThreshold:   getEnvInt("CV_MATCHING_THRESHOLD", 70),

		SkillsFile: getEnv("CV_SKILLS_FILE", ""),

		DuplicateExactThreshold:   getEnvInt("CV_DUPLICATE_THRESHOLD_EXACT", 95),
		DuplicateFuzzyThreshold:   getEnvInt("CV_DUPLICATE_THRESHOLD_FUZZY", 85),
		DuplicatePartialThreshold: getEnvInt("CV_DUPLICATE_THRESHOLD_PARTIAL", 75),

		OrganizeFiles:       getEnvBool("CV_FILE_ORGANIZATION_ENABLED", true),
		OrganizeDateFolders: getEnvBool("CV_FILE_ORGANIZATION_DATE_FOLDERS", true),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
