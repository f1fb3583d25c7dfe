package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Data layout. ChatDir, MediaDir and ChartDir live under DataDir;
	// LedgerPath is the SQLite file holding the finance data.
	DataDir    string
	ChatDir    string
	MediaDir   string
	ChartDir   string
	LedgerPath string

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int

	// Chat endpoint rate limit (requests per minute per IP)
	ChatRateLimit int

	// Seed the ledger with demo data on first run
	SeedDemoData bool
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	dataDir := getEnvOrDefault("DATA_DIR", "./data")

	cfg := &Config{
		Port:       getEnvOrDefault("PORT", "8080"),
		Env:        getEnvOrDefault("ENV", "development"),
		DataDir:    dataDir,
		ChatDir:    filepath.Join(dataDir, "chats"),
		MediaDir:   filepath.Join(dataDir, "media"),
		ChartDir:   filepath.Join(dataDir, "charts"),
		LedgerPath: filepath.Join(dataDir, "ledger.db"),

		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),

		ChatRateLimit: getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 30),
		SeedDemoData:  getEnvAsBoolOrDefault("SEED_DEMO_DATA", true),
	}

	return cfg
}

// EnsureDirs creates the on-disk layout the store and handlers expect.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.ChatDir, c.MediaDir, c.ChartDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
