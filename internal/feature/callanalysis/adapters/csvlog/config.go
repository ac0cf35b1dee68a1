package csvlog

import "os"

// DefaultPath is the log destination used when CSV_PATH is not set.
const DefaultPath = "call_analysis.csv"

// Config holds the destination of the analysis log.
type Config struct {
	Path string // CSV file path, created lazily on first append
}

// LoadConfig loads the log destination from environment variables.
func LoadConfig() Config {
	path := os.Getenv("CSV_PATH")
	if path == "" {
		path = DefaultPath
	}
	return Config{Path: path}
}
