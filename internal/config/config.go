package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Data      DataConfig
	Match     MatchConfig
	Enroll    EnrollConfig
	Embedding EmbeddingConfig
	Database  DatabaseConfig
	Web       WebConfig
}

type DataConfig struct {
	Dir string // directory holding gallery.json, credential.json, attendance.json
}

// GalleryPath returns the path of the gallery file.
func (c *DataConfig) GalleryPath() string {
	return filepath.Join(c.Dir, "gallery.json")
}

// CredentialPath returns the path of the admin credential file.
func (c *DataConfig) CredentialPath() string {
	return filepath.Join(c.Dir, "credential.json")
}

// AttendancePath returns the path of the attendance journal file.
func (c *DataConfig) AttendancePath() string {
	return filepath.Join(c.Dir, "attendance.json")
}

type MatchConfig struct {
	Threshold float64 // maximum accepted distance, strict comparison
	HNSW      bool    // use the index-backed matcher instead of the full scan
}

type EnrollConfig struct {
	MaxSamples int // per-identity sample cap, 0 = unlimited
}

type EmbeddingConfig struct {
	URL   string // embedding server base URL; image endpoints disabled when empty
	Model string // model label passed through to the server
}

type DatabaseConfig struct {
	URL          string // PostgreSQL URL; when set the gallery lives there instead of the JSON file
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type WebConfig struct {
	Host string
	Port int
}

// matchDefaults mirrors the embedded defaults.yaml layout.
type matchDefaults struct {
	Match struct {
		Threshold float64 `yaml:"threshold"`
		HNSW      bool    `yaml:"hnsw"`
	} `yaml:"match"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean, defaulting when unset
// or unparsable.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

func Load() *Config {
	var defaults matchDefaults
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// Embedded file, so this can only happen on a broken build.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	dataDir := os.Getenv("FACEATTEND_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	return &Config{
		Data: DataConfig{
			Dir: dataDir,
		},
		Match: MatchConfig{
			Threshold: envFloat("MATCH_THRESHOLD", defaults.Match.Threshold),
			HNSW:      envBool("MATCH_HNSW", defaults.Match.HNSW),
		},
		Enroll: EnrollConfig{
			MaxSamples: envInt("ENROLL_MAX_SAMPLES", 0),
		},
		Embedding: EmbeddingConfig{
			URL:   os.Getenv("EMBEDDING_URL"),
			Model: os.Getenv("EMBEDDING_MODEL"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Web: WebConfig{
			Host: envOr("WEB_HOST", "0.0.0.0"),
			Port: envInt("WEB_PORT", 8080),
		},
	}
}

// envOr returns the env var value or the default when unset.
func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
