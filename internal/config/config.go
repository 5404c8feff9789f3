package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable, e.g. SPIRALITE_STORAGE_BACKEND.
// Tagged fields also fall back to the unprefixed name, so Cloud Run's PORT
// is honoured.
const Prefix = "SPIRALITE"

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	LLMAuto    = "auto"
	LLMToolkit = "toolkit"
	LLMOpenAI  = "openai"
	LLMVertex  = "vertex"
	LLMMock    = "mock"
)

const (
	StorageAuto      = "auto"
	StorageMemory    = "memory"
	StorageFile      = "file"
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"
)

type Config struct {
	Mode Mode   `envconfig:"MODE" default:"local"`
	Port string `envconfig:"PORT" default:"8080"`

	// Completion backend
	LLMBackend        string        `envconfig:"LLM_BACKEND" default:"auto"`
	UseMockLLM        bool          `envconfig:"USE_MOCK_LLM" default:"false"`
	CompletionURL     string        `envconfig:"COMPLETION_URL" default:"https://toolkit.rork.com/text/llm/"`
	CompletionTimeout time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"60s"`
	OpenAIAPIKey      string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	GCPProjectID string `envconfig:"GCP_PROJECT"`
	GCPLocation  string `envconfig:"GCP_LOCATION" default:"us-central1"`
	ModelName    string `envconfig:"MODEL_NAME" default:"gemini-2.5-flash-lite"`

	// Persistence
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"auto"`
	DataDir        string `envconfig:"DATA_DIR" default:"./data"`
	Namespace      string `envconfig:"NAMESPACE" default:"spiralite-dreams"`
	SQLitePath     string `envconfig:"SQLITE_PATH"`

	// Parser
	ClassifierRules    string `envconfig:"CLASSIFIER_RULES"`
	MinRecoveredLength int    `envconfig:"MIN_RECOVERED_LENGTH" default:"50"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom loads the given dotenv files (missing files are skipped) before
// processing the environment. Variables already set win over file values.
func LoadFrom(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveDefaults normalises enums and derives the "auto" backends from the
// mode: local runs against the toolkit endpoint with a file store, gcp
// against Vertex with Firestore.
func (c *Config) ResolveDefaults() error {
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	switch c.Mode {
	case ModeLocal, ModeGCP:
	case "":
		c.Mode = ModeLocal
	default:
		return fmt.Errorf("unsupported MODE: %s", c.Mode)
	}

	c.LLMBackend = strings.ToLower(strings.TrimSpace(c.LLMBackend))
	if c.UseMockLLM {
		c.LLMBackend = LLMMock
	}
	if c.LLMBackend == "" || c.LLMBackend == LLMAuto {
		c.LLMBackend = LLMToolkit
		if c.Mode == ModeGCP {
			c.LLMBackend = LLMVertex
		}
	}

	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	if c.StorageBackend == "" || c.StorageBackend == StorageAuto {
		c.StorageBackend = StorageFile
		if c.Mode == ModeGCP {
			c.StorageBackend = StorageFirestore
		}
	}

	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "spiralite.db")
	}
	return nil
}

// Validate enforces the settings each selected backend needs.
func (c *Config) Validate() error {
	switch c.LLMBackend {
	case LLMToolkit:
		if c.CompletionURL == "" {
			return fmt.Errorf("%s_COMPLETION_URL must be set for the toolkit backend", Prefix)
		}
	case LLMOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%s_OPENAI_API_KEY must be set for the openai backend", Prefix)
		}
	case LLMVertex:
		if c.GCPProjectID == "" || c.GCPLocation == "" {
			return fmt.Errorf("%s_GCP_PROJECT and %s_GCP_LOCATION must be set for the vertex backend", Prefix, Prefix)
		}
	case LLMMock:
	default:
		return fmt.Errorf("unsupported LLM_BACKEND: %s", c.LLMBackend)
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StorageFile:
		if c.DataDir == "" {
			return fmt.Errorf("%s_DATA_DIR must be set for the file backend", Prefix)
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%s_SQLITE_PATH must be set for the sqlite backend", Prefix)
		}
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("%s_GCP_PROJECT must be set for the firestore backend", Prefix)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND: %s", c.StorageBackend)
	}

	if c.MinRecoveredLength <= 0 {
		return fmt.Errorf("%s_MIN_RECOVERED_LENGTH must be positive", Prefix)
	}
	if c.Port == "" {
		return fmt.Errorf("%s_PORT must be set", Prefix)
	}
	return nil
}
