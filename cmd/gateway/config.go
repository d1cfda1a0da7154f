package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dileep-u-k/coach-gateway/internal/calc"
	"github.com/dileep-u-k/coach-gateway/internal/coach"
	"github.com/dileep-u-k/coach-gateway/internal/intent"
	"github.com/dileep-u-k/coach-gateway/internal/knowledge"
	"github.com/dileep-u-k/coach-gateway/internal/llm"
	"github.com/dileep-u-k/coach-gateway/internal/orchestrator"
)

const defaultConfigPath = "config.yaml"

// AppConfig holds all configuration for the gateway. Secrets and addresses
// come from the environment; tunables come from the YAML file.
type AppConfig struct {
	Port          string
	Providers     []string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KnowledgeURL  string
	KnowledgeKey  string
	ProductURL    string
	ProductKey    string
	LogFormat     string
	LogLevel      slog.Level
	Tunables      Tunables
}

// Tunables is the YAML part of the configuration.
type Tunables struct {
	Generation       GenerationTunables `yaml:"generation"`
	Knowledge        KnowledgeTunables  `yaml:"knowledge"`
	Product          ProductTunables    `yaml:"product"`
	Nutrition        NutritionTunables  `yaml:"nutrition"`
	Intent           IntentTunables     `yaml:"intent"`
	ResponseCacheTTL time.Duration      `yaml:"response_cache_ttl"`
}

type GenerationTunables struct {
	Model       string        `yaml:"model"`
	Temperature *float32      `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

type KnowledgeTunables struct {
	TopK     int           `yaml:"top_k"`
	MinScore float64       `yaml:"min_score"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type ProductTunables struct {
	Timeout time.Duration `yaml:"timeout"`
}

type NutritionTunables struct {
	Formula string `yaml:"formula"`
	// FatPct is a fraction of calories.
	FatPct float64 `yaml:"fat_pct"`
}

// IntentTunables extends the built-in rule table. Rules for an existing tag
// add terms to it.
type IntentTunables struct {
	ExtraRules []intent.Rule `yaml:"extra_rules"`
}

// DefaultConfig returns a configuration with every tunable set.
func DefaultConfig() *AppConfig {
	cfg := &AppConfig{
		Port:      "8080",
		Providers: []string{llm.ProviderGemini},
		LogFormat: "text",
		LogLevel:  slog.LevelInfo,
	}
	t := &cfg.Tunables
	t.Generation.MaxTokens = llm.DefaultMaxTokens
	t.Generation.Timeout = llm.DefaultTimeout
	t.Knowledge.TopK = knowledge.DefaultTopK
	t.Knowledge.MinScore = knowledge.DefaultMinScore
	t.Knowledge.Timeout = coach.DefaultKnowledgeTimeout
	t.Knowledge.CacheTTL = knowledge.DefaultCacheTTL
	t.Product.Timeout = orchestrator.DefaultExternalTimeout
	t.Nutrition.FatPct = calc.DefaultFatPct
	t.ResponseCacheTTL = coach.DefaultResponseCacheTTL
	return cfg
}

// LoadConfig reads the .env file (outside release mode), the environment and
// the YAML tunables. A missing YAML file is only an error when CONFIG_PATH
// names it explicitly.
func LoadConfig() (*AppConfig, error) {
	// In release mode the environment is provided by the container runtime.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := DefaultConfig()
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.KnowledgeURL = os.Getenv("KNOWLEDGE_API_URL")
	cfg.KnowledgeKey = os.Getenv("KNOWLEDGE_API_KEY")
	cfg.ProductURL = os.Getenv("PRODUCT_API_URL")
	cfg.ProductKey = os.Getenv("PRODUCT_API_KEY")
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", cfg.LogFormat))

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	providers, err := parseProviders(getEnv("GENERATION_PROVIDER", strings.Join(cfg.Providers, ",")))
	if err != nil {
		return nil, err
	}
	cfg.Providers = providers

	path, explicit := os.LookupEnv("CONFIG_PATH")
	if !explicit {
		path = defaultConfigPath
	}
	if err := cfg.loadTunables(path, explicit); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTunables overlays the YAML file onto the defaults.
func (cfg *AppConfig) loadTunables(path string, required bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			log.Printf("WARNING: %s not found, using default tunables.", path)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg.Tunables); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	switch calc.Formula(cfg.Tunables.Nutrition.Formula) {
	case "", calc.MifflinStJeor, calc.HarrisBenedict:
	default:
		return fmt.Errorf("unknown nutrition.formula %q", cfg.Tunables.Nutrition.Formula)
	}
	if f := cfg.Tunables.Nutrition.FatPct; f <= 0 || f >= 1 {
		return fmt.Errorf("nutrition.fat_pct must be a fraction between 0 and 1, got %v", f)
	}
	return nil
}

// TargetOptions returns the nutrition defaults for the nutrition tool.
func (cfg *AppConfig) TargetOptions() calc.TargetOptions {
	return calc.TargetOptions{
		Formula: calc.Formula(cfg.Tunables.Nutrition.Formula),
		FatPct:  cfg.Tunables.Nutrition.FatPct,
	}
}

func parseProviders(s string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "":
			continue
		case llm.ProviderGemini, llm.ProviderOpenAI:
			out = append(out, p)
		default:
			return nil, fmt.Errorf("unknown GENERATION_PROVIDER %q", p)
		}
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
