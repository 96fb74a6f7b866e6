package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/docu-learn/internal/ai"
)

const (
	DefaultAddr              = ":8080"
	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultGenerationTimeout = 120 * time.Second
	DefaultSessionTTL        = 2 * time.Hour
	DefaultMaxUploadMB       = 10
)

type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
		MaxUploadMB int      `yaml:"max_upload_mb"`
	} `yaml:"server"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
		Timeout  string `yaml:"timeout"`
		// OCR enables model-based text extraction for scanned PDFs.
		OCR *bool `yaml:"ocr"`
	} `yaml:"ai"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Session struct {
		TTL string `yaml:"ttl"`
	} `yaml:"session"`
}

// Load reads YAML config from path, applies environment overrides and fills
// defaults. A missing file is not an error; an empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, errors.Wrapf(err, "read config %s", path)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = envOr("DOCULEARN_ADDR", c.Server.Addr)
	if origins := csvOr("DOCULEARN_CORS_ORIGINS", ""); len(origins) > 0 {
		c.Server.CORSOrigins = origins
	}
	c.AI.Provider = envOr("DOCULEARN_AI_PROVIDER", c.AI.Provider)
	c.AI.Model = envOr("DOCULEARN_AI_MODEL", c.AI.Model)
	switch strings.ToLower(c.AI.Provider) {
	case ai.ProviderOpenRouter:
		c.AI.APIKey = envOr("OPENROUTER_API_KEY", c.AI.APIKey)
	default:
		c.AI.APIKey = envOr("GOOGLE_API_KEY", c.AI.APIKey)
	}
	c.Redis.Addr = envOr("REDIS_ADDR", c.Redis.Addr)
	c.Redis.DB = envInt("REDIS_DB", c.Redis.DB)
	c.Server.MaxUploadMB = envInt("DOCULEARN_MAX_UPLOAD_MB", c.Server.MaxUploadMB)
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = DefaultMaxUploadMB
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.AI.Provider == "" {
		c.AI.Provider = ai.ProviderGemini
	}
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if c.AI.Model == "" && c.AI.Provider == ai.ProviderGemini {
		c.AI.Model = DefaultGeminiModel
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var result *multierror.Error
	switch c.AI.Provider {
	case ai.ProviderGemini, ai.ProviderOpenRouter:
	default:
		result = multierror.Append(result, errors.Errorf("ai.provider: unsupported provider %q", c.AI.Provider))
	}
	if c.AI.APIKey == "" {
		result = multierror.Append(result, errors.Errorf("ai.api_key: required for provider %q", c.AI.Provider))
	}
	if c.AI.Model == "" {
		result = multierror.Append(result, errors.New("ai.model: required"))
	}
	if err := checkDuration(c.AI.Timeout); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "ai.timeout"))
	}
	if err := checkDuration(c.Session.TTL); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "session.ttl"))
	}
	if c.Server.MaxUploadMB < 0 {
		result = multierror.Append(result, errors.Errorf("server.max_upload_mb: must be positive, got %d", c.Server.MaxUploadMB))
	}
	return result.ErrorOrNil()
}

// GenerationTimeout bounds each model call.
func (c Config) GenerationTimeout() time.Duration {
	return TTLDuration(c.AI.Timeout, DefaultGenerationTimeout)
}

func (c Config) SessionTTL() time.Duration {
	return TTLDuration(c.Session.TTL, DefaultSessionTTL)
}

func (c Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// OCREnabled defaults to true for providers that accept PDF attachments.
func (c Config) OCREnabled() bool {
	if c.AI.OCR != nil {
		return *c.AI.OCR
	}
	return c.AI.Provider == ai.ProviderGemini
}

func (c Config) ProviderConfig() ai.ProviderConfig {
	return ai.ProviderConfig{
		Provider: c.AI.Provider,
		APIKey:   c.AI.APIKey,
		Model:    c.AI.Model,
		BaseURL:  c.AI.BaseURL,
		Timeout:  c.GenerationTimeout(),
	}
}

// TTLDuration parses a duration string or returns the fallback if empty or invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}

func checkDuration(raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.Errorf("must be positive, got %s", raw)
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	raw := envOr(k, def)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}
