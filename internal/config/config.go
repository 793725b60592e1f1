package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	AI        AIConfig        `yaml:"ai"`
	Speech    GoogleAPIConfig `yaml:"speech"`
	Translate GoogleAPIConfig `yaml:"translate"`
	Upload    UploadConfig    `yaml:"upload"`
	Languages LanguagesConfig `yaml:"languages"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	// Mode is "http" or "stdio".
	Mode string `yaml:"mode"`
}

// DBConfig selects the storage backend. An empty Path keeps everything in
// process memory.
type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AIConfig struct {
	APIKey            string        `yaml:"api_key"`
	Model             string        `yaml:"model"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// GoogleAPIConfig configures the speech and translation gateways. An empty
// APIKey falls back to the AI key.
type GoogleAPIConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

type LanguagesConfig struct {
	// Voice lists BCP 47 codes accepted for spoken input.
	Voice []string `yaml:"voice"`
	// Programming maps language keys to display names.
	Programming map[string]string `yaml:"programming"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Log: LogConfig{
			Level: "info",
		},
		AI: AIConfig{
			Model:             "gemini-1.5-flash",
			Timeout:           60 * time.Second,
			RequestsPerMinute: 60,
		},
		Speech: GoogleAPIConfig{
			Timeout: 30 * time.Second,
		},
		Translate: GoogleAPIConfig{
			Timeout: 15 * time.Second,
		},
		Upload: UploadConfig{
			MaxBytes: 16 << 20,
		},
		Languages: LanguagesConfig{
			Voice: []string{"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh", "hi", "ar", "ta", "ml", "te"},
			Programming: map[string]string{
				"python":     "Python",
				"javascript": "JavaScript",
				"java":       "Java",
				"c":          "C",
				"cpp":        "C++",
				"html":       "HTML/CSS/JS",
				"sql":        "SQL",
				"bash":       "Bash",
			},
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// path overrides V2C_CONFIG_PATH when non-empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("V2C_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = cfg.AI.APIKey
	}
	if cfg.Translate.APIKey == "" {
		cfg.Translate.APIKey = cfg.AI.APIKey
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("invalid upload max_bytes %d", c.Upload.MaxBytes)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("V2C_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("V2C_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid V2C_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("V2C_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("V2C_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("V2C_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("V2C_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if key := os.Getenv("V2C_AI_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = key
	}
	if model := os.Getenv("V2C_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if key := os.Getenv("V2C_SPEECH_API_KEY"); key != "" {
		cfg.Speech.APIKey = key
	}
	if key := os.Getenv("V2C_TRANSLATE_API_KEY"); key != "" {
		cfg.Translate.APIKey = key
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
