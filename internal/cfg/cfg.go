// Package cfg loads service configuration from a YAML file with
// environment-variable overrides, falling back to pure environment
// configuration when no file is given.
package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	Host         string
	Port         int
	ModelPath    string
	DataPath     string // prediction history dir, empty disables persistence
	HistoryLimit int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogLevel     string
}

type ConfigFile struct {
	Server struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		ReadTimeout  string `yaml:"readTimeout"`
		WriteTimeout string `yaml:"writeTimeout"`
	} `yaml:"server"`

	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`

	System struct {
		DataPath     string `yaml:"dataPath"`
		HistoryLimit int    `yaml:"historyLimit"`
		LogLevel     string `yaml:"logLevel"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	readTimeout, err := time.ParseDuration(config.Server.ReadTimeout)
	if err != nil {
		readTimeout = 10 * time.Second
	}
	writeTimeout, err := time.ParseDuration(config.Server.WriteTimeout)
	if err != nil {
		writeTimeout = 10 * time.Second
	}

	settings := Settings{
		Host:         getEnvOrDefault("HOST", config.Server.Host),
		Port:         getIntFromEnvOrConfig("PORT", config.Server.Port),
		ModelPath:    getEnvOrDefault("MODEL_PATH", config.Model.Path),
		DataPath:     getEnvOrDefault("DATA_PATH", config.System.DataPath),
		HistoryLimit: getIntFromEnvOrConfig("HISTORY_LIMIT", config.System.HistoryLimit),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		LogLevel:     getEnvOrDefault("LOG_LEVEL", config.System.LogLevel),
	}
	applyDefaults(&settings)

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		Host:         getEnvOrDefault("HOST", "0.0.0.0"),
		Port:         getIntOrDefault("PORT", 8080),
		ModelPath:    getEnvOrDefault("MODEL_PATH", "model.json"),
		DataPath:     os.Getenv("DATA_PATH"), // optional
		HistoryLimit: getIntOrDefault("HISTORY_LIMIT", 100),
		ReadTimeout:  getDurationOrDefault("READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getDurationOrDefault("WRITE_TIMEOUT", 10*time.Second),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func applyDefaults(s *Settings) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ModelPath == "" {
		s.ModelPath = "model.json"
	}
	if s.HistoryLimit == 0 {
		s.HistoryLimit = 100
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	return configValue
}

// validateSettings performs range validation of configuration values.
func validateSettings(settings *Settings) error {
	if settings.ModelPath == "" {
		return fmt.Errorf("model path cannot be empty")
	}
	if settings.Port < 1 || settings.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", settings.Port)
	}
	if settings.HistoryLimit < 1 || settings.HistoryLimit > 10000 {
		return fmt.Errorf("history limit must be between 1 and 10000, got %d", settings.HistoryLimit)
	}
	if settings.ReadTimeout < time.Second || settings.ReadTimeout > time.Minute {
		return fmt.Errorf("read timeout must be between 1s and 1m, got %v", settings.ReadTimeout)
	}
	if settings.WriteTimeout < time.Second || settings.WriteTimeout > time.Minute {
		return fmt.Errorf("write timeout must be between 1s and 1m, got %v", settings.WriteTimeout)
	}
	switch settings.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", settings.LogLevel)
	}
	return nil
}
