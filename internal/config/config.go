// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime settings for the chat API server.
type Config struct {
	Port           string
	StorePath      string
	ProxyURL       string
	LLMTimeout     time.Duration
	AllowedOrigins []string
	LogPretty      bool
}

// ProxyConfig holds the runtime settings for the model proxy server.
type ProxyConfig struct {
	Port            string
	UpstreamTimeout time.Duration
	AllowedOrigins  []string
	LogPretty       bool
}

// Load reads the API server configuration, applying defaults for anything
// not set in the environment.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		StorePath:      getEnv("STORE_PATH", "data/kokoro.db"),
		ProxyURL:       getEnv("LLM_PROXY_URL", "http://localhost:8081"),
		LLMTimeout:     getDurationSeconds("LLM_TIMEOUT", 60*time.Second),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"*"}),
		LogPretty:      getBool("LOG_PRETTY", false),
	}
}

// LoadProxy reads the proxy server configuration.
func LoadProxy() ProxyConfig {
	return ProxyConfig{
		Port:            getEnv("PORT", "8081"),
		UpstreamTimeout: getDurationSeconds("UPSTREAM_TIMEOUT", 60*time.Second),
		AllowedOrigins:  getList("ALLOWED_ORIGINS", []string{"*"}),
		LogPretty:       getBool("LOG_PRETTY", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
