package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every configuration section of the service.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Embedding EmbeddingConfig
	Vector    VectorConfig
	Session   SessionConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	vector, err := loadVectorConfig()
	if err != nil {
		return nil, err
	}

	sess, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		AI:        ai,
		Embedding: loadEmbeddingConfig(),
		Vector:    vector,
		Session:   sess,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the DeepSeek completion provider.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Retries     *int
	TimeoutMs   *int
	Temperature *float64
	MaxTokens   *int
}

// Enabled reports whether the completion credential is configured.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadAIConfig() (AIConfig, error) {
	retries, err := parseOptionalIntEnv("AI_RETRIES")
	if err != nil {
		return AIConfig{}, err
	}

	timeoutMs, err := parseOptionalIntEnv("AI_TIMEOUT_MS")
	if err != nil {
		return AIConfig{}, err
	}

	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")),
		BaseURL:     getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		Model:       getEnvOrDefault("DEEPSEEK_MODEL", "deepseek-chat"),
		Retries:     retries,
		TimeoutMs:   timeoutMs,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

// EmbeddingConfig describes the OpenAI-compatible embedding provider.
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Enabled reports whether the embedding credential is configured.
func (c EmbeddingConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:   getEnvOrDefault("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		Timeout: 15 * time.Second,
	}
}

// Vector backends selectable via VECTOR_BACKEND.
const (
	VectorBackendMemory = "memory"
	VectorBackendChroma = "chroma"
)

// VectorConfig selects the vector store backend.
type VectorConfig struct {
	Backend   string
	ChromaURL string
	Timeout   time.Duration
}

func loadVectorConfig() (VectorConfig, error) {
	backend := getEnvOrDefault("VECTOR_BACKEND", VectorBackendMemory)
	switch backend {
	case VectorBackendMemory, VectorBackendChroma:
	default:
		return VectorConfig{}, fmt.Errorf("invalid VECTOR_BACKEND value: %q", backend)
	}

	return VectorConfig{
		Backend:   backend,
		ChromaURL: getEnvOrDefault("CHROMA_URL", "http://localhost:8000"),
		Timeout:   10 * time.Second,
	}, nil
}

// SessionConfig bounds registry growth.
type SessionConfig struct {
	MaxSessions int
}

func loadSessionConfig() (SessionConfig, error) {
	max, err := parseOptionalIntEnv("SESSION_MAX")
	if err != nil {
		return SessionConfig{}, err
	}

	cfg := SessionConfig{MaxSessions: 1000}
	if max != nil && *max >= 1 {
		cfg.MaxSessions = *max
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
