// Package config loads application configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// QdrantConfig contains connection details for the vector store.
type QdrantConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// ChunkerConfig configures chunk sizing.
type ChunkerConfig struct {
	MaxSize int `yaml:"max_size"`
	Overlap int `yaml:"overlap"`
}

// GitConfig configures the repository fetcher.
type GitConfig struct {
	CloneTimeoutSecs int `yaml:"clone_timeout_secs"`
}

// Config is the root application configuration.
type Config struct {
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Git       GitConfig       `yaml:"git"`
	Profiles  string          `yaml:"profiles"`
}

// Load reads the config at path, falling back to defaults when the file does
// not exist. Environment variables QDRANT_HOST and QDRANT_PORT override the
// file on top.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		applyDefaults(cfg)
	}

	cfg.Qdrant.Host = getEnv("QDRANT_HOST", cfg.Qdrant.Host)
	cfg.Qdrant.Port = getEnvInt("QDRANT_PORT", cfg.Qdrant.Port)

	return cfg, nil
}

// CloneTimeout returns the clone timeout as a duration.
func (c *Config) CloneTimeout() time.Duration {
	return time.Duration(c.Git.CloneTimeoutSecs) * time.Second
}

func defaults() *Config {
	return &Config{
		Qdrant:    QdrantConfig{Host: "localhost", Port: 6334},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small", Dimension: 1536, BatchSize: 500},
		Chunker:   ChunkerConfig{MaxSize: 1500, Overlap: 200},
		Git:       GitConfig{CloneTimeoutSecs: 300},
	}
}

func applyDefaults(cfg *Config) {
	def := defaults()
	if cfg.Qdrant.Host == "" {
		cfg.Qdrant.Host = def.Qdrant.Host
	}
	if cfg.Qdrant.Port == 0 {
		cfg.Qdrant.Port = def.Qdrant.Port
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = def.Embedding.Model
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = def.Embedding.Dimension
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = def.Embedding.BatchSize
	}
	if cfg.Chunker.MaxSize == 0 {
		cfg.Chunker.MaxSize = def.Chunker.MaxSize
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = def.Chunker.Overlap
	}
	if cfg.Git.CloneTimeoutSecs == 0 {
		cfg.Git.CloneTimeoutSecs = def.Git.CloneTimeoutSecs
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return fallback
}
