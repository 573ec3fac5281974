// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Corpus, Tokenizer, BM25, Ranking, Cache, Analytics, RunStore, etc.).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can use strings like "10m".
type Duration time.Duration

// UnmarshalYAML accepts either a duration string or an integer nanosecond
// count.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("parsing duration: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level application configuration.
type Config struct {
	Corpus      CorpusConfig       `yaml:"corpus"`
	Tokenizer   TokenizerConfig    `yaml:"tokenizer"`
	BM25        BM25Config         `yaml:"bm25"`
	Ranking     RankingConfig      `yaml:"ranking"`
	Experiments []ExperimentConfig `yaml:"experiments"`
	Cache       CacheConfig        `yaml:"cache"`
	Redis       RedisConfig        `yaml:"redis"`
	Analytics   AnalyticsConfig    `yaml:"analytics"`
	Kafka       KafkaConfig        `yaml:"kafka"`
	RunStore    RunStoreConfig     `yaml:"runStore"`
	Postgres    PostgresConfig     `yaml:"postgres"`
	Logging     LoggingConfig      `yaml:"logging"`
	Metrics     MetricsConfig      `yaml:"metrics"`
}

// CorpusConfig names the input files for a retrieval run.
type CorpusConfig struct {
	Documents string `yaml:"documents"`
	Queries   string `yaml:"queries"`
	Stopwords string `yaml:"stopwords"`
}

// TokenizerConfig controls text normalisation. Stemming is an explicit
// toggle: when disabled, tokens pass through unstemmed.
type TokenizerConfig struct {
	Stemming bool `yaml:"stemming"`
}

// BM25Config holds the ranking-function parameters.
type BM25Config struct {
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`
}

// RankingConfig controls result depth, query selection, and parallelism.
// QueryFilter is a caller-level experiment policy ("odd", "even", or "all"),
// not a property of the scorer.
type RankingConfig struct {
	TopK        int    `yaml:"topK"`
	QueryFilter string `yaml:"queryFilter"`
	Workers     int    `yaml:"workers"`
}

// ExperimentConfig describes one retrieval run over the corpus. FullText
// selects title+body indexing; false indexes titles only.
type ExperimentConfig struct {
	RunTag   string `yaml:"runTag"`
	FullText bool   `yaml:"fullText"`
	Output   string `yaml:"output"`
}

// CacheConfig enables the Redis ranked-result cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int      `yaml:"poolSize"`
	CacheTTL Duration `yaml:"cacheTTL"`
}

// AnalyticsConfig enables publishing of per-query ranking events.
type AnalyticsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// KafkaConfig holds Kafka broker and topic settings for analytics events.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// RunStoreConfig enables the Postgres experiment-history store.
type RunStoreConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int      `yaml:"maxOpenConns"`
	MaxIdleConns    int      `yaml:"maxIdleConns"`
	ConnMaxLifetime Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server exposed during long
// indexing runs.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.BM25.K1 < 0 {
		return fmt.Errorf("bm25.k1 must be non-negative, got %g", c.BM25.K1)
	}
	if c.BM25.B < 0 || c.BM25.B > 1 {
		return fmt.Errorf("bm25.b must be in [0,1], got %g", c.BM25.B)
	}
	if c.Ranking.TopK <= 0 {
		return fmt.Errorf("ranking.topK must be positive, got %d", c.Ranking.TopK)
	}
	switch c.Ranking.QueryFilter {
	case "odd", "even", "all":
	default:
		return fmt.Errorf("ranking.queryFilter must be odd, even, or all, got %q", c.Ranking.QueryFilter)
	}
	if len(c.Experiments) == 0 {
		return fmt.Errorf("at least one experiment must be configured")
	}
	for i, exp := range c.Experiments {
		if exp.RunTag == "" {
			return fmt.Errorf("experiment %d: runTag must not be empty", i)
		}
		if exp.Output == "" {
			return fmt.Errorf("experiment %d (%s): output must not be empty", i, exp.RunTag)
		}
	}
	return nil
}

// defaultConfig returns a Config matching the reference scifact experiment
// setup: BM25 with k1=1.2 b=0.75, top-100 results, odd-numbered queries,
// a title-only run and a full-text run.
func defaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Documents: "scifact/corpus.jsonl",
			Queries:   "scifact/queries.jsonl",
			Stopwords: "stopwords.html",
		},
		Tokenizer: TokenizerConfig{
			Stemming: true,
		},
		BM25: BM25Config{
			K1: 1.2,
			B:  0.75,
		},
		Ranking: RankingConfig{
			TopK:        100,
			QueryFilter: "odd",
			Workers:     4,
		},
		Experiments: []ExperimentConfig{
			{RunTag: "BM25_TitleOnly_Run", FullText: false, Output: "Results_TitleOnly.txt"},
			{RunTag: "BM25_FullText_Run", FullText: true, Output: "Results_FullText.txt"},
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 10,
			CacheTTL: Duration(10 * time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "ranking-events",
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "retrieval",
			User:            "retrieval",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: Duration(5 * time.Minute),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads IR_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IR_CORPUS_DOCUMENTS"); v != "" {
		cfg.Corpus.Documents = v
	}
	if v := os.Getenv("IR_CORPUS_QUERIES"); v != "" {
		cfg.Corpus.Queries = v
	}
	if v := os.Getenv("IR_CORPUS_STOPWORDS"); v != "" {
		cfg.Corpus.Stopwords = v
	}
	if v := os.Getenv("IR_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("IR_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("IR_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("IR_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("IR_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("IR_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("IR_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("IR_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("IR_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("IR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("IR_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("IR_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
