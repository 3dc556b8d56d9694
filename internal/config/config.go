package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataFile        string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	CacheSize        int
	HeaderSearchRows int
	RequiredColumns  []string

	VocabularyFile string
	Vocabulary     domain.Vocabulary

	// Kafka snapshot publishing.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("CACHE_SIZE", 128)
	if err != nil {
		return nil, err
	}

	headerRows, err := parsePositiveInt("HEADER_SEARCH_ROWS", 20)
	if err != nil {
		return nil, err
	}

	vocabFile := os.Getenv("VOCABULARY_FILE")
	vocab := domain.DefaultVocabulary()
	if vocabFile != "" {
		vocab, err = LoadVocabulary(vocabFile)
		if err != nil {
			return nil, fmt.Errorf("VOCABULARY_FILE: %w", err)
		}
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DataFile:         os.Getenv("DATA_FILE"),
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		CacheSize:        cacheSize,
		HeaderSearchRows: headerRows,
		RequiredColumns:  parseColumns(os.Getenv("REQUIRED_COLUMNS")),
		VocabularyFile:   vocabFile,
		Vocabulary:       vocab,
		KafkaEnabled:     kafkaEnabled,
		KafkaBrokers:     brokers,
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "equipment-health-scores"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", name)
	}
	return n, nil
}

// parseColumns splits a comma-separated column list and normalizes each name
// the way ingested headers are normalized. Empty input yields the defaults.
func parseColumns(s string) []string {
	var cols []string
	for _, part := range strings.Split(s, ",") {
		if col := strings.ToUpper(strings.Join(strings.Fields(part), " ")); col != "" {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return append([]string(nil), domain.DefaultRequiredColumns...)
	}
	return cols
}
