package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
)

// vocabularyFile is the on-disk shape of a status vocabulary:
//
//	worst: BAD
//	mid: FAIR
//	best: GOOD
//	unknown: N/A
//	aliases:
//	  perlu tindakan: 1
//	  waspada: 2
type vocabularyFile struct {
	Worst   string         `yaml:"worst"`
	Mid     string         `yaml:"mid"`
	Best    string         `yaml:"best"`
	Unknown string         `yaml:"unknown"`
	Aliases map[string]int `yaml:"aliases"`
}

// LoadVocabulary reads a YAML vocabulary file. Labels left out keep their
// RED/AMBER/GREEN/UNKNOWN defaults.
func LoadVocabulary(path string) (domain.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes and validates a YAML vocabulary document.
func ParseVocabulary(data []byte) (domain.Vocabulary, error) {
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Vocabulary{}, fmt.Errorf("parse vocabulary: %w", err)
	}

	v := domain.DefaultVocabulary()
	if f.Worst != "" {
		v.Worst = domain.Status(f.Worst)
	}
	if f.Mid != "" {
		v.Mid = domain.Status(f.Mid)
	}
	if f.Best != "" {
		v.Best = domain.Status(f.Best)
	}
	if f.Unknown != "" {
		v.Unknown = domain.Status(f.Unknown)
	}

	aliases := make(map[string]domain.Score, len(f.Aliases))
	for label, score := range f.Aliases {
		aliases[label] = domain.Score(score)
	}
	v = v.WithAliases(aliases)

	if err := v.Validate(); err != nil {
		return domain.Vocabulary{}, fmt.Errorf("invalid vocabulary: %w", err)
	}
	return v, nil
}
