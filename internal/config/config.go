package config

import (
	"os"
	"time"

	"exam-session-service/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Provider struct {
		URL string `yaml:"url"`
	} `yaml:"provider"`
	Reporter struct {
		URL string `yaml:"url"`
	} `yaml:"reporter"`
	Exam struct {
		DurationSeconds int     `yaml:"duration_seconds"`
		CorrectMark     float64 `yaml:"correct_mark"`
		WrongPenalty    float64 `yaml:"wrong_penalty"`
		AllowNegative   *bool   `yaml:"allow_negative"`
		Merit           struct {
			ConvertedMaxTestScore float64 `yaml:"converted_max_test_score"`
			AcademicA             struct {
				Max    float64 `yaml:"max"`
				RawMax float64 `yaml:"raw_max"`
				RawMin float64 `yaml:"raw_min"`
			} `yaml:"academic_a"`
			AcademicB struct {
				Max    float64 `yaml:"max"`
				RawMax float64 `yaml:"raw_max"`
				RawMin float64 `yaml:"raw_min"`
			} `yaml:"academic_b"`
		} `yaml:"merit"`
	} `yaml:"exam"`
	Questions struct {
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Scheme builds the marking scheme from config, filling the historical
// defaults (30 minutes, +1, -0.25, negatives allowed) for unset fields.
func (c Config) Scheme() domain.MarkingScheme {
	scheme := domain.MarkingScheme{
		DurationSeconds: c.Exam.DurationSeconds,
		CorrectMark:     c.Exam.CorrectMark,
		WrongPenalty:    c.Exam.WrongPenalty,
		AllowNegative:   true,
	}
	if scheme.DurationSeconds <= 0 {
		scheme.DurationSeconds = 1800
	}
	if scheme.CorrectMark <= 0 {
		scheme.CorrectMark = 1
	}
	if scheme.WrongPenalty <= 0 {
		scheme.WrongPenalty = 0.25
	}
	if c.Exam.AllowNegative != nil {
		scheme.AllowNegative = *c.Exam.AllowNegative
	}
	return scheme
}

// MeritPolicy builds the merit-blend policy; a zero converted max disables
// blending entirely.
func (c Config) MeritPolicy() domain.MeritPolicy {
	merit := c.Exam.Merit
	return domain.MeritPolicy{
		ConvertedMaxTestScore: merit.ConvertedMaxTestScore,
		AcademicA: domain.ComponentPolicy{
			Max:    merit.AcademicA.Max,
			RawMax: merit.AcademicA.RawMax,
			RawMin: merit.AcademicA.RawMin,
		},
		AcademicB: domain.ComponentPolicy{
			Max:    merit.AcademicB.Max,
			RawMax: merit.AcademicB.RawMax,
			RawMin: merit.AcademicB.RawMin,
		},
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
