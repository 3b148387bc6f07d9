package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aalvaropc/monoledger/internal/domain"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the file that marks a workspace root.
const ConfigFile = "monoledger.yaml"

// LoadConfig loads monoledger.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	d := y.Monoledger.Defaults
	if d.Money != nil {
		cfg.Defaults.Money = *d.Money
	}
	if d.GoMoney != nil {
		cfg.Defaults.GoMoney = *d.GoMoney
	}
	if d.MinPropSimilarity != nil {
		cfg.Defaults.MinPropSimilarity = *d.MinPropSimilarity
	}
	if d.CardSet != "" {
		cfg.Defaults.CardSet = d.CardSet
	}

	if y.Monoledger.Paths.CardSetsDir != "" {
		cfg.Paths.CardSetsDir = y.Monoledger.Paths.CardSetsDir
	}
	if y.Monoledger.Paths.SessionsDir != "" {
		cfg.Paths.SessionsDir = y.Monoledger.Paths.SessionsDir
	}
	if y.Monoledger.Cards.Selector != "" {
		cfg.Cards.Selector = y.Monoledger.Cards.Selector
	}

	lg := y.Monoledger.Logging
	if lg.MaxSizeMB != nil {
		cfg.Logging.MaxSizeMB = *lg.MaxSizeMB
	}
	if lg.MaxBackups != nil {
		cfg.Logging.MaxBackups = *lg.MaxBackups
	}
	if lg.MaxAgeDays != nil {
		cfg.Logging.MaxAgeDays = *lg.MaxAgeDays
	}

	if err := validate(cfg); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return cfg, nil
}

func validate(cfg domain.Config) error {
	switch {
	case cfg.Defaults.Money < 0:
		return fmt.Errorf("defaults.money must not be negative (got %d)", cfg.Defaults.Money)
	case cfg.Defaults.GoMoney < 0:
		return fmt.Errorf("defaults.go_money must not be negative (got %d)", cfg.Defaults.GoMoney)
	case cfg.Defaults.MinPropSimilarity < 0 || cfg.Defaults.MinPropSimilarity > 100:
		return fmt.Errorf("defaults.min_prop_similarity must be between 0 and 100 (got %d)", cfg.Defaults.MinPropSimilarity)
	}
	return nil
}

type yamlConfig struct {
	Monoledger struct {
		Defaults struct {
			Money             *int   `yaml:"money"`
			GoMoney           *int   `yaml:"go_money"`
			MinPropSimilarity *int   `yaml:"min_prop_similarity"`
			CardSet           string `yaml:"card_set"`
		} `yaml:"defaults"`

		Paths struct {
			CardSetsDir string `yaml:"card_sets_dir"`
			SessionsDir string `yaml:"sessions_dir"`
		} `yaml:"paths"`

		Cards struct {
			Selector string `yaml:"selector"`
		} `yaml:"cards"`

		Logging struct {
			MaxSizeMB  *int `yaml:"max_size_mb"`
			MaxBackups *int `yaml:"max_backups"`
			MaxAgeDays *int `yaml:"max_age_days"`
		} `yaml:"logging"`
	} `yaml:"monoledger"`
}
