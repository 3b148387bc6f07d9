package domain

// Config represents the workspace configuration loaded from monoledger.yaml.
type Config struct {
	Defaults DefaultsConfig
	Paths    PathsConfig
	Cards    CardsConfig
	Logging  LoggingConfig
}

type DefaultsConfig struct {
	Money   int
	GoMoney int

	// MinPropSimilarity is the minimum percentage (0-100) a fuzzy property
	// name match must score to be accepted.
	MinPropSimilarity int

	CardSet string
}

type PathsConfig struct {
	CardSetsDir string
	SessionsDir string
}

type CardsConfig struct {
	// Selector is a JSONPath expression locating the record list when a
	// card set document is an object rather than a list.
	Selector string
}

type LoggingConfig struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig provides sane defaults if monoledger.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			Money:             1500,
			GoMoney:           200,
			MinPropSimilarity: 80,
			CardSet:           "classic",
		},
		Paths: PathsConfig{
			CardSetsDir: "cardsets",
			SessionsDir: "sessions",
		},
		Cards: CardsConfig{
			Selector: "$.cards",
		},
		Logging: LoggingConfig{
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
