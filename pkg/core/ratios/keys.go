package ratios

import (
	_ "embed"
	"fmt"

	yaml "gopkg.in/yaml.v2"
)

//go:embed keys.yaml
var defaultKeysYAML []byte

// AliasGroup names one canonical quantity under its taxonomy-code aliases
// and display-name fallbacks.
type AliasGroup struct {
	IDs   []string `yaml:"ids"`
	Names []string `yaml:"names"`
}

// Keys holds the alias tables for every quantity the engine resolves.
type Keys struct {
	Revenue         AliasGroup `yaml:"revenue"`
	OperatingIncome AliasGroup `yaml:"operating_income"`
	NetIncome       AliasGroup `yaml:"net_income"`
	Liabilities     AliasGroup `yaml:"liabilities"`
	Equity          AliasGroup `yaml:"equity"`
	ParentEquity    AliasGroup `yaml:"parent_equity"`
}

// DefaultKeys returns the embedded alias tables.
func DefaultKeys() Keys {
	keys, err := ParseKeys(defaultKeysYAML)
	if err != nil {
		// The embedded file is part of the build; failing to parse it is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("ratios: embedded keys.yaml invalid: %v", err))
	}
	return keys
}

// ParseKeys decodes an alias table, allowing deployments to override the
// embedded defaults with their own YAML.
func ParseKeys(data []byte) (Keys, error) {
	var keys Keys
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return Keys{}, fmt.Errorf("failed to parse ratio keys: %w", err)
	}
	return keys, nil
}
