// Package config handles .gwaskit.yaml configuration files.
package config

// Config represents the contents of a .gwaskit.yaml file. Every field is
// optional; unset fields fall through to built-in defaults.
type Config struct {
	// MaxItemsInMemory overrides the default in-memory result threshold (5000).
	MaxItemsInMemory int `yaml:"max_items_in_memory,omitempty"`
	// OutputDir overrides the default spill directory (system temp dir).
	OutputDir string `yaml:"output_dir,omitempty"`
	// RequestTimeoutSeconds bounds each upstream HTTP call (default 30).
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds,omitempty"`
	// RESTBaseURL overrides the GWAS Catalog REST API base URL.
	RESTBaseURL string `yaml:"rest_base_url,omitempty"`
	// SummaryStatsBaseURL overrides the Summary Statistics API base URL.
	SummaryStatsBaseURL string `yaml:"summary_stats_base_url,omitempty"`
}

// FileName is the expected config file name in the working directory.
const FileName = ".gwaskit.yaml"
