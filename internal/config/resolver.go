// Package config resolves runtime settings from the config file,
// environment variables and CLI flags, in rising precedence. Every
// resolved value keeps its provenance so diagnostics can say where a
// setting came from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath string
	CLIDBPath  string
	CLIOCRCmd  string
	CLINER     string
	CLIEmbed   string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath      ResolvedValue `json:"db_path"`
	OCRCommand  ResolvedValue `json:"ocr_command"`
	NEREndpoint ResolvedValue `json:"ner_endpoint"`

	EmbedProvider      ResolvedValue `json:"embed_provider"`
	EmbedEndpoint      ResolvedValue `json:"embed_endpoint"`
	EmbedModel         ResolvedValue `json:"embed_model"`
	EmbedAPIKey        ResolvedValue `json:"embed_api_key"`
	EmbedModelPath     ResolvedValue `json:"embed_model_path"`
	EmbedTokenizerPath ResolvedValue `json:"embed_tokenizer_path"`
}

type fileConfig struct {
	DBPath string `yaml:"db_path"`
	OCR    struct {
		Command string `yaml:"command"`
	} `yaml:"ocr"`
	NER struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"ner"`
	Embed struct {
		Provider      string `yaml:"provider"`
		Endpoint      string `yaml:"endpoint"`
		Model         string `yaml:"model"`
		APIKey        string `yaml:"api_key"`
		ModelPath     string `yaml:"model_path"`
		TokenizerPath string `yaml:"tokenizer_path"`
	} `yaml:"embed"`
}

// DefaultDBPath is where the case database lives unless overridden.
const DefaultDBPath = "~/.elis/elis.db"

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".elis", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{ConfigPath: path}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.OCRCommand, cfg.OCR.Command, SourceConfig, path)
		apply(&out.NEREndpoint, cfg.NER.Endpoint, SourceConfig, path)
		apply(&out.EmbedProvider, cfg.Embed.Provider, SourceConfig, path)
		apply(&out.EmbedEndpoint, cfg.Embed.Endpoint, SourceConfig, path)
		apply(&out.EmbedModel, cfg.Embed.Model, SourceConfig, path)
		apply(&out.EmbedAPIKey, cfg.Embed.APIKey, SourceConfig, path)
		apply(&out.EmbedModelPath, cfg.Embed.ModelPath, SourceConfig, path)
		apply(&out.EmbedTokenizerPath, cfg.Embed.TokenizerPath, SourceConfig, path)
	}

	applyEnv(&out.DBPath, "ELIS_DB")
	applyEnv(&out.DBPath, "ELIS_DB_PATH")
	applyEnv(&out.OCRCommand, "ELIS_OCR_CMD")
	applyEnv(&out.NEREndpoint, "ELIS_NER_ENDPOINT")
	applyEnv(&out.EmbedProvider, "ELIS_EMBED")
	applyEnv(&out.EmbedEndpoint, "ELIS_EMBED_ENDPOINT")
	applyEnv(&out.EmbedModel, "ELIS_EMBED_MODEL")
	applyEnv(&out.EmbedAPIKey, "ELIS_EMBED_API_KEY")
	applyEnv(&out.EmbedModelPath, "ELIS_EMBED_MODEL_PATH")
	applyEnv(&out.EmbedTokenizerPath, "ELIS_EMBED_TOKENIZER_PATH")

	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.OCRCommand, opts.CLIOCRCmd, SourceCLI, "--ocr-cmd")
	apply(&out.NEREndpoint, opts.CLINER, SourceCLI, "--ner-endpoint")
	apply(&out.EmbedProvider, opts.CLIEmbed, SourceCLI, "--embed")

	if out.DBPath.Value == "" {
		out.DBPath = ResolvedValue{Value: DefaultDBPath, Source: SourceDefault, From: "built-in default"}
	}
	out.DBPath.Value = expandUserPath(out.DBPath.Value)

	return out, nil
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
