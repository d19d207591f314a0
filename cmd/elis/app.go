package main

import (
	"fmt"

	"github.com/elislabs/elis/internal/config"
	"github.com/elislabs/elis/internal/embed"
	"github.com/elislabs/elis/internal/store"
)

// commonFlags are the shared settings every command accepts.
type commonFlags struct {
	configPath  string
	dbPath      string
	ocrCmd      string
	nerEndpoint string
	embed       string
}

// takeCommonFlag consumes a shared flag at args[i]. Returns the next
// index and whether the flag was recognized.
func (f *commonFlags) takeCommonFlag(args []string, i int) (int, bool) {
	switch {
	case args[i] == "--config" && i+1 < len(args):
		f.configPath = args[i+1]
		return i + 1, true
	case args[i] == "--db" && i+1 < len(args):
		f.dbPath = args[i+1]
		return i + 1, true
	case args[i] == "--ocr-cmd" && i+1 < len(args):
		f.ocrCmd = args[i+1]
		return i + 1, true
	case args[i] == "--ner-endpoint" && i+1 < len(args):
		f.nerEndpoint = args[i+1]
		return i + 1, true
	case args[i] == "--embed" && i+1 < len(args):
		f.embed = args[i+1]
		return i + 1, true
	}
	return i, false
}

func resolve(f commonFlags) (config.ResolvedConfig, error) {
	return config.ResolveConfig(config.ResolveOptions{
		ConfigPath: f.configPath,
		CLIDBPath:  f.dbPath,
		CLIOCRCmd:  f.ocrCmd,
		CLINER:     f.nerEndpoint,
		CLIEmbed:   f.embed,
	})
}

func openStore(cfg config.ResolvedConfig) (*store.Store, error) {
	s, err := store.NewStore(store.Config{DBPath: cfg.DBPath.Value})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}

// buildEmbedder constructs the configured embedding backend, or nil when
// none is configured. The returned cleanup releases backend resources.
func buildEmbedder(cfg config.ResolvedConfig) (embed.Embedder, func(), error) {
	noop := func() {}

	switch cfg.EmbedProvider.Value {
	case "":
		return nil, noop, nil
	case "local":
		local, err := embed.NewLocal(cfg.EmbedModelPath.Value, cfg.EmbedTokenizerPath.Value)
		if err != nil {
			return nil, noop, fmt.Errorf("starting local embedder: %w", err)
		}
		return embed.NewCache(local), func() { local.Close() }, nil
	case "remote":
		client, err := embed.NewClient(embed.Config{
			Endpoint: cfg.EmbedEndpoint.Value,
			Model:    cfg.EmbedModel.Value,
			APIKey:   cfg.EmbedAPIKey.Value,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("configuring remote embedder: %w", err)
		}
		return embed.NewCache(client), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown embed provider %q (want local or remote)", cfg.EmbedProvider.Value)
	}
}
