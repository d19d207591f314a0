package main

import (
	"fmt"

	"github.com/elislabs/elis/internal/mcp"
	"github.com/elislabs/elis/internal/retrieve"
	"github.com/elislabs/elis/internal/vector"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func runMCP(args []string) error {
	var fl commonFlags
	for i := 0; i < len(args); i++ {
		next, ok := fl.takeCommonFlag(args, i)
		if !ok {
			return fmt.Errorf("unknown argument: %s", args[i])
		}
		i = next
	}

	cfg, err := resolve(fl)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	serverCfg := mcp.ServerConfig{Store: s, Version: version}

	embedder, cleanup, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	if embedder != nil {
		serverCfg.Retriever = retrieve.NewRetriever(vector.NewIndex(s, embedder), s)
	}

	srv := mcp.NewServer(serverCfg)
	if err := mcpserver.ServeStdio(srv); err != nil {
		return fmt.Errorf("serving MCP over stdio: %w", err)
	}
	return nil
}
