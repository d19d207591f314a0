package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/elislabs/elis/internal/vector"
)

func runQuery(args []string) error {
	var fl commonFlags
	var queryParts []string
	n := 5

	for i := 0; i < len(args); i++ {
		if next, ok := fl.takeCommonFlag(args, i); ok {
			i = next
			continue
		}
		switch {
		case args[i] == "--n" && i+1 < len(args):
			i++
			v, err := strconv.Atoi(args[i])
			if err != nil || v < 1 {
				return fmt.Errorf("invalid --n value: %s", args[i])
			}
			n = v
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			queryParts = append(queryParts, args[i])
		}
	}
	query := strings.Join(queryParts, " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("usage: elis query <text> [--n <chunks>]")
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

	embedder, cleanup, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	if embedder == nil {
		return fmt.Errorf("query needs an embedding backend; set embed.provider or --embed")
	}

	result, err := vector.NewIndex(s, embedder).Query(context.Background(), query, n)
	if err != nil {
		return err
	}
	if len(result.Chunks) == 0 {
		fmt.Println("No matching chunks.")
		return nil
	}

	for i, chunk := range result.Chunks {
		fmt.Printf("%d. [%s] %s (distance %.3f)\n", i+1, chunk.CaseID, chunk.ChunkType, chunk.Distance)
		fmt.Printf("   %s\n", firstLine(chunk.Text, 160))
	}
	fmt.Printf("\nSources: %s\n", strings.Join(result.Sources, ", "))
	return nil
}
