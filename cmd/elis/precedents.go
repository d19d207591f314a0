package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/elislabs/elis/internal/retrieve"
	"github.com/elislabs/elis/internal/store"
	"github.com/elislabs/elis/internal/vector"
)

func runPrecedents(args []string) error {
	var fl commonFlags
	var filters store.Filters
	var queryParts []string
	k := retrieve.DefaultK

	for i := 0; i < len(args); i++ {
		if next, ok := fl.takeCommonFlag(args, i); ok {
			i = next
			continue
		}
		switch {
		case args[i] == "--section" && i+1 < len(args):
			i++
			filters.Section = args[i]
		case args[i] == "--judge" && i+1 < len(args):
			i++
			filters.Judge = args[i]
		case args[i] == "--k" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid --k value: %s", args[i])
			}
			k = n
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			queryParts = append(queryParts, args[i])
		}
	}
	query := strings.Join(queryParts, " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("usage: elis precedents <query> [--section <s>] [--judge <name>] [--k <n>]")
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
		return fmt.Errorf("precedent search needs an embedding backend; set embed.provider or --embed")
	}

	retriever := retrieve.NewRetriever(vector.NewIndex(s, embedder), s)
	precedents, err := retriever.GetPrecedents(context.Background(), query, filters, k)
	if err != nil {
		return err
	}

	if len(precedents) == 0 {
		fmt.Println("No precedents matched.")
		return nil
	}

	for i, p := range precedents {
		fmt.Printf("%d. %s  (%s/%s", i+1, p.Case.CaseID, p.Case.CaseType, p.Case.Outcome)
		if p.Case.OrderDate != "" {
			fmt.Printf(", %s", p.Case.OrderDate)
		}
		fmt.Println(")")
		if p.Case.JudgeName != "" {
			fmt.Printf("   before %s\n", p.Case.JudgeName)
		}
		if p.Case.TotalDues > 0 {
			fmt.Printf("   dues %.2f\n", p.Case.TotalDues)
		}
		if p.Snippet != "" {
			fmt.Printf("   %s\n", firstLine(p.Snippet, 160))
		}
	}
	return nil
}

func firstLine(s string, limit int) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > limit {
		s = s[:limit] + "…"
	}
	return s
}
