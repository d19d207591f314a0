package main

import (
	"context"
	"fmt"
	"sort"
)

func runStats(args []string) error {
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

	stats, err := s.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Database: %s\n\n", cfg.DBPath.Value)
	fmt.Printf("  %-18s %d\n", "cases", stats.CaseCount)
	fmt.Printf("  %-18s %d\n", "entities", stats.EntityCount)
	fmt.Printf("  %-18s %d\n", "timeline events", stats.TimelineCount)
	fmt.Printf("  %-18s %d\n", "relations", stats.RelationCount)
	fmt.Printf("  %-18s %d\n", "financial records", stats.FinancialCount)
	fmt.Printf("  %-18s %d\n", "chunks", stats.ChunkCount)
	fmt.Printf("  %-18s %.1f KB\n", "db size", float64(stats.DBSizeBytes)/1024)

	printBreakdown("By case type", stats.ByCaseType)
	printBreakdown("By outcome", stats.ByOutcome)
	return nil
}

func printBreakdown(title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("\n%s\n", title)
	for _, k := range keys {
		fmt.Printf("  %-18s %d\n", k, counts[k])
	}
}
