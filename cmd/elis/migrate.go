package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/elislabs/elis/internal/migrate"
)

func runMigrate(args []string) error {
	var fl commonFlags
	legacyPath := ""

	for i := 0; i < len(args); i++ {
		if next, ok := fl.takeCommonFlag(args, i); ok {
			i = next
			continue
		}
		if strings.HasPrefix(args[i], "-") {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		if legacyPath != "" {
			return fmt.Errorf("usage: elis migrate <legacy.db>")
		}
		legacyPath = args[i]
	}
	if legacyPath == "" {
		return fmt.Errorf("usage: elis migrate <legacy.db>")
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

	summary, err := migrate.NewMigrator(s).Run(context.Background(), legacyPath)
	if err != nil {
		return err
	}

	fmt.Println("Migration complete")
	fmt.Printf("  %-18s %d\n", "cases", summary.Cases)
	fmt.Printf("  %-18s %d\n", "entities", summary.Entities)
	fmt.Printf("  %-18s %d\n", "timeline events", summary.TimelineEvents)
	fmt.Printf("  %-18s %d\n", "relations", summary.Relations)
	fmt.Printf("  %-18s %d\n", "financial records", summary.FinancialRecords)
	for _, f := range summary.Failures {
		fmt.Printf("  ! %s: %v\n", f.CaseID, f.Err)
	}
	if n := len(summary.Failures); n > 0 {
		return fmt.Errorf("%d cases failed to migrate", n)
	}
	return nil
}
