package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func runCase(args []string) error {
	var fl commonFlags
	caseID := ""

	for i := 0; i < len(args); i++ {
		if next, ok := fl.takeCommonFlag(args, i); ok {
			i = next
			continue
		}
		if strings.HasPrefix(args[i], "-") {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		if caseID != "" {
			return fmt.Errorf("usage: elis case <case-id>")
		}
		caseID = args[i]
	}
	if caseID == "" {
		return fmt.Errorf("usage: elis case <case-id>")
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

	rec, err := s.GetCaseRecord(context.Background(), caseID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func runList(args []string) error {
	var fl commonFlags
	limit := 50

	for i := 0; i < len(args); i++ {
		if next, ok := fl.takeCommonFlag(args, i); ok {
			i = next
			continue
		}
		switch {
		case args[i] == "--limit" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid --limit value: %s", args[i])
			}
			limit = n
		default:
			return fmt.Errorf("unknown argument: %s", args[i])
		}
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

	cases, err := s.ListCases(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		fmt.Println("No cases in the database.")
		return nil
	}

	fmt.Printf("%-20s %-8s %-14s %-12s %s\n", "CASE", "TYPE", "OUTCOME", "DATE", "DUES")
	for _, c := range cases {
		date := c.OrderDate
		if date == "" {
			date = "-"
		}
		fmt.Printf("%-20s %-8s %-14s %-12s %.2f\n", c.CaseID, c.CaseType, c.Outcome, date, c.TotalDues)
	}
	return nil
}
