package main

import (
	"fmt"
	"os"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "process":
		fatalOnError(runProcess(os.Args[2:]))
	case "precedents":
		fatalOnError(runPrecedents(os.Args[2:]))
	case "query":
		fatalOnError(runQuery(os.Args[2:]))
	case "case":
		fatalOnError(runCase(os.Args[2:]))
	case "list":
		fatalOnError(runList(os.Args[2:]))
	case "migrate":
		fatalOnError(runMigrate(os.Args[2:]))
	case "stats":
		fatalOnError(runStats(os.Args[2:]))
	case "mcp":
		fatalOnError(runMCP(os.Args[2:]))
	case "version", "--version", "-v":
		fmt.Printf("elis %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func fatalOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`elis — structured extraction and precedent retrieval for scanned EPF compliance orders

Usage:
  elis process <path>... [--reset] [--ocr-cmd <cmd>] [--ner-endpoint <url>] [--embed <provider>]
  elis precedents <query> [--section <s>] [--judge <name>] [--k <n>]
  elis query <text> [--n <chunks>]
  elis case <case-id>
  elis list [--limit <n>]
  elis migrate <legacy.db>
  elis stats
  elis mcp
  elis version

Common flags:
  --config <path>   config file (default ~/.elis/config.yaml)
  --db <path>       database file (default ~/.elis/elis.db)

Settings also resolve from config file and ELIS_* environment variables;
CLI flags take precedence.`)
}
