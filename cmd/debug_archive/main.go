package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"diffing-research/core/config"
	"diffing-research/core/storage"
	"diffing-research/feature/catalog"
	"diffing-research/feature/integrity/checks"
)

// Walks the archived snapshots of one board in order and checks that every
// consecutive pair diffs and replays cleanly.
func main() {
	board := "table"
	if len(os.Args) > 1 {
		board = os.Args[1]
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}
	archive := catalog.NewArchive(client, cfg.Storage.Bucket)

	report, err := checks.CheckArchive(context.Background(), archive, board)
	if err != nil {
		log.Fatal(err)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))

	if !report.Matched {
		fmt.Printf("\n%d of %d pairs failed, %d invalid snapshots\n", len(report.Failures), report.Pairs, len(report.Invalid))
		os.Exit(1)
	}
	fmt.Println("\nAll pairs replay to their target")
}
