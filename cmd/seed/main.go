// cmd/seed loads a CSV of sample sanctioned entities and stages them via
// PostgresStagingStore, so cmd/server can seed EntityIndex on cold start
// without waiting on a live refresh. Bad rows are skipped, not fatal.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/ingest"
)

// Expected CSV columns: source,sourceId,type,primaryName,altNames,program
// altNames is ';'-separated.
func main() {
	var csvFile string
	flag.StringVar(&csvFile, "file", "", "path to sample sanctions entities CSV")
	flag.Parse()

	if csvFile == "" {
		log.Fatal("-file is required")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := ingest.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to staging database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(ingest.Schema); err != nil {
		log.Fatalf("Failed to ensure staging schema: %v", err)
	}

	file, err := os.Open(csvFile)
	if err != nil {
		log.Fatalf("Failed to open CSV file %s: %v", csvFile, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("CSV file must have at least a header row and one data row")
	}

	bySource := map[entity.Source][]*entity.Entity{}
	skipped := 0

	for i, record := range records[1:] {
		if len(record) < 6 {
			log.Printf("Skipping row %d: insufficient columns", i+2)
			skipped++
			continue
		}

		source := entity.Source(strings.TrimSpace(record[0]))
		sourceID := strings.TrimSpace(record[1])
		entityType := entity.Type(strings.TrimSpace(record[2]))
		primaryName := strings.TrimSpace(record[3])
		if primaryName == "" {
			log.Printf("Skipping row %d: primaryName is empty", i+2)
			skipped++
			continue
		}

		var altNames []string
		if record[4] != "" {
			for _, n := range strings.Split(record[4], ";") {
				if n = strings.TrimSpace(n); n != "" {
					altNames = append(altNames, n)
				}
			}
		}

		var programs []string
		if record[5] != "" {
			programs = strings.Split(record[5], ";")
		}

		e := &entity.Entity{
			ID:            string(source) + ":" + sourceID,
			SourceID:      sourceID,
			PrimaryName:   primaryName,
			AltNames:      altNames,
			Type:          entityType,
			Source:        source,
			SanctionsInfo: entity.SanctionsInfo{Programs: programs},
		}
		bySource[source] = append(bySource[source], e)
	}

	store := ingest.NewPostgresStagingStore(db)
	ctx := context.Background()

	staged := 0
	startTime := time.Now()
	for source, entities := range bySource {
		if err := store.Stage(ctx, source, entities); err != nil {
			log.Printf("Failed to stage %d entities for %s: %v", len(entities), source, err)
			continue
		}
		staged += len(entities)
	}

	log.Printf("Staged %d entities across %d sources in %s (%d rows skipped)", staged, len(bySource), time.Since(startTime), skipped)
}
