package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"tasktrack/internal/platform/config"
)

func main() {
	out := flag.String("out", "tasktrack.schema.json", "schema output path")
	flag.Parse()

	data, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated tasktrack config schema at %s", *out)
}
