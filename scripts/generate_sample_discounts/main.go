package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Writes gzipped discount code files for POST /api/admin/discounts/import.
// Overlapping codes are merged on import; malformed ones are skipped.
func main() {
	dataDir := "data/discounts"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	files := map[string][]string{
		"festive.gz": {
			"DIWALI100",
			"FRESH10",
			"HOLI50",
			"no-dash", // Skipped: not alphanumeric
		},
		"partners.gz": {
			"FRESH10", // Also in festive.gz
			"BANKOFFER",
			"CARDSAVE20",
			"AB", // Skipped: too short
		},
		"welcome.gz": {
			"WELCOME",
			"FIRSTORDER",
		},
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dataDir, name)
		if err := writeCodeFile(path, files[name]); err != nil {
			log.Fatalf("Failed to create %s: %v", name, err)
		}
		fmt.Printf("Created %s with %d codes\n", path, len(files[name]))
	}

	fmt.Println("\nImport with:")
	fmt.Printf(`  curl -X POST -H "X-API-Key: $ADMIN_API_KEY" localhost:8080/api/admin/discounts/import \
    -d '{"files":["%s/festive.gz","%s/partners.gz","%s/welcome.gz"],"template":{"type":"percentage","value":10}}'`+"\n",
		dataDir, dataDir, dataDir)
}

func writeCodeFile(path string, codes []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, code := range codes {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", code); err != nil {
			return fmt.Errorf("failed to write code: %w", err)
		}
	}

	return nil
}
