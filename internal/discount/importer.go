package discount

import (
	"context"
	"fmt"
	"sync"

	"freshkart/internal/model"

	"github.com/rs/zerolog"
)

// Importer bulk-loads code files into the store.
type Importer struct {
	loader Loader
	store  Store
	logger zerolog.Logger
}

// NewImporter creates a new importer.
func NewImporter(loader Loader, store Store, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "discount-importer").Logger(),
	}
}

// Import loads every file concurrently, merges their codes and upserts them
// with the template's terms. Any failed file aborts the import before writing.
// Codes outside the allowed length or containing non-alphanumerics are skipped.
func (i *Importer) Import(ctx context.Context, files []string, template model.DiscountRequest) (*model.DiscountImportResult, error) {
	type loadResult struct {
		index int
		set   CodeSet
		err   error
	}

	resultChan := make(chan loadResult, len(files))
	var wg sync.WaitGroup

	for idx, path := range files {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			set, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, set: set, err: err}
		}(idx, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(files))
	for r := range resultChan {
		results[r.index] = r
	}

	merged := NewMapCodeSet(1024).(*mapCodeSet)
	skipped := 0
	for idx, r := range results {
		if r.err != nil {
			i.logger.Error().Err(r.err).Str("file", files[idx]).Msg("failed to load discount code file")
			return nil, fmt.Errorf("failed to load discount code file %s: %w", files[idx], r.err)
		}
		for _, code := range r.set.Codes() {
			if !ValidCode(code) {
				skipped++
				continue
			}
			merged.Add(code)
		}
	}

	codes := merged.Codes()
	upserted := 0
	if len(codes) > 0 {
		n, err := i.store.UpsertCodes(ctx, codes, template)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert discount codes: %w", err)
		}
		upserted = n
	}

	i.logger.Info().
		Int("files", len(files)).
		Int("codes", len(codes)).
		Int("skipped", skipped).
		Int("upserted", upserted).
		Msg("discount codes imported")

	return &model.DiscountImportResult{
		Files:    len(files),
		Codes:    len(codes),
		Upserted: upserted,
	}, nil
}

// ValidCode reports whether code has an allowed length and is alphanumeric.
func ValidCode(code string) bool {
	if len(code) < MinCodeLength || len(code) > MaxCodeLength {
		return false
	}
	for _, r := range code {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
