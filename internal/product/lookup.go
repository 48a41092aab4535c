package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/korzewarrior/smartkart/pkg/logger"
	"github.com/korzewarrior/smartkart/pkg/metrics"
)

// Lookup resolves barcodes to product records, consulting the cache first and
// normalizing every failure to a not-found sentinel. Resolve never errors:
// the caller always gets a usable record.
type Lookup struct {
	cache    *Cache
	fetcher  Fetcher
	detector *AllergenDetector
	logg     *logger.Logger
	metrics  *metrics.Metrics
}

func NewLookup(cache *Cache, fetcher Fetcher, detector *AllergenDetector, logg *logger.Logger, m *metrics.Metrics) (*Lookup, error) {
	if cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher required")
	}
	return &Lookup{
		cache:    cache,
		fetcher:  fetcher,
		detector: detector,
		logg:     logg,
		metrics:  m,
	}, nil
}

// Resolve may block for a network round trip; callers keep it off the
// frame-processing path.
func (l *Lookup) Resolve(ctx context.Context, barcode string) Record {
	start := time.Now()

	if record, ok := l.cache.Get(barcode); ok {
		l.metrics.ObserveLookup(metrics.LookupCacheHit, time.Since(start))
		return record
	}

	if l.logg != nil {
		l.logg.Debug(l.logg.WithBarcode(ctx, barcode), "cache miss, querying product api")
	}

	payload, err := l.fetcher.Fetch(ctx, barcode)
	if err != nil {
		result := metrics.LookupError
		if errors.Is(err, ErrNotFound) {
			result = metrics.LookupNotFound
		} else if l.logg != nil {
			l.logg.Warn(l.logg.WithFields(ctx, map[string]any{"barcode": barcode, "error": err.Error()}), "product lookup failed")
		}

		sentinel := NotFound(barcode)
		l.cache.Put(ctx, sentinel)
		l.metrics.ObserveLookup(result, time.Since(start))
		return sentinel
	}

	record := Record{
		Barcode:        barcode,
		Name:           payload.Name,
		Brand:          payload.Brand,
		Ingredients:    splitIngredients(payload.IngredientsText),
		Allergens:      Merge(payload.AllergenTags, l.detector.Detect(payload.IngredientsText)),
		ImageURL:       payload.ImageURL,
		NutritionGrade: payload.NutritionGrade,
	}
	l.cache.Put(ctx, record)
	l.metrics.ObserveLookup(metrics.LookupFound, time.Since(start))
	return record
}

// splitIngredients turns the API's free-form ingredient text into an ordered
// list, splitting on commas and trimming whitespace.
func splitIngredients(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
