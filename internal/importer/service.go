package importer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"reiswerk/internal"
	"reiswerk/internal/config"
	"reiswerk/internal/pipeline"
	"reiswerk/internal/storage"
	"reiswerk/internal/tc"
)

// Service wires the TC client, the import pipeline and storage together. The
// pipeline itself stays a pure function; fetching and persistence live here.
type Service struct {
	db     *storage.DB
	client *tc.Client
	cfg    config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, client: tc.NewClient(cfg), cfg: cfg}
}

type Summary struct {
	OfferteID     string
	BookingRef    string
	Items         int
	Destinations  int
	TotalPrice    float64
	DatesResolved bool
}

func (s *Service) ImportBooking(ctx context.Context, bookingRef string) (Summary, error) {
	payload, err := s.client.GetBooking(ctx, bookingRef)
	if err != nil {
		return Summary{}, err
	}
	return s.importPayload(bookingRef, payload)
}

// ImportBatch fetches and imports several bookings concurrently. Each booking
// is an independent pipeline run; only the fetch fan-out is parallel.
func (s *Service) ImportBatch(ctx context.Context, bookingRefs []string, concurrency int) ([]Summary, error) {
	if concurrency <= 0 {
		concurrency = 3
	}

	summaries := make([]Summary, len(bookingRefs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, ref := range bookingRefs {
		i, ref := i, ref
		g.Go(func() error {
			summary, err := s.ImportBooking(ctx, ref)
			if err != nil {
				return fmt.Errorf("import %s: %w", ref, err)
			}
			mu.Lock()
			summaries[i] = summary
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// ImportFile ingests a booking payload from a JSON file on disk. The booking
// reference is taken from the payload, falling back to the file name.
func (s *Service) ImportFile(path string) (Summary, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}

	var payload internal.SourcePayload
	if err := json.Unmarshal(blob, &payload); err != nil {
		return Summary{}, fmt.Errorf("parse %s: %w", path, err)
	}

	ref := pipeline.FirstString(payload, "bookingReference", "bookingRef", "id", "reference")
	if ref == "" {
		ref = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s.importPayload(ref, payload)
}

func (s *Service) importPayload(bookingRef string, payload internal.SourcePayload) (Summary, error) {
	start := time.Now()

	result, err := pipeline.Import(payload)
	if err != nil {
		return Summary{}, err
	}
	if result.Currency == "" {
		result.Currency = s.cfg.DefaultCurrency
	}

	offerteID, err := s.db.SaveImport(bookingRef, result)
	if err != nil {
		return Summary{}, err
	}

	_ = s.db.InsertRun(traceID(), bookingRef,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{
			"items":         len(result.Items),
			"destinations":  len(result.Destinations),
			"datesResolved": boolToInt(result.DatesResolved),
		})

	if !result.DatesResolved {
		fmt.Printf("import ref=%s: no trip start date resolvable, item dates left as supplied\n", bookingRef)
	}

	return Summary{
		OfferteID:     offerteID,
		BookingRef:    bookingRef,
		Items:         len(result.Items),
		Destinations:  len(result.Destinations),
		TotalPrice:    result.TotalPrice,
		DatesResolved: result.DatesResolved,
	}, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
