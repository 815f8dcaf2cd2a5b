package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reiswerk/internal/config"
	"reiswerk/internal/importer"
	"reiswerk/internal/pipeline"
	"reiswerk/internal/storage"
)

// Service polls a drop directory for booking payload JSON files and imports
// each one, optionally writing the roadbook XLSX next to the result. Handled
// files move to done/ or failed/ inside the inbox.
type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.InboxDir, 0o755); err != nil {
		return err
	}

	for {
		if err := s.runCycle(); err != nil {
			fmt.Printf("watcher cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.WatchIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle() error {
	entries, err := os.ReadDir(s.cfg.InboxDir)
	if err != nil {
		return err
	}

	svc := importer.NewService(s.db, s.cfg)
	handled := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		if handled >= s.cfg.WatchBatch {
			break
		}
		handled++

		path := filepath.Join(s.cfg.InboxDir, entry.Name())
		summary, err := svc.ImportFile(path)
		if err != nil {
			fmt.Printf("watcher import failed file=%s err=%v\n", entry.Name(), err)
			s.moveTo(path, "failed")
			continue
		}

		if s.cfg.WatchAutoExport {
			if err := s.exportRoadbook(summary); err != nil {
				fmt.Printf("watcher export failed ref=%s err=%v\n", summary.BookingRef, err)
			}
		}
		s.moveTo(path, "done")
		fmt.Printf("watcher imported file=%s ref=%s items=%d\n", entry.Name(), summary.BookingRef, summary.Items)
	}

	if handled > 0 {
		fmt.Printf("watcher cycle done handled=%d\n", handled)
	}
	return nil
}

func (s *Service) exportRoadbook(summary importer.Summary) error {
	rows, err := s.db.GetRoadbookRows(summary.OfferteID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	filename := fmt.Sprintf("%s_%s.xlsx", sanitizeRef(summary.BookingRef), summary.OfferteID)
	return pipeline.ExportRoadbookXLSX(rows, filepath.Join(s.cfg.OutputDir, "watcher", filename))
}

func (s *Service) moveTo(path, subdir string) {
	dir := filepath.Join(s.cfg.InboxDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	_ = os.Rename(path, filepath.Join(dir, filepath.Base(path)))
}

func sanitizeRef(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(input)
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
