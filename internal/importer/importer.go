// Package importer loads markdown decks from a directory or a git repository
// into the flashcard store.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/conorfennell/cardb/internal/domain"
	"github.com/conorfennell/cardb/internal/gitsource"
	"github.com/conorfennell/cardb/internal/knol"
	"github.com/conorfennell/cardb/internal/parser"
	"github.com/conorfennell/cardb/internal/store"
)

// untitled names the collection for deck files whose name is only an extension.
const untitled = "Untitled"

// Report summarises one import run.
type Report struct {
	Files              int
	CollectionsCreated int
	CardsAdded         int
	Duplicates         int
	Errors             []error
}

// Importer turns deck files into collections and cards.
type Importer struct {
	store    *store.Store
	reposDir string
	logger   *slog.Logger
}

// New creates an importer writing into s. Git checkouts live under reposDir.
func New(s *store.Store, reposDir string, logger *slog.Logger) *Importer {
	return &Importer{
		store:    s,
		reposDir: reposDir,
		logger:   logger.With("component", "importer"),
	}
}

// ImportDir walks dir for .md files. Each file feeds the collection titled
// after the file name, creating it when no collection has that title. Cards
// already present in the collection are skipped.
func (im *Importer) ImportDir(ctx context.Context, dir string) (Report, error) {
	var report Report
	im.logger.Info("Starting import", "path", dir)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		report.Files++
		pairs, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		im.importFile(path, pairs, &report)
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("error walking directory %s: %w", dir, walkErr)
	}

	im.logger.Info("Import complete",
		"path", dir,
		"files", report.Files,
		"collections_created", report.CollectionsCreated,
		"cards_added", report.CardsAdded,
		"duplicates", report.Duplicates,
		"errors", len(report.Errors),
	)
	return report, nil
}

// ImportGit clones or updates repoURL under the repos directory and imports
// the checkout.
func (im *Importer) ImportGit(ctx context.Context, repoURL string) (Report, error) {
	localPath, err := gitsource.LocalPath(im.reposDir, repoURL)
	if err != nil {
		return Report{}, err
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return Report{}, fmt.Errorf("failed to create repos directory: %w", err)
	}
	if err := gitsource.Sync(ctx, im.logger, repoURL, localPath); err != nil {
		return Report{}, err
	}
	return im.ImportDir(ctx, localPath)
}

func (im *Importer) importFile(path string, pairs []domain.Pair, report *Report) {
	title := strings.TrimSpace(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if title == "" {
		title = untitled
	}
	collectionID, created := im.collectionFor(title)
	if created {
		report.CollectionsCreated++
	}

	seen := knol.NewSet(im.store.Cards(collectionID))
	var fresh []domain.Pair
	for _, p := range pairs {
		t, ok := p.Trimmed()
		if !ok {
			continue
		}
		if !seen.Add(t) {
			report.Duplicates++
			continue
		}
		fresh = append(fresh, t)
	}

	added := im.store.AddCards(collectionID, fresh)
	report.CardsAdded += len(added)
	im.logger.Debug("Imported deck file", "path", path, "collection", title, "cards_added", len(added))
}

func (im *Importer) collectionFor(title string) (uuid.UUID, bool) {
	for _, c := range im.store.Collections() {
		if strings.EqualFold(c.Title, title) {
			return c.ID, false
		}
	}
	created := im.store.AddCollections([]string{title})
	return created[0].ID, true
}
