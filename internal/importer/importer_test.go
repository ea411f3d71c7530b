package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/cardb/internal/storage"
	"github.com/conorfennell/cardb/internal/store"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "cardb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := store.New(ctx, db, store.WithLogger(quietLogger))
	return New(s, filepath.Join(t.TempDir(), "repos"), quietLogger), s
}

func writeDeck(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestImportDir(t *testing.T) {
	im, s := newTestImporter(t)
	dir := t.TempDir()
	writeDeck(t, dir, "Spanish.md", "Q: hola\nA: hello\n\nQ: adios\nA: bye\n\nQ: empty\nA:\n")
	writeDeck(t, dir, "nested/French.md", "Q: bonjour\nA: hello\n")
	writeDeck(t, dir, "notes.txt", "Q: ignored\nA: ignored\n")
	writeDeck(t, dir, ".git/HEAD.md", "Q: ignored\nA: ignored\n")

	report, err := im.ImportDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 2, report.CollectionsCreated)
	assert.Equal(t, 3, report.CardsAdded)
	assert.Empty(t, report.Errors)

	titles := map[string]int{}
	for _, c := range s.Collections() {
		titles[c.Title] = s.CardCount(c.ID)
	}
	assert.Equal(t, map[string]int{"Spanish": 2, "French": 1}, titles)
}

func TestImportDirSkipsDuplicates(t *testing.T) {
	im, s := newTestImporter(t)
	dir := t.TempDir()
	writeDeck(t, dir, "Spanish.md", "Q: hola\nA: hello\n")

	_, err := im.ImportDir(context.Background(), dir)
	require.NoError(t, err)

	writeDeck(t, dir, "Spanish.md", "Q: Hola \nA: hello\n\nQ: gracias\nA: thanks\n")
	report, err := im.ImportDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 0, report.CollectionsCreated)
	assert.Equal(t, 1, report.CardsAdded)
	assert.Equal(t, 1, report.Duplicates)
	require.Len(t, s.Collections(), 1)
	assert.Equal(t, 2, s.CardCount(s.Collections()[0].ID))
}

func TestImportDirExtendsExistingCollection(t *testing.T) {
	im, s := newTestImporter(t)
	existing := s.AddCollections([]string{"spanish"})[0]
	dir := t.TempDir()
	writeDeck(t, dir, "Spanish.md", "Q: hola\nA: hello\n")

	report, err := im.ImportDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 0, report.CollectionsCreated)
	assert.Equal(t, 1, s.CardCount(existing.ID))
}

func TestImportDirMissing(t *testing.T) {
	im, _ := newTestImporter(t)

	_, err := im.ImportDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestImportGitRejectsBadURL(t *testing.T) {
	im, _ := newTestImporter(t)

	_, err := im.ImportGit(context.Background(), "not a url")
	assert.Error(t, err)
}
