package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dazhangman/internal/models"
)

func writeList(t *testing.T, dir, name, content string, mtime time.Time) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(p, mtime, mtime))
}

// countingSource records how often lists are parsed
type countingSource struct {
	Source
	reads int
}

func (s *countingSource) Read(level models.Level) ([]models.WordEntry, error) {
	s.reads++
	return s.Source.Read(level)
}

func TestCacheReloadsWhenFileChanges(t *testing.T) {
	dir := t.TempDir()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeList(t, dir, "a1.txt", "# A1\ndie Familie;Nomen;Familie\ngehen;Verb;Bewegung\n", t0)

	src := &countingSource{Source: NewFileSource(dir)}
	cache := NewCache(src)
	ctx := context.Background()

	words, err := cache.Load(ctx, models.LevelA1)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "Familie", words[0].Word)
	assert.Equal(t, "Familie (die)", words[0].Category)

	_, err = cache.Load(ctx, models.LevelA1)
	require.NoError(t, err)
	assert.Equal(t, 1, src.reads, "unchanged file must be served from cache")

	writeList(t, dir, "a1.txt", "der Apfel;Nomen;Essen\n", t0.Add(time.Minute))
	words, err = cache.Load(ctx, models.LevelA1)
	require.NoError(t, err)
	assert.Equal(t, 2, src.reads)
	require.Len(t, words, 1)
	assert.Equal(t, "Apfel", words[0].Word)
}

func TestCacheInjectedStaleCheck(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "a1.txt", "Haus;Nomen;Wohnen\n", time.Now())

	src := &countingSource{Source: NewFileSource(dir)}
	cache := NewCache(src, WithStaleCheck(func(cached, current time.Time) bool { return true }))

	for i := 0; i < 3; i++ {
		_, err := cache.Load(context.Background(), models.LevelA1)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, src.reads)
}

func TestCacheFallsBackToA1(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "a1.txt", "Haus;Nomen;Wohnen\n", time.Now())

	words, err := NewCache(NewFileSource(dir)).Load(context.Background(), models.LevelC1)

	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, models.LevelA1, words[0].Level)
}

func TestCacheUnavailable(t *testing.T) {
	_, err := NewCache(NewFileSource(t.TempDir())).Load(context.Background(), models.LevelB1)

	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestCacheEmptyListIsValid(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "b1.txt", "# nothing yet\n", time.Now())

	words, err := NewCache(NewFileSource(dir)).Load(context.Background(), models.LevelB1)

	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestCacheWarm(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "a1.txt", "Haus\n", time.Now())
	writeList(t, dir, "b2.csv", "word,type,category\nverhandeln,Verb,Arbeit\n", time.Now())

	loaded, err := NewCache(NewFileSource(dir)).Warm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
}

func TestSpreadsheetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.xlsx")
	rows := map[models.Level][]Row{
		models.LevelA1: {{Word: "die Familie", Type: "Nomen", Category: "Familie"}},
		models.LevelB1: {{Word: "entscheiden", Type: "Verb", Category: "Alltag"}},
	}

	require.NoError(t, WriteSpreadsheet(path, rows))

	result, err := ImportSpreadsheet(path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, rows, result.Rows)

	out, err := WriteText(filepath.Join(dir, "lists"), models.LevelA1, result.Rows[models.LevelA1])
	require.NoError(t, err)

	words, err := NewFileSource(filepath.Dir(out)).Read(models.LevelA1)
	require.NoError(t, err)
	assert.Equal(t, []models.WordEntry{
		{Word: "Familie", Type: models.WordTypeNoun, Category: "Familie (die)", Level: models.LevelA1},
	}, words)
}

func TestImportSpreadsheetSkipsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "word,type,category,level\nHaus,Nomen,Wohnen,a1\n,Verb,,a1\nBaum,Nomen,Natur,z9\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result, err := ImportSpreadsheet(path)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Len(t, result.Skipped, 2)
	assert.Len(t, result.Rows[models.LevelA1], 1)
}
