package ingest

import (
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobFile = `
# Staff Engineer, Acme

**Dates:** 2020 - 2023
**Skills:** Go, Kubernetes , , PostgreSQL

Led the platform team that moved billing to event sourcing.
`

func TestParseHeadingSkillsAndDates(t *testing.T) {
	doc, err := Parse("jobs/acme.md", []byte(jobFile), "job")
	require.NoError(t, err)

	assert.Equal(t, "jobs/acme.md", doc.SourceId)
	assert.Equal(t, "Staff Engineer, Acme", doc.Title)
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL"}, doc.Skills)
	assert.Equal(t, "2020 - 2023", doc.Metadata["date"])
	assert.Equal(t, "job", doc.Metadata["type"])
	assert.NotContains(t, doc.Content, "# Staff Engineer")
	assert.Contains(t, doc.Content, "event sourcing")
	assert.Len(t, doc.ContentHash, 64)
	assert.Equal(t, "Staff Engineer, Acme\n"+doc.Content, doc.EmbeddingText())
}

func TestParseHashTracksContent(t *testing.T) {
	a, err := Parse("jobs/a.md", []byte("# A\nbody"), "job")
	require.NoError(t, err)
	b, err := Parse("jobs/a.md", []byte("# A\nbody"), "job")
	require.NoError(t, err)
	c, err := Parse("jobs/a.md", []byte("# A\nbody changed"), "job")
	require.NoError(t, err)

	assert.Equal(t, a.ContentHash, b.ContentHash)
	assert.NotEqual(t, a.ContentHash, c.ContentHash)
}

func TestParseFrontMatter(t *testing.T) {
	raw := `---
title: Realtime Chess Engine
skills: [Rust, WebAssembly]
dates: "2022"
repo: github.com/me/chess
---
A browser chess engine.

**Skills:** ignored
`
	doc, err := Parse("projects/chess.md", []byte(raw), "project")
	require.NoError(t, err)

	assert.Equal(t, "Realtime Chess Engine", doc.Title)
	assert.Equal(t, []string{"Rust", "WebAssembly"}, doc.Skills)
	assert.Equal(t, "2022", doc.Metadata["date"])
	assert.Equal(t, "github.com/me/chess", doc.Metadata["repo"])
	assert.Equal(t, "project", doc.Metadata["type"])
	assert.True(t, len(doc.Content) > 0 && doc.Content[:9] == "A browser", doc.Content)
}

func TestParseWithoutHeadingUsesFirstLine(t *testing.T) {
	doc, err := Parse("projects/x.md", []byte("\n\nSide Project\nBuilt a thing."), "project")
	require.NoError(t, err)
	assert.Equal(t, "Side Project", doc.Title)
	assert.Equal(t, "Built a thing.", doc.Content)
	assert.Empty(t, doc.Skills)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("jobs/empty.md", []byte("   \n"), "job")
	assert.Equal(t, ErrEmptyDocument, errors.Cause(err))

	_, err = Parse("jobs/bad.md", []byte("---\ntitle: x\nno end"), "job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs/bad.md")
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"jobs/b.md":         {Data: []byte("# Beta Corp\nwork")},
		"jobs/a.md":         {Data: []byte("# Alpha Inc\nwork")},
		"jobs/notes.txt":    {Data: []byte("ignored")},
		"projects/empty.md": {Data: []byte("")},
		"projects/p.md":     {Data: []byte("# Pet Project\nfun")},
		"drafts/d.md":       {Data: []byte("# Draft\nno")},
	}

	docs, err := LoadFS(fsys)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	var titles []string
	for _, d := range docs {
		titles = append(titles, d.Title)
	}
	assert.Equal(t, []string{"Alpha Inc", "Beta Corp", "Pet Project"}, titles)
	assert.Equal(t, "project", docs[2].Metadata["type"])
	assert.Equal(t, "projects/p.md", docs[2].SourceId)
}

func TestLoadFSMissingFolders(t *testing.T) {
	docs, err := LoadFS(fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}
