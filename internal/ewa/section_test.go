package ewa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func TestFindSection(t *testing.T) {
	t.Parallel()

	t.Run("nearest heading wins", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `
			<h2>Hardware Capacity</h2>
			<h3>CPU</h3>
			<table><tr><td>x</td></tr></table>`)
		tbl := findAll(doc, atom.Table)
		require.Len(t, tbl, 1)
		assert.Equal(t, "CPU", FindSection(tbl[0]))
	})

	t.Run("blank heading is skipped", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `
			<h2>Security</h2>
			<h3>   </h3>
			<table><tr><td>x</td></tr></table>`)
		tbl := findAll(doc, atom.Table)
		require.Len(t, tbl, 1)
		assert.Equal(t, "Security", FindSection(tbl[0]))
	})

	t.Run("caption fallback", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<table><caption>Transport Management</caption><tr><td>x</td></tr></table>
			<table><tr><td>y</td></tr></table>`)
		tbls := findAll(doc, atom.Table)
		require.Len(t, tbls, 2)
		assert.Equal(t, "Transport Management", FindSection(tbls[1]))
	})

	t.Run("heading text is normalized", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, "<h2>  Performance \n  Overview </h2><table><tr><td>x</td></tr></table>")
		tbl := findAll(doc, atom.Table)
		require.Len(t, tbl, 1)
		assert.Equal(t, "Performance Overview", FindSection(tbl[0]))
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<table><tr><td>x</td></tr></table>`)
		tbl := findAll(doc, atom.Table)
		require.Len(t, tbl, 1)
		assert.Empty(t, FindSection(tbl[0]))
	})
}
