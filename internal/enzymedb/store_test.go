package enzymedb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzweuj/biotools-sub000/internal/restriction"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustParse(t *testing.T, name, notation string) restriction.Enzyme {
	t.Helper()
	e, err := restriction.ParseEnzyme(name, notation)
	require.NoError(t, err)
	return e
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "enzymes.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(mustParse(t, "MyI", "GA^TC")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
	e, err := s.Get("myi")
	require.NoError(t, err)
	assert.Equal(t, "GATC", e.Site)
}

func TestPutGetDelete(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.Put(mustParse(t, "MyI", "GA^ATTC")))
	e, err := s.Get("MYI")
	require.NoError(t, err)
	assert.Equal(t, restriction.Enzyme{Name: "MyI", Site: "GAATTC", TopCut: 2, BottomCut: 4}, e)

	// Same name in another case replaces the entry.
	require.NoError(t, s.Put(mustParse(t, "myi", "GGTCTC(1/5)")))
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	e, err = s.Get("MyI")
	require.NoError(t, err)
	assert.Equal(t, 7, e.TopCut)

	require.NoError(t, s.Delete("MYI"))
	_, err = s.Get("MyI")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("MyI"), ErrNotFound)
}

func TestPutAllAndList(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.Put(mustParse(t, "Zed", "CC^GG")))

	err := s.PutAll([]restriction.Enzyme{
		mustParse(t, "Beta", "AC^GT"),
		mustParse(t, "alpha", "A^CGT"),
		mustParse(t, "ZED", "C^CGG"),
		mustParse(t, "beta", "ACG^T"),
	})
	require.NoError(t, err)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "beta", list[1].Name)
	assert.Equal(t, 3, list[1].TopCut)
	assert.Equal(t, "ZED", list[2].Name)
	assert.Equal(t, 1, list[2].TopCut)

	assert.NoError(t, s.PutAll(nil))
}

func TestImportTSV(t *testing.T) {
	s := openInMemory(t)

	path := filepath.Join(t.TempDir(), "enzymes.tsv")
	content := "# custom enzymes\n" +
		"MyI\tGA^ATTC\n" +
		"Broken\tGA^X\n" +
		"Lonely\n" +
		"TypeIIS\tGGTCTC(1/5)\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	n, err := s.ImportTSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "MyI", list[0].Name)
	assert.Equal(t, "TypeIIS", list[1].Name)
	assert.Equal(t, 11, list[1].BottomCut)
}

func TestImportTSV_MissingFile(t *testing.T) {
	s := openInMemory(t)
	_, err := s.ImportTSV(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.Put(mustParse(t, "MyI", "GA^ATTC")))
	require.NoError(t, s.Put(mustParse(t, "EcoRI", "^GAATTC")))

	c, err := s.Catalog()
	require.NoError(t, err)
	assert.Equal(t, restriction.DefaultCatalog.Len()+1, c.Len())

	e, ok := c.Lookup("myi")
	require.True(t, ok)
	assert.Equal(t, 2, e.TopCut)

	e, ok = c.Lookup("ecori")
	require.True(t, ok)
	assert.Equal(t, 0, e.TopCut)

	_, ok = c.Lookup("BamHI")
	assert.True(t, ok)
}
