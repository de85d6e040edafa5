package seq

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "ACGT", "ACGT"},
		{"lowercase", "acgt", "ACGT"},
		{"whitespace and digits", "1 acgt\n61 ttaa", "ACGTTTAA"},
		{"ambiguity codes kept", "ryswkmbdhvn", "RYSWKMBDHVN"},
		{"rna kept", "acgu", "ACGU"},
		{"junk stripped", "AC-G*T.x", "ACGT"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want string
	}{
		{"simple", "ATGC", "GCAT"},
		{"single base", "A", "T"},
		{"palindrome", "GAATTC", "GAATTC"},
		{"with N", "ANNG", "CNNT"},
		{"lowercase", "atgc", "gcat"},
		{"unknown passes through", "AXR-G", "C-RXT"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReverseComplement(tt.seq))
		})
	}
}

func TestReverseComplement_Involution(t *testing.T) {
	seqs := []string{
		"",
		"N",
		"ACGTN",
		"GGGATCCNNNAATTTTGCGC",
		strings.Repeat("ACGTTGCAN", 20), // longer than the stack buffer
	}
	for _, s := range seqs {
		assert.Equal(t, s, ReverseComplement(ReverseComplement(s)), s)
	}
}

func TestTranscribe(t *testing.T) {
	assert.Equal(t, "AUGCUU", Transcribe("ATGCTT"))
	assert.Equal(t, "augc", Transcribe("atgc"))
	assert.Equal(t, "NNRY", Transcribe("NNRY"))

	for _, s := range []string{"ATGTTT", "AUGUUU", "acgtn", ""} {
		once := Transcribe(s)
		assert.Equal(t, once, Transcribe(once), "transcribe must be idempotent for %q", s)
	}

	assert.Equal(t, "ATGCTT", ReverseTranscribe("AUGCUU"))
}

func TestReverse(t *testing.T) {
	assert.Equal(t, "TGCA", Reverse("ACGT"))
	assert.Equal(t, "", Reverse(""))
}

func TestGCContent(t *testing.T) {
	assert.InDelta(t, 0.5, GCContent("ATGC"), 1e-9)
	assert.InDelta(t, 1.0, GCContent("GGCC"), 1e-9)
	assert.InDelta(t, 0.5, GCContent("GCNNAU"), 1e-9)
	assert.Equal(t, 0.0, GCContent("NNNN"))
	assert.Equal(t, 0.0, GCContent(""))
}

func TestParseText(t *testing.T) {
	text := `>rec1 first record
ATGAAA
tag
>rec2
GG CC
>
ACGT
`
	recs := ParseText(text)
	require.Len(t, recs, 3)

	assert.Equal(t, Record{Name: "rec1", Description: "first record", Sequence: "ATGAAATAG"}, recs[0])
	assert.Equal(t, Record{Name: "rec2", Sequence: "GGCC"}, recs[1])
	assert.Equal(t, "seq3", recs[2].Name)
	assert.Equal(t, "ACGT", recs[2].Sequence)
}

func TestParseText_NoHeader(t *testing.T) {
	recs := ParseText("atg aaa\ntag")
	require.Len(t, recs, 1)
	assert.Equal(t, "seq1", recs[0].Name)
	assert.Equal(t, "ATGAAATAG", recs[0].Sequence)

	assert.Empty(t, ParseText(""))
	assert.Empty(t, ParseText("\n\n  \n"))
}

func TestParseTSV(t *testing.T) {
	text := "# comment\nprimerF\tacgtacgt\n\nprimerR\tTTTT\nGGGG\n"
	recs := ParseTSV(text)
	require.Len(t, recs, 3)
	assert.Equal(t, Record{Name: "primerF", Sequence: "ACGTACGT"}, recs[0])
	assert.Equal(t, Record{Name: "primerR", Sequence: "TTTT"}, recs[1])
	assert.Equal(t, Record{Name: "seq3", Sequence: "GGGG"}, recs[2])

	recs = ParseTSV("empty\t\r\nnamed\tAC\r\n")
	assert.Equal(t, []Record{{Name: "empty"}, {Name: "named", Sequence: "AC"}}, recs)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("FASTA")
	require.NoError(t, err)
	assert.Equal(t, FormatFASTA, f)

	f, err = ParseFormat("tab")
	require.NoError(t, err)
	assert.Equal(t, FormatTSV, f)

	f, err = ParseFormat("txt")
	require.NoError(t, err)
	assert.Equal(t, FormatTSV, f)

	_, err = ParseFormat("genbank")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func roundTripRecords() []Record {
	return []Record{
		{Name: "short", Sequence: "ATGAAATAG"},
		{Name: "wrapped", Description: "long one", Sequence: strings.Repeat("ACGTTGCA", 20)},
		{Name: "ambiguous", Sequence: "ACGTNRYACGT"},
		{Name: "empty", Sequence: ""},
	}
}

func namesAndSeqs(recs []Record) [][2]string {
	out := make([][2]string, len(recs))
	for i, r := range recs {
		out[i] = [2]string{r.Name, r.Sequence}
	}
	return out
}

func TestRoundTrip_FASTA(t *testing.T) {
	recs := roundTripRecords()

	var buf bytes.Buffer
	require.NoError(t, WriteFASTA(&buf, recs, 60))

	// Wrapped output: no line longer than the width.
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !strings.HasPrefix(line, ">") {
			assert.LessOrEqual(t, len(line), 60)
		}
	}

	strict, err := ReadFASTA(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, namesAndSeqs(recs), namesAndSeqs(strict))
	assert.Equal(t, "long one", strict[1].Description)

	lenient := ParseText(buf.String())
	assert.Equal(t, namesAndSeqs(recs), namesAndSeqs(lenient))
}

func TestRoundTrip_TSV(t *testing.T) {
	recs := roundTripRecords()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, recs, FormatTSV, 0))

	got := Parse(buf.String(), FormatTSV)
	assert.Equal(t, recs, got)
}

func TestRoundTrip_EmptySequence(t *testing.T) {
	recs := ParseText(">empty\n>b\nACGT\n")
	require.Equal(t, [][2]string{{"empty", ""}, {"b", "ACGT"}}, namesAndSeqs(recs))

	for _, f := range []Format{FormatFASTA, FormatTSV} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, recs, f, 0))
		assert.Equal(t, namesAndSeqs(recs), namesAndSeqs(Parse(buf.String(), f)), f.String())
	}
}

func TestRoundTrip_TSVNameWithSpaces(t *testing.T) {
	recs := ParseTSV("my primer\tACGT\n")
	require.Len(t, recs, 1)
	assert.Equal(t, Record{Name: "my", Description: "primer", Sequence: "ACGT"}, recs[0])

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, recs, FormatFASTA, 0))
	assert.Equal(t, ">my primer\nACGT\n", buf.String())
	assert.Equal(t, recs, Parse(buf.String(), FormatFASTA))

	buf.Reset()
	require.NoError(t, Write(&buf, recs, FormatTSV, 0))
	assert.Equal(t, "my primer\tACGT\n", buf.String())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	fa := filepath.Join(dir, "in.fa")
	require.NoError(t, os.WriteFile(fa, []byte(">a\nACGT\nACGT\n>b\nTTTT\n"), 0644))
	recs, err := LoadFile(fa)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"a", "ACGTACGT"}, {"b", "TTTT"}}, namesAndSeqs(recs))

	gzPath := filepath.Join(dir, "in.fasta.gz")
	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err = gw.Write([]byte(">c\nGGCC\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, os.WriteFile(gzPath, gzBuf.Bytes(), 0644))
	recs, err = LoadFile(gzPath)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"c", "GGCC"}}, namesAndSeqs(recs))

	tsv := filepath.Join(dir, "in.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("x\tAACC\n"), 0644))
	recs, err = LoadFile(tsv)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"x", "AACC"}}, namesAndSeqs(recs))

	txt := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(txt, []byte("y\tGGTT\nempty\t\n"), 0644))
	recs, err = LoadFile(txt)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"y", "GGTT"}, {"empty", ""}}, namesAndSeqs(recs))

	seqFile := filepath.Join(dir, "in.seq")
	require.NoError(t, os.WriteFile(seqFile, []byte(">z\nAC\nGT\n"), 0644))
	recs, err = LoadFile(seqFile)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"z", "ACGT"}}, namesAndSeqs(recs))

	_, err = LoadFile(filepath.Join(dir, "missing.fa"))
	assert.Error(t, err)
}
