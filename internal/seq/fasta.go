package seq

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// DefaultLineWidth is the FASTA line width used when none is given.
const DefaultLineWidth = 60

// WriteFASTA writes records as FASTA, wrapping sequence lines at width.
func WriteFASTA(w io.Writer, records []Record, width int) error {
	if width <= 0 {
		width = DefaultLineWidth
	}
	fw := fasta.NewWriter(w, width)
	for _, r := range records {
		s := linear.NewSeq(r.Name, alphabet.BytesToLetters([]byte(r.Sequence)), alphabet.DNAredundant)
		s.Desc = r.Description
		if _, err := fw.Write(s); err != nil {
			return fmt.Errorf("write FASTA record %s: %w", r.Name, err)
		}
	}
	return nil
}

// ReadFASTA reads strict FASTA from r. Sequences are cleaned the same way
// ParseText cleans pasted input.
func ReadFASTA(r io.Reader) ([]Record, error) {
	template := linear.NewSeq("", nil, alphabet.DNAredundant)
	sc := seqio.NewScanner(fasta.NewReader(r, template))

	var records []Record
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("unexpected FASTA sequence type %T", sc.Seq())
		}
		name := s.Name()
		if name == "" {
			name = fmt.Sprintf("seq%d", len(records)+1)
		}
		records = append(records, Record{
			Name:        name,
			Description: s.Description(),
			Sequence:    Clean(s.Seq.String()),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	return records, nil
}
