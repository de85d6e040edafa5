package seq

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads records from path. Gzipped files (".gz") are decompressed.
// The format is chosen from the extension using the names ParseFormat
// accepts: FASTA extensions are read as strict FASTA, ".tsv", ".tab" and
// ".txt" as TSV, anything else as lenient pasted text.
// A path of "-" reads from stdin.
func LoadFile(path string) ([]Record, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open sequence file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	name := path
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
	if err == nil && format == FormatFASTA {
		return ReadFASTA(reader)
	}

	data, rerr := io.ReadAll(reader)
	if rerr != nil {
		return nil, fmt.Errorf("read sequence file: %w", rerr)
	}
	if err == nil && format == FormatTSV {
		return ParseTSV(string(data)), nil
	}
	return ParseText(string(data)), nil
}
