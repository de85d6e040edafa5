package enzymedb

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pzweuj/biotools-sub000/internal/restriction"
)

// ImportTSV loads "name<TAB>notation" rows with DuckDB's read_csv and stores
// every row that parses as an enzyme. Lines starting with '#' and rows
// without a notation are skipped; unparsable rows are logged and skipped.
// It returns the number of enzymes stored.
func (s *Store) ImportTSV(path string) (int, error) {
	query := fmt.Sprintf(`SELECT trim(name), trim(notation)
		FROM read_csv('%s', delim='\t', header=false, null_padding=true,
			columns={'name': 'VARCHAR', 'notation': 'VARCHAR'})
		WHERE name IS NOT NULL AND notation IS NOT NULL
			AND NOT starts_with(trim(name), '#')`,
		strings.ReplaceAll(path, "'", "''"))

	rows, err := s.db.Query(query)
	if err != nil {
		return 0, fmt.Errorf("read enzyme TSV %s: %w", path, err)
	}
	defer rows.Close()

	var enzymes []restriction.Enzyme
	for rows.Next() {
		var name, notation string
		if err := rows.Scan(&name, &notation); err != nil {
			return 0, fmt.Errorf("scan enzyme row: %w", err)
		}
		e, err := restriction.ParseEnzyme(name, notation)
		if err != nil {
			s.logger.Warn("skipping enzyme row", zap.String("name", name), zap.Error(err))
			continue
		}
		enzymes = append(enzymes, e)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate enzyme rows: %w", err)
	}

	if err := s.PutAll(enzymes); err != nil {
		return 0, err
	}
	s.logger.Info("imported enzymes", zap.String("path", path), zap.Int("count", len(enzymes)))
	return len(enzymes), nil
}
