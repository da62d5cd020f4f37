package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// LexiconRow is one bilingual candidate pair read from the source table
// backing cmd/ldatranslate-dictimport, before it is folded into a
// dictionary.Entry.
type LexiconRow struct {
	ID         int64
	WordA      string
	WordB      string
	Dictionary string
	MetaA      []string
	MetaB      []string
	UnstemmedA map[string][]string
	UnstemmedB map[string][]string
}

// LexiconReader streams bilingual_lexicon-shaped rows from table in batches,
// ordered by id, using keyset pagination (id > last seen) rather than
// OFFSET so throughput doesn't degrade as the import progresses.
type LexiconReader struct {
	q      Querier
	table  string
	batch  uint64
	lastID int64
}

// NewLexiconReader returns a reader over table, paginating batchSize rows
// at a time through q (typically a *pgxpool.Pool, or a pgx.Tx if the
// caller wants the whole import inside one transaction). batchSize <= 0
// is treated as 1.
func NewLexiconReader(q Querier, table string, batchSize int) *LexiconReader {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &LexiconReader{q: q, table: table, batch: uint64(batchSize)}
}

// lexiconPageQuery builds the keyset-paginated SELECT for one page of table,
// split out from Next so its shape can be asserted without a live database.
func lexiconPageQuery(table string, afterID int64, limit uint64) (string, []any, error) {
	return squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("id", "word_a", "word_b", "dictionary", "meta_a", "meta_b", "unstemmed_a", "unstemmed_b").
		From(table).
		Where(squirrel.Gt{"id": afterID}).
		OrderBy("id ASC").
		Limit(limit).
		ToSql()
}

// Next returns the next batch of rows, or an empty slice once the table is
// exhausted. Rows are returned in ascending id order; the reader advances
// its cursor past the last row returned.
func (r *LexiconReader) Next(ctx context.Context) ([]LexiconRow, error) {
	sql, args, err := lexiconPageQuery(r.table, r.lastID, r.batch)
	if err != nil {
		return nil, fmt.Errorf("build lexicon query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("%s page after id %d", r.table, r.lastID))
	}
	defer rows.Close()

	var out []LexiconRow
	for rows.Next() {
		var row LexiconRow
		var unstA, unstB []byte
		if err := rows.Scan(&row.ID, &row.WordA, &row.WordB, &row.Dictionary, &row.MetaA, &row.MetaB, &unstA, &unstB); err != nil {
			return nil, mapError(err, fmt.Sprintf("%s row after id %d", r.table, r.lastID))
		}
		if len(unstA) > 0 {
			if err := json.Unmarshal(unstA, &row.UnstemmedA); err != nil {
				return nil, fmt.Errorf("%s row %d: decode unstemmed_a: %w", r.table, row.ID, err)
			}
		}
		if len(unstB) > 0 {
			if err := json.Unmarshal(unstB, &row.UnstemmedB); err != nil {
				return nil, fmt.Errorf("%s row %d: decode unstemmed_b: %w", r.table, row.ID, err)
			}
		}
		out = append(out, row)
		r.lastID = row.ID
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, fmt.Sprintf("%s page after id %d", r.table, r.lastID))
	}
	return out, nil
}
