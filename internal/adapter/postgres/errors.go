package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
)

// mapError converts pgx/pgconn errors encountered while streaming the
// bilingual lexicon source table into the ldaerr taxonomy. what identifies
// the row or query that failed (e.g. a source-table primary key or batch
// offset), for inclusion in the wrapped message.
//
// context.DeadlineExceeded and context.Canceled are NOT mapped — they pass through.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", what, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ldaerr.NewNotFoundError("row", what)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514": // check_violation
			return ldaerr.NewInvalidInputError(what, "%s", pgErr.Message)
		}
	}

	return ldaerr.Wrapf(err, "query %s", what)
}
