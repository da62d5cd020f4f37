package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
)

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, mapError(nil, "whatever"))
}

func TestMapError_ContextErrorsPassThrough(t *testing.T) {
	err := mapError(context.DeadlineExceeded, "lexicon page")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	err = mapError(context.Canceled, "lexicon page")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMapError_NoRowsBecomesNotFound(t *testing.T) {
	err := mapError(pgx.ErrNoRows, "bilingual_lexicon row 5")
	var notFound *ldaerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestMapError_CheckViolationBecomesInvalidInput(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", Message: "meta_a must be an array"}
	err := mapError(pgErr, "bilingual_lexicon row 5")
	var invalid *ldaerr.InvalidInputError
	assert.True(t, errors.As(err, &invalid))
}

func TestMapError_UnknownErrorWrapped(t *testing.T) {
	err := mapError(errors.New("connection reset"), "bilingual_lexicon page after id 42")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bilingual_lexicon page after id 42")
}
