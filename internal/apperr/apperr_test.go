package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create reservation: %w", Conflict("this table is not available at this time"))

	assert.True(t, IsConflict(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "this table is not available at this time", Message(err))
}

func TestNotFoundIfNoRows(t *testing.T) {
	err := NotFoundIfNoRows(fmt.Errorf("scan: %w", sql.ErrNoRows), "table not found")
	assert.True(t, IsNotFound(err))

	other := errors.New("connection refused")
	assert.Equal(t, other, NotFoundIfNoRows(other, "table not found"))
	assert.Equal(t, KindInternal, KindOf(other))
	assert.Equal(t, "internal server error", Message(other))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindValidation, "bad input", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad input: boom", err.Error())
	assert.Equal(t, "validation", KindOf(err).String())
}
