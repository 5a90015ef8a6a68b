package querier

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestViolations(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "employees_email_key"})
	name, ok := UniqueViolation(unique)
	assert.True(t, ok)
	assert.Equal(t, "employees_email_key", name)

	_, ok = ForeignKeyViolation(unique)
	assert.False(t, ok)

	_, ok = UniqueViolation(fmt.Errorf("plain"))
	assert.False(t, ok)

	_, ok = ForeignKeyViolation(&pgconn.PgError{Code: "23503"})
	assert.True(t, ok)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, NullIfEmpty(""))
	assert.Equal(t, "x", NullIfEmpty("x"))
}
