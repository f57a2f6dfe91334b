package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrUniqueViolation marks an insert rejected by a unique constraint.
	ErrUniqueViolation = errors.New("unique violation")
	// ErrForeignKeyViolation marks a write referencing a missing row.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate maps postgres constraint errors onto sentinel errors and leaves anything else untouched.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", ErrUniqueViolation, pqErr.Constraint)
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrForeignKeyViolation, pqErr.Constraint)
	}
	return err
}

// likePattern escapes LIKE wildcards in s and wraps it for substring matching.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
