package persistence

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"pgconn unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped pgconn unique violation", fmt.Errorf("create cart: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pgconn foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"pq unique violation", &pq.Error{Code: "23505"}, true},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"record not found", gorm.ErrRecordNotFound, false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isUniqueViolation(tc.err))
		})
	}
}
