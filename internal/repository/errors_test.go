package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	uniq := &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}
	if !isUniqueViolation(uniq) {
		t.Fatal("23505 must classify as unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert user: %w", uniq)) {
		t.Fatal("wrapped 23505 must classify as unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("23503 is not a unique violation")
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Fatal("plain errors must not classify")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "requests_requester_id_fkey"}
	if !isForeignKeyViolation(fk) {
		t.Fatal("23503 must classify as foreign-key violation")
	}
	if !isForeignKeyViolation(fmt.Errorf("delete user: %w", fk)) {
		t.Fatal("wrapped 23503 must classify as foreign-key violation")
	}
	if isForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("23505 is not a foreign-key violation")
	}
	if isForeignKeyViolation(errors.New("connection refused")) {
		t.Fatal("plain errors must not classify")
	}
}
