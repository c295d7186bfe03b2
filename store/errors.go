package store

import (
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound: user or relationship absent.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists: a relationship already exists for the pair, in
	// either status.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSelfReference: a user may not hold a relationship with themselves.
	ErrSelfReference = errors.New("self reference")
	// ErrForbidden: the acting user lacks authority over the transition.
	ErrForbidden = errors.New("forbidden")
	// ErrUnavailable: the backing store is unreachable; callers may retry.
	ErrUnavailable = errors.New("store unavailable")
)

const mysqlDupEntry = 1062

// translate maps driver-level failures onto the domain taxonomy. A duplicate
// key on uk_pair is how two racing creates for the same pair resolve to
// exactly one winner.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDupEntry {
		return ErrAlreadyExists
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return ErrUnavailable
	}

	return err
}
