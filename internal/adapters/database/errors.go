package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

// IsUnavailable reports whether err means the store could not be reached or
// did not answer in time, as opposed to rejecting the operation.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, domain.ErrTemporarilyUnavailable) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == "08": // connection_exception
			return true
		case pqErr.Code == "57P01": // admin_shutdown
			return true
		case pqErr.Code == "57014": // query_canceled, raised by statement_timeout
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}

// Classify marks unavailability errors with domain.ErrTemporarilyUnavailable.
// Other errors are returned as is.
func Classify(err error) error {
	if err == nil || errors.Is(err, domain.ErrTemporarilyUnavailable) {
		return err
	}
	if IsUnavailable(err) {
		return fmt.Errorf("%w: %w", domain.ErrTemporarilyUnavailable, err)
	}
	return err
}
