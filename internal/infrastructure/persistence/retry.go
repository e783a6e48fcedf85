package persistence

import (
	"database/sql/driver"
	"errors"
	"strings"
)

// transientPatterns are the connection-fault signatures worth retrying on a
// fresh connection. Anything else is a real error and must surface.
var transientPatterns = []string{
	"ssl connection has been closed",
	"connection reset",
	"connection refused",
	"server closed the connection",
	"broken pipe",
	"unexpected eof",
	"bad connection",
}

// IsTransientError reports whether err looks like a connection fault. The
// coordinator retries the enclosing transaction with backoff when this
// returns true; each retry checks out a fresh pooled connection.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	message := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(message, pattern) {
			return true
		}
	}
	return false
}
