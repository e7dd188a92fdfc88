package ledger

import "github.com/pkg/errors"

// ErrInvalidInput is returned before anything is written when a rental request
// carries an impossible id or a negative price.
var ErrInvalidInput = errors.New("ledger: invalid input")
