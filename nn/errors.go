package nn

import "github.com/pkg/errors"

// ErrContractViolation is returned when a caller hands the network vectors or
// weights that do not match its topology. Test for it with errors.Is.
var ErrContractViolation = errors.New("contract violation")

func violation(format string, args ...interface{}) error {
	return errors.Wrapf(ErrContractViolation, format, args...)
}
