package feconf

import "errors"

// Operator input errors: the caller supplied a name or value the device
// cannot accept. These are always surfaced and never corrected silently.
var (
	ErrUnknownValuePath  = errors.New("value path not in translation map")
	ErrRegisterOverflow  = errors.New("value does not fit in register field")
	ErrMissingField      = errors.New("field missing from configuration")
	ErrNoSuchAddress     = errors.New("no register with this address")
	ErrNoSuchField       = errors.New("no field with this name")
	ErrReadOnlyField     = errors.New("cannot write to read-only field")
	ErrSizeMismatch      = errors.New("byte count does not match register size")
	ErrUnknownDeviceKind = errors.New("unknown device kind")
	ErrBadNumber         = errors.New("malformed number")
	ErrDuplicateValue    = errors.New("value given more than once")
	ErrPathConflict      = errors.New("path is both a value and a group")
)

// Static-table defects: the built-in layout or translation map data is wrong.
// Proceeding would risk writing wrong bits to hardware.
var (
	ErrInconsistentCoverage = errors.New("register coverage is inconsistent")
	ErrAmbiguousField       = errors.New("register field owned by more than one value path")
	ErrOverlappingFragments = errors.New("translation fragments overlap")
	ErrBadTable             = errors.New("malformed static table")
)

// ErrReferenceUnavailable is returned by a Snapshot that holds no value for
// the requested address.
var ErrReferenceUnavailable = errors.New("reference value unavailable")

// IsTableDefect reports whether err stems from broken static layout or
// translation data rather than from the caller's input.
func IsTableDefect(err error) bool {
	return errors.Is(err, ErrInconsistentCoverage) || errors.Is(err, ErrAmbiguousField) ||
		errors.Is(err, ErrOverlappingFragments) || errors.Is(err, ErrBadTable)
}

// IsOperatorError reports whether err was caused by malformed or
// out-of-range caller input.
func IsOperatorError(err error) bool {
	for _, target := range []error{ErrUnknownValuePath, ErrRegisterOverflow, ErrMissingField,
		ErrNoSuchAddress, ErrNoSuchField, ErrReadOnlyField, ErrSizeMismatch,
		ErrUnknownDeviceKind, ErrBadNumber, ErrDuplicateValue, ErrPathConflict} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
