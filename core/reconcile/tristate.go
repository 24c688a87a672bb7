package reconcile

import (
	"bytes"
	"fmt"
)

// Tristate is a boolean attribute a service may not track at all.
// The zero value is Unknown, which is never equivalent to False.
type Tristate int8

const (
	// Unknown means the service does not expose this attribute.
	Unknown Tristate = iota
	// True means the service reports the attribute as set.
	True
	// False means the service reports the attribute as explicitly unset.
	False
)

// Bool converts a concrete boolean into a known Tristate.
func Bool(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// TrueOrUnknown maps true to True and false to Unknown.
// Trackers use it for completion flags they can only confirm, never deny.
func TrueOrUnknown(b bool) Tristate {
	if b {
		return True
	}
	return Unknown
}

// Known reports whether the value is True or False.
func (t Tristate) Known() bool {
	return t == True || t == False
}

// String returns "true", "false" or "unknown".
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes Unknown as null.
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return []byte("true"), nil
	case False:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false and null.
func (t *Tristate) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*t = True
	case "false":
		*t = False
	case "null":
		*t = Unknown
	default:
		return fmt.Errorf("invalid tristate value %s", data)
	}
	return nil
}
