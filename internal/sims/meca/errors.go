package meca

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigError.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvariant is matched by every InvariantError.
	ErrInvariant = errors.New("internal invariant violation")
)

// ConfigError reports an invalid construction parameter.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) hold.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// InvariantError reports a state that validated configuration should make
// unreachable.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// Is makes errors.Is(err, ErrInvariant) hold.
func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }

func configErr(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
