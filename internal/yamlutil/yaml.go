// Package yamlutil isolates YAML encoding behind a small wrapper so the
// config layer never touches the external library directly.
//
// Decoding is always strict: configuration files are the only YAML this
// project reads, and a misspelled key silently falling back to a
// built-in default is worse than an error.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps YAML input. Config files are small; anything bigger
// is a mistake. Variable so tests can lower it.
var MaxInputSize = 1 << 20

var (
	ErrNoData         = errors.New("yamlutil: no data to decode")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// UnmarshalStrict decodes data into v, rejecting unknown fields and
// inputs over MaxInputSize.
func UnmarshalStrict(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNoData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal encodes v as YAML. Used to render starter config files.
func Marshal(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return data, nil
}
