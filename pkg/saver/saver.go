package saver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned when a file name has no usable base name.
var ErrInvalidName = errors.New("saver: invalid file name")

// ErrEmpty is returned when asked to save an empty payload.
var ErrEmpty = errors.New("saver: empty payload")

// cleanName strips any directory part from a host supplied name so a
// payload can never escape the target directory or prefix.
func cleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(filepath.FromSlash(name))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", ErrInvalidName
	}
	return base, nil
}

// objectKey joins a key prefix and the cleaned base of name.
func objectKey(prefix, name string) (string, error) {
	base, err := cleanName(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, name)
	}
	return prefix + base, nil
}
