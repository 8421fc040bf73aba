package exporter

import (
	"strings"

	apperrors "fauxlizer/internal/errors"
)

// Format names a row representation.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatNative Format = "native"
	FormatXLSX   Format = "xlsx"
)

// formatAliases accepts the names used by earlier releases.
var formatAliases = map[string]Format{
	"python": FormatNative,
	"excel":  FormatXLSX,
}

// Formats returns the supported formats in display order.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatNative, FormatXLSX}
}

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	f := Format(key)
	if _, ok := encoders[f]; !ok {
		return "", apperrors.NewUnsupportedFormatError(name)
	}
	return f, nil
}
