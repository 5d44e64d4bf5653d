package filestorage

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Namer builds the stored name for an upload from its original name and the current time
type Namer func(originalName string, now time.Time) string

// Naming strategies accepted by NamerFor
const (
	NamingTimestamp = "timestamp"
	NamingUnique    = "unique"
)

// TimestampNamer yields <epoch-millis><ext>. Two uploads in the same millisecond
// get the same name and the later one replaces the earlier.
func TimestampNamer(originalName string, now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + extension(originalName)
}

// UniqueNamer yields <epoch-millis>-<uuid><ext>
func UniqueNamer(originalName string, now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString() + extension(originalName)
}

// extension returns the client's extension, or "" when it could not be part of a stored name
func extension(originalName string) string {
	ext := filepath.Ext(originalName)
	if ext == "." || strings.ContainsAny(ext, `/\`) || strings.IndexFunc(ext, unicode.IsControl) >= 0 {
		return ""
	}
	return ext
}

// NamerFor maps a configured strategy name to its Namer
func NamerFor(strategy string) (Namer, error) {
	switch strategy {
	case NamingTimestamp:
		return TimestampNamer, nil
	case NamingUnique, "":
		return UniqueNamer, nil
	default:
		return nil, fmt.Errorf("unknown naming strategy %q", strategy)
	}
}
