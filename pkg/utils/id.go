package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a 32-char hex id that fits varchar(32) columns.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
