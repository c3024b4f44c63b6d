package engine

import (
	"strings"

	"github.com/google/uuid"
)

// isolatedName builds a per-file schema or database name from the file stem.
// A random suffix keeps files with equal stems apart.
func isolatedName(stem string) string {
	var b strings.Builder
	b.WriteString("slt_")
	for _, r := range strings.ToLower(stem) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if len(name) > 50 {
		name = name[:50]
	}
	return name + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// isValidDatabaseName validates database name (basic check)
func isValidDatabaseName(name string) bool {
	// Only allow alphanumeric, underscore, and specific patterns
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	// Check for SQL injection patterns
	invalidChars := []string{"'", "\"", "`", ";", "--", "/*", "*/", " "}
	for _, char := range invalidChars {
		if strings.Contains(name, char) {
			return false
		}
	}
	return true
}
