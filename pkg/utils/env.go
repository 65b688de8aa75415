// Package utils holds small helpers shared across the module.
package utils

import (
	"os"
	"regexp"
)

// envPattern matches ${VAR_NAME} references.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv replaces ${VAR_NAME} references in s with the value of the
// corresponding environment variable. References to unset or empty
// variables are left as-is, so later error messages show the unexpanded
// form.
func ExpandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(name); value != "" {
			return value
		}
		return match
	})
}
