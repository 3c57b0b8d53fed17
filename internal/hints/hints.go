// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strconv"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mergepdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/go-mergepdf/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnsupportedInput lists the file types the assembler accepts.
func ForUnsupportedInput() string {
	return format("supported formats: PDF, JPEG, PNG")
}

// ForCapacity explains how to merge more files than one document accepts.
func ForCapacity(limit int) string {
	return formatHints([]string{
		"a document takes at most " + strconv.Itoa(limit) + " files",
		"raise it with --max-sources or split the files across batch jobs",
	})
}

// ForEncryptedSource returns hints for PDF sources that need a password.
func ForEncryptedSource() string {
	return format("remove the protection first, e.g. pdfcpu decrypt -upw <password> in.pdf out.pdf")
}

// ForPassword reminds that the output is never encrypted.
func ForPassword() string {
	return format("the output is written unprotected; encrypt it with another tool if needed")
}

// ForNoPages returns hints when every source was skipped.
func ForNoPages() string {
	return format("every source was skipped; see the warnings above")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
