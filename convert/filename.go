package convert

import (
	"regexp"
	"strings"
)

// DefaultFilename is used when a name sanitizes to nothing.
const DefaultFilename = "text-to-pdf"

const maxFilenameLength = 64

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_ ]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// SanitizeFilename reduces name to a safe lowercase slug without extension.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultFilename
	}
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, "-")
	name = strings.ToLower(name)
	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	if name == "" {
		return DefaultFilename
	}
	return name
}

// StripFilename removes characters outside [A-Za-z0-9-_ ] and trims the
// result, keeping case. It is the lenient pass applied to user-supplied names
// before the first line of the text is used as a fallback.
func StripFilename(name string) string {
	return strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(name, ""))
}

// FilenameFor picks the download name: the stripped requested name, else the
// first line of the text, sanitized and suffixed with .pdf.
func FilenameFor(requested, text string) string {
	name := StripFilename(requested)
	if name == "" {
		name, _, _ = strings.Cut(text, "\n")
	}
	return SanitizeFilename(name) + ".pdf"
}
