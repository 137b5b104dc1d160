package matcher

import (
	"io"
	"os"
	"regexp"
)

// exeTailBytes is how much of the executable's tail gets scanned for an
// ASCII version token.
const exeTailBytes = 8192

var (
	longFlagRe   = regexp.MustCompile(`--version(?:=|\s+)([\d.]+)`)
	shortFlagRe  = regexp.MustCompile(`(?:^|\s)-v(?:ersion)?\s+([\d.]+)`)
	dottedRe     = regexp.MustCompile(`v?([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)
	dottedByteRe = regexp.MustCompile(`v?([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)
)

// VersionFromCmdline extracts a version from --version=X, --version X or
// -v X style command-line tokens.
func VersionFromCmdline(cmdline string) string {
	if m := longFlagRe.FindStringSubmatch(cmdline); m != nil {
		return m[1]
	}
	if m := shortFlagRe.FindStringSubmatch(cmdline); m != nil {
		return m[1]
	}
	return ""
}

// VersionFromTitle finds a dotted-numeric token (optionally "v"-prefixed) in
// a window title.
func VersionFromTitle(title string) string {
	if m := dottedRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// VersionFromExe reads the trailing bytes of the executable and scans for an
// ASCII version token. Any I/O failure or missing file yields "".
func VersionFromExe(path string) string {
	if path == "" {
		return ""
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		return ""
	}

	offset := fi.Size() - exeTailBytes
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(f, exeTailBytes))
	if err != nil {
		return ""
	}

	if m := dottedByteRe.FindSubmatch(data); m != nil {
		return string(m[1])
	}
	return ""
}
