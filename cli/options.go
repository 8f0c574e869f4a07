package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// DefaultExtensions are the file extensions scanned in directory mode.
// Extensions only select candidates; format detection works on the file
// contents alone.
var DefaultExtensions = []string{".bin", ".md", ".sfc", ".smc"}

// Options control a scan run. Recursive and Extensions can come from the
// config file; DryRun and Verbose are per-run choices.
type Options struct {
	Recursive  bool
	DryRun     bool
	Verbose    bool
	Extensions []string
}

// DefaultOptions returns the built-in scan defaults.
func DefaultOptions() Options {
	return Options{Extensions: DefaultExtensions}
}

// LoadOptions merges the built-in defaults with the ini file at path.
// A missing file is not an error. The [scan] section may set recursive
// and extensions (comma separated).
func LoadOptions(fs afero.Fs, path string) (Options, error) {
	opts := DefaultOptions()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, err
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return opts, fmt.Errorf("config %s: %w", path, err)
	}

	scan := cfg.Section("scan")
	opts.Recursive = scan.Key("recursive").MustBool(opts.Recursive)
	if exts := scan.Key("extensions").Strings(","); len(exts) > 0 {
		opts.Extensions = normalizeExtensions(exts)
	}
	return opts, nil
}

// normalizeExtensions lowercases entries and ensures the leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
