// Package cli provides the command-line scan runner. It walks the
// requested paths, classifies each candidate file, and rewrites stale
// checksums in place.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/DarthMotzkus/fixchecksum-md-sfc/rom"
)

// Per-file status line markers.
const (
	markFixed   = "✓"
	markCorrect = "○"
	markFail    = "✗"
	markSkip    = "-"
)

// Summary counts the per-file outcomes of a scan. Fixed counts stale
// checksums found, whether or not DryRun suppressed the write.
type Summary struct {
	Scanned      int
	Fixed        int
	Correct      int
	Unrecognized int
	Failed       int
}

// Runner scans paths and fixes ROM checksums. Files are processed
// strictly one at a time.
type Runner struct {
	fs   afero.Fs
	out  io.Writer
	opts Options
	exts map[string]bool
}

// NewRunner creates a Runner over fs that writes status lines to out.
func NewRunner(fs afero.Fs, out io.Writer, opts Options) *Runner {
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range normalizeExtensions(opts.Extensions) {
		exts[e] = true
	}
	return &Runner{fs: fs, out: out, opts: opts, exts: exts}
}

// Run processes every path: directories are scanned for files with a
// known extension, plain files are processed as given. No per-file
// condition aborts the batch.
func (r *Runner) Run(paths []string) Summary {
	var sum Summary
	for _, p := range paths {
		info, err := r.fs.Stat(p)
		if err != nil {
			r.report(markFail, p, err.Error())
			sum.Failed++
			continue
		}
		if info.IsDir() {
			r.runDir(p, &sum)
		} else {
			r.processFile(p, &sum)
		}
	}
	return sum
}

// runDir scans the files under dir, descending into subdirectories only
// when Recursive is set.
func (r *Runner) runDir(dir string, sum *Summary) {
	afero.Walk(r.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			r.report(markFail, path, err.Error())
			sum.Failed++
			return nil
		}
		if info.IsDir() {
			if !r.opts.Recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !r.exts[strings.ToLower(filepath.Ext(path))] {
			if r.opts.Verbose {
				r.report(markSkip, path, "skipped")
			}
			return nil
		}
		r.processFile(path, sum)
		return nil
	})
}

// processFile loads one file, recomputes its checksum, and patches the
// stored value when stale.
func (r *Runner) processFile(path string, sum *Summary) {
	sum.Scanned++

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		r.report(markFail, path, err.Error())
		sum.Failed++
		return
	}

	outcome, err := rom.Fix(data)
	if err != nil {
		r.report(markFail, path, err.Error())
		sum.Failed++
		return
	}

	switch outcome.Status {
	case rom.StatusFixed:
		if r.opts.DryRun {
			sum.Fixed++
			r.report(markFixed, path, fmt.Sprintf("%s checksum stale: %04X -> %04X (dry run)",
				outcome.Format, outcome.Old, outcome.New))
			return
		}
		if err := r.applyFix(path, outcome); err != nil {
			r.report(markFail, path, err.Error())
			sum.Failed++
			return
		}
		sum.Fixed++
		r.report(markFixed, path, fmt.Sprintf("%s checksum fixed: %04X -> %04X",
			outcome.Format, outcome.Old, outcome.New))
	case rom.StatusAlreadyCorrect:
		sum.Correct++
		r.report(markCorrect, path, fmt.Sprintf("%s checksum correct (%04X)",
			outcome.Format, outcome.New))
	default:
		sum.Unrecognized++
		r.report(markFail, path, "unrecognized format")
	}
}

// applyFix splices the patch bytes into the file without rewriting the
// rest of it.
func (r *Runner) applyFix(path string, o rom.Outcome) error {
	f, err := r.fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteAt(o.Patch(), int64(o.WriteOffset)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// report prints one status line.
func (r *Runner) report(mark, path, msg string) {
	fmt.Fprintf(r.out, "%s %s: %s\n", mark, path, msg)
}
