package cli

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// makeGenesisImage builds a 0x400-byte Genesis image. stale controls
// whether the stored checksum matches the content (the correct sum of the
// two data words is 468A).
func makeGenesisImage(stale bool) []byte {
	img := make([]byte, 0x400)
	for i := 0x100; i < 0x110; i++ {
		img[i] = ' '
	}
	copy(img[0x100:0x110], "SEGA MEGA DRIVE")
	img[0x200] = 0x01
	img[0x201] = 0x23
	img[0x300] = 0x45
	img[0x301] = 0x67

	sum := uint16(0x468A)
	if stale {
		sum = 0x1111
	}
	binary.BigEndian.PutUint16(img[0x18E:0x190], sum)
	return img
}

// makeSNESImage builds a 32KB LoROM image with a self-consistent header
// pair. stale stores a pair one off from the correct checksum.
func makeSNESImage(stale bool) []byte {
	img := make([]byte, 0x8000)
	for i := 0; i < 21; i++ {
		img[0x7FC0+i] = ' '
	}
	img[0x7FD5] = 0x20 // map mode
	img[0x7FD7] = 0x05 // 32KB declared

	// The stored fields count as FF FF 00 00 during the sum
	img[0x7FDC] = 0xFF
	img[0x7FDD] = 0xFF
	var sum uint16
	for i := 0; i+1 < len(img); i += 2 {
		sum += binary.BigEndian.Uint16(img[i : i+2])
	}
	if stale {
		sum++
	}
	binary.BigEndian.PutUint16(img[0x7FDC:], sum^0xFFFF)
	binary.BigEndian.PutUint16(img[0x7FDE:], sum)
	return img
}

func newTestRunner(fs afero.Fs, opts Options) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	return NewRunner(fs, &out, opts), &out
}

func TestRun_FixesStaleGenesis(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "roms/game.md", makeGenesisImage(true), 0644)

	r, out := newTestRunner(fs, DefaultOptions())
	sum := r.Run([]string{"roms"})

	if sum.Scanned != 1 || sum.Fixed != 1 {
		t.Errorf("expected 1 scanned 1 fixed, got %+v", sum)
	}

	data, err := afero.ReadFile(fs, "roms/game.md")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if got := binary.BigEndian.Uint16(data[0x18E:0x190]); got != 0x468A {
		t.Errorf("expected stored checksum 468A, got %04X", got)
	}
	if !bytes.Equal(data, makeGenesisImage(false)) {
		t.Error("expected only the checksum bytes rewritten")
	}
	if !strings.Contains(out.String(), "checksum fixed: 1111 -> 468A") {
		t.Errorf("expected fix line, got %q", out.String())
	}
}

func TestRun_CorrectFileUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	orig := makeSNESImage(false)
	afero.WriteFile(fs, "roms/game.sfc", orig, 0644)

	r, out := newTestRunner(fs, DefaultOptions())
	sum := r.Run([]string{"roms"})

	if sum.Correct != 1 {
		t.Errorf("expected 1 correct, got %+v", sum)
	}
	data, err := afero.ReadFile(fs, "roms/game.sfc")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if !bytes.Equal(data, orig) {
		t.Error("expected file unchanged")
	}
	if !strings.Contains(out.String(), "checksum correct") {
		t.Errorf("expected correct line, got %q", out.String())
	}
}

func TestRun_FixesCopierHeaderedSNES(t *testing.T) {
	fs := afero.NewMemMapFs()
	img := append(make([]byte, 512), makeSNESImage(true)...)
	afero.WriteFile(fs, "roms/game.smc", img, 0644)

	r, _ := newTestRunner(fs, DefaultOptions())
	if sum := r.Run([]string{"roms"}); sum.Fixed != 1 {
		t.Fatalf("expected fix, got %+v", sum)
	}

	data, err := afero.ReadFile(fs, "roms/game.smc")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	comp := binary.BigEndian.Uint16(data[512+0x7FDC:])
	cs := binary.BigEndian.Uint16(data[512+0x7FDE:])
	if comp^cs != 0xFFFF {
		t.Errorf("expected consistent pair, got %04X and %04X", comp, cs)
	}
	if !bytes.Equal(data[:512+0x7FDC], img[:512+0x7FDC]) {
		t.Error("expected bytes before the pair untouched")
	}
	if !bytes.Equal(data[512+0x7FE0:], img[512+0x7FE0:]) {
		t.Error("expected bytes after the pair untouched")
	}

	// A second scan converges
	if sum := r.Run([]string{"roms"}); sum.Correct != 1 {
		t.Errorf("expected file correct after fix, got %+v", sum)
	}
}

func TestRun_DryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	orig := makeGenesisImage(true)
	afero.WriteFile(fs, "roms/game.md", orig, 0644)

	opts := DefaultOptions()
	opts.DryRun = true
	r, out := newTestRunner(fs, opts)
	sum := r.Run([]string{"roms"})

	if sum.Fixed != 1 {
		t.Errorf("expected stale file counted, got %+v", sum)
	}
	data, err := afero.ReadFile(fs, "roms/game.md")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if !bytes.Equal(data, orig) {
		t.Error("expected dry run to leave the file unchanged")
	}
	if !strings.Contains(out.String(), "(dry run)") {
		t.Errorf("expected dry run note, got %q", out.String())
	}
}

func TestRun_Unrecognized(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "roms/junk.bin", make([]byte, 1024), 0644)

	r, out := newTestRunner(fs, DefaultOptions())
	sum := r.Run([]string{"roms"})

	if sum.Unrecognized != 1 {
		t.Errorf("expected 1 unrecognized, got %+v", sum)
	}
	if !strings.Contains(out.String(), "unrecognized format") {
		t.Errorf("expected unrecognized line, got %q", out.String())
	}
}

func TestRun_ExtensionFilter(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "roms/notes.txt", makeGenesisImage(true), 0644)

	r, _ := newTestRunner(fs, DefaultOptions())
	if sum := r.Run([]string{"roms"}); sum.Scanned != 0 {
		t.Errorf("expected directory scan to skip unknown extension, got %+v", sum)
	}

	// An explicit file argument bypasses the filter
	if sum := r.Run([]string{"roms/notes.txt"}); sum.Scanned != 1 || sum.Fixed != 1 {
		t.Errorf("expected explicit file processed, got %+v", sum)
	}
}

func TestRun_RecursiveScan(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "roms/top.md", makeGenesisImage(true), 0644)
	afero.WriteFile(fs, "roms/sub/deep.md", makeGenesisImage(true), 0644)

	r, _ := newTestRunner(fs, DefaultOptions())
	if sum := r.Run([]string{"roms"}); sum.Scanned != 1 {
		t.Errorf("expected subdirectory skipped, got %+v", sum)
	}

	opts := DefaultOptions()
	opts.Recursive = true
	r, _ = newTestRunner(fs, opts)
	if sum := r.Run([]string{"roms"}); sum.Scanned != 2 {
		t.Errorf("expected recursive scan to find both files, got %+v", sum)
	}
}

func TestRun_MissingPath(t *testing.T) {
	fs := afero.NewMemMapFs()

	r, out := newTestRunner(fs, DefaultOptions())
	sum := r.Run([]string{"nope"})

	if sum.Failed != 1 {
		t.Errorf("expected 1 failed, got %+v", sum)
	}
	if !strings.Contains(out.String(), markFail) {
		t.Errorf("expected failure marker, got %q", out.String())
	}
}

func TestRun_FailureDoesNotAbortBatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "roms/good.md", makeGenesisImage(true), 0644)

	r, _ := newTestRunner(fs, DefaultOptions())
	sum := r.Run([]string{"missing.md", "roms/good.md"})

	if sum.Failed != 1 || sum.Fixed != 1 {
		t.Errorf("expected failure then fix, got %+v", sum)
	}
}

func TestRun_VerboseReportsSkips(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "roms/readme.txt", []byte("hello"), 0644)

	opts := DefaultOptions()
	opts.Verbose = true
	r, out := newTestRunner(fs, opts)
	r.Run([]string{"roms"})

	if !strings.Contains(out.String(), "skipped") {
		t.Errorf("expected skip line, got %q", out.String())
	}
}
