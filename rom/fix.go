// Package rom classifies console cartridge images and recomputes their
// header checksums. It works on raw byte buffers, performs no I/O, and
// never modifies its input; fixes are returned as patch bytes plus the
// offset to write them at.
package rom

import "encoding/binary"

// Status classifies the outcome of a Fix call.
type Status int

const (
	StatusUnrecognized Status = iota
	StatusAlreadyCorrect
	StatusFixed
)

func (s Status) String() string {
	switch s {
	case StatusAlreadyCorrect:
		return "already correct"
	case StatusFixed:
		return "fixed"
	default:
		return "unrecognized"
	}
}

// ChecksumResult pairs a recomputed checksum with the stored one.
type ChecksumResult struct {
	Format       Format
	Old          uint16 // stored checksum
	New          uint16 // recomputed checksum
	WriteOffset  int    // absolute offset of the stored field
	CopierHeader int    // 512 when a copier header precedes the image
}

// Changed reports whether the stored checksum needs rewriting.
func (r ChecksumResult) Changed() bool {
	return r.Old != r.New
}

// Patch returns the bytes that store the recomputed checksum at
// WriteOffset: 2 big-endian bytes for Genesis, 4 for SNES (big-endian
// complement, then big-endian checksum). Nil for an unrecognized format.
func (r ChecksumResult) Patch() []byte {
	switch {
	case r.Format == FormatGenesis:
		p := make([]byte, 2)
		binary.BigEndian.PutUint16(p, r.New)
		return p
	case r.Format.IsSNES():
		p := make([]byte, 4)
		binary.BigEndian.PutUint16(p[0:], r.New^0xFFFF)
		binary.BigEndian.PutUint16(p[2:], r.New)
		return p
	default:
		return nil
	}
}

// Checksum classifies buf and recomputes its checksum without deciding
// what to do about it. An unrecognized buffer is reported through the
// result's Format field, not an error.
func Checksum(buf []byte) (ChecksumResult, error) {
	f := Detect(buf)
	switch {
	case f == FormatGenesis:
		return genesisResult(buf)
	case f.IsSNES():
		return snesResult(buf, f)
	default:
		return ChecksumResult{Format: FormatUnknown}, nil
	}
}

// Outcome is the result of classifying and fixing one ROM buffer.
type Outcome struct {
	Status       Status
	Format       Format
	Old          uint16
	New          uint16
	WriteOffset  int
	CopierHeader int
}

// Patch returns the bytes a caller writes at WriteOffset to apply the
// fix. Nil unless Status is StatusFixed.
func (o Outcome) Patch() []byte {
	if o.Status != StatusFixed {
		return nil
	}
	return ChecksumResult{Format: o.Format, New: o.New}.Patch()
}

// Fix classifies buf, recomputes the format's checksum, and reports
// whether the stored value needs rewriting. An unrecognized buffer is a
// normal outcome, not an error; an error means a recognized image too
// truncated to hold its checksum field.
func Fix(buf []byte) (Outcome, error) {
	res, err := Checksum(buf)
	if err != nil {
		return Outcome{}, err
	}
	if res.Format == FormatUnknown {
		return Outcome{Status: StatusUnrecognized}, nil
	}
	o := Outcome{
		Status:       StatusAlreadyCorrect,
		Format:       res.Format,
		Old:          res.Old,
		New:          res.New,
		WriteOffset:  res.WriteOffset,
		CopierHeader: res.CopierHeader,
	}
	if res.Changed() {
		o.Status = StatusFixed
	}
	return o, nil
}
