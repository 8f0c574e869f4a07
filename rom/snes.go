package rom

import (
	"encoding/binary"
	"fmt"
)

// SNES internal header fields, relative to the header start. The checksum
// and complement are stored as big-endian words, complement first.
const (
	snesTitleOffset      = 0x00 // 21 bytes, space padded
	snesTitleLen         = 21
	snesMapModeOffset    = 0x15
	snesChipsetOffset    = 0x16
	snesROMSizeOffset    = 0x17 // declared size = 1KB << value
	snesRAMSizeOffset    = 0x18
	snesRegionOffset     = 0x19
	snesDevIDOffset      = 0x1A
	snesVersionOffset    = 0x1B
	snesComplementOffset = 0x1C
	snesChecksumOffset   = 0x1E
	snesHeaderSize       = 0x20
)

// Candidate header locations within the payload, one per layout.
const (
	snesLoROMHeader   = 0x7FC0
	snesHiROMHeader   = 0xFFC0
	snesExLoROMHeader = 0x407FC0
	snesExHiROMHeader = 0x40FFC0
)

// snesHeaderOffset returns the payload-relative header offset for f.
func snesHeaderOffset(f Format) int {
	switch f {
	case FormatSNESHiROM:
		return snesHiROMHeader
	case FormatSNESExLoROM:
		return snesExLoROMHeader
	case FormatSNESExHiROM:
		return snesExHiROMHeader
	default:
		return snesLoROMHeader
	}
}

// snesHeaderValid reports whether a structurally valid header sits at the
// absolute offset off: the stored checksum and complement words must XOR
// to $FFFF. A buffer too short for the candidate is simply not valid.
func snesHeaderValid(buf []byte, off int) bool {
	comp, err := readWordBE(buf, off+snesComplementOffset)
	if err != nil {
		return false
	}
	sum, err := readWordBE(buf, off+snesChecksumOffset)
	if err != nil {
		return false
	}
	return comp^sum == 0xFFFF
}

// snesDeclaredSize decodes the ROM size byte at header+$17: 1KB shifted
// left by the stored value. Returns 0 when the byte is outside the sane
// shift range.
func snesDeclaredSize(payload []byte, header int) int {
	b := payload[header+snesROMSizeOffset]
	if b == 0 || b >= 0x20 {
		return 0
	}
	return 1024 << b
}

// snesChecksum sums payload as big-endian 16-bit words with wraparound.
//
// Cartridges whose size is not a power of two mirror the trailing chunk up
// to the next power-of-two boundary, so the remainder is weighted by its
// repeat count: with lead the largest power of two <= len(payload) and rem
// the rest, sum = words(lead region) + (lead/rem)*words(remainder). A
// remainder that does not divide the lead evenly, or a declared size that
// is missing or larger than the next power of two above the actual size,
// degrades to a single pass over the whole payload.
//
// The four stored checksum bytes are counted as FF FF 00 00 no matter what
// the file holds, which keeps the result stable across rewrites of the
// field itself. The correction is weighted by the repeat count of the
// region holding the header, since the Ex layouts place it in the mirrored
// remainder.
func snesChecksum(payload []byte, header int, storedComp, storedSum uint16) uint16 {
	fieldFix := 0xFFFF - storedComp - storedSum

	lead := len(payload)
	rem := 0
	if !isPow2(len(payload)) {
		lead = largestPow2(len(payload))
		rem = len(payload) - lead
	}

	declared := snesDeclaredSize(payload, header)
	if rem == 0 || declared == 0 || declared > nextPow2(len(payload)) || lead%rem != 0 {
		return wordSumBE(payload) + fieldFix
	}

	k := uint16(lead / rem)
	sum := wordSumBE(payload[:lead]) + k*wordSumBE(payload[lead:])
	if header >= lead {
		sum += k * fieldFix
	} else {
		sum += fieldFix
	}
	return sum
}

// snesResult recomputes the checksum for a detected SNES format and pairs
// it with the stored value. Offsets in the result are absolute, including
// any copier header.
func snesResult(buf []byte, f Format) (ChecksumResult, error) {
	base := CopierHeaderSize(buf)
	payload := buf[base:]
	header := snesHeaderOffset(f)

	storedComp, err := readWordBE(payload, header+snesComplementOffset)
	if err != nil {
		return ChecksumResult{}, fmt.Errorf("stored SNES complement: %w", err)
	}
	old, err := readWordBE(payload, header+snesChecksumOffset)
	if err != nil {
		return ChecksumResult{}, fmt.Errorf("stored SNES checksum: %w", err)
	}

	return ChecksumResult{
		Format:       f,
		Old:          old,
		New:          snesChecksum(payload, header, storedComp, old),
		WriteOffset:  base + header + snesComplementOffset,
		CopierHeader: base,
	}, nil
}

// largestPow2 returns the largest power of two <= n. n must be positive.
func largestPow2(n int) int {
	p := 1
	for p<<1 <= n {
		p <<= 1
	}
	return p
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// SNESHeader holds the reporting fields of an SNES internal header.
type SNESHeader struct {
	Title      string // 21 bytes, space padded
	MapMode    byte
	Chipset    byte
	ROMSizeKB  int // decoded from the ROM size byte, 0 when out of range
	RAMSizeKB  int
	Region     byte
	DevID      byte
	Version    byte
	Checksum   uint16 // stored value, big-endian
	Complement uint16
}

// ParseSNESHeader decodes the internal header for a detected SNES format.
func ParseSNESHeader(buf []byte, f Format) (SNESHeader, error) {
	if !f.IsSNES() {
		return SNESHeader{}, fmt.Errorf("not an SNES format: %v", f)
	}
	off := CopierHeaderSize(buf) + snesHeaderOffset(f)
	hdr, err := readBytes(buf, off, snesHeaderSize)
	if err != nil {
		return SNESHeader{}, fmt.Errorf("SNES header: %w", err)
	}
	h := SNESHeader{
		Title:      headerString(hdr[snesTitleOffset : snesTitleOffset+snesTitleLen]),
		MapMode:    hdr[snesMapModeOffset],
		Chipset:    hdr[snesChipsetOffset],
		Region:     hdr[snesRegionOffset],
		DevID:      hdr[snesDevIDOffset],
		Version:    hdr[snesVersionOffset],
		Complement: binary.BigEndian.Uint16(hdr[snesComplementOffset:]),
		Checksum:   binary.BigEndian.Uint16(hdr[snesChecksumOffset:]),
	}
	if b := hdr[snesROMSizeOffset]; b > 0 && b < 0x20 {
		h.ROMSizeKB = 1 << b
	}
	if b := hdr[snesRAMSizeOffset]; b > 0 && b < 0x20 {
		h.RAMSizeKB = 1 << b
	}
	return h, nil
}
