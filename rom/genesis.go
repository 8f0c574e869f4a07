package rom

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Genesis header layout. Offsets are absolute: Genesis dumps never carry
// a copier header.
const (
	genesisSystemOffset   = 0x100 // 16-byte system type string
	genesisChecksumOffset = 0x18E // stored checksum, big-endian word
	genesisSumStart       = 0x200 // checksum covers $200 to end of ROM
)

// genesisSystemTypes are the recognized system type values. The 16-byte
// field is space padded, so matching is by prefix.
var genesisSystemTypes = []string{"SEGA MEGA DRIVE", "SEGA GENESIS"}

// isGenesis checks for a recognized system type string at $100-$10F.
func isGenesis(buf []byte) bool {
	sig, err := readBytes(buf, genesisSystemOffset, 16)
	if err != nil {
		return false
	}
	for _, want := range genesisSystemTypes {
		if strings.HasPrefix(string(sig), want) {
			return true
		}
	}
	return false
}

// genesisChecksum computes the header checksum: the 16-bit sum of all
// big-endian words from $200 to end of ROM.
func genesisChecksum(buf []byte) uint16 {
	if len(buf) <= genesisSumStart {
		return 0
	}
	return wordSumBE(buf[genesisSumStart:])
}

// genesisResult recomputes the checksum and pairs it with the stored value.
// A ROM too short to hold the stored checksum field is an error even when
// the system type matched.
func genesisResult(buf []byte) (ChecksumResult, error) {
	old, err := readWordBE(buf, genesisChecksumOffset)
	if err != nil {
		return ChecksumResult{}, fmt.Errorf("stored Genesis checksum: %w", err)
	}
	return ChecksumResult{
		Format:      FormatGenesis,
		Old:         old,
		New:         genesisChecksum(buf),
		WriteOffset: genesisChecksumOffset,
	}, nil
}

// GenesisHeader holds the reporting fields of a Genesis ROM header.
type GenesisHeader struct {
	System        string // $100, 16 bytes
	DomesticTitle string // $120, 48 bytes
	OverseasTitle string // $150, 48 bytes
	Serial        string // $180, 14 bytes
	Regions       string // codes present in the $1F0-$1FF field, in J, U, E order
	SRAMSize      int    // battery SRAM bytes declared at $1B0-$1BB, 0 if none
}

// ParseGenesisHeader decodes the header fields used for reporting.
func ParseGenesisHeader(buf []byte) (GenesisHeader, error) {
	if len(buf) < 0x200 {
		return GenesisHeader{}, fmt.Errorf("Genesis header needs $200 bytes, have %d: %w", len(buf), ErrOutOfRange)
	}
	return GenesisHeader{
		System:        headerString(buf[0x100:0x110]),
		DomesticTitle: headerString(buf[0x120:0x150]),
		OverseasTitle: headerString(buf[0x150:0x180]),
		Serial:        headerString(buf[0x180:0x18E]),
		Regions:       genesisRegions(buf[0x1F0:0x200]),
		SRAMSize:      genesisSRAMSize(buf),
	}, nil
}

// headerString trims the padding header text fields carry.
func headerString(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// genesisRegions reports the region codes present in the header region
// field, always ordered J, U, E.
func genesisRegions(field []byte) string {
	hasJ := false
	hasU := false
	hasE := false
	for _, b := range field {
		switch b {
		case 'J':
			hasJ = true
		case 'U':
			hasU = true
		case 'E':
			hasE = true
		}
	}
	var s []byte
	if hasJ {
		s = append(s, 'J')
	}
	if hasU {
		s = append(s, 'U')
	}
	if hasE {
		s = append(s, 'E')
	}
	return string(s)
}

// genesisSRAMSize reads the SRAM declaration at $1B0-$1BB: an "RA"
// signature followed by big-endian start and end bus addresses. The
// addresses must fall inside the $200000-$3FFFFF SRAM window.
func genesisSRAMSize(buf []byte) int {
	if len(buf) < 0x1BC {
		return 0
	}
	if buf[0x1B0] != 'R' || buf[0x1B1] != 'A' {
		return 0
	}
	start := binary.BigEndian.Uint32(buf[0x1B4:0x1B8])
	end := binary.BigEndian.Uint32(buf[0x1B8:0x1BC])
	if start < 0x200000 || end < start || end > 0x3FFFFF {
		return 0
	}
	return int(end - start + 1)
}
