package rom

// Copiers prepended a 512-byte transfer header to SNES dumps; the header
// makes the file length sit 512 bytes past a 1KB multiple.
const copierHeader = 512

// CopierHeaderSize returns the size of the copier header preceding the
// image in buf: 512 or 0. Only SNES dumps carry one; Genesis dumps never do.
func CopierHeaderSize(buf []byte) int {
	if len(buf)%1024 == copierHeader {
		return copierHeader
	}
	return 0
}

// snesDetectOrder lists the SNES layouts in candidate order. The first
// structurally valid header wins.
var snesDetectOrder = []Format{
	FormatSNESLoROM,
	FormatSNESHiROM,
	FormatSNESExLoROM,
	FormatSNESExHiROM,
}

// Detect classifies buf. Genesis is recognized by the system type string
// at $100 and is checked first; SNES by the first candidate header whose
// checksum and complement words XOR to $FFFF, with any copier header
// shifting the candidate offsets by 512 bytes. Candidates the buffer is
// too short to hold are skipped.
func Detect(buf []byte) Format {
	if isGenesis(buf) {
		return FormatGenesis
	}
	base := CopierHeaderSize(buf)
	for _, f := range snesDetectOrder {
		if snesHeaderValid(buf, base+snesHeaderOffset(f)) {
			return f
		}
	}
	return FormatUnknown
}
