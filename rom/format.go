package rom

// Format identifies the console image format of a ROM buffer. The SNES
// header layout is part of the tag so engine dispatch stays a plain switch.
type Format int

const (
	FormatUnknown Format = iota
	FormatGenesis
	FormatSNESLoROM
	FormatSNESHiROM
	FormatSNESExLoROM
	FormatSNESExHiROM
)

// IsSNES returns true for the four SNES header layouts.
func (f Format) IsSNES() bool {
	return f >= FormatSNESLoROM && f <= FormatSNESExHiROM
}

// Extended returns true for the Ex layouts, whose headers sit past the
// 4MB boundary.
func (f Format) Extended() bool {
	return f == FormatSNESExLoROM || f == FormatSNESExHiROM
}

func (f Format) String() string {
	switch f {
	case FormatGenesis:
		return "Genesis/Mega Drive"
	case FormatSNESLoROM:
		return "SNES (LoROM)"
	case FormatSNESHiROM:
		return "SNES (HiROM)"
	case FormatSNESExLoROM:
		return "SNES (Ex-LoROM)"
	case FormatSNESExHiROM:
		return "SNES (Ex-HiROM)"
	default:
		return "unknown"
	}
}
