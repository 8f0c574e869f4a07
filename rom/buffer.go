package rom

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfRange reports a header field read past the end of a ROM buffer.
var ErrOutOfRange = errors.New("read beyond end of ROM")

// readWordBE returns the big-endian 16-bit word at off.
func readWordBE(buf []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(buf) {
		return 0, fmt.Errorf("word at $%X: %w", off, ErrOutOfRange)
	}
	return binary.BigEndian.Uint16(buf[off : off+2]), nil
}

// readBytes returns the n bytes starting at off. The result aliases buf.
func readBytes(buf []byte, off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(buf) {
		return nil, fmt.Errorf("%d bytes at $%X: %w", n, off, ErrOutOfRange)
	}
	return buf[off : off+n], nil
}

// wordSumBE sums data as big-endian 16-bit words with wraparound.
// An odd trailing byte is treated as the high byte of a final word
// with low byte = 0.
func wordSumBE(data []byte) uint16 {
	var sum uint16
	for i := 0; i+1 < len(data); i += 2 {
		sum += binary.BigEndian.Uint16(data[i : i+2])
	}
	if len(data)%2 != 0 {
		sum += uint16(data[len(data)-1]) << 8
	}
	return sum
}
