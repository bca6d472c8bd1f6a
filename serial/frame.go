package serial

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/joaojeronimo/go-crc16"
	"github.com/pkg/errors"
)

// Line designators. The first line of a frame starts with frameStart,
// every following line with frameCont.
var (
	frameStart = []byte{0x06, 0x09}
	frameCont  = []byte{0x04, 0x14}
)

// maxLineData is the number of base64 characters carried per line.
// It is a multiple of 4 so that every line decodes on its own.
const maxLineData = 124

var (
	ErrCRC      = errors.New("frame CRC mismatch")
	errBadFrame = errors.New("malformed frame")
)

// encodeFrame returns the lines, each terminated by '\n', that carry b:
// big-endian length, b, big-endian CRC16 of b; base64 encoded.
func encodeFrame(b []byte) [][]byte {
	body := make([]byte, 2, len(b)+4)
	binary.BigEndian.PutUint16(body, uint16(len(b)+2))
	body = append(body, b...)
	var crc [2]byte
	binary.BigEndian.PutUint16(crc[:], crc16.Crc16(b))
	body = append(body, crc[:]...)

	enc := base64.StdEncoding.EncodeToString(body)
	var lines [][]byte
	for written := 0; written < len(enc); {
		n := len(enc) - written
		if n > maxLineData {
			n = maxLineData
		}
		hdr := frameCont
		if written == 0 {
			hdr = frameStart
		}
		line := make([]byte, 0, len(hdr)+n+1)
		line = append(line, hdr...)
		line = append(line, enc[written:written+n]...)
		line = append(line, '\n')
		lines = append(lines, line)
		written += n
	}
	return lines
}

// A decoder reassembles frames from lines.
type decoder struct {
	pkt *packet
}

// feed consumes one line, without its terminator. It returns the
// payload once a frame is complete, or nil if more lines are needed.
// Lines that are not part of a frame are ignored.
func (d *decoder) feed(line []byte) ([]byte, error) {
	for len(line) > 1 && line[0] == '\r' {
		line = line[1:]
	}
	if len(line) < 2 {
		return nil, nil
	}
	start := line[0] == frameStart[0] && line[1] == frameStart[1]
	cont := line[0] == frameCont[0] && line[1] == frameCont[1]
	if !start && !cont {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(string(line[2:]))
	if err != nil {
		d.pkt = nil
		return nil, errors.Wrapf(errBadFrame, "base64: %v", err)
	}

	if start {
		if len(data) < 2 {
			d.pkt = nil
			return nil, errors.Wrap(errBadFrame, "short first line")
		}
		d.pkt = newPacket(binary.BigEndian.Uint16(data))
		data = data[2:]
	}
	if d.pkt == nil {
		return nil, nil
	}
	if !d.pkt.addBytes(data) {
		return nil, nil
	}

	pkt := d.pkt
	d.pkt = nil
	if pkt.buffer.Len() < 2 || crc16.Crc16(pkt.bytes()) != 0 {
		return nil, ErrCRC
	}
	pkt.trimEnd(2)
	return pkt.bytes(), nil
}
