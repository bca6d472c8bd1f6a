package serial

import "bytes"

// A packet accumulates the decoded lines of one frame until
// the length announced in its first line has arrived.
type packet struct {
	expectedLen uint16
	buffer      *bytes.Buffer
}

func newPacket(expectedLen uint16) *packet {
	return &packet{
		expectedLen: expectedLen,
		buffer:      bytes.NewBuffer(nil),
	}
}

// addBytes appends b and reports whether the packet is complete.
func (pkt *packet) addBytes(b []byte) bool {
	pkt.buffer.Write(b)
	return pkt.buffer.Len() >= int(pkt.expectedLen)
}

func (pkt *packet) bytes() []byte {
	return pkt.buffer.Bytes()
}

func (pkt *packet) trimEnd(count int) {
	if pkt.buffer.Len() < count {
		count = pkt.buffer.Len()
	}
	pkt.buffer.Truncate(pkt.buffer.Len() - count)
}
