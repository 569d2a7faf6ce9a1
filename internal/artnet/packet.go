package artnet

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// OpCodeDMX is the Art-Net operation code for DMX data.
	OpCodeDMX uint16 = 0x5000
	// ProtocolVersion is the Art-Net protocol version.
	ProtocolVersion uint16 = 14
	// UniverseSize is the number of DMX channels per universe.
	UniverseSize = 512
	// HeaderSize is the size of the ArtDMX packet header.
	HeaderSize = 18
	// PacketSize is the total size of an ArtDMX packet carrying a full universe.
	PacketSize = HeaderSize + UniverseSize
	// DefaultPort is the standard Art-Net UDP port.
	DefaultPort = 6454
)

// id is the 8-byte Art-Net packet signature.
var id = []byte{'A', 'r', 't', '-', 'N', 'e', 't', 0x00}

// ErrFrameLength reports a frame whose length does not match the
// declared universe size. Partial universes are not supported.
var ErrFrameLength = fmt.Errorf("frame length must be %d", UniverseSize)

// EncodeDMX serializes a full universe frame into an ArtDMX packet.
// sequence 0 means sequencing is disabled on the wire.
func EncodeDMX(frame []byte, addr Address, sequence uint8) ([]byte, error) {
	if len(frame) != UniverseSize {
		return nil, fmt.Errorf("%w, got %d", ErrFrameLength, len(frame))
	}

	packet := make([]byte, PacketSize)
	copy(packet[0:8], id)
	binary.LittleEndian.PutUint16(packet[8:10], OpCodeDMX)
	binary.BigEndian.PutUint16(packet[10:12], ProtocolVersion)
	packet[12] = sequence
	packet[13] = 0 // physical input port, informational only
	packet[14] = addr.SubUni
	packet[15] = addr.Net
	binary.BigEndian.PutUint16(packet[16:18], UniverseSize)
	copy(packet[HeaderSize:], frame)

	return packet, nil
}

// DMXPacket is a decoded ArtDMX packet.
type DMXPacket struct {
	Sequence uint8
	Physical uint8
	Address  Address
	Data     []byte
}

// DecodeDMX parses an ArtDMX packet. It is the inverse of EncodeDMX and
// exists for tests and diagnostics; the module itself only transmits.
func DecodeDMX(packet []byte) (*DMXPacket, error) {
	if len(packet) < HeaderSize {
		return nil, fmt.Errorf("packet too short: %d bytes", len(packet))
	}
	if !bytes.Equal(packet[0:8], id) {
		return nil, fmt.Errorf("bad signature %q", packet[0:8])
	}
	if op := binary.LittleEndian.Uint16(packet[8:10]); op != OpCodeDMX {
		return nil, fmt.Errorf("unexpected opcode 0x%04x", op)
	}
	length := int(binary.BigEndian.Uint16(packet[16:18]))
	if len(packet) != HeaderSize+length {
		return nil, fmt.Errorf("declared length %d does not match payload %d", length, len(packet)-HeaderSize)
	}

	return &DMXPacket{
		Sequence: packet[12],
		Physical: packet[13],
		Address: Address{
			SubUni: packet[14],
			Net:    packet[15],
		},
		Data: packet[HeaderSize:],
	}, nil
}
