package artnet

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDMX_Header(t *testing.T) {
	frame := make([]byte, UniverseSize)
	frame[0] = 0xAA
	frame[511] = 0x55

	packet, err := EncodeDMX(frame, NewAddress(1, 2, 3), 7)
	if err != nil {
		t.Fatal(err)
	}

	if len(packet) != PacketSize {
		t.Fatalf("expected packet size %d, got %d", PacketSize, len(packet))
	}
	if !bytes.Equal(packet[0:8], []byte("Art-Net\x00")) {
		t.Errorf("bad signature %q", packet[0:8])
	}
	// OpDmx 0x5000, little-endian
	if packet[8] != 0x00 || packet[9] != 0x50 {
		t.Errorf("bad opcode bytes % #x % #x", packet[8], packet[9])
	}
	// protocol version 14, big-endian
	if packet[10] != 0x00 || packet[11] != 14 {
		t.Errorf("bad version bytes % #x % #x", packet[10], packet[11])
	}
	if packet[12] != 7 {
		t.Errorf("expected sequence 7, got %d", packet[12])
	}
	if packet[13] != 0 {
		t.Errorf("expected physical 0, got %d", packet[13])
	}
	// SubUni low byte, Net high byte
	if packet[14] != 0x23 {
		t.Errorf("expected SubUni 0x23, got % #x", packet[14])
	}
	if packet[15] != 0x01 {
		t.Errorf("expected Net 0x01, got % #x", packet[15])
	}
	// length 512, big-endian
	if packet[16] != 0x02 || packet[17] != 0x00 {
		t.Errorf("bad length bytes % #x % #x", packet[16], packet[17])
	}
	if packet[18] != 0xAA || packet[18+511] != 0x55 {
		t.Errorf("payload not copied in index order")
	}
}

func TestEncodeDMX_RoundTrip(t *testing.T) {
	frame := make([]byte, UniverseSize)
	for i := range frame {
		frame[i] = byte(i % 256)
	}
	addr := NewAddress(5, 14, 9)

	packet, err := EncodeDMX(frame, addr, 200)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeDMX(packet)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Sequence != 200 {
		t.Errorf("expected sequence 200, got %d", decoded.Sequence)
	}
	if decoded.Address != addr {
		t.Errorf("expected address %v, got %v", addr, decoded.Address)
	}
	if len(decoded.Data) != UniverseSize {
		t.Errorf("expected %d data bytes, got %d", UniverseSize, len(decoded.Data))
	}
	if !bytes.Equal(decoded.Data, frame) {
		t.Errorf("decoded data differs from the original frame")
	}
}

func TestEncodeDMX_RejectsWrongLength(t *testing.T) {
	for _, size := range []int{0, 100, 511, 513} {
		if _, err := EncodeDMX(make([]byte, size), Address{}, 0); !errors.Is(err, ErrFrameLength) {
			t.Errorf("size %d: expected ErrFrameLength, got %v", size, err)
		}
	}
}

func TestDecodeDMX_Errors(t *testing.T) {
	good, err := EncodeDMX(make([]byte, UniverseSize), Address{}, 1)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		packet []byte
	}{
		{"too short", good[:10]},
		{"bad signature", append([]byte("Bad-Net\x00"), good[8:]...)},
		{"bad opcode", func() []byte {
			p := append([]byte{}, good...)
			p[9] = 0x21 // ArtPoll
			return p
		}()},
		{"truncated payload", good[:PacketSize-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeDMX(tt.packet); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewAddress(t *testing.T) {
	tests := []struct {
		net, subnet, universe uint8
		wantNet, wantSubUni   uint8
		wantString            string
		wantInteger           int
	}{
		{0, 0, 0, 0, 0x00, "0.0.0", 0},
		{0, 0, 1, 0, 0x01, "0.0.1", 1},
		{1, 2, 3, 1, 0x23, "1.2.3", 0x123},
		{127, 15, 15, 127, 0xFF, "127.15.15", 0x7FFF},
	}

	for _, tt := range tests {
		a := NewAddress(tt.net, tt.subnet, tt.universe)
		if a.Net != tt.wantNet || a.SubUni != tt.wantSubUni {
			t.Errorf("NewAddress(%d,%d,%d) = %+v", tt.net, tt.subnet, tt.universe, a)
		}
		if got := a.String(); got != tt.wantString {
			t.Errorf("String() = %q, want %q", got, tt.wantString)
		}
		if got := a.Integer(); got != tt.wantInteger {
			t.Errorf("Integer() = %#x, want %#x", got, tt.wantInteger)
		}
	}
}
