package matelight

import (
	"net"
	"testing"
	"time"

	"github.com/vovakirdan/matesnake/internal/core"
)

func TestEncode(t *testing.T) {
	f := core.NewFrame(2, 2)
	f.Set(core.Point{X: 1, Y: 0}, core.ColorRed)
	f.Set(core.Point{X: 0, Y: 1}, core.RGB(1, 2, 3))

	got := Encode(f)
	expected := []byte{
		0, 0, 0, 255, 0, 0, // row 0
		1, 2, 3, 0, 0, 0, // row 1
		0, 0, 0, 0, // trailer
	}

	if len(got) != PacketSize(2, 2) {
		t.Fatalf("len = %d, expected %d", len(got), PacketSize(2, 2))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("byte %d = %d, expected %d (got %v)", i, got[i], expected[i], got)
		}
	}
}

func TestPacketSize(t *testing.T) {
	if got := PacketSize(15, 16); got != 15*16*3+4 {
		t.Errorf("PacketSize(15, 16) = %d", got)
	}
}

func TestDialRequiresHost(t *testing.T) {
	if _, err := Dial("", DefaultPort, 15, 16); err == nil {
		t.Error("Dial with empty host should fail")
	}
}

func TestClientShow(t *testing.T) {
	server, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket() failed: %v", err)
	}
	defer server.Close()
	port := server.LocalAddr().(*net.UDPAddr).Port

	client, err := Dial("127.0.0.1", port, 3, 2)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer client.Close()

	f := core.NewFrame(3, 2)
	f.Set(core.Point{X: 2, Y: 1}, core.ColorGreen)
	if err := client.Show(f, core.GameState{}); err != nil {
		t.Fatalf("Show() failed: %v", err)
	}

	buf := make([]byte, 1024)
	server.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := server.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom() failed: %v", err)
	}
	if n != PacketSize(3, 2) {
		t.Fatalf("received %d bytes, expected %d", n, PacketSize(3, 2))
	}
	// Pixel (2,1) is the last pixel: bytes 15..17
	if buf[15] != 0 || buf[16] != 255 || buf[17] != 0 {
		t.Errorf("last pixel = %v, expected green", buf[15:18])
	}
}

func TestClientShowWrongSize(t *testing.T) {
	client, err := Dial("127.0.0.1", 9, 3, 2)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer client.Close()

	if err := client.Show(core.NewFrame(4, 4), core.GameState{}); err == nil {
		t.Error("Show() with a mismatched frame should fail")
	}
}
