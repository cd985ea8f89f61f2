// Package matelight sends rendered frames to a Mate Light LED wall.
//
// Each frame is a single UDP datagram: one RGB triplet per pixel,
// row-major from the top-left, followed by a 4-byte trailer of zeros.
package matelight

import (
	"fmt"
	"net"
	"strconv"

	"github.com/vovakirdan/matesnake/internal/core"
)

// DefaultPort is the UDP port Mate Light listens on.
const DefaultPort = 1337

// trailerLen is the length of the zero trailer after the pixel data.
const trailerLen = 4

// Encode serializes a frame into a datagram payload.
func Encode(f *core.Frame) []byte {
	return AppendFrame(make([]byte, 0, PacketSize(f.Width(), f.Height())), f)
}

// AppendFrame appends the encoded frame to buf and returns the result.
func AppendFrame(buf []byte, f *core.Frame) []byte {
	for _, c := range f.Pixels() {
		buf = append(buf, c.R, c.G, c.B)
	}
	for range trailerLen {
		buf = append(buf, 0)
	}
	return buf
}

// PacketSize returns the datagram length for a width x height wall.
func PacketSize(width, height int) int {
	return width*height*3 + trailerLen
}

// Client sends frames to one wall.
type Client struct {
	conn   net.Conn
	width  int
	height int
	buf    []byte
}

// Dial connects a UDP socket to host:port for a width x height wall.
func Dial(host string, port, width, height int) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("matelight: host is required")
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("matelight: cannot dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		width:  width,
		height: height,
		buf:    make([]byte, 0, PacketSize(width, height)),
	}, nil
}

// Addr returns the remote address frames are sent to.
func (c *Client) Addr() string {
	return c.conn.RemoteAddr().String()
}

// Show sends the frame. The game state is not part of the protocol.
func (c *Client) Show(f *core.Frame, _ core.GameState) error {
	if f.Width() != c.width || f.Height() != c.height {
		return fmt.Errorf("matelight: frame is %dx%d, wall is %dx%d",
			f.Width(), f.Height(), c.width, c.height)
	}
	c.buf = AppendFrame(c.buf[:0], f)
	if _, err := c.conn.Write(c.buf); err != nil {
		return fmt.Errorf("matelight: send frame: %w", err)
	}
	return nil
}

// Close releases the socket.
func (c *Client) Close() error {
	return c.conn.Close()
}
