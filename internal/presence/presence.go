// Package presence publishes a Discord Rich Presence activity reflecting
// which game client is currently running. Discord listens on a local unix
// socket with a tiny opcode-framed JSON protocol; a missing or unwilling
// Discord is a normal condition and never an error for callers.
package presence

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/SpeedsterCollective/Tweeks/pkg/matcher"
)

const (
	opHandshake = 0
	opFrame     = 1
)

// Client is a minimal Discord IPC rich-presence client. Safe for concurrent
// use; reconnects lazily on the next update after a failure.
type Client struct {
	clientID string

	mu        sync.Mutex
	conn      net.Conn
	connected bool
	nonce     uint64
	lastKey   string
}

// NewClient creates a presence client for the given Discord application ID.
func NewClient(clientID string) *Client {
	return &Client{clientID: clientID}
}

// Update derives an activity from the snapshot and pushes it. The first
// target in a running state wins; with nothing running the activity is
// cleared. All failures degrade to a log line.
func (c *Client) Update(snap matcher.Snapshot) {
	name, state := pickActivity(snap)

	key := name + "|" + state
	c.mu.Lock()
	unchanged := key == c.lastKey && c.connected
	c.mu.Unlock()
	if unchanged {
		return
	}

	var err error
	if name == "" {
		err = c.clear()
	} else {
		err = c.setActivity("Playing "+name, state)
	}
	if err != nil {
		log.Printf("Presence update failed: %v", err)
		return
	}

	c.mu.Lock()
	c.lastKey = key
	c.mu.Unlock()
}

// pickActivity chooses the presence line for the first running target.
func pickActivity(snap matcher.Snapshot) (name, state string) {
	for tgt, st := range snap.State {
		switch st {
		case matcher.StateNative:
			return tgt, "In-game"
		case matcher.StateWine:
			return tgt, "In-game (Wine)"
		case matcher.StateWindowOnly:
			if name == "" {
				name, state = tgt, "In-game"
			}
		}
	}
	return name, state
}

func (c *Client) setActivity(details, state string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"cmd": "SET_ACTIVITY",
		"args": map[string]interface{}{
			"pid": os.Getpid(),
			"activity": map[string]interface{}{
				"details": details,
				"state":   state,
				"assets": map[string]interface{}{
					"large_image": "default",
					"large_text":  details,
				},
			},
		},
		"nonce": c.nextNonce(),
	}

	if err := c.writeFrame(opFrame, payload); err != nil {
		c.drop()
		return err
	}
	return nil
}

func (c *Client) clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	payload := map[string]interface{}{
		"cmd": "SET_ACTIVITY",
		"args": map[string]interface{}{
			"pid": os.Getpid(),
		},
		"nonce": c.nextNonce(),
	}

	if err := c.writeFrame(opFrame, payload); err != nil {
		c.drop()
		return err
	}
	return nil
}

// Close tears down the socket. Safe to call when never connected.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drop()
}

// ensureConnected dials the Discord IPC socket and performs the handshake.
// Caller holds the lock.
func (c *Client) ensureConnected() error {
	if c.connected {
		return nil
	}

	conn, err := dialDiscord()
	if err != nil {
		return err
	}

	c.conn = conn
	if err := c.writeFrame(opHandshake, map[string]interface{}{
		"v":         1,
		"client_id": c.clientID,
	}); err != nil {
		c.drop()
		return errors.Wrap(err, "handshake write failed")
	}

	// Discord answers the handshake with a READY dispatch; drain it.
	if _, err := c.readFrame(); err != nil {
		c.drop()
		return errors.Wrap(err, "handshake read failed")
	}

	c.connected = true
	log.Println("Connected to Discord RPC")
	return nil
}

func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	c.lastKey = ""
}

func (c *Client) nextNonce() string {
	c.nonce++
	return strconv.FormatUint(c.nonce, 10)
}

// writeFrame sends one little-endian (opcode, length) framed JSON payload.
func (c *Client) writeFrame(op uint32, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], op)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(data)))

	c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := c.conn.Write(append(header, data...)); err != nil {
		return err
	}
	return nil
}

func (c *Client) readFrame() ([]byte, error) {
	header := make([]byte, 8)
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := readFull(c.conn, header); err != nil {
		return nil, err
	}

	length := binary.LittleEndian.Uint32(header[4:8])
	if length > 1<<20 {
		return nil, errors.New("oversized IPC frame")
	}

	data := make([]byte, length)
	if _, err := readFull(c.conn, data); err != nil {
		return nil, err
	}
	return data, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// dialDiscord tries the well-known IPC socket paths discord-ipc-0..9 under
// the usual runtime directories.
func dialDiscord() (net.Conn, error) {
	var dirs []string
	if d := os.Getenv("XDG_RUNTIME_DIR"); d != "" {
		dirs = append(dirs, d)
	}
	if d := os.Getenv("TMPDIR"); d != "" {
		dirs = append(dirs, d)
	}
	dirs = append(dirs, "/tmp")

	for _, dir := range dirs {
		for i := 0; i < 10; i++ {
			path := filepath.Join(dir, fmt.Sprintf("discord-ipc-%d", i))
			conn, err := net.DialTimeout("unix", path, time.Second)
			if err == nil {
				return conn, nil
			}
		}
	}

	return nil, errors.New("no Discord IPC socket found")
}
