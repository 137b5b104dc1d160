package windows

import (
	"encoding/binary"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Lister reads the EWMH client list straight from the X server.
type X11Lister struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// NewX11Lister connects to the X server and interns the atoms we need.
func NewX11Lister() (*X11Lister, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	l := &X11Lister{
		conn:  conn,
		root:  root,
		atoms: make(map[string]xproto.Atom),
	}

	for _, name := range []string{"_NET_CLIENT_LIST", "_NET_WM_NAME", "WM_NAME", "UTF8_STRING"} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, err
		}
		l.atoms[name] = reply.Atom
	}

	return l, nil
}

// ListTitles returns the titles of all managed top-level windows. Windows
// without a readable name are skipped.
func (l *X11Lister) ListTitles() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.getProperty(l.root, l.atoms["_NET_CLIENT_LIST"], xproto.AtomWindow, 1024)
	if err != nil || len(data) < 4 {
		return nil
	}

	var titles []string
	for i := 0; i+4 <= len(data); i += 4 {
		win := xproto.Window(binary.LittleEndian.Uint32(data[i : i+4]))
		if title := l.windowName(win); title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}

func (l *X11Lister) windowName(win xproto.Window) string {
	data, err := l.getProperty(win, l.atoms["_NET_WM_NAME"], l.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = l.getProperty(win, l.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

func (l *X11Lister) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(l.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

// Close releases the X connection.
func (l *X11Lister) Close() {
	l.conn.Close()
}
