package mpd

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNotConnected is returned when a command is issued without an open
// connection to the MPD server.
var ErrNotConnected = errors.New("not connected to MPD")

// CommandError is an ACK response from MPD.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("mpd: %s: %s", e.Command, e.Message)
	}
	return fmt.Sprintf("mpd: %s", e.Message)
}

// Attrs is a single key/value response block, e.g. one status or one song.
type Attrs map[string]string

// Client speaks MPD's line protocol over a single TCP connection. All
// commands serialize on an internal mutex; MPD answers requests in order on
// one connection, so there is nothing to gain from pipelining here.
type Client struct {
	addr string

	mu        sync.Mutex
	conn      net.Conn
	rw        *bufio.ReadWriter
	version   string
	connected bool
}

// NewClient creates a client for the MPD server at host:port. It does not
// connect; call Connect.
func NewClient(host, port string) *Client {
	return &Client{addr: net.JoinHostPort(host, port)}
}

// Connect dials the server and consumes the protocol banner ("OK MPD x.y.z").
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	conn, err := net.DialTimeout("tcp", c.addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to dial MPD at %s: %w", c.addr, err)
	}

	rw := bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))
	banner, err := rw.ReadString('\n')
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to read MPD banner: %w", err)
	}
	banner = strings.TrimSuffix(banner, "\n")
	if !strings.HasPrefix(banner, "OK MPD ") {
		conn.Close()
		return fmt.Errorf("unexpected MPD banner %q", banner)
	}

	c.conn = conn
	c.rw = rw
	c.version = strings.TrimPrefix(banner, "OK MPD ")
	c.connected = true
	return nil
}

// Close sends the close command and tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	// Best effort; the server closes the connection on "close" anyway.
	fmt.Fprint(c.rw, "close\n")
	c.rw.Flush()

	err := c.conn.Close()
	c.conn = nil
	c.rw = nil
	c.connected = false
	return err
}

// Connected reports whether the client currently holds an open connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Version returns the protocol version from the connect banner.
func (c *Client) Version() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// quote escapes an argument per the MPD protocol: double-quoted, with
// backslash escapes for quote and backslash.
func quote(arg string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(arg); i++ {
		switch arg[i] {
		case '"', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(arg[i])
	}
	b.WriteByte('"')
	return b.String()
}

// command sends one command line and reads the response up to the "OK"
// terminator. An "ACK ..." line becomes a *CommandError.
func (c *Client) command(format string, args ...interface{}) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, ErrNotConnected
	}

	cmd := fmt.Sprintf(format, args...)
	if _, err := fmt.Fprintf(c.rw, "%s\n", cmd); err != nil {
		c.drop()
		return nil, fmt.Errorf("failed to send %q: %w", cmd, err)
	}
	if err := c.rw.Flush(); err != nil {
		c.drop()
		return nil, fmt.Errorf("failed to flush %q: %w", cmd, err)
	}

	var lines []string
	for {
		line, err := c.rw.ReadString('\n')
		if err != nil {
			c.drop()
			return nil, fmt.Errorf("failed to read response for %q: %w", cmd, err)
		}
		line = strings.TrimSuffix(line, "\n")

		if line == "OK" {
			return lines, nil
		}
		if strings.HasPrefix(line, "ACK ") {
			return nil, parseAck(line)
		}
		lines = append(lines, line)
	}
}

// drop discards the connection after an I/O failure. Caller holds c.mu.
func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = nil
	c.rw = nil
	c.connected = false
}

// parseAck parses "ACK [error@list] {command} message".
func parseAck(line string) *CommandError {
	rest := strings.TrimPrefix(line, "ACK ")
	cmdErr := &CommandError{Message: rest}
	if open := strings.Index(rest, "{"); open >= 0 {
		if close := strings.Index(rest[open:], "}"); close > 0 {
			cmdErr.Command = rest[open+1 : open+close]
			cmdErr.Message = strings.TrimSpace(rest[open+close+1:])
		}
	}
	return cmdErr
}

// parseAttrs turns "key: value" lines into a map.
func parseAttrs(lines []string) Attrs {
	attrs := make(Attrs, len(lines))
	for _, line := range lines {
		if idx := strings.Index(line, ": "); idx >= 0 {
			attrs[line[:idx]] = line[idx+2:]
		}
	}
	return attrs
}

// parseAttrsList splits a multi-entry response into one Attrs per entry,
// starting a new entry whenever the given key repeats (e.g. "file" for
// playlistinfo, "playlist" for listplaylists).
func parseAttrsList(lines []string, startKey string) []Attrs {
	var list []Attrs
	var current Attrs
	prefix := startKey + ": "
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			current = make(Attrs)
			list = append(list, current)
		}
		if current == nil {
			continue
		}
		if idx := strings.Index(line, ": "); idx >= 0 {
			current[line[:idx]] = line[idx+2:]
		}
	}
	return list
}

// Ping checks that the connection is alive.
func (c *Client) Ping() error {
	_, err := c.command("ping")
	return err
}

// Play starts or resumes playback.
func (c *Client) Play() error {
	_, err := c.command("play")
	return err
}

// PlayID starts playback of the queue entry with the given song id.
func (c *Client) PlayID(id int) error {
	_, err := c.command("playid %d", id)
	return err
}

// Pause toggles the paused state.
func (c *Client) Pause() error {
	_, err := c.command("pause")
	return err
}

// Stop stops playback.
func (c *Client) Stop() error {
	_, err := c.command("stop")
	return err
}

// Next skips to the next song in the queue.
func (c *Client) Next() error {
	_, err := c.command("next")
	return err
}

// Previous goes back to the previous song in the queue.
func (c *Client) Previous() error {
	_, err := c.command("previous")
	return err
}

// SetVolume sets the output volume, 0..100.
func (c *Client) SetVolume(volume int) error {
	if volume < 0 || volume > 100 {
		return fmt.Errorf("volume %d out of range 0..100", volume)
	}
	_, err := c.command("setvol %d", volume)
	return err
}

// Repeat sets repeat mode.
func (c *Client) Repeat(on bool) error {
	_, err := c.command("repeat %s", boolArg(on))
	return err
}

// Random sets random mode.
func (c *Client) Random(on bool) error {
	_, err := c.command("random %s", boolArg(on))
	return err
}

// Single sets single mode.
func (c *Client) Single(on bool) error {
	_, err := c.command("single %s", boolArg(on))
	return err
}

func boolArg(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

// Status returns the player status as reported by MPD.
func (c *Client) Status() (Attrs, error) {
	lines, err := c.command("status")
	if err != nil {
		return nil, err
	}
	return parseAttrs(lines), nil
}

// CurrentSong returns the song currently being played, or an empty Attrs
// when nothing is playing.
func (c *Client) CurrentSong() (Attrs, error) {
	lines, err := c.command("currentsong")
	if err != nil {
		return nil, err
	}
	return parseAttrs(lines), nil
}

// PlaylistInfo lists the songs in the current queue.
func (c *Client) PlaylistInfo() ([]Attrs, error) {
	lines, err := c.command("playlistinfo")
	if err != nil {
		return nil, err
	}
	return parseAttrsList(lines, "file"), nil
}

// ListPlaylists returns the names of the playlists in MPD's own playlist
// store.
func (c *Client) ListPlaylists() ([]string, error) {
	lines, err := c.command("listplaylists")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0)
	for _, entry := range parseAttrsList(lines, "playlist") {
		if name, ok := entry["playlist"]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Save stores the current queue as a named playlist on the MPD server.
func (c *Client) Save(name string) error {
	_, err := c.command("save %s", quote(name))
	return err
}

// Load appends a stored playlist onto the current queue.
func (c *Client) Load(name string) error {
	_, err := c.command("load %s", quote(name))
	return err
}

// Clear empties the current queue.
func (c *Client) Clear() error {
	_, err := c.command("clear")
	return err
}

// Add appends a file or directory (relative to MPD's music directory) to
// the queue.
func (c *Client) Add(uri string) error {
	_, err := c.command("add %s", quote(uri))
	return err
}

// Update triggers a database update on the server. Returns the update job
// id when MPD reports one.
func (c *Client) Update() (int, error) {
	lines, err := c.command("update")
	if err != nil {
		return 0, err
	}
	if job, ok := parseAttrs(lines)["updating_db"]; ok {
		if id, err := strconv.Atoi(job); err == nil {
			return id, nil
		}
	}
	return 0, nil
}
