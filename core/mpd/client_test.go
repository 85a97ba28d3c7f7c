package mpd

import (
	"bufio"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer speaks just enough of the MPD protocol for the client tests:
// it sends the banner and answers each command line from the responses map.
// Unknown commands get a bare "OK".
func fakeServer(t *testing.T, responses map[string]string) (addr string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		rw := bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))
		rw.WriteString("OK MPD 0.23.5\n")
		rw.Flush()

		for {
			line, err := rw.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimSuffix(line, "\n")
			if line == "close" {
				return
			}
			if resp, ok := responses[line]; ok {
				rw.WriteString(resp)
			} else {
				rw.WriteString("OK\n")
			}
			rw.Flush()
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return net.JoinHostPort(host, port)
}

func newTestClient(t *testing.T, responses map[string]string) *Client {
	t.Helper()
	addr := fakeServer(t, responses)
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	c := NewClient(host, port)
	require.NoError(t, c.Connect())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestConnectReadsBanner(t *testing.T) {
	c := newTestClient(t, nil)
	assert.True(t, c.Connected())
	assert.Equal(t, "0.23.5", c.Version())
}

func TestCommandsBeforeConnect(t *testing.T) {
	c := NewClient("127.0.0.1", "1")
	err := c.Ping()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestStatus(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"status": "volume: 70\nstate: play\nsong: 3\nOK\n",
	})

	status, err := c.Status()
	require.NoError(t, err)
	assert.Equal(t, "70", status["volume"])
	assert.Equal(t, "play", status["state"])
	assert.Equal(t, "3", status["song"])
}

func TestPlaylistInfoSplitsEntries(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"playlistinfo": "file: rock/a.mp3\nTitle: A\nPos: 0\nfile: rock/b.mp3\nTitle: B\nPos: 1\nOK\n",
	})

	queue, err := c.PlaylistInfo()
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "rock/a.mp3", queue[0]["file"])
	assert.Equal(t, "A", queue[0]["Title"])
	assert.Equal(t, "rock/b.mp3", queue[1]["file"])
}

func TestListPlaylists(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"listplaylists": "playlist: morning\nLast-Modified: 2025-01-01T00:00:00Z\nplaylist: evening\nLast-Modified: 2025-01-02T00:00:00Z\nOK\n",
	})

	names, err := c.ListPlaylists()
	require.NoError(t, err)
	assert.Equal(t, []string{"morning", "evening"}, names)
}

func TestAckBecomesCommandError(t *testing.T) {
	c := newTestClient(t, map[string]string{
		`load "missing"`: "ACK [50@0] {load} No such playlist\n",
	})

	err := c.Load("missing")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "load", cmdErr.Command)
	assert.Equal(t, "No such playlist", cmdErr.Message)
}

func TestSetVolumeRange(t *testing.T) {
	c := newTestClient(t, nil)

	assert.Error(t, c.SetVolume(-1))
	assert.Error(t, c.SetVolume(101))
	assert.NoError(t, c.SetVolume(50))
}

func TestQuoteEscapes(t *testing.T) {
	assert.Equal(t, `"plain"`, quote("plain"))
	assert.Equal(t, `"with \"quotes\""`, quote(`with "quotes"`))
	assert.Equal(t, `"back\\slash"`, quote(`back\slash`))
}

func TestUpdateReturnsJobID(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"update": "updating_db: 7\nOK\n",
	})

	job, err := c.Update()
	require.NoError(t, err)
	assert.Equal(t, 7, job)
}
