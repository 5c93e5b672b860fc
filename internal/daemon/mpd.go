package daemon

import (
	"fmt"
	"net"
	"strings"

	"github.com/polyfloyd/gompd/v2/mpd"

	"github.com/dancemore/jukectl/internal/jukeerr"
	"github.com/dancemore/jukectl/internal/song"
)

// mpdClient is the gompd-backed Client implementation. It mirrors the
// connection idiom used in the corpus's one MPD-facing example
// (brandsjek-trollibox's player/mpd package): dial, wrap every command in a
// classifier that turns gompd's ack errors into jukeerr kinds, and keep the
// host/port around so Reconnect can re-dial without extra state.
type mpdClient struct {
	host, port string
	conn       *mpd.Client
}

// Dial opens a new connection to the daemon at host:port and enables
// consume mode so played tracks are removed from the daemon queue
// automatically, per spec §4.1.
func Dial(host, port string) (Client, error) {
	c := &mpdClient{host: host, port: port}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *mpdClient) connect() error {
	conn, err := mpd.Dial("tcp", net.JoinHostPort(c.host, c.port))
	if err != nil {
		return fmt.Errorf("%w: dial %s:%s: %v", jukeerr.ErrTransport, c.host, c.port, err)
	}
	if err := conn.Consume(true); err != nil {
		conn.Close()
		return fmt.Errorf("%w: consume on: %v", jukeerr.ErrTransport, err)
	}
	c.conn = conn
	return nil
}

// classify turns a gompd error into a jukeerr-wrapped error. gompd surfaces
// MPD ACK errors as *mpd.CommandError; "No such" is MPD's wording for a
// missing playlist/tag, everything else (including plain connection
// failures) is a transport problem.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "no such") {
		return fmt.Errorf("%w: %v", jukeerr.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", jukeerr.ErrTransport, err)
}

func attrsToSong(a mpd.Attrs) song.Song {
	s := song.Song{File: a["file"]}
	for k, v := range a {
		if k == "file" {
			continue
		}
		s.Tags = append(s.Tags, song.TagPair{Key: k, Value: v})
	}
	return s
}

func (c *mpdClient) Playlist(name string) ([]song.Song, error) {
	attrs, err := c.conn.PlaylistContents(name)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]song.Song, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, attrsToSong(a))
	}
	return out, nil
}

func (c *mpdClient) Search(tag, value string) ([]song.Song, error) {
	attrs, err := c.conn.Search(tag, value)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]song.Song, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, attrsToSong(a))
	}
	return out, nil
}

func (c *mpdClient) Queue() ([]song.Song, error) {
	attrs, err := c.conn.PlaylistInfo(-1, -1)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]song.Song, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, attrsToSong(a))
	}
	return out, nil
}

func (c *mpdClient) Push(s song.Song) error {
	return classify(c.conn.Add(s.File))
}

func (c *mpdClient) Delete(position int) error {
	return classify(c.conn.Delete(position, position+1))
}

func (c *mpdClient) Play() error {
	return classify(c.conn.Play(-1))
}

func (c *mpdClient) PlaylistAppend(name string, s song.Song) error {
	return classify(c.conn.PlaylistAdd(name, s.File))
}

func (c *mpdClient) PlaylistRemoveAt(name string, position int) error {
	return classify(c.conn.PlaylistDelete(name, position))
}

func (c *mpdClient) Ping() error {
	if c.conn == nil {
		return fmt.Errorf("%w: no connection", jukeerr.ErrTransport)
	}
	return classify(c.conn.Ping())
}

func (c *mpdClient) Reconnect() error {
	if c.Ping() == nil {
		return nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return c.connect()
}

func (c *mpdClient) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
