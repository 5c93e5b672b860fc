// Package httpapi implements the HTTP Surface (C8): JSON routes for
// status, tag mutation, mode toggling, manual shuffle, skip, per-song
// tagging, queue peek, and cache stats. Built on gin, grounded on
// internal/radio/handler/radio.go and internal/radio/middleware.go's
// gin.H{"status": ...} envelope and security-headers/bearer-auth
// middleware chain.
//
// Every handler returns HTTP 200 with a structured JSON body, even when the
// daemon is unreachable or a query comes back empty — spec §7's "never a
// 5xx for a transient daemon condition" contract.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dancemore/jukectl/internal/authguard"
	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/jukeerr"
	"github.com/dancemore/jukectl/internal/song"
	"github.com/dancemore/jukectl/internal/state"
)

// defaultPeekCount is the default number of songs returned by head/tail
// snapshots when the caller doesn't specify one, per spec §4.5/§4.7.
const defaultPeekCount = 3

// checkoutTimeout bounds how long a single request will wait for a pooled
// connection before giving up and degrading gracefully.
const checkoutTimeout = 5 * time.Second

// degradedBody is the JSON shape returned whenever the daemon is
// unreachable, grounded on original_source/server/src/routes/index.rs's
// error string. kind embeds jukeerr.Kind(err) so callers can branch on the
// error class without parsing the message string.
func degradedBody(err error) gin.H {
	return gin.H{"error": "could not get mpd connection", "kind": jukeerr.Kind(err)}
}

// malformedBody is the JSON shape returned whenever a request body fails to
// parse or otherwise violates the expected shape.
func malformedBody() gin.H {
	return gin.H{"error": "malformed request body", "kind": jukeerr.Kind(jukeerr.ErrMalformed)}
}

// Server wires the shared jukebox state into a gin engine.
type Server struct {
	state *state.Shared
	guard *authguard.Guard
}

// NewServer constructs an HTTP Server over the given shared state, guarded
// by the given admin token (empty disables the guard).
func NewServer(s *state.Shared, adminToken string) *Server {
	return &Server{state: s, guard: authguard.New(adminToken)}
}

// securityHeaders mirrors internal/radio/middleware.go's SecurityHeadersMiddleware.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// Router builds the gin engine with every route from spec §4.7 wired in.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(securityHeaders())

	r.GET("/", s.index)
	r.GET("/tags", s.getTags)
	r.GET("/queue", s.getQueue)
	r.GET("/cache-stats", s.cacheStats)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	mutating := r.Group("/")
	mutating.Use(s.guard.Middleware())
	mutating.POST("/skip", s.skip)
	mutating.POST("/tags", s.postTags)
	mutating.POST("/album-mode/toggle", s.albumModeToggle)
	mutating.POST("/album-mode/:bool", s.albumModeSet)
	mutating.POST("/shuffle", s.shuffle)
	mutating.POST("/song/tags", s.songTags)
	mutating.POST("/cache/refresh", s.cacheRefresh)

	return r
}

// withClient checks out a pooled client for the duration of fn, honoring
// the request's cancellation and a bounded wait.
func (s *Server) withClient(c *gin.Context, fn func(client daemon.Client) error) error {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkoutTimeout)
	defer cancel()

	lease, err := s.state.Pool.Checkout(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()
	return fn(lease.Client)
}

func fileNames(songs []song.Song) []string {
	out := make([]string, len(songs))
	for i, sg := range songs {
		out[i] = sg.File
	}
	return out
}

// index handles GET /.
func (s *Server) index(c *gin.Context) {
	songs, err := s.state.Legacy.Queue()
	if err != nil {
		_ = s.state.Legacy.Reconnect()
		c.JSON(http.StatusOK, []string{})
		return
	}
	c.JSON(http.StatusOK, fileNames(songs))
}

// skip handles POST /skip.
func (s *Server) skip(c *gin.Context) {
	queue, err := s.state.Legacy.Queue()
	if err != nil {
		c.JSON(http.StatusOK, degradedBody(err))
		return
	}
	if len(queue) == 0 {
		c.JSON(http.StatusOK, degradedBody(jukeerr.ErrNotFound))
		return
	}

	skipped := queue[0].File
	var newTrack string
	if len(queue) > 1 {
		newTrack = queue[1].File
	}

	if err := s.state.Legacy.Delete(0); err != nil {
		c.JSON(http.StatusOK, degradedBody(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"skipped": skipped, "new": newTrack})
}

// getTags handles GET /tags.
func (s *Server) getTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"any":         s.state.Filter.Any(),
		"not":         s.state.Filter.Not(),
		"album_aware": s.state.Queue.AlbumAware(),
	})
}

type tagsBody struct {
	Any *[]string `json:"any"`
	Not *[]string `json:"not"`
}

// postTags handles POST /tags.
func (s *Server) postTags(c *gin.Context) {
	var body tagsBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusOK, malformedBody())
		return
	}

	changed := false
	if body.Any != nil {
		s.state.Filter.SetAny(*body.Any)
		changed = true
	}
	if body.Not != nil {
		s.state.Filter.SetNot(*body.Not)
		changed = true
	}

	if changed {
		s.state.Cache.Invalidate()
		_ = s.withClient(c, func(client daemon.Client) error {
			return s.state.Queue.Refill(s.state.Filter, client)
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"any":         s.state.Filter.Any(),
		"not":         s.state.Filter.Not(),
		"album_aware": s.state.Queue.AlbumAware(),
	})
}

// albumModeSet handles POST /album-mode/:bool.
func (s *Server) albumModeSet(c *gin.Context) {
	raw := c.Param("bool")
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusOK, malformedBody())
		return
	}
	s.applyAlbumMode(c, enabled)
}

// albumModeToggle handles POST /album-mode/toggle.
func (s *Server) albumModeToggle(c *gin.Context) {
	s.applyAlbumMode(c, !s.state.Queue.AlbumAware())
}

func (s *Server) applyAlbumMode(c *gin.Context, enabled bool) {
	s.state.Queue.SetMode(enabled)
	_ = s.withClient(c, func(client daemon.Client) error {
		return s.state.Queue.Refill(s.state.Filter, client)
	})
	c.JSON(http.StatusOK, gin.H{
		"album_aware": enabled,
		"message":     "album mode updated",
	})
}

// getQueue handles GET /queue?count=K.
func (s *Server) getQueue(c *gin.Context) {
	count := defaultPeekCount
	if raw := c.Query("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			count = n
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"length": s.state.Queue.Len(),
		"head":   fileNames(s.state.Queue.Head(count)),
		"tail":   fileNames(s.state.Queue.Tail(count)),
	})
}

// shuffle handles POST /shuffle.
func (s *Server) shuffle(c *gin.Context) {
	old := fileNames(s.state.Queue.Head(defaultPeekCount))

	err := s.withClient(c, func(client daemon.Client) error {
		return s.state.Queue.Refill(s.state.Filter, client)
	})
	if err != nil {
		c.JSON(http.StatusOK, degradedBody(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"old": old,
		"new": fileNames(s.state.Queue.Head(defaultPeekCount)),
	})
}

type songTagsBody struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

// songTags handles POST /song/tags.
func (s *Server) songTags(c *gin.Context) {
	var body songTagsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusOK, malformedBody())
		return
	}

	daemonQueue, err := s.state.Legacy.Queue()
	if err != nil {
		c.JSON(http.StatusOK, degradedBody(err))
		return
	}
	if len(daemonQueue) == 0 {
		c.JSON(http.StatusOK, degradedBody(jukeerr.ErrNotFound))
		return
	}
	current := daemonQueue[0]

	for _, t := range body.Add {
		if err := s.state.Legacy.PlaylistAppend(t, current); err != nil && !errors.Is(err, jukeerr.ErrNotFound) {
			c.JSON(http.StatusOK, degradedBody(err))
			return
		}
	}

	for _, t := range body.Remove {
		songs, err := s.state.Legacy.Playlist(t)
		if err != nil {
			if errors.Is(err, jukeerr.ErrNotFound) {
				continue
			}
			c.JSON(http.StatusOK, degradedBody(err))
			return
		}
		var positions []int
		for i, sg := range songs {
			if sg.ID() == current.ID() {
				positions = append(positions, i)
			}
		}
		// Delete in descending position order: ascending deletion shifts
		// later indices out from under subsequent deletes (spec §9 open
		// question, resolved as descending).
		sort.Sort(sort.Reverse(sort.IntSlice(positions)))
		for _, pos := range positions {
			if err := s.state.Legacy.PlaylistRemoveAt(t, pos); err != nil {
				c.JSON(http.StatusOK, degradedBody(err))
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "tagged/untagged playlists updated"})
}

// cacheStats handles GET /cache-stats.
func (s *Server) cacheStats(c *gin.Context) {
	stats := s.state.Queue.Stats()
	status := "needs_optimization"
	if stats.HitRate > 80 {
		status = "excellent"
	} else if stats.HitRate > 60 {
		status = "good"
	}

	c.JSON(http.StatusOK, gin.H{
		"cache_hits":          stats.Hits,
		"cache_misses":        stats.Misses,
		"hit_rate_percent":    stats.HitRate,
		"cache_valid":         s.state.Cache.HasValid(s.state.Filter),
		"queue_length":        s.state.Queue.Len(),
		"album_aware_enabled": s.state.Queue.AlbumAware(),
		"status":              status,
	})
}

// cacheRefresh handles POST /cache/refresh.
func (s *Server) cacheRefresh(c *gin.Context) {
	start := time.Now()
	s.state.Cache.Invalidate()

	err := s.withClient(c, func(client daemon.Client) error {
		_, err := s.state.Cache.GetOrCompute(s.state.Filter, client)
		return err
	})
	if err != nil {
		c.JSON(http.StatusOK, degradedBody(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"duration_ms": time.Since(start).Milliseconds(),
	})
}
