// Package lastfm talks to the Last.fm API: now playing updates, scrobbles,
// track lookups and authentication.
package lastfm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shkh/lastfm-go/lastfm"
	"golang.org/x/time/rate"

	"github.com/llehouerou/mediascrobbler/internal/errmsg"
)

var (
	// ErrNotAuthenticated is returned when an operation requires authentication.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuthFailed is returned when Last.fm refuses the credentials.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrTrackNotFound is returned when Last.fm has no such track.
	ErrTrackNotFound = errors.New("track not found")
)

// Last.fm error code for an invalid or unknown track.
const codeInvalidParameters = 6

// Defaults for Options.
const (
	DefaultRequestTimeout    = 15 * time.Second
	DefaultRequestsPerSecond = 5
	DefaultBaseURL           = "https://ws.audioscrobbler.com/2.0/"
)

// Options tunes the remote calls. Zero values use the defaults.
type Options struct {
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	// BaseURL is the endpoint for authentication requests.
	BaseURL string
}

// Client wraps the Last.fm API for scrobbling operations.
type Client struct {
	api       *lastfm.Api
	apiKey    string
	apiSecret string
	baseURL   string
	timeout   time.Duration
	limiter   *rate.Limiter
	// whoami returns the user name of the current session.
	whoami    func() (string, error)

	mu         sync.RWMutex
	sessionKey string
	username   string
}

// New creates a new Last.fm client with the given API credentials.
func New(apiKey, apiSecret string, opts Options) *Client {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	c := &Client{
		api:       lastfm.New(apiKey, apiSecret),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   opts.BaseURL,
		timeout:   opts.RequestTimeout,
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
	}
	c.whoami = c.userName
	return c
}

func (c *Client) userName() (string, error) {
	info, err := c.api.User.GetInfo(nil)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

// SetSessionKey sets the authenticated session key.
func (c *Client) SetSessionKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionKey = key
	c.api.SetSession(key)
}

// SessionKey returns the current session key.
func (c *Client) SessionKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionKey
}

// Username returns the authenticated user name, if known.
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// IsAuthenticated returns true if a session key is set.
func (c *Client) IsAuthenticated() bool {
	return c.SessionKey() != ""
}

// UpdateNowPlaying sends a "now playing" notification to Last.fm.
func (c *Client) UpdateNowPlaying(ctx context.Context, artist, title string) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	params := lastfm.P{
		"artist": artist,
		"track":  title,
	}
	return c.call(ctx, errmsg.OpLastfmNowPlaying, func() error {
		_, err := c.api.Track.UpdateNowPlaying(params)
		return err
	})
}

// Scrobble submits a track play to Last.fm.
func (c *Client) Scrobble(ctx context.Context, artist, title string, at time.Time) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	params := lastfm.P{
		"artist":    artist,
		"track":     title,
		"timestamp": at.Unix(),
	}
	return c.call(ctx, errmsg.OpLastfmScrobble, func() error {
		_, err := c.api.Track.Scrobble(params)
		return err
	})
}

// TrackDuration looks up the length of a track. Zero means Last.fm knows
// the track but not its length.
func (c *Client) TrackDuration(ctx context.Context, artist, title string) (time.Duration, error) {
	params := lastfm.P{
		"artist":      artist,
		"track":       title,
		"autocorrect": 1,
	}

	var raw string
	err := c.call(ctx, errmsg.OpLastfmTrackInfo, func() error {
		info, err := c.api.Track.GetInfo(params)
		if err != nil {
			return notFound(err)
		}
		raw = info.Duration
		return nil
	})
	if err != nil {
		return 0, err
	}
	return parseDuration(raw)
}

// call runs fn under the rate limit and the request timeout. lastfm-go has
// no context support, so a timed out request is abandoned, not canceled.
func (c *Client) call(ctx context.Context, op errmsg.Op, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func notFound(err error) error {
	var lfmErr *lastfm.LastfmError
	if errors.As(err, &lfmErr) && lfmErr.Code == codeInvalidParameters {
		return fmt.Errorf("%w: %s", ErrTrackNotFound, lfmErr.Message)
	}
	return err
}

// parseDuration converts the millisecond string of track.getInfo.
func parseDuration(ms string) (time.Duration, error) {
	if ms == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", ms, err)
	}
	if n < 0 {
		return 0, nil
	}
	return time.Duration(n) * time.Millisecond, nil
}
