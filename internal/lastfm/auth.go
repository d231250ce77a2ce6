package lastfm

import (
	"context"
	"crypto/md5" //nolint:gosec // Last.fm signs requests with md5
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/llehouerou/mediascrobbler/internal/errmsg"
)

// Authenticate makes the client ready to scrobble. A stored session key is
// checked with user.getInfo; otherwise a mobile session is requested with
// the password hash.
func (c *Client) Authenticate(ctx context.Context, username, passwordHash, sessionKey string) error {
	if sessionKey != "" {
		return c.resumeSession(ctx, username, sessionKey)
	}

	name, key, err := c.mobileSession(ctx, username, passwordHash)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	c.mu.Lock()
	c.username = name
	c.mu.Unlock()
	c.SetSessionKey(key)
	return nil
}

// resumeSession installs a stored session key if Last.fm still accepts it.
func (c *Client) resumeSession(ctx context.Context, username, sessionKey string) error {
	c.SetSessionKey(sessionKey)

	var name string
	err := c.call(ctx, errmsg.OpLastfmAuth, func() error {
		n, err := c.whoami()
		name = n
		return err
	})
	if err != nil {
		c.SetSessionKey("")
		return fmt.Errorf("%w: stored session key: %w", ErrAuthFailed, err)
	}

	if name == "" {
		name = username
	}
	c.mu.Lock()
	c.username = name
	c.mu.Unlock()
	return nil
}

type sessionResponse struct {
	Session struct {
		Name string `json:"name"`
		Key  string `json:"key"`
	} `json:"session"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// mobileSession calls auth.getMobileSession. The token is the md5 of the
// user name followed by the md5 password hash.
func (c *Client) mobileSession(ctx context.Context, username, passwordHash string) (name, key string, err error) {
	params := map[string]string{
		"method":    "auth.getMobileSession",
		"username":  username,
		"authToken": md5Hex(username + passwordHash),
		"api_key":   c.apiKey,
	}
	params["api_sig"] = signature(params, c.apiSecret)
	params["format"] = "json"

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.limiter.Wait(ctx); err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("get mobile session: %w", err)
	}
	defer resp.Body.Close()

	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if out.Error != 0 {
		return "", "", fmt.Errorf("last.fm error %d: %s", out.Error, out.Message)
	}
	if out.Session.Key == "" {
		return "", "", fmt.Errorf("no session key in response (status %d)", resp.StatusCode)
	}
	return out.Session.Name, out.Session.Key, nil
}

// signature builds api_sig: every name and value in name order, then the
// secret, hashed with md5. format and callback are not signed.
func signature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "format" || k == "callback" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}
	b.WriteString(secret)
	return md5Hex(b.String())
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // required by the API
	return hex.EncodeToString(sum[:])
}

// PasswordHash returns the md5 hash Last.fm accepts in place of a
// plaintext password.
func PasswordHash(password string) string {
	return md5Hex(password)
}
