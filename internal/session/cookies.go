// Package session reads browser cookie exports used to unlock fields that
// the public pages only serve to signed-in users.
package session

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	httpOnlyPrefix = "#HttpOnly_"
	netscapeFields = 7

	// SpDC is the long-lived login cookie for open.spotify.com.
	SpDC = "sp_dc"
)

// Cookies is a flat name -> value mapping.
type Cookies map[string]string

// Load parses the Netscape format cookie file at path.
func Load(path string) (Cookies, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cookie file: %w", err)
	}
	defer file.Close()

	cookies, err := Parse(file, time.Now())
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded cookies", "count", len(cookies), "file", path)
	return cookies, nil
}

// Parse reads Netscape format cookie lines. Comment lines, blank lines and
// cookies that expired before now are skipped. A later line overrides an
// earlier cookie with the same name.
func Parse(r io.Reader, now time.Time) (Cookies, error) {
	cookies := make(Cookies)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		line = strings.TrimPrefix(line, httpOnlyPrefix)
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < netscapeFields {
			return nil, fmt.Errorf("cookie file line %d: expected %d tab separated fields, got %d", lineNo, netscapeFields, len(fields))
		}

		expires, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cookie file line %d: invalid expiry %q: %w", lineNo, fields[4], err)
		}
		// Zero marks a session cookie.
		if expires != 0 && time.Unix(expires, 0).Before(now) {
			continue
		}

		cookies[fields[5]] = strings.Join(fields[6:], "\t")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	return cookies, nil
}

// Authenticated reports whether the jar carries a login cookie.
func (c Cookies) Authenticated() bool {
	return c[SpDC] != ""
}

// HTTPCookies converts the mapping into request cookies in name order.
func (c Cookies) HTTPCookies() []*http.Cookie {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		out = append(out, &http.Cookie{Name: name, Value: c[name]})
	}
	return out
}

// Header renders the jar as a Cookie header value.
func (c Cookies) Header() string {
	parts := make([]string, 0, len(c))
	for _, cookie := range c.HTTPCookies() {
		parts = append(parts, cookie.String())
	}
	return strings.Join(parts, "; ")
}
