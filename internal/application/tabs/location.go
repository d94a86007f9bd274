package tabs

import (
	"net/url"
	"sync"
)

// Location is the addressable page state that mirrors the active tab
type Location interface {
	Query(key string) string
	// ReplaceQuery rewrites one parameter in place, without adding a
	// history entry
	ReplaceQuery(key, value string)
	String() string
}

// URLLocation is a Location backed by a URL
type URLLocation struct {
	mu sync.Mutex
	u  url.URL
}

// NewURLLocation parses raw; an unparseable value yields "/"
func NewURLLocation(raw string) *URLLocation {
	u, err := url.Parse(raw)
	if err != nil || u == nil {
		u = &url.URL{Path: "/"}
	}
	return &URLLocation{u: *u}
}

func (l *URLLocation) Query(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.Query().Get(key)
}

func (l *URLLocation) ReplaceQuery(key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	q := l.u.Query()
	q.Set(key, value)
	l.u.RawQuery = q.Encode()
}

// String returns the path and query, which is what history.replaceState needs
func (l *URLLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := url.URL{Path: l.u.Path, RawQuery: l.u.RawQuery, Fragment: l.u.Fragment}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
