package router

import "net/url"

// History is the address bar: a list of locations with a cursor
type History interface {
	Location() *url.URL
	Push(u *url.URL)
	Replace(u *url.URL)
	Back() (*url.URL, bool)
	Forward() (*url.URL, bool)
}

// MemoryHistory keeps history entries in memory, like a browser tab does
type MemoryHistory struct {
	entries []*url.URL
	index   int
}

// NewMemoryHistory starts a history at the given location
func NewMemoryHistory(start *url.URL) *MemoryHistory {
	if start == nil {
		start = &url.URL{Path: "/"}
	}
	return &MemoryHistory{entries: []*url.URL{cloneURL(start)}}
}

// Location returns the current entry
func (h *MemoryHistory) Location() *url.URL {
	return cloneURL(h.entries[h.index])
}

// Push adds an entry after the current one, dropping any forward entries
func (h *MemoryHistory) Push(u *url.URL) {
	h.entries = append(h.entries[:h.index+1], cloneURL(u))
	h.index = len(h.entries) - 1
}

// Replace overwrites the current entry
func (h *MemoryHistory) Replace(u *url.URL) {
	h.entries[h.index] = cloneURL(u)
}

// Back moves to the previous entry
func (h *MemoryHistory) Back() (*url.URL, bool) {
	if h.index == 0 {
		return nil, false
	}
	h.index--
	return h.Location(), true
}

// Forward moves to the next entry
func (h *MemoryHistory) Forward() (*url.URL, bool) {
	if h.index >= len(h.entries)-1 {
		return nil, false
	}
	h.index++
	return h.Location(), true
}

// Len returns the number of entries
func (h *MemoryHistory) Len() int {
	return len(h.entries)
}

func cloneURL(u *url.URL) *url.URL {
	c := *u
	return &c
}
