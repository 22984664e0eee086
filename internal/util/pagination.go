package util

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 6
	MaxLimit     = 6
)

// Page is the list envelope: total count, links to the neighbour pages and
// the current slice.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// LimitOffset reads limit and offset query values. A missing, malformed or
// non positive limit falls back to DefaultLimit and is capped at MaxLimit; a
// bad offset becomes 0.
func LimitOffset(q url.Values) (limit, offset int) {
	limit = ParseIntDefault(q.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset = ParseIntDefault(q.Get("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func NewPage[T any](u *url.URL, count int64, limit, offset int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	p := Page[T]{Count: count, Results: results}

	if int64(offset) < count-int64(limit) {
		next := link(u, limit, offset+limit)
		p.Next = &next
	}
	if offset > 0 {
		prev := link(u, limit, offset-limit)
		p.Previous = &prev
	}
	return p
}

// link keeps the other query values of u. An offset <= 0 is dropped.
func link(u *url.URL, limit, offset int) string {
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	return u.Path + "?" + q.Encode()
}
