// Package paging slices ordered record sets into fixed-size pages.
// Pagination is permissive: a page outside [1, TotalPages] is empty, never an error.
package paging

import (
	"strconv"
	"strings"
)

// DefaultNumber is used when the client omits the page or sends garbage.
const DefaultNumber = 1

// Page is a bounded view over an ordered collection. It is built per request and never persisted.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int
}

// Links carries navigation targets. Empty strings mean "no such page".
type Links struct {
	Next string
	Prev string
}

// Slice returns items [(number-1)*size, number*size) of all, clamped to the collection bounds.
// Items is never nil so it encodes as [] rather than null.
func Slice[T any](all []T, number, size int) Page[T] {
	p := Page[T]{Items: []T{}, Number: number, Size: size, Total: len(all)}
	// bound the page number before multiplying so huge client values cannot overflow
	if number < 1 || size <= 0 || number-1 >= TotalPages(len(all), size) {
		return p
	}
	start := (number - 1) * size
	end := min(start+size, len(all))
	p.Items = append(p.Items, all[start:end]...)
	return p
}

// TotalPages is ceil(total/size); zero for an empty collection.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

func (p Page[T]) TotalPages() int { return TotalPages(p.Total, p.Size) }

// HasNext reports whether a following page holds records.
func (p Page[T]) HasNext() bool {
	return p.Number >= 1 && p.Number < p.TotalPages()
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// Links renders next/prev as "<base>?page=N".
func (p Page[T]) Links(base string) Links {
	var l Links
	if p.HasNext() {
		l.Next = pageURL(base, p.Number+1)
	}
	if p.HasPrev() {
		l.Prev = pageURL(base, p.Number-1)
	}
	return l
}

func pageURL(base string, n int) string {
	return base + "?page=" + strconv.Itoa(n)
}

// Filter keeps the records matching keep, preserving their order.
func Filter[T any](all []T, keep func(T) bool) []T {
	out := make([]T, 0, len(all))
	for _, it := range all {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// ParseNumber reads a page query value. Absent or non-numeric input falls back to DefaultNumber.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultNumber
	}
	return n
}
