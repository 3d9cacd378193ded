// Package sortfilter provides generic, locale-aware ordering and keyword
// filtering for the admin tables. Screens address columns through typed
// accessor closures instead of reflective field paths, so a sort key like
// "client.name" is resolved at compile time by the caller.
package sortfilter

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order is the sort direction for SortBy.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder maps a query-string value to an Order, defaulting to ascending.
func ParseOrder(s string) Order {
	if Order(s) == OrderDesc {
		return OrderDesc
	}
	return OrderAsc
}

var (
	jaMu       sync.Mutex
	jaCollator = collate.New(language.Japanese)
)

// Compare orders two strings with Japanese dictionary collation. A plain
// byte-wise comparison would order multi-byte characters by code point,
// which is not how the business reads its plan and client names.
func Compare(a, b string) int {
	jaMu.Lock()
	defer jaMu.Unlock()
	return jaCollator.CompareString(a, b)
}

type kind int

const (
	kindNull kind = iota
	kindNumber
	kindDate
	kindString
)

// Value is a single sortable cell: absent, numeric, chronological or
// textual. Accessors build Values; SortBy only ever compares them.
type Value struct {
	kind kind
	num  float64
	date time.Time
	str  string
}

// Null is the absent value. It sorts last ascending, first descending.
func Null() Value {
	return Value{kind: kindNull}
}

// Number wraps a numeric cell.
func Number(f float64) Value {
	return Value{kind: kindNumber, num: f}
}

// Date wraps a calendar-date cell.
func Date(t time.Time) Value {
	return Value{kind: kindDate, date: t}
}

// NullDate wraps an optional date, mapping nil to Null.
func NullDate(t *time.Time) Value {
	if t == nil {
		return Null()
	}
	return Date(*t)
}

// String wraps a textual cell. Strings shaped like ISO dates compare
// chronologically; everything else compares with Japanese collation.
// All dates in this system are normalized to zero-padded YYYY-MM-DD, so
// the shape check is exact rather than heuristic.
func String(s string) Value {
	if s == "" {
		return Null()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date(t)
	}
	return Value{kind: kindString, str: s}
}

func compareValues(a, b Value) int {
	if a.kind == kindNull && b.kind == kindNull {
		return 0
	}
	if a.kind == kindNull {
		return 1
	}
	if b.kind == kindNull {
		return -1
	}
	if a.kind == kindNumber && b.kind == kindNumber {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
	if a.kind == kindDate && b.kind == kindDate {
		switch {
		case a.date.Before(b.date):
			return -1
		case a.date.After(b.date):
			return 1
		}
		return 0
	}
	return Compare(a.text(), b.text())
}

func (v Value) text() string {
	switch v.kind {
	case kindDate:
		return v.date.Format("2006-01-02")
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// SortBy returns a stably sorted copy of items ordered by the key
// accessor. Descending is the negated ascending comparator, so equal
// elements keep their input order in both directions.
func SortBy[T any](items []T, key func(T) Value, order Order) []T {
	out := make([]T, len(items))
	copy(out, items)

	multiplier := 1
	if order == OrderDesc {
		multiplier = -1
	}

	sort.SliceStable(out, func(i, j int) bool {
		return multiplier*compareValues(key(out[i]), key(out[j])) < 0
	})
	return out
}

// FilterByKeyword keeps the items whose searchable fields contain the
// trimmed, lowercased keyword. A blank keyword matches everything.
func FilterByKeyword[T any](items []T, keyword string, fields func(T) []string) []T {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
