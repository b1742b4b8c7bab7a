package ddt

import (
	"strconv"

	"lukechampine.com/uint128"
)

// Histogram maps a cell count c to the number of (dx, dy) cells, dx != 0, holding
// exactly c. It has one entry per possible count, 0 through N.
type Histogram []uint64

func NewHistogram(n uint64) Histogram {
	return make(Histogram, n+1)
}

// Size returns the domain size N the histogram was built for.
func (h Histogram) Size() uint64 {
	if len(h) == 0 {
		return 0
	}
	return uint64(len(h) - 1)
}

// Add merges other into h. Both must be built for the same domain size.
func (h Histogram) Add(other Histogram) {
	for c, cells := range other {
		h[c] += cells
	}
}

// Total is the number of cells, N*(N-1) for a complete table.
func (h Histogram) Total() (total uint64) {
	for _, cells := range h {
		total += cells
	}
	return total
}

// Mass is the sum of all cell counts, N*(N-1) for a complete table.
func (h Histogram) Mass() uint128.Uint128 {
	mass := uint128.Zero
	for c, cells := range h {
		mass = mass.Add(uint128.From64(uint64(c)).Mul64(cells))
	}
	return mass
}

// Max is the largest cell count present, the differential uniformity of the S-box.
func (h Histogram) Max() uint64 {
	for c := len(h) - 1; c > 0; c-- {
		if h[c] != 0 {
			return uint64(c)
		}
	}
	return 0
}

// IsAPN reports whether no cell count exceeds 2 (almost perfect nonlinear).
func (h Histogram) IsAPN() bool {
	return h.Max() <= 2
}

func (h Histogram) Equals(other Histogram) bool {
	if len(h) != len(other) {
		return false
	}
	for c := range h {
		if h[c] != other[c] {
			return false
		}
	}
	return true
}

type Entry struct {
	Count uint64 `json:"count"`
	Cells uint64 `json:"cells"`
}

// Entries lists the occupied counts in ascending order. The zero count, cells never
// hit, is only listed when withZero is set.
func (h Histogram) Entries(withZero bool) []Entry {
	entries := make([]Entry, 0, 8)
	for c, cells := range h {
		if cells == 0 || (c == 0 && !withZero) {
			continue
		}
		entries = append(entries, Entry{Count: uint64(c), Cells: cells})
	}
	return entries
}

// AppendText appends the histogram as a brace delimited listing, "{2: 32130, 4: 255, }".
func (h Histogram) AppendText(buf []byte, withZero bool) []byte {
	buf = append(buf, '{')
	for c, cells := range h {
		if cells == 0 || (c == 0 && !withZero) {
			continue
		}
		buf = strconv.AppendUint(buf, uint64(c), 10)
		buf = append(buf, ':', ' ')
		buf = strconv.AppendUint(buf, cells, 10)
		buf = append(buf, ',', ' ')
	}
	return append(buf, '}')
}

func (h Histogram) Format(withZero bool) string {
	return string(h.AppendText(nil, withZero))
}

func (h Histogram) String() string {
	return h.Format(false)
}

// MarshalJSON encodes every occupied count, zero included, as an object keyed by count
// in ascending order.
func (h Histogram) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, '{')
	for c, cells := range h {
		if cells == 0 {
			continue
		}
		if len(buf) > 1 {
			buf = append(buf, ',')
		}
		buf = append(buf, '"')
		buf = strconv.AppendUint(buf, uint64(c), 10)
		buf = append(buf, '"', ':')
		buf = strconv.AppendUint(buf, cells, 10)
	}
	return append(buf, '}'), nil
}
