package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// SizeMap holds per-size stock counts for a product, e.g. {"S": 5, "M": 10}.
// Labels are free-form strings; validation against an allowed set happens at
// the admin input boundary, not here.
type SizeMap map[string]int

// Total is the authoritative stock figure. The denormalized stock column is
// always recomputed from this inside the same transaction as any mutation.
func (m SizeMap) Total() int {
	total := 0
	for _, qty := range m {
		total += qty
	}
	return total
}

// Available returns the size labels that still have stock, sorted for
// stable output.
func (m SizeMap) Available() []string {
	var sizes []string
	for size, qty := range m {
		if qty > 0 {
			sizes = append(sizes, size)
		}
	}
	sort.Strings(sizes)
	return sizes
}

// CheckAvailability reports whether qty units of the given size can be taken.
// It never mutates.
func (m SizeMap) CheckAvailability(size string, qty int) (bool, string) {
	if qty <= 0 {
		return false, "Invalid quantity"
	}
	have, ok := m[size]
	if !ok {
		return false, "Size not available"
	}
	if have >= qty {
		return true, "Available"
	}
	return false, fmt.Sprintf("Only %d available in size %s", have, size)
}

// Decrement subtracts qty from the given size. Callers must have validated
// availability in the same transaction; a negative result is an error, never
// a silent clamp.
func (m SizeMap) Decrement(size string, qty int) error {
	have, ok := m[size]
	if !ok {
		return fmt.Errorf("size %s not found", size)
	}
	if have < qty {
		return fmt.Errorf("insufficient stock for size %s: have %d, need %d", size, have, qty)
	}
	m[size] = have - qty
	return nil
}

// Value implements driver.Valuer so SizeMap persists as JSONB.
func (m SizeMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *SizeMap) Scan(src any) error {
	if src == nil {
		*m = SizeMap{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported sizes column type %T", src)
	}
	return json.Unmarshal(raw, m)
}
