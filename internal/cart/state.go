package cart

import (
	"math"
	"sort"
)

// State is an immutable mapping of product id to quantity. Every mutator
// returns a new State and leaves the receiver untouched.
type State struct {
	items map[string]int
}

// NewState builds a State from a plain map, dropping non-positive entries.
func NewState(items map[string]int) State {
	out := make(map[string]int, len(items))
	for id, qty := range items {
		if id != "" && qty > 0 {
			out[id] = qty
		}
	}
	return State{items: out}
}

func (s State) clone() map[string]int {
	out := make(map[string]int, len(s.items)+1)
	for id, qty := range s.items {
		out[id] = qty
	}
	return out
}

// Quantity returns the quantity held for id, or zero.
func (s State) Quantity(id string) int {
	return s.items[id]
}

// Add increases the quantity of id by n, saturating at math.MaxInt. The entry
// is removed if the result is not positive.
func (s State) Add(id string, n int) State {
	cur := s.items[id]
	if n > 0 && cur > math.MaxInt-n {
		return s.Set(id, math.MaxInt)
	}
	return s.Set(id, cur+n)
}

// Set replaces the quantity of id. A non-positive quantity removes the entry.
func (s State) Set(id string, qty int) State {
	next := s.clone()
	if qty <= 0 {
		delete(next, id)
	} else {
		next[id] = qty
	}
	return State{items: next}
}

// Remove drops id from the cart.
func (s State) Remove(id string) State {
	if _, ok := s.items[id]; !ok {
		return s
	}
	next := s.clone()
	delete(next, id)
	return State{items: next}
}

// ProductIDs returns the product ids in lexical order.
func (s State) ProductIDs() []string {
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TotalQuantity sums quantities across all entries.
func (s State) TotalQuantity() int {
	total := 0
	for _, qty := range s.items {
		total += qty
	}
	return total
}

// Len reports the number of distinct products.
func (s State) Len() int { return len(s.items) }

// Items returns a copy of the underlying mapping.
func (s State) Items() map[string]int { return s.clone() }
