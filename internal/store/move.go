package store

import "slices"

// reorder computes the new order of an n-item sequence after moving the items
// at positions from so that they start at position to of the result. It
// returns, for each result position, the original position it takes its item
// from. ok is false when any position is out of range or nothing would move.
//
// to may range over [0, n]; values past the last legal start n-len(from) are
// clamped to it.
func reorder(n int, from []int, to int) (order []int, ok bool) {
	if len(from) == 0 || to < 0 || to > n {
		return nil, false
	}

	src := slices.Clone(from)
	slices.Sort(src)
	src = slices.Compact(src)
	if src[0] < 0 || src[len(src)-1] >= n {
		return nil, false
	}

	moving := make(map[int]bool, len(src))
	for _, i := range src {
		moving[i] = true
	}
	rest := make([]int, 0, n-len(src))
	for i := 0; i < n; i++ {
		if !moving[i] {
			rest = append(rest, i)
		}
	}

	to = min(to, len(rest))
	order = make([]int, 0, n)
	order = append(order, rest[:to]...)
	order = append(order, src...)
	order = append(order, rest[to:]...)

	for i, p := range order {
		if i != p {
			return order, true
		}
	}
	return nil, false
}
