package draft

// ExpectedRole returns the role that makes pick number n (1-based) given the
// role that picked first.
//
// Snake order: round 1 first, other; round 2 other, first; and so on.
// Without snake order the roles simply alternate.
func ExpectedRole(first Role, n int, snake bool) Role {
	if n < 1 {
		return first
	}
	other := first.Other()
	round := (n - 1) / 2
	within := (n - 1) % 2
	if !snake || round%2 == 0 {
		if within == 0 {
			return first
		}
		return other
	}
	if within == 0 {
		return other
	}
	return first
}

// PickCounts tallies picks per role.
func PickCounts(picks []Pick) map[Role]int {
	counts := map[Role]int{RoleHost: 0, RoleGuest: 0}
	for _, p := range picks {
		counts[p.Role]++
	}
	return counts
}
