package models

// SeedFailure records one binding whose emoji could not be added while
// seeding a message.
type SeedFailure struct {
	Binding *Binding
	Err     error
}

// SeedResult summarizes a category seeding run. A run with failures is a
// partial success - the remaining bindings were still seeded.
type SeedResult struct {
	CategoryID string
	Seeded     int
	Failures   []SeedFailure
}

// PartialFailure reports whether some, but not all, bindings failed to seed.
func (r *SeedResult) PartialFailure() bool {
	return len(r.Failures) > 0 && r.Seeded > 0
}
