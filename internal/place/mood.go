package place

// Mood captures what the user is in the mood for. Each wish is tri-state:
// nil means "don't care".
type Mood struct {
	Food    *bool
	Walking *bool
	Parking *bool
}
