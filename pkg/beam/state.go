package beam

// State is the signal state of a modeled cell.
type State uint8

const (
	// Ready cells have not been reached by any signal.
	Ready State = iota
	// Energized cells have been reached and are waiting to split.
	Energized
	// Spent cells have already split (or, for the source, emitted).
	Spent
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Energized:
		return "energized"
	case Spent:
		return "spent"
	default:
		return "ready"
	}
}
