package filter

type Mode int

const (
	Exact Mode = iota
	Fuzzy
	Regex
	modeCount
)

func (m Mode) String() string {
	switch m {
	case Exact:
		return "Exact"
	case Fuzzy:
		return "Fuzzy"
	case Regex:
		return "Regex"
	default:
		return "Unknown"
	}
}

// Next walks Exact -> Fuzzy -> Regex -> Exact.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

// Prev walks the same cycle backwards.
func (m Mode) Prev() Mode {
	return (m + modeCount - 1) % modeCount
}
