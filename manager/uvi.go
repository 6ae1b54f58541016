package manager

type UVIndex struct {
	Value float64
}

// Level maps the index onto the usual UV colour scale.
func (u UVIndex) Level() string {
	switch {
	case u.Value <= 3:
		return "green"
	case u.Value <= 6:
		return "yellow"
	case u.Value <= 8:
		return "orange"
	case u.Value <= 11:
		return "red"
	default:
		return "violet"
	}
}
