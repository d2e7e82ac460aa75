package seo

import "sort"

// Direction labels a class of tunneling event. The set is open: any label is
// accepted and keys dE and wT uniformly.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
	Front Direction = "front"
	Back  Direction = "back"
)

func (d Direction) String() string { return string(d) }

// Opposite returns the reverse direction for the built-in labels and d itself
// for anything else.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	case Front:
		return Back
	case Back:
		return Front
	default:
		return d
	}
}

func sortedDirections(m map[Direction]float64) []Direction {
	dirs := make([]Direction, 0, len(m))
	for d := range m {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i] < dirs[j] })
	return dirs
}
