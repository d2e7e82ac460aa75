// Package network builds and owns collections of oscillators.
//
// A [Grid] keeps every oscillator in one flat slice indexed by coordinate;
// oscillators only hold non-owning references to each other.
package network

import (
	"errors"
	"fmt"

	"github.com/san-kum/seonet/internal/seo"
)

var ErrOutOfBounds = errors.New("network: coordinate out of bounds")

type Coord struct{ X, Y, Z int }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z) }

// Grid is an nx×ny×nz lattice of oscillators.
type Grid struct {
	nx, ny, nz int
	nodes      []*seo.Oscillator
}

func NewGrid(nx, ny, nz int, p seo.Params, opts ...seo.Option) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("network: grid dimensions must be positive, got %dx%dx%d", nx, ny, nz)
	}
	g := &Grid{nx: nx, ny: ny, nz: nz, nodes: make([]*seo.Oscillator, nx*ny*nz)}
	for i := range g.nodes {
		g.nodes[i] = seo.NewWithParams(p, opts...)
	}
	return g, nil
}

func (g *Grid) Dims() (nx, ny, nz int) { return g.nx, g.ny, g.nz }
func (g *Grid) Len() int               { return len(g.nodes) }

// Nodes returns the oscillators in index order.
func (g *Grid) Nodes() []*seo.Oscillator { return g.nodes }

func (g *Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.X < g.nx && c.Y >= 0 && c.Y < g.ny && c.Z >= 0 && c.Z < g.nz
}

// Index maps a coordinate to its slot; x varies fastest.
func (g *Grid) Index(c Coord) (int, error) {
	if !g.Contains(c) {
		return 0, fmt.Errorf("%w: %s in %dx%dx%d", ErrOutOfBounds, c, g.nx, g.ny, g.nz)
	}
	return c.X + g.nx*(c.Y+g.ny*c.Z), nil
}

func (g *Grid) Coord(i int) Coord {
	return Coord{X: i % g.nx, Y: (i / g.nx) % g.ny, Z: i / (g.nx * g.ny)}
}

func (g *Grid) At(c Coord) (*seo.Oscillator, error) {
	i, err := g.Index(c)
	if err != nil {
		return nil, err
	}
	return g.nodes[i], nil
}

// IndexOf finds the slot of o, or -1.
func (g *Grid) IndexOf(o *seo.Oscillator) int {
	for i, n := range g.nodes {
		if n == o {
			return i
		}
	}
	return -1
}

// Connect assigns the oscillators at targets, in order, as the connections
// of the oscillator at from.
func (g *Grid) Connect(from Coord, targets ...Coord) error {
	src, err := g.At(from)
	if err != nil {
		return err
	}
	conns := make([]*seo.Oscillator, 0, len(targets))
	for _, t := range targets {
		n, err := g.At(t)
		if err != nil {
			return err
		}
		conns = append(conns, n)
	}
	if err := src.SetConnections(conns); err != nil {
		return fmt.Errorf("node %s: %w", from, err)
	}
	return nil
}
