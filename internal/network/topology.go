package network

import "fmt"

type Topology string

const (
	TopologyNone     Topology = "none"
	TopologyPositive Topology = "positive"
	TopologyCubic    Topology = "cubic"
)

func ParseTopology(s string) (Topology, error) {
	switch t := Topology(s); t {
	case TopologyNone, TopologyPositive, TopologyCubic:
		return t, nil
	case "":
		return TopologyCubic, nil
	default:
		return "", fmt.Errorf("unknown topology: %s", s)
	}
}

var (
	positiveOffsets = []Coord{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	cubicOffsets    = []Coord{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
)

// Wire connects every node according to t. Nodes at the boundary get fewer
// neighbours. The first rejected node aborts wiring.
func (g *Grid) Wire(t Topology) error {
	switch t {
	case TopologyNone:
		return nil
	case TopologyPositive:
		return g.wireOffsets(positiveOffsets)
	case TopologyCubic:
		return g.wireOffsets(cubicOffsets)
	default:
		return fmt.Errorf("unknown topology: %s", t)
	}
}

// WirePositive links each node to its +x, +y and +z neighbours.
func (g *Grid) WirePositive() error { return g.Wire(TopologyPositive) }

// WireCubic links each node to its full 6-neighbourhood, which is symmetric.
func (g *Grid) WireCubic() error { return g.Wire(TopologyCubic) }

func (g *Grid) wireOffsets(offsets []Coord) error {
	for i := range g.nodes {
		c := g.Coord(i)
		targets := make([]Coord, 0, len(offsets))
		for _, off := range offsets {
			n := Coord{c.X + off.X, c.Y + off.Y, c.Z + off.Z}
			if g.Contains(n) {
				targets = append(targets, n)
			}
		}
		if err := g.Connect(c, targets...); err != nil {
			return err
		}
	}
	return nil
}

// Edges counts directed connections across the grid.
func (g *Grid) Edges() int {
	n := 0
	for _, o := range g.nodes {
		n += o.NumConnections()
	}
	return n
}
