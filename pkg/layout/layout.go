package layout

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/model"
)

// Point is a position in the diagram plane (y up).
type Point struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Polar returns the point at distance d from p in direction angle (degrees,
// counter-clockwise from +x).
func (p Point) Polar(angle, d float64) Point {
	rad := angle * math.Pi / 180
	return Point{p.X + math.Cos(rad)*d, p.Y + math.Sin(rad)*d}
}

// Node is a placed node type with the circle radius it is drawn with.
type Node struct {
	Type    model.NodeType `json:"type"`
	Center  Point          `json:"center"`
	Radius  float64        `json:"radius"`
	Primary bool           `json:"primary,omitempty"`
}

// Layout is the set of placed nodes, in the model's canonical order, with
// the edges to draw between them.
type Layout struct {
	Nodes []Node       `json:"nodes"`
	Edges []model.Edge `json:"edges"`

	index map[model.NodeType]int
}

// Position returns the centre of n, or a MISSING_POSITION error.
func (l Layout) Position(n model.NodeType) (Point, error) {
	nd, err := l.Node(n)
	if err != nil {
		return Point{}, err
	}
	return nd.Center, nil
}

// Node returns the placed node for n, or a MISSING_POSITION error.
func (l Layout) Node(n model.NodeType) (Node, error) {
	i, ok := l.index[n]
	if l.index == nil {
		// decoded layouts carry no index
		for j, nd := range l.Nodes {
			if nd.Type == n {
				i, ok = j, true
				break
			}
		}
	}
	if !ok {
		return Node{}, errors.New(errors.ErrCodeMissingPosition, "node type has no position").
			In(errors.PhaseLayout, string(n))
	}
	return l.Nodes[i], nil
}

// Bounds returns the smallest box enclosing every circle.
func (l Layout) Bounds() (lo, hi Point) {
	if len(l.Nodes) == 0 {
		return Point{}, Point{}
	}
	lo = Point{math.Inf(1), math.Inf(1)}
	hi = Point{math.Inf(-1), math.Inf(-1)}
	for _, n := range l.Nodes {
		lo.X = min(lo.X, n.Center.X-n.Radius)
		lo.Y = min(lo.Y, n.Center.Y-n.Radius)
		hi.X = max(hi.X, n.Center.X+n.Radius)
		hi.Y = max(hi.Y, n.Center.Y+n.Radius)
	}
	return lo, hi
}

// Option configures Compute.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand draws jitter from r. The caller owns r; sharing it between
// goroutines is not safe.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed draws jitter from a PCG source seeded with seed, so the same
// seed always produces the same layout.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// Compute places every node type of m around root.
//
// The first primary sits at root and fans its children at
// AngleStart1 + Angle1*i. The intermediate type sits Length2 away at
// AngleStart0, and the second primary Length2 further at AngleStart4. The
// second primary's children fan at AngleStart2 - Angle2*i, and the tertiary
// root's children fan from its position at AngleStart3 + Angle3*i, at
// cfg.TertiaryLength().
//
// Jitter is applied after placement, independently to each node, as an
// integer offset in [-Randomness, Randomness] per axis. Without an Option
// the jitter source is freshly seeded from the runtime's random state.
func Compute(root Point, cfg Config, m model.Model, opts ...Option) (Layout, error) {
	if err := m.Validate(); err != nil {
		return Layout{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil && cfg.Randomness > 0 {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	pos := make(map[model.NodeType]Point, len(m.Types()))
	fan := func(parent model.NodeType, start, step, dist float64) {
		c := pos[parent]
		for i, child := range m.Children(parent) {
			pos[child] = c.Polar(start+step*float64(i), dist)
		}
	}

	pos[m.PrimaryA] = root
	fan(m.PrimaryA, cfg.AngleStart1, cfg.Angle1, cfg.Length1)

	pos[m.Intermediate] = root.Polar(cfg.AngleStart0, cfg.Length2)
	pos[m.PrimaryB] = pos[m.Intermediate].Polar(cfg.AngleStart4, cfg.Length2)
	fan(m.PrimaryB, cfg.AngleStart2, -cfg.Angle2, cfg.Length1)

	fan(m.TertiaryRoot, cfg.AngleStart3, cfg.Angle3, cfg.TertiaryLength())

	l := Layout{
		Nodes: make([]Node, 0, len(pos)),
		Edges: slices.Clone(m.Edges),
		index: make(map[model.NodeType]int, len(pos)),
	}
	for _, n := range m.Types() {
		p, ok := pos[n]
		if !ok {
			return Layout{}, errors.New(errors.ErrCodeMissingPosition, "node type was not placed").
				In(errors.PhaseLayout, string(n))
		}
		if r := cfg.Randomness; r > 0 {
			p.X += float64(o.rng.IntN(2*r+1) - r)
			p.Y += float64(o.rng.IntN(2*r+1) - r)
		}
		radius := cfg.Radius1
		if m.IsPrimary(n) {
			radius = cfg.Radius2
		}
		l.index[n] = len(l.Nodes)
		l.Nodes = append(l.Nodes, Node{Type: n, Center: p, Radius: radius, Primary: m.IsPrimary(n)})
	}
	return l, nil
}
