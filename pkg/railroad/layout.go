package railroad

import (
	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/measure"
)

// Engine lays out expression trees. An Engine is immutable and safe for
// concurrent use; each Layout call works on its own size cache.
type Engine struct {
	cfg        Config
	measurer   measure.Measurer
	fixedPoint bool
}

// Option configures an [Engine].
type Option func(*Engine)

// WithConfig sets the layout constants. The default is [DefaultConfig].
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithMeasurer sets the text measurer. A nil measurer measures everything
// as zero. The default is [measure.Default].
func WithMeasurer(m measure.Measurer) Option {
	return func(e *Engine) { e.measurer = measure.OrZero(m) }
}

// WithFixedPoint makes Layout resolve all sizes up front with [Engine.Resolve]
// instead of computing them on demand. The output is the same.
func WithFixedPoint() Option {
	return func(e *Engine) { e.fixedPoint = true }
}

// New returns an engine with the given options applied.
func New(opts ...Option) *Engine {
	e := &Engine{cfg: DefaultConfig(), measurer: measure.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's layout constants.
func (e *Engine) Config() Config { return e.cfg }

// run is the state of one layout: the size cache keyed by node ID and the
// output lists. It is never shared between calls.
type run struct {
	sizer
	sizes    map[string]Size
	boxes    []Box
	connects []Connector
}

func (e *Engine) newRun() *run {
	return &run{
		sizer:    e.sizer(),
		sizes:    make(map[string]Size),
		boxes:    []Box{},
		connects: []Connector{},
	}
}

func (e *Engine) sizer() sizer {
	return sizer{cfg: e.cfg, m: e.measurer}
}

// Layout computes the diagram for the chain starting at root. Node IDs
// must be unique and the tree acyclic (see [ast.Validate]); the tree is not
// modified.
func (e *Engine) Layout(root ast.Node) Diagram {
	r := e.newRun()
	if e.fixedPoint {
		r.sizes = e.Resolve(root)
	}

	w, h := r.aggregate(root)
	r.place(root, e.cfg.ChartPaddingH, e.cfg.ChartPaddingV, nil)

	return Diagram{
		Width:    w + 2*e.cfg.ChartPaddingH,
		Height:   h + 2*e.cfg.ChartPaddingV,
		Nodes:    r.boxes,
		Connects: r.connects,
	}
}

// Sizes returns the size of every node reachable from root, keyed by ID.
func (e *Engine) Sizes(root ast.Node) map[string]Size {
	r := e.newRun()
	ast.Inspect(root, func(n ast.Node, _ int) bool {
		r.size(n)
		return true
	})
	return r.sizes
}
