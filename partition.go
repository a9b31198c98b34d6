package filters

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-filters/pkg/activity"
)

// Option configures a Partitioner.
type Option func(*config)

type config struct {
	engine        ExpressionEngine
	programCache  ProgramCache
	functions     *FunctionRegistry
	logger        PartitionLogger
	flattener     Flattener
	unflattener   Unflattener
	activityHooks activity.Hooks
}

// WithExpressionEngine configures the engine used to compile Expression
// literals. When unset the Partitioner resolves an expr-lang engine wired
// with the configured cache and registry.
func WithExpressionEngine(engine ExpressionEngine) Option {
	return func(cfg *config) {
		cfg.engine = engine
	}
}

// WithFlattener overrides the codec used by Split to linearize nodes.
func WithFlattener(flattener Flattener) Option {
	return func(cfg *config) {
		cfg.flattener = flattener
	}
}

// WithUnflattener overrides the codec used by Split to rebuild groups.
func WithUnflattener(unflattener Unflattener) Option {
	return func(cfg *config) {
		cfg.unflattener = unflattener
	}
}

// WithActivityHooks attaches activity hooks notified after every partition
// run. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *config) {
		cfg.activityHooks = normalized
	}
}

// Partitioner owns the configuration for partition runs: expression engine,
// program cache, custom functions, flatten/unflatten codecs, logging, and
// activity hooks. The zero configuration is fully functional; a bare
// Partitioner behaves exactly like the package-level Partition.
type Partitioner struct {
	cfg config
}

// New constructs a Partitioner with the supplied options.
func New(opts ...Option) *Partitioner {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Partitioner{cfg: cfg}
}

// Partition splits state into one group per filter literal using
// first-match-wins over the literal order. Every entry must land in exactly
// one group: an entry no literal matches aborts the whole call with
// *UnmatchedError and no groups. Ordering is the caller's contract: place
// the most specific filters first and, when total coverage is required, end
// with Wildcard.
func Partition(state FlatState, literals ...any) ([]FlatState, error) {
	return New().Partition(state, literals...)
}

// Partition implements the package-level contract with this Partitioner's
// configuration.
func (p *Partitioner) Partition(state FlatState, literals ...any) ([]FlatState, error) {
	groups, _, err := p.run(state, literals, false, runScope{})
	return groups, err
}

// PartitionTrace behaves like Partition and additionally records per-entry
// provenance: which group, and therefore which literal, claimed each path.
func (p *Partitioner) PartitionTrace(state FlatState, literals ...any) ([]FlatState, Trace, error) {
	return p.run(state, literals, true, runScope{})
}

// Split flattens node with the configured Flattener, partitions the result,
// and rebuilds each group with the configured Unflattener. Group order
// follows literal order. Activity hooks observe the run as a "state.split"
// event.
func (p *Partitioner) Split(node any, literals ...any) ([]any, error) {
	return p.SplitNamed("", node, literals...)
}

// SplitNamed behaves like Split and stamps stateID onto the emitted activity
// event so hooks can attribute the run to a specific state tree.
func (p *Partitioner) SplitNamed(stateID string, node any, literals ...any) ([]any, error) {
	flattener := p.flattener()
	state, err := flattener.Flatten(node)
	if err != nil {
		return nil, fmt.Errorf("filters: flatten: %w", err)
	}
	groups, _, err := p.run(state, literals, false, runScope{split: true, stateID: stateID})
	if err != nil {
		return nil, err
	}
	unflattener := p.unflattener()
	out := make([]any, len(groups))
	for i, group := range groups {
		node, err := unflattener.Unflatten(group)
		if err != nil {
			return nil, fmt.Errorf("filters: unflatten group %d: %w", i, err)
		}
		out[i] = node
	}
	return out, nil
}

// runScope carries per-run event routing: whether the run belongs to a
// structured-node split and, when known, which state tree it operated on.
type runScope struct {
	split   bool
	stateID string
}

func (p *Partitioner) run(state FlatState, literals []any, traced bool, scope runScope) ([]FlatState, Trace, error) {
	engine := p.resolveEngine()
	trace := Trace{ID: uuid.NewString(), Groups: len(literals)}
	start := time.Now()
	groups, err := p.scan(state, literals, engine, traced, &trace)
	duration := time.Since(start)

	p.logger().LogPartition(PartitionLogEvent{
		TraceID:  trace.ID,
		Engine:   engineName(engine),
		Filters:  len(literals),
		Entries:  state.Len(),
		Groups:   len(groups),
		Duration: duration,
		Err:      err,
	})
	p.notifyActivity(state, groups, trace.ID, err, scope)

	if err != nil {
		return nil, Trace{}, err
	}
	return groups, trace, nil
}

func (p *Partitioner) scan(state FlatState, literals []any, engine ExpressionEngine, traced bool, trace *Trace) ([]FlatState, error) {
	predicates := make([]Predicate, len(literals))
	for i, literal := range literals {
		predicate, err := compileLiteral(literal, engine)
		if err != nil {
			return nil, err
		}
		predicates[i] = predicate
	}

	groups := make([]FlatState, len(predicates))
	for i := range groups {
		groups[i] = NewFlatState()
	}

	for _, entry := range state.Entries() {
		assigned := false
		for i, predicate := range predicates {
			if !predicate(entry.Path, entry.Value) {
				continue
			}
			groups[i].Set(entry.Path, entry.Value)
			if traced {
				trace.Assignments = append(trace.Assignments, Assignment{
					Path:   entry.Path.String(),
					Group:  i,
					Filter: describeLiteral(literals[i]),
				})
			}
			assigned = true
			break
		}
		if !assigned {
			return nil, &UnmatchedError{Path: entry.Path, Value: entry.Value}
		}
	}
	return groups, nil
}

func (p *Partitioner) resolveEngine() ExpressionEngine {
	if p.cfg.engine != nil {
		return p.cfg.engine
	}
	var exprOpts []ExprEngineOption
	if p.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(p.cfg.programCache))
	}
	if p.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(p.cfg.functions))
	}
	engine := NewExprEngine(exprOpts...)
	p.cfg.engine = engine
	return engine
}

func (p *Partitioner) flattener() Flattener {
	if p.cfg.flattener != nil {
		return p.cfg.flattener
	}
	return MapCodec{}
}

func (p *Partitioner) unflattener() Unflattener {
	if p.cfg.unflattener != nil {
		return p.cfg.unflattener
	}
	return MapCodec{}
}

func (p *Partitioner) logger() PartitionLogger {
	if p.cfg.logger != nil {
		return p.cfg.logger
	}
	return noopPartitionLogger{}
}

func (p *Partitioner) notifyActivity(state FlatState, groups []FlatState, traceID string, err error, scope runScope) {
	if !p.cfg.activityHooks.Enabled() {
		return
	}
	input := activity.PartitionEventInput{
		StateID: scope.stateID,
		TraceID: traceID,
		Entries: state.Len(),
		Err:     err,
	}
	if err == nil {
		sizes := make([]int, len(groups))
		for i, group := range groups {
			sizes[i] = group.Len()
		}
		input.GroupSizes = sizes
	}
	build := activity.BuildPartitionEvent
	if scope.split {
		build = activity.BuildSplitEvent
	}
	_ = p.cfg.activityHooks.Notify(context.Background(), build(input))
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

func engineName(engine ExpressionEngine) string {
	if engine == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", engine) {
	case "*filters.exprEngine":
		return "expr"
	case "*filters.celEngine":
		return "cel"
	case "*filters.jsEngine":
		return "js"
	default:
		return "custom"
	}
}
