package app

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/semaphore"

	"perfgate/domain/core"
	"perfgate/domain/gate"
	"perfgate/internal/gatelog"
	"perfgate/ports"
)

// maxConcurrentTraces bounds how many traces evaluateAll runs at once. A
// gate evaluation is CPU-bound (bootstrap resampling dominates), so the
// pool is sized off the host rather than left unbounded.
func maxConcurrentTraces() int64 {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return int64(n)
	}
	return 1
}

// RunSummary aggregates the per-trace GateResults of one orchestrator run
// into the CI-facing report: the full set of verdicts, any one-sided trace
// names, and the single exit status the CLI maps to a process exit code.
type RunSummary struct {
	RunID           string            `json:"run_id"`
	Results         []gate.GateResult `json:"results"`
	MissingBaseline []string          `json:"missing_baseline,omitempty"`
	MissingTarget   []string          `json:"missing_target,omitempty"`
	Failed          bool              `json:"failed"`
	EvaluatedAt     core.Timestamp    `json:"evaluated_at"`
}

// OrchestratorService implements the multi-trace orchestrator (C7): name
// matching, duplicate detection, per-trace gate invocation with
// independently-derived PRNG streams, and exit-status aggregation.
type OrchestratorService struct {
	gateService *GateService
	rngPort     ports.RNGPort
	log         *gatelog.Logger
}

func NewOrchestratorService(gateService *GateService, rngPort ports.RNGPort) *OrchestratorService {
	return &OrchestratorService{
		gateService: gateService,
		rngPort:     rngPort,
		log:         gatelog.NewDefault("orchestrator"),
	}
}

// Run evaluates every trace present in both baseline and target, in
// sorted-by-name order for deterministic report layout, and aggregates the
// results into one RunSummary. Traces present on only one side are
// surfaced as warnings rather than evaluated.
func (o *OrchestratorService) Run(ctx context.Context, baseline, target []gate.Trace, cfg gate.Config) (RunSummary, error) {
	baselineByName, err := indexByName(baseline)
	if err != nil {
		return RunSummary{}, fmt.Errorf("%w: baseline document: %v", core.ErrSchemaInvalid, err)
	}
	targetByName, err := indexByName(target)
	if err != nil {
		return RunSummary{}, fmt.Errorf("%w: target document: %v", core.ErrSchemaInvalid, err)
	}

	names := intersectNames(baselineByName, targetByName)
	sort.Strings(names)

	runID := core.NewID().String()

	results := o.evaluateAll(ctx, runID, names, baselineByName, targetByName, cfg)

	summary := RunSummary{
		RunID:           runID,
		Results:         results,
		MissingBaseline: namesMissingFrom(baselineByName, targetByName),
		MissingTarget:   namesMissingFrom(targetByName, baselineByName),
		EvaluatedAt:     core.Now(),
	}

	for _, r := range results {
		if r.IsFailing() {
			summary.Failed = true
			break
		}
	}

	for _, n := range summary.MissingBaseline {
		o.log.Warn("trace %s present in target only; skipped", n)
	}
	for _, n := range summary.MissingTarget {
		o.log.Warn("trace %s present in baseline only; skipped", n)
	}

	return summary, nil
}

// evaluateAll runs the gate concurrently across intersected trace names,
// bounded by a weighted semaphore so a run with hundreds of traces doesn't
// spawn hundreds of simultaneous bootstrap resamplers. Each goroutine gets
// its own PRNG stream and its own GateResult slot, then results are
// collected back in name-sorted order.
func (o *OrchestratorService) evaluateAll(ctx context.Context, runID string, names []string, baselineByName, targetByName map[string]gate.Trace, cfg gate.Config) []gate.GateResult {
	type resultWithIndex struct {
		result gate.GateResult
		index  int
	}

	sem := semaphore.NewWeighted(maxConcurrentTraces())
	resultChan := make(chan resultWithIndex, len(names))

	for i, name := range names {
		go func(name string, idx int) {
			if err := sem.Acquire(ctx, 1); err != nil {
				o.log.Warn("trace %s: semaphore acquire canceled: %v", name, err)
				resultChan <- resultWithIndex{result: o.gateService.inconclusiveInternal(name, core.Now(), err), index: idx}
				return
			}
			defer sem.Release(1)

			rng, err := o.rngPort.Stream(ctx, runID, name, cfg.Seed)
			if err != nil {
				rng = fallbackRNG(cfg.Seed, name)
			}
			result := o.gateService.Evaluate(ctx, name, baselineByName[name].Values, targetByName[name].Values, cfg, rng)
			resultChan <- resultWithIndex{result: result, index: idx}
		}(name, i)
	}

	results := make([]gate.GateResult, len(names))
	for i := 0; i < len(names); i++ {
		r := <-resultChan
		results[r.index] = r.result
	}

	return results
}

func fallbackRNG(seed int64, traceName string) *rand.Rand {
	return rand.New(rand.NewSource(core.DeriveSeed(seed, traceName)))
}

// indexByName builds a name -> Trace map, rejecting empty names and
// duplicate names within the same document.
func indexByName(traces []gate.Trace) (map[string]gate.Trace, error) {
	byName := make(map[string]gate.Trace, len(traces))
	for _, t := range traces {
		if t.Name == "" {
			return nil, core.ErrEmptyTraceName
		}
		if _, exists := byName[t.Name]; exists {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateTraceName, t.Name)
		}
		byName[t.Name] = t
	}
	return byName, nil
}

func intersectNames(a, b map[string]gate.Trace) []string {
	names := make([]string, 0, len(a))
	for name := range a {
		if _, ok := b[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

func namesMissingFrom(present, other map[string]gate.Trace) []string {
	var missing []string
	for name := range other {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
