// Package allot assigns people to tasks under competency and monthly
// availability constraints.
//
// Allot offers a one-shot optimal assignment per project (Hungarian matching
// over a cost matrix) and month-granular allocators that split a task's hours
// across people and months without exceeding anyone's capacity: a greedy
// allocator with bounded lookahead and a fallback pass, and a seeded genetic
// allocator with an optional preset sweep.
//
// # Quick Start
//
// Plan from a fixed set of records with default settings:
//
//	import (
//	    "github.com/arloliu/allot"
//	    "github.com/arloliu/allot/source"
//	)
//
//	cfg := allot.DefaultConfig()
//	planner, err := allot.NewPlanner(&cfg, source.NewStatic(people, tasks))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := planner.Plan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, a := range result.Assignments {
//	    fmt.Println(a.PersonID, a.TaskID, a.Effort)
//	}
//
// # Strategies
//
//   - optimal: one task per person per project, minimum total cost
//   - greedy (default): hour-based, splits effort, ledger-checked
//   - genetic: hour-based search maximizing a multi-term fitness
//   - genetic_sweep: genetic runs over several presets, best result wins
//
// Tasks that cannot be (fully) covered never fail a run. They are reported as
// NoCandidateWarning values in Result.Warnings and through
// Hooks.OnTaskUnassigned.
//
// # Advanced Usage
//
// Custom strategy, hooks and result publishing:
//
//	import (
//	    "github.com/arloliu/allot"
//	    "github.com/arloliu/allot/publish"
//	    "github.com/arloliu/allot/strategy"
//	)
//
//	greedy := strategy.NewGreedy(
//	    strategy.WithLookahead(3, 0.5),
//	    strategy.WithMultiAssign(true),
//	)
//
//	pub, err := publish.Open(ctx, js, cfg.Publish)
//
//	hooks := &allot.Hooks{
//	    OnTaskUnassigned: func(ctx context.Context, w allot.NoCandidateWarning) error {
//	        return notifyStaffing(w)
//	    },
//	}
//
//	planner, err := allot.NewPlanner(&cfg, src,
//	    allot.WithStrategy(greedy),
//	    allot.WithPublisher(pub),
//	    allot.WithHooks(hooks),
//	)
//
// See the examples/ directory for complete working examples.
package allot
