// Package strategy provides the built-in allocation strategies.
//
// Every strategy implements types.AllocationStrategy and is a synchronous,
// self-contained computation: it owns its ledger and random state for the
// duration of one Allocate call and shares nothing between calls.
//
//   - Optimal: Hungarian matching per project, at most one task per person
//     and one person per task, effort read in person-months
//   - Greedy: hour-based greedy allocation with lookahead and a fallback pass
//   - Genetic: population-based search over person-per-task chromosomes
//   - GeneticSweep: runs Genetic over several hyperparameter presets and keeps
//     the fittest result
//
// # Strategy Selection Guide
//
// Optimal:
//   - Use for one-shot staffing where each task needs exactly one person
//   - Guarantees the minimum total cost (effort / part-time factor)
//   - Ignores monthly availability
//
// Greedy:
//   - Use for multi-month plans where task effort may be split
//   - Respects monthly capacity for every ledger-checked assignment
//   - Fallback assignments (Fallback = true) trade capacity safety for coverage
//
// Genetic / GeneticSweep:
//   - Use when competency, conflicts and skill bonuses must be balanced globally
//   - Reproducible for a fixed seed, no optimality guarantee
//
// Use FromConfig to build a strategy by name.
package strategy
