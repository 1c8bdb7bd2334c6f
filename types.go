package allot

import "github.com/arloliu/allot/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which lets strategy, source and publish depend on `types`
// without importing the root `allot` package.
type (
	Month              = types.Month
	Availability       = types.Availability
	Person             = types.Person
	Task               = types.Task
	Assignment         = types.Assignment
	MonthlyAllocation  = types.MonthlyAllocation
	NoCandidateWarning = types.NoCandidateWarning
	Result             = types.Result
)

// Re-export interfaces from the internal types package for convenience.
type (
	AllocationStrategy = types.AllocationStrategy
	RecordSource       = types.RecordSource
	ResultPublisher    = types.ResultPublisher
	MetricsCollector   = types.MetricsCollector
	Logger             = types.Logger
	Hooks              = types.Hooks
)

// Re-export month and availability helpers from the internal types package.
var (
	NewMonth          = types.NewMonth
	ParseMonth        = types.ParseMonth
	MustParseMonth    = types.MustParseMonth
	ParseAvailability = types.ParseAvailability
	ParseCommitments  = types.ParseCommitments
	ValidateInput     = types.ValidateInput
)
