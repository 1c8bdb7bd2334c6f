package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ValidateInput checks people and tasks before an allocation run.
//
// Validation rules:
//  1. There is at least one person and one task
//  2. IDs are non-blank and unique within their kind
//  3. PartTimeFactor is finite and > 0, TimeBudget is not negative
//  4. Effort is finite and > 0
//  5. Start and End are set and End >= Start
//
// Parameters:
//   - people: Person records
//   - tasks: Task records
//
// Returns:
//   - error: ErrEmptyInput or ErrInvalidInput (joined per offending record), nil if valid
func ValidateInput(people []Person, tasks []Task) error {
	if len(people) == 0 {
		return fmt.Errorf("%w: no people", ErrEmptyInput)
	}
	if len(tasks) == 0 {
		return fmt.Errorf("%w: no tasks", ErrEmptyInput)
	}

	var errs []error

	seenPeople := make(map[string]struct{}, len(people))
	for i, p := range people {
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, fmt.Errorf("%w: person #%d has blank id", ErrInvalidInput, i))
			continue
		}
		if _, dup := seenPeople[p.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate person id %q", ErrInvalidInput, p.ID))
		}
		seenPeople[p.ID] = struct{}{}

		if !(p.PartTimeFactor > 0) || math.IsInf(p.PartTimeFactor, 0) {
			errs = append(errs, fmt.Errorf("%w: person %s: part-time factor must be > 0, got %v", ErrInvalidInput, p.ID, p.PartTimeFactor))
		}
		if p.TimeBudget < 0 {
			errs = append(errs, fmt.Errorf("%w: person %s: time budget must not be negative", ErrInvalidInput, p.ID))
		}
	}

	seenTasks := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			errs = append(errs, fmt.Errorf("%w: task #%d has blank id", ErrInvalidInput, i))
			continue
		}
		if _, dup := seenTasks[t.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate task id %q", ErrInvalidInput, t.ID))
		}
		seenTasks[t.ID] = struct{}{}

		if !(t.Effort > 0) || math.IsInf(t.Effort, 0) {
			errs = append(errs, fmt.Errorf("%w: task %s: effort must be > 0, got %v", ErrInvalidInput, t.ID, t.Effort))
		}
		if t.Start.IsZero() || t.End.IsZero() {
			errs = append(errs, fmt.Errorf("%w: task %s: start and end months are required", ErrInvalidInput, t.ID))
		} else if t.End.Before(t.Start) {
			errs = append(errs, fmt.Errorf("%w: task %s: end %s before start %s", ErrInvalidInput, t.ID, t.End, t.Start))
		}
	}

	return errors.Join(errs...)
}
