package testing

import (
	"github.com/arloliu/allot/types"
)

// Person builds a person record from the compact availability form.
//
// Example:
//
//	p := allottest.Person("P1", "B", 1.0, "01/2025:0.5,02/2025:1.0")
func Person(id, competency string, partTimeFactor float64, availability string) types.Person {
	return types.Person{
		ID:             id,
		Name:           id,
		Competency:     competency,
		PartTimeFactor: partTimeFactor,
		Availability:   types.ParseAvailability(availability),
	}
}

// Task builds a task record; start and end use the "MM/YYYY" form and panic
// when malformed.
//
// Example:
//
//	t := allottest.Task("T1", "X", "B", 160, "01/2025", "02/2025")
func Task(id, projectID, minCompetency string, effort float64, start, end string) types.Task {
	return types.Task{
		ID:            id,
		ProjectID:     projectID,
		Name:          id,
		MinCompetency: minCompetency,
		Effort:        effort,
		Start:         types.MustParseMonth(start),
		End:           types.MustParseMonth(end),
	}
}
