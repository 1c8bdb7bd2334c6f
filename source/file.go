package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/allot/types"
)

// Document is a YAML plan document.
type Document struct {
	People []types.Person
	Tasks  []types.Task
}

type personDoc struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name,omitempty"`
	Competency     string   `yaml:"competency"`
	PartTimeFactor float64  `yaml:"partTimeFactor"`
	Availability   string   `yaml:"availability,omitempty"`
	Commitments    string   `yaml:"commitments,omitempty"`
	Skills         []string `yaml:"skills,omitempty"`
	TimeBudget     float64  `yaml:"timeBudget,omitempty"`
}

type document struct {
	People []personDoc   `yaml:"people"`
	Tasks  []types.Task `yaml:"tasks"`
}

// ParseYAML decodes a plan document.
//
// Unknown fields are rejected. A missing partTimeFactor defaults to 1.0.
// Availability is parsed leniently; months must be valid "MM/YYYY" strings.
//
// Parameters:
//   - data: YAML document with top-level "people" and "tasks" lists
//
// Returns:
//   - Document: Decoded records in document order
//   - error: Wrapped types.ErrInvalidInput on malformed YAML
//
// Example:
//
//	people:
//	  - id: P1
//	    competency: B
//	    partTimeFactor: 1.0
//	    availability: "01/2025:0.5,02/2025:1.0"
//	tasks:
//	  - id: T1
//	    projectId: X
//	    minCompetency: B
//	    effort: 160
//	    start: "01/2025"
//	    end: "02/2025"
func ParseYAML(data []byte) (Document, error) {
	var raw document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("%w: decode plan: %w", types.ErrInvalidInput, err)
	}

	doc := Document{
		People: make([]types.Person, 0, len(raw.People)),
		Tasks:  raw.Tasks,
	}
	for _, p := range raw.People {
		factor := p.PartTimeFactor
		if factor == 0 {
			factor = 1.0
		}
		doc.People = append(doc.People, types.Person{
			ID:             p.ID,
			Name:           p.Name,
			Competency:     p.Competency,
			PartTimeFactor: factor,
			Availability:   types.ParseAvailability(p.Availability),
			Skills:         p.Skills,
			TimeBudget:     p.TimeBudget,
			Commitments:    types.ParseCommitments(p.Commitments),
		})
	}
	if doc.Tasks == nil {
		doc.Tasks = []types.Task{}
	}

	return doc, nil
}

// MarshalYAML encodes people and tasks as a plan document that ParseYAML
// reads back.
func MarshalYAML(people []types.Person, tasks []types.Task) ([]byte, error) {
	raw := document{People: make([]personDoc, 0, len(people)), Tasks: tasks}
	for _, p := range people {
		raw.People = append(raw.People, personDoc{
			ID:             p.ID,
			Name:           p.Name,
			Competency:     p.Competency,
			PartTimeFactor: p.PartTimeFactor,
			Availability:   p.Availability.String(),
			Commitments:    types.FormatCommitments(p.Commitments),
			Skills:         p.Skills,
			TimeBudget:     p.TimeBudget,
		})
	}

	return yaml.Marshal(raw)
}

// LoadFile reads a YAML plan document into a Static source.
//
// Parameters:
//   - path: Path to the plan file
//
// Returns:
//   - *Static: Source serving the file's records
//   - error: Read or decode error
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}

	doc, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return NewStatic(doc.People, doc.Tasks), nil
}
