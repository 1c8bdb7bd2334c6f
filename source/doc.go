// Package source provides built-in record source implementations.
//
// Record sources load the people and tasks a Planner allocates.
// The package includes:
//
//   - Static: Fixed records held in memory
//   - LoadFile / ParseYAML: YAML plan documents
//   - Postgres: people and tasks tables read through a pgx pool
//
// Availability and commitments use the compact string forms in YAML and SQL:
//
//	availability: "01/2025:0.5,02/2025:1.0"
//	commitments:  "03/2025:PROJ-7"
//
// Malformed availability entries are dropped silently.
//
// Custom sources can be implemented by satisfying the types.RecordSource interface.
package source
