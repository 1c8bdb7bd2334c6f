// Package testing provides test utilities for the allot library.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for publisher tests, plus compact record builders. It
// follows Go's convention of providing testing utilities in a dedicated package
// (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewTestLogger: types.Logger writing to testing.T
//   - Person, Task: Record builders using the compact "MM/YYYY" forms
//
// Example usage:
//
//	import (
//	    "testing"
//	    allottest "github.com/arloliu/allot/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := allottest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
