// Package trigger runs allocation plans on demand over NATS request/reply.
//
// A Responder subscribes to a request subject (optionally in a queue group so
// several replicas share the load), runs its Planner once per request and
// replies with a compact JSON Reply. Subscribing retries with jittered
// backoff until the context is cancelled or the retry budget is spent.
package trigger
