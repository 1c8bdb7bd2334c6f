// Package publish hands completed allocation results to NATS JetStream KV.
//
// Each published result is stored as one JSON document per project under
// "{prefix}.project.{projectID}" plus a run summary under "{prefix}.summary".
// Every publish increments a version number that stays monotonic across
// publisher restarts: Open discovers the highest version already stored.
// Project keys that are not part of the latest result are removed, so
// consumers never read assignments from an older run.
package publish
