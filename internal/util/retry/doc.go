// Package retry provides exponential backoff retry and readiness polling.
//
// [WithExponentialBackoff] retries an operation with configurable max attempts,
// initial delay, and maximum delay. [Poll] repeatedly evaluates a condition
// until it reports done, fails fatally, or the context deadline expires. It is
// used to wait for compute instances to reach ACTIVE.
package retry
