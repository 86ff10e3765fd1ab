// Package async runs named tasks concurrently.
//
// RunParallel starts every task at once and reports the first failure after
// all of them return. RunBounded caps concurrency with an errgroup and is what
// the provisioning phases use when more than one worker is configured.
package async
