// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - InfraFixture: Pre-configured mock control plane that records a call trace
//   - RecordingObserver: Observer that keeps every event for assertions
//   - MemoryKeyWriter: KeyWriter that keeps persisted keys in memory
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithParallelism(3).
//	    Build()
//
//	fixture := testing.NewInfraFixture()
//	mockInfra := fixture.SuccessfulProvisioning()
//
// The fake control plane used by end-to-end tests lives in the fakecloud
// subpackage.
package testing
