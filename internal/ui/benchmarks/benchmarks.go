// Package benchmarks provides timing estimates for provisioning steps.
package benchmarks

import (
	"time"

	"github.com/imamik/stacktopo/internal/provisioning"
)

// DefaultTimings are median step durations against a single-node devstack
// (seconds).
var DefaultTimings = map[string]int{
	provisioning.StepValidation:    1,
	provisioning.StepNetworks:      3,
	provisioning.StepSubnets:       4,
	provisioning.StepRouter:        5,
	provisioning.StepInstances:     45,
	provisioning.StepFloatingIP:    3,
	provisioning.StepSecurityGroup: 3,
	provisioning.StepKeypair:       2,
}

// StepOrder is the sequence used for ETA calculation.
var StepOrder = []string{
	provisioning.StepValidation,
	provisioning.StepNetworks,
	provisioning.StepSubnets,
	provisioning.StepRouter,
	provisioning.StepInstances,
	provisioning.StepFloatingIP,
	provisioning.StepSecurityGroup,
	provisioning.StepKeypair,
}

// StepRecord is a finished step and how long it took.
type StepRecord struct {
	Step     string
	Duration time.Duration
}

// EstimateRemaining calculates the time left from the current step, the time
// spent in it, and the steps already finished.
func EstimateRemaining(currentStep string, stepElapsed time.Duration, history []StepRecord) time.Duration {
	return EstimateRemainingWithScale(currentStep, stepElapsed, history, PerformanceScale(currentStep, stepElapsed, history))
}

// EstimateRemainingWithScale calculates the ETA while applying a performance
// scale factor.
func EstimateRemainingWithScale(currentStep string, stepElapsed time.Duration, history []StepRecord, scale float64) time.Duration {
	currentIdx := -1
	for i, s := range StepOrder {
		if s == currentStep {
			currentIdx = i
			break
		}
	}
	if currentIdx < 0 {
		return 0
	}

	var remaining time.Duration
	if expected, ok := DefaultTimings[currentStep]; ok {
		expectedDur := time.Duration(float64(time.Duration(expected)*time.Second) * scale)
		if expectedDur > stepElapsed {
			remaining += expectedDur - stepElapsed
		}
	}

	completed := make(map[string]bool, len(history))
	for _, rec := range history {
		completed[rec.Step] = true
	}
	for _, step := range StepOrder[currentIdx+1:] {
		if completed[step] {
			continue
		}
		if expected, ok := DefaultTimings[step]; ok {
			remaining += time.Duration(float64(time.Duration(expected)*time.Second) * scale)
		}
	}
	return remaining
}

// PerformanceScale derives a speed multiplier from observed and expected
// durations. Expected 10s, observed 15s gives 1.5. The result is clamped
// to [0.6, 3].
func PerformanceScale(currentStep string, stepElapsed time.Duration, history []StepRecord) float64 {
	var expectedTotal, actualTotal time.Duration

	for _, rec := range history {
		expectedSecs, ok := DefaultTimings[rec.Step]
		if !ok {
			continue
		}
		expectedTotal += time.Duration(expectedSecs) * time.Second
		actualTotal += rec.Duration
	}

	// An overrunning current step counts right away.
	if expectedSecs, ok := DefaultTimings[currentStep]; ok && stepElapsed > 0 {
		expectedCurrent := time.Duration(expectedSecs) * time.Second
		if stepElapsed > expectedCurrent {
			expectedTotal += expectedCurrent
			actualTotal += stepElapsed
		}
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	if scale < 0.6 {
		return 0.6
	}
	if scale > 3.0 {
		return 3.0
	}
	return scale
}

// TotalEstimate returns the expected duration of a full run.
func TotalEstimate() time.Duration {
	var total time.Duration
	for _, step := range StepOrder {
		total += time.Duration(DefaultTimings[step]) * time.Second
	}
	return total
}
