// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

// Package testing provides utilities for testing orchestration runs.
//
// This package includes:
//   - Scenario definitions for declarative end-to-end run tests
//   - A mock reasoning backend with scripted responses
//   - Assertion helpers for plans, steps and answers
//   - An event collector for verifying run lifecycle events
//
// Example usage:
//
//	scenario := testing.NewScenario("simple search").
//	    WithQuestion("What tickets mention Safari?").
//	    ExpectAnswer(testing.Contains("SHOP-2847")).
//	    ExpectStepCount(1)
//
//	result := scenario.Run(t, orch)
//	result.Assert(t, scenario)
package testing

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/scouthq/scout/pkg/core"
	"github.com/scouthq/scout/pkg/orchestrator"
)

// Runner runs a question end to end. Satisfied by *orchestrator.Orchestrator.
type Runner interface {
	Run(ctx context.Context, question string) (*orchestrator.Result, error)
}

// Scenario defines a declarative test for one orchestration run.
type Scenario struct {
	name          string
	description   string
	question      string
	context       context.Context
	timeout       time.Duration
	expectations  []Expectation
	setupFuncs    []func() error
	teardownFuncs []func() error
}

// Expectation defines a condition to verify after running a scenario.
type Expectation interface {
	Check(result *ScenarioResult) error
	Description() string
}

// ScenarioResult contains the outcome of running a scenario.
type ScenarioResult struct {
	Result   *orchestrator.Result
	Error    error
	Events   []core.Event
	Duration time.Duration
}

// NewScenario creates a new test scenario with the given name.
func NewScenario(name string) *Scenario {
	return &Scenario{
		name:         name,
		timeout:      30 * time.Second,
		context:      context.Background(),
		expectations: make([]Expectation, 0),
	}
}

// WithDescription adds a description to the scenario.
func (s *Scenario) WithDescription(desc string) *Scenario {
	s.description = desc
	return s
}

// WithQuestion sets the question for the run.
func (s *Scenario) WithQuestion(question string) *Scenario {
	s.question = question
	return s
}

// WithContext sets the context for the scenario.
func (s *Scenario) WithContext(ctx context.Context) *Scenario {
	s.context = ctx
	return s
}

// WithTimeout sets the timeout for the scenario.
func (s *Scenario) WithTimeout(d time.Duration) *Scenario {
	s.timeout = d
	return s
}

// WithSetup adds a setup function to run before the scenario.
func (s *Scenario) WithSetup(fn func() error) *Scenario {
	s.setupFuncs = append(s.setupFuncs, fn)
	return s
}

// WithTeardown adds a teardown function to run after the scenario.
func (s *Scenario) WithTeardown(fn func() error) *Scenario {
	s.teardownFuncs = append(s.teardownFuncs, fn)
	return s
}

// Expect adds an expectation to the scenario.
func (s *Scenario) Expect(exp Expectation) *Scenario {
	s.expectations = append(s.expectations, exp)
	return s
}

// ExpectAnswer adds an expectation on the final answer.
func (s *Scenario) ExpectAnswer(matcher StringMatcher) *Scenario {
	return s.Expect(&answerExpectation{matcher: matcher})
}

// ExpectNoError expects the run to finish without error.
func (s *Scenario) ExpectNoError() *Scenario {
	return s.Expect(&noErrorExpectation{})
}

// ExpectError expects an error matching the given pattern.
func (s *Scenario) ExpectError(matcher StringMatcher) *Scenario {
	return s.Expect(&errorExpectation{matcher: matcher})
}

// ExpectStepCount expects the executed plan to have the given length.
func (s *Scenario) ExpectStepCount(count int) *Scenario {
	return s.Expect(&stepCountExpectation{count: count})
}

// ExpectStepIntent expects the step at index to carry the given intent.
func (s *Scenario) ExpectStepIntent(index int, intent string) *Scenario {
	return s.Expect(&stepIntentExpectation{index: index, intent: intent})
}

// ExpectDegradedStep expects the step at index to be degraded.
func (s *Scenario) ExpectDegradedStep(index int) *Scenario {
	return s.Expect(&degradedStepExpectation{index: index})
}

// ExpectRepairs expects the plan to have been repaired n times.
func (s *Scenario) ExpectRepairs(count int) *Scenario {
	return s.Expect(&repairsExpectation{count: count})
}

// ExpectCancelled expects the run to be marked cancelled.
func (s *Scenario) ExpectCancelled() *Scenario {
	return s.Expect(&cancelledExpectation{})
}

// ExpectEvent expects an event of the given type to have been collected.
func (s *Scenario) ExpectEvent(eventType core.EventType) *Scenario {
	return s.Expect(&eventExpectation{eventType: eventType})
}

// ExpectMaxDuration expects the run to complete within the given duration.
func (s *Scenario) ExpectMaxDuration(d time.Duration) *Scenario {
	return s.Expect(&maxDurationExpectation{max: d})
}

// Run executes the scenario against the given runner.
func (s *Scenario) Run(t *testing.T, runner Runner) *ScenarioResult {
	return s.RunWithEvents(t, runner, nil)
}

// RunWithEvents executes the scenario and attaches events from the collector
// to the result. Pass the same collector the runner was built with.
func (s *Scenario) RunWithEvents(t *testing.T, runner Runner, collector *EventCollector) *ScenarioResult {
	t.Helper()

	for _, setup := range s.setupFuncs {
		if err := setup(); err != nil {
			t.Fatalf("scenario %q setup failed: %v", s.name, err)
		}
	}
	defer func() {
		for _, teardown := range s.teardownFuncs {
			if err := teardown(); err != nil {
				t.Errorf("scenario %q teardown failed: %v", s.name, err)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(s.context, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := runner.Run(ctx, s.question)
	duration := time.Since(start)

	out := &ScenarioResult{
		Result:   result,
		Error:    err,
		Duration: duration,
	}
	if collector != nil {
		out.Events = collector.Events()
	}
	return out
}

// Assert checks all expectations and reports failures to the test.
func (r *ScenarioResult) Assert(t *testing.T, scenario *Scenario) {
	t.Helper()
	for _, exp := range scenario.expectations {
		if err := exp.Check(r); err != nil {
			t.Errorf("expectation %q failed: %v", exp.Description(), err)
		}
	}
}

// StringMatcher defines how to match strings in expectations.
type StringMatcher interface {
	Match(s string) bool
	Description() string
}

// Contains returns a matcher that checks if the string contains the substring.
func Contains(substr string) StringMatcher {
	return &containsMatcher{substr: substr}
}

// Equals returns a matcher that checks exact string equality.
func Equals(expected string) StringMatcher {
	return &equalsMatcher{expected: expected}
}

// Regex returns a matcher that checks against a regular expression.
func Regex(pattern string) StringMatcher {
	return &regexMatcher{pattern: pattern}
}

// HasPrefix returns a matcher that checks if the string has the given prefix.
func HasPrefix(prefix string) StringMatcher {
	return &prefixMatcher{prefix: prefix}
}

type containsMatcher struct {
	substr string
}

func (m *containsMatcher) Match(s string) bool {
	return strings.Contains(s, m.substr)
}

func (m *containsMatcher) Description() string {
	return fmt.Sprintf("contains %q", m.substr)
}

type equalsMatcher struct {
	expected string
}

func (m *equalsMatcher) Match(s string) bool {
	return s == m.expected
}

func (m *equalsMatcher) Description() string {
	return fmt.Sprintf("equals %q", m.expected)
}

type regexMatcher struct {
	pattern string
}

func (m *regexMatcher) Match(s string) bool {
	re, err := regexp.Compile(m.pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func (m *regexMatcher) Description() string {
	return fmt.Sprintf("matches regex %q", m.pattern)
}

type prefixMatcher struct {
	prefix string
}

func (m *prefixMatcher) Match(s string) bool {
	return strings.HasPrefix(s, m.prefix)
}

func (m *prefixMatcher) Description() string {
	return fmt.Sprintf("has prefix %q", m.prefix)
}

// Expectation implementations

type answerExpectation struct {
	matcher StringMatcher
}

func (e *answerExpectation) Check(r *ScenarioResult) error {
	if r.Result == nil {
		return fmt.Errorf("no result")
	}
	if !e.matcher.Match(r.Result.Answer) {
		return fmt.Errorf("answer %q does not match: %s", r.Result.Answer, e.matcher.Description())
	}
	return nil
}

func (e *answerExpectation) Description() string {
	return fmt.Sprintf("answer %s", e.matcher.Description())
}

type noErrorExpectation struct{}

func (e *noErrorExpectation) Check(r *ScenarioResult) error {
	if r.Error != nil {
		return fmt.Errorf("expected no error, got: %v", r.Error)
	}
	return nil
}

func (e *noErrorExpectation) Description() string {
	return "no error"
}

type errorExpectation struct {
	matcher StringMatcher
}

func (e *errorExpectation) Check(r *ScenarioResult) error {
	if r.Error == nil {
		return fmt.Errorf("expected error matching %s, got nil", e.matcher.Description())
	}
	if !e.matcher.Match(r.Error.Error()) {
		return fmt.Errorf("error %q does not match: %s", r.Error.Error(), e.matcher.Description())
	}
	return nil
}

func (e *errorExpectation) Description() string {
	return fmt.Sprintf("error %s", e.matcher.Description())
}

type stepCountExpectation struct {
	count int
}

func (e *stepCountExpectation) Check(r *ScenarioResult) error {
	if r.Result == nil {
		return fmt.Errorf("no result")
	}
	if len(r.Result.Steps) != e.count {
		return fmt.Errorf("expected %d steps, got %d", e.count, len(r.Result.Steps))
	}
	return nil
}

func (e *stepCountExpectation) Description() string {
	return fmt.Sprintf("%d steps executed", e.count)
}

type stepIntentExpectation struct {
	index  int
	intent string
}

func (e *stepIntentExpectation) Check(r *ScenarioResult) error {
	if r.Result == nil || e.index >= len(r.Result.Steps) {
		return fmt.Errorf("no step at index %d", e.index)
	}
	if got := r.Result.Steps[e.index].Intent; got != e.intent {
		return fmt.Errorf("step %d intent %q, want %q", e.index, got, e.intent)
	}
	return nil
}

func (e *stepIntentExpectation) Description() string {
	return fmt.Sprintf("step %d has intent %q", e.index, e.intent)
}

type degradedStepExpectation struct {
	index int
}

func (e *degradedStepExpectation) Check(r *ScenarioResult) error {
	if r.Result == nil || e.index >= len(r.Result.Steps) {
		return fmt.Errorf("no step at index %d", e.index)
	}
	if !r.Result.Steps[e.index].Degraded {
		return fmt.Errorf("step %d is not degraded", e.index)
	}
	return nil
}

func (e *degradedStepExpectation) Description() string {
	return fmt.Sprintf("step %d degraded", e.index)
}

type repairsExpectation struct {
	count int
}

func (e *repairsExpectation) Check(r *ScenarioResult) error {
	if r.Result == nil {
		return fmt.Errorf("no result")
	}
	if len(r.Result.Repairs) != e.count {
		return fmt.Errorf("expected %d repairs, got %d: %+v", e.count, len(r.Result.Repairs), r.Result.Repairs)
	}
	return nil
}

func (e *repairsExpectation) Description() string {
	return fmt.Sprintf("%d plan repairs", e.count)
}

type cancelledExpectation struct{}

func (e *cancelledExpectation) Check(r *ScenarioResult) error {
	if r.Result == nil {
		return fmt.Errorf("no result")
	}
	if !r.Result.Cancelled {
		return fmt.Errorf("run was not cancelled")
	}
	return nil
}

func (e *cancelledExpectation) Description() string {
	return "run cancelled"
}

type eventExpectation struct {
	eventType core.EventType
}

func (e *eventExpectation) Check(r *ScenarioResult) error {
	for _, ev := range r.Events {
		if ev.Type == e.eventType {
			return nil
		}
	}
	return fmt.Errorf("event type %q was not emitted", e.eventType)
}

func (e *eventExpectation) Description() string {
	return fmt.Sprintf("event %q emitted", e.eventType)
}

type maxDurationExpectation struct {
	max time.Duration
}

func (e *maxDurationExpectation) Check(r *ScenarioResult) error {
	if r.Duration > e.max {
		return fmt.Errorf("duration %v exceeds maximum %v", r.Duration, e.max)
	}
	return nil
}

func (e *maxDurationExpectation) Description() string {
	return fmt.Sprintf("duration <= %v", e.max)
}

// EventCollector collects events emitted during a run. It implements
// core.EventEmitter, so it can be passed to the orchestrator directly.
type EventCollector struct {
	mu     sync.RWMutex
	events []core.Event
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]core.Event, 0),
	}
}

// Emit implements core.EventEmitter.
func (c *EventCollector) Emit(_ context.Context, event core.Event) {
	c.Collect(event)
}

// Collect adds an event to the collector.
func (c *EventCollector) Collect(event core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns all collected events.
func (c *EventCollector) Events() []core.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]core.Event, len(c.events))
	copy(result, c.events)
	return result
}

// EventTypes returns the types of all collected events.
func (c *EventCollector) EventTypes() []core.EventType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	types := make([]core.EventType, len(c.events))
	for i, ev := range c.events {
		types[i] = ev.Type
	}
	return types
}

// HasEvent checks if an event of the given type was collected.
func (c *EventCollector) HasEvent(eventType core.EventType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ev := range c.events {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

// Count returns the number of collected events.
func (c *EventCollector) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

// Reset clears all collected events.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}
