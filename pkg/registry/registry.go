// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry maps intent names to the capability handlers that serve
// them. A registry is assembled once at startup and never mutated afterwards,
// so plan validation against it stays meaningful for the whole run.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scouthq/scout/pkg/capability"
	"github.com/scouthq/scout/pkg/errors"
)

// Registry is an immutable intent -> handler table with a designated
// default intent for repairing unknown intents in raw plans.
type Registry struct {
	handlers      map[string]capability.Handler
	defaultIntent string
}

// Builder accumulates handlers before sealing them into a Registry.
type Builder struct {
	handlers      map[string]capability.Handler
	defaultIntent string
	err           error
}

// NewBuilder starts an empty registry build.
func NewBuilder() *Builder {
	return &Builder{handlers: make(map[string]capability.Handler)}
}

// Register adds a handler under its intent name. Intents are lowercased.
// Registering the same intent twice is a build error surfaced by Build.
func (b *Builder) Register(h capability.Handler) *Builder {
	if b.err != nil {
		return b
	}
	intent := strings.ToLower(strings.TrimSpace(h.Intent()))
	if intent == "" {
		b.err = fmt.Errorf("handler has empty intent")
		return b
	}
	if _, exists := b.handlers[intent]; exists {
		b.err = fmt.Errorf("intent %q registered twice", intent)
		return b
	}
	b.handlers[intent] = h
	return b
}

// Default marks the intent substituted for unknown intents during plan
// repair. It must name a registered handler.
func (b *Builder) Default(intent string) *Builder {
	if b.err == nil {
		b.defaultIntent = strings.ToLower(strings.TrimSpace(intent))
	}
	return b
}

// Build seals the registry. It fails on an empty build, a duplicate
// registration, or a default intent with no handler behind it.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.handlers) == 0 {
		return nil, fmt.Errorf("registry has no handlers")
	}
	if b.defaultIntent == "" {
		return nil, fmt.Errorf("registry has no default intent")
	}
	if _, ok := b.handlers[b.defaultIntent]; !ok {
		return nil, fmt.Errorf("default intent %q has no handler", b.defaultIntent)
	}
	return &Registry{handlers: b.handlers, defaultIntent: b.defaultIntent}, nil
}

// Resolve returns the handler for an intent. A miss on a validated plan's
// intent means the plan and registry went out of sync, which the orchestrator
// treats as fatal; the returned error carries CodeNotFound so callers can
// tell it apart from handler failures.
func (r *Registry) Resolve(intent string) (capability.Handler, error) {
	h, ok := r.handlers[intent]
	if !ok {
		return nil, errors.New(errors.CodeNotFound, fmt.Sprintf("no handler registered for intent %q", intent), nil)
	}
	return h, nil
}

// Has reports whether the intent is registered. Satisfies plan.IntentSet.
func (r *Registry) Has(intent string) bool {
	_, ok := r.handlers[intent]
	return ok
}

// DefaultIntent returns the intent used for plan repair.
func (r *Registry) DefaultIntent() string { return r.defaultIntent }

// Intents returns the registered intent names in sorted order.
func (r *Registry) Intents() []string {
	out := make([]string, 0, len(r.handlers))
	for intent := range r.handlers {
		out = append(out, intent)
	}
	sort.Strings(out)
	return out
}

// Describe renders the capability catalog the planner prompt embeds, one
// "- intent: description" line per handler in sorted intent order.
func (r *Registry) Describe() string {
	var sb strings.Builder
	for _, intent := range r.Intents() {
		fmt.Fprintf(&sb, "- %s: %s\n", intent, r.handlers[intent].Description())
	}
	return strings.TrimRight(sb.String(), "\n")
}
