// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/scouthq/scout/pkg/capability"
	"github.com/scouthq/scout/pkg/llm"
)

// funcTool adapts a plain lookup function to the capability.Tool contract.
// Lookups never fail: a miss comes back as a descriptive answer string so
// the model can react to it.
type funcTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(args map[string]any) string
}

func (t *funcTool) Name() string { return t.name }

func (t *funcTool) Call(_ context.Context, input any) (any, error) {
	return t.fn(decodeArgs(input)), nil
}

func (t *funcTool) ToolDefinition() llm.Tool {
	return llm.Tool{
		Type: llm.ToolTypeFunction,
		Function: llm.FunctionDef{
			Name:        t.name,
			Description: t.description,
			Parameters:  t.parameters,
		},
	}
}

// decodeArgs accepts the JSON arguments string from a tool call or an
// already-decoded map. Anything else yields empty arguments.
func decodeArgs(input any) map[string]any {
	switch v := input.(type) {
	case map[string]any:
		return v
	case string:
		var args map[string]any
		if err := json.Unmarshal([]byte(v), &args); err == nil {
			return args
		}
	}
	return map[string]any{}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func stringParams(names ...string) map[string]any {
	props := make(map[string]any, len(names))
	for _, name := range names {
		props[name] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   names,
	}
}

// SearchTools returns the keyword-search tools over tickets and docs.
func SearchTools() []capability.Tool {
	return []capability.Tool{
		&funcTool{
			name:        "search_jira",
			description: "Search Jira tickets by keyword across title, description, priority, status and assignee.",
			parameters:  stringParams("query"),
			fn:          func(args map[string]any) string { return searchJira(stringArg(args, "query")) },
		},
		&funcTool{
			name:        "search_confluence",
			description: "Search Confluence documentation by keyword.",
			parameters:  stringParams("query"),
			fn:          func(args map[string]any) string { return searchConfluence(stringArg(args, "query")) },
		},
	}
}

// RetrieveTools returns the by-ID record fetchers.
func RetrieveTools() []capability.Tool {
	return []capability.Tool{
		&funcTool{
			name:        "get_ticket_details",
			description: "Get full details for a specific Jira ticket by ID, e.g. SHOP-2847.",
			parameters:  stringParams("ticket_id"),
			fn:          func(args map[string]any) string { return ticketDetails(stringArg(args, "ticket_id")) },
		},
		&funcTool{
			name:        "get_confluence_doc",
			description: "Get full content of a Confluence document by key, e.g. checkout-rewrite.",
			parameters:  stringParams("doc_key"),
			fn:          func(args map[string]any) string { return docContent(stringArg(args, "doc_key")) },
		},
	}
}

// AnalyzeTools returns the analytics tools.
func AnalyzeTools() []capability.Tool {
	return []capability.Tool{
		&funcTool{
			name:        "get_metric",
			description: "Get current value and week-over-week trend for a metric.",
			parameters:  stringParams("metric_name"),
			fn:          func(args map[string]any) string { return metricSummary(stringArg(args, "metric_name")) },
		},
		&funcTool{
			name:        "compare_metrics",
			description: "Compare two metrics side by side.",
			parameters:  stringParams("metric_a", "metric_b"),
			fn: func(args map[string]any) string {
				return compareMetrics(stringArg(args, "metric_a"), stringArg(args, "metric_b"))
			},
		},
		&funcTool{
			name:        "list_available_metrics",
			description: "List all available metrics with their current values and trends.",
			parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
			fn:          func(map[string]any) string { return listMetrics() },
		},
	}
}

func searchJira(query string) string {
	q := strings.ToLower(query)
	var results []string
	for _, id := range sortedKeys(tickets) {
		t := tickets[id]
		haystack := strings.ToLower(t.Title + " " + t.Description + " " + t.Priority + " " + t.Status + " " + t.Assignee)
		if strings.Contains(haystack, q) {
			results = append(results, fmt.Sprintf("%s: %s (Status: %s, Priority: %s, Assignee: %s)",
				id, t.Title, t.Status, t.Priority, t.Assignee))
		}
	}
	if len(results) == 0 {
		return fmt.Sprintf("No Jira tickets found matching %q", query)
	}
	return fmt.Sprintf("Found %d ticket(s):\n%s", len(results), strings.Join(results, "\n"))
}

func searchConfluence(query string) string {
	q := strings.ToLower(query)
	var results []string
	for _, key := range sortedKeys(docs) {
		d := docs[key]
		if strings.Contains(strings.ToLower(d.Title+" "+d.Content), q) {
			results = append(results, fmt.Sprintf("- %s (Key: %s, Updated: %s)", d.Title, key, d.Updated))
		}
	}
	if len(results) == 0 {
		return fmt.Sprintf("No Confluence docs found matching %q", query)
	}
	return fmt.Sprintf("Found %d document(s):\n%s", len(results), strings.Join(results, "\n"))
}

func ticketDetails(id string) string {
	t, ok := tickets[strings.ToUpper(id)]
	if !ok {
		return fmt.Sprintf("Ticket %s not found", id)
	}
	return fmt.Sprintf("Ticket %s: %s\nStatus: %s\nAssignee: %s\nPriority: %s\nCreated: %s\nUpdated: %s\n\nDescription:\n%s",
		strings.ToUpper(id), t.Title, t.Status, t.Assignee, t.Priority, t.Created, t.Updated, t.Description)
}

func docContent(key string) string {
	d, ok := docs[key]
	if !ok {
		return fmt.Sprintf("Document %q not found. Available keys: %s", key, strings.Join(sortedKeys(docs), ", "))
	}
	return fmt.Sprintf("%s\nLast updated: %s\n\nContent:\n%s", d.Title, d.Updated, d.Content)
}

func metricSummary(name string) string {
	m, ok := metrics[name]
	if !ok {
		return fmt.Sprintf("Metric %q not found. Available: %s", name, strings.Join(sortedKeys(metrics), ", "))
	}
	return fmt.Sprintf("%s:\nCurrent: %g\nPrevious: %g\nTrend: %s (%+.1f%%)\nPeriod: %s",
		name, m.Current, m.Previous, m.Trend, m.ChangePct, m.Period)
}

func compareMetrics(a, b string) string {
	ma, okA := metrics[a]
	mb, okB := metrics[b]
	if !okA || !okB {
		return fmt.Sprintf("One or both metrics not found: %s, %s", a, b)
	}
	return fmt.Sprintf("Comparison:\n%s: %g (%s %+.1f%%)\n%s: %g (%s %+.1f%%)",
		a, ma.Current, ma.Trend, ma.ChangePct,
		b, mb.Current, mb.Trend, mb.ChangePct)
}

func listMetrics() string {
	lines := make([]string, 0, len(metrics))
	for _, name := range sortedKeys(metrics) {
		m := metrics[name]
		lines = append(lines, fmt.Sprintf("- %s: %g (%s %+.1f%%)", name, m.Current, m.Trend, m.ChangePct))
	}
	return "Available metrics:\n" + strings.Join(lines, "\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
