package toolbox

import (
	"context"
	"strings"
	"testing"

	"github.com/scouthq/scout/pkg/capability"
)

func callTool(t *testing.T, tools []capability.Tool, name string, args string) string {
	t.Helper()
	for _, tool := range tools {
		if tool.Name() != name {
			continue
		}
		result, err := tool.Call(context.Background(), args)
		if err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		out, ok := result.(string)
		if !ok {
			t.Fatalf("%s returned %T, want string", name, result)
		}
		return out
	}
	t.Fatalf("tool %q not found", name)
	return ""
}

func TestSearchJira(t *testing.T) {
	out := callTool(t, SearchTools(), "search_jira", `{"query": "safari"}`)
	if !strings.Contains(out, "SHOP-2847") {
		t.Fatalf("expected SHOP-2847 in results:\n%s", out)
	}
	if !strings.Contains(out, "Priority: P0") {
		t.Fatalf("expected priority in results:\n%s", out)
	}
}

func TestSearchJiraByAssignee(t *testing.T) {
	out := callTool(t, SearchTools(), "search_jira", `{"query": "carol"}`)
	if !strings.Contains(out, "SHOP-3001") {
		t.Fatalf("assignee search failed:\n%s", out)
	}
}

func TestSearchJiraNoMatch(t *testing.T) {
	out := callTool(t, SearchTools(), "search_jira", `{"query": "kubernetes"}`)
	if !strings.Contains(out, "No Jira tickets found") {
		t.Fatalf("miss must be a descriptive answer:\n%s", out)
	}
}

func TestSearchConfluence(t *testing.T) {
	out := callTool(t, SearchTools(), "search_confluence", `{"query": "stripe"}`)
	if !strings.Contains(out, "payment-architecture") {
		t.Fatalf("expected payment-architecture key:\n%s", out)
	}
}

func TestGetTicketDetails(t *testing.T) {
	out := callTool(t, RetrieveTools(), "get_ticket_details", `{"ticket_id": "shop-2847"}`)
	if !strings.Contains(out, "Safari checkout crashes on iOS 17") {
		t.Fatalf("lookup must be case-insensitive:\n%s", out)
	}
	if !strings.Contains(out, "Hotfix deployed yesterday") {
		t.Fatalf("expected full description:\n%s", out)
	}
}

func TestGetTicketDetailsMissing(t *testing.T) {
	out := callTool(t, RetrieveTools(), "get_ticket_details", `{"ticket_id": "SHOP-9999"}`)
	if !strings.Contains(out, "not found") {
		t.Fatalf("miss must be a descriptive answer:\n%s", out)
	}
}

func TestGetConfluenceDocMissingListsKeys(t *testing.T) {
	out := callTool(t, RetrieveTools(), "get_confluence_doc", `{"doc_key": "nope"}`)
	if !strings.Contains(out, "checkout-rewrite") || !strings.Contains(out, "mobile-strategy") {
		t.Fatalf("miss should list available keys:\n%s", out)
	}
}

func TestGetMetric(t *testing.T) {
	out := callTool(t, AnalyzeTools(), "get_metric", `{"metric_name": "mobile_conversions"}`)
	if !strings.Contains(out, "Current: 3.2") || !strings.Contains(out, "down (-8.6%)") {
		t.Fatalf("unexpected metric rendering:\n%s", out)
	}
}

func TestCompareMetrics(t *testing.T) {
	out := callTool(t, AnalyzeTools(), "compare_metrics", `{"metric_a": "checkout_completion", "metric_b": "payment_success_rate"}`)
	if !strings.Contains(out, "checkout_completion: 78.5") || !strings.Contains(out, "payment_success_rate: 96.2") {
		t.Fatalf("unexpected comparison:\n%s", out)
	}
}

func TestListAvailableMetrics(t *testing.T) {
	out := callTool(t, AnalyzeTools(), "list_available_metrics", `{}`)
	for _, name := range []string{"mobile_conversions", "checkout_completion", "safari_users", "payment_success_rate"} {
		if !strings.Contains(out, name) {
			t.Fatalf("metric %s missing:\n%s", name, out)
		}
	}
}

func TestToolDefinitionsAreWellFormed(t *testing.T) {
	all := append(append(SearchTools(), RetrieveTools()...), AnalyzeTools()...)
	if len(all) != 7 {
		t.Fatalf("expected 7 tools, got %d", len(all))
	}
	seen := map[string]bool{}
	for _, tool := range all {
		def := tool.ToolDefinition()
		if def.Function.Name != tool.Name() {
			t.Fatalf("definition name mismatch: %q vs %q", def.Function.Name, tool.Name())
		}
		if def.Function.Description == "" {
			t.Fatalf("tool %s has no description", tool.Name())
		}
		if seen[tool.Name()] {
			t.Fatalf("duplicate tool name %s", tool.Name())
		}
		seen[tool.Name()] = true
	}
}

func TestDecodeArgsTolerant(t *testing.T) {
	if v := stringArg(decodeArgs(`{"query": "x"}`), "query"); v != "x" {
		t.Fatalf("json string args: %q", v)
	}
	if v := stringArg(decodeArgs(map[string]any{"query": "y"}), "query"); v != "y" {
		t.Fatalf("map args: %q", v)
	}
	if v := stringArg(decodeArgs("not json"), "query"); v != "" {
		t.Fatalf("garbage args should be empty: %q", v)
	}
	if v := stringArg(decodeArgs(nil), "query"); v != "" {
		t.Fatalf("nil args should be empty: %q", v)
	}
}
