package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/scouthq/scout/pkg/capability"
	"github.com/scouthq/scout/pkg/core"
	"github.com/scouthq/scout/pkg/llm"
	"github.com/scouthq/scout/pkg/orchestrator"
	"github.com/scouthq/scout/pkg/planner"
	"github.com/scouthq/scout/pkg/registry"
	"github.com/scouthq/scout/pkg/toolbox"
)

func TestScenarioProviderScriptedSequence(t *testing.T) {
	provider := NewScenarioProvider().
		AddResponse("first").
		AddToolCallResponse(NewToolCall("search_jira").WithArg("query", "safari").Build()).
		AddResponse("last")

	ctx := context.Background()

	resp, err := provider.Chat(ctx, llm.ChatRequest{})
	RequireNoError(t, err, "first call")
	RequireEqual(t, "first", resp.Content, "first content")

	resp, err = provider.Chat(ctx, llm.ChatRequest{})
	RequireNoError(t, err, "second call")
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Function.Name != "search_jira" {
		t.Fatalf("unexpected tool calls: %+v", resp.ToolCalls)
	}

	resp, err = provider.Chat(ctx, llm.ChatRequest{})
	RequireNoError(t, err, "third call")
	RequireEqual(t, "last", resp.Content, "third content")

	if provider.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", provider.CallCount())
	}

	if _, err := provider.Chat(ctx, llm.ChatRequest{}); err == nil {
		t.Fatal("exhausted provider must error")
	}
}

func TestScenarioProviderAddPlanResponse(t *testing.T) {
	provider := NewScenarioProvider().
		AddPlanResponse("find safari tickets", "search", "check conversions", "analyze")

	resp, err := provider.Chat(context.Background(), llm.ChatRequest{})
	RequireNoError(t, err, "chat")

	a := NewAssertions(t)
	a.AssertContains(resp.Content, `"subquery":"find safari tickets"`, "first step")
	a.AssertContains(resp.Content, `"intent":"analyze"`, "second intent")
}

func TestScenarioProviderCapturesRequests(t *testing.T) {
	provider := NewScenarioProvider().AddResponse("ok")
	_, err := provider.Chat(context.Background(), llm.ChatRequest{
		Model: "test-model",
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "you are a planner"},
			{Role: llm.RoleUser, Content: "what is broken?"},
		},
	})
	RequireNoError(t, err, "chat")

	a := NewAssertions(t)
	a.AssertRequest(provider.LastRequest()).
		HasModel("test-model").
		HasMessageCount(2).
		HasSystemMessage("planner").
		HasUserMessage("what is broken?")
	if a.Failed() {
		t.Fatal("request assertions failed")
	}
}

func TestToolDefinitionBuilder(t *testing.T) {
	def := NewToolDefinition("get_metric").
		WithDescription("Get a metric").
		WithParameter("metric_name", "string", "Metric to fetch", true).
		Build()

	if def.Function.Name != "get_metric" || def.Function.Description != "Get a metric" {
		t.Fatalf("unexpected definition: %+v", def.Function)
	}
	params := def.Function.Parameters.(map[string]any)
	required := params["required"].([]string)
	if len(required) != 1 || required[0] != "metric_name" {
		t.Fatalf("unexpected required params: %v", required)
	}
}

func TestAssertToolCallArgs(t *testing.T) {
	tc := NewToolCall("get_ticket_details").WithArg("ticket_id", "SHOP-2847").Build()
	args := AssertToolCallArgs(t, tc, "get_ticket_details")
	if args["ticket_id"] != "SHOP-2847" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestEventCollector(t *testing.T) {
	collector := NewEventCollector()
	collector.Emit(context.Background(), core.NewEvent(core.EventRunStarted, "run-1", nil))
	collector.Emit(context.Background(), core.NewEvent(core.EventRunCompleted, "run-1", nil))

	if collector.Count() != 2 {
		t.Fatalf("expected 2 events, got %d", collector.Count())
	}
	if !collector.HasEvent(core.EventRunStarted) {
		t.Fatal("missing run.started")
	}
	types := collector.EventTypes()
	if types[0] != core.EventRunStarted || types[1] != core.EventRunCompleted {
		t.Fatalf("unexpected order: %v", types)
	}
	collector.Reset()
	if collector.Count() != 0 {
		t.Fatal("reset did not clear events")
	}
}

// End-to-end: a scripted backend drives the planner and both handlers over
// the built-in toolbox, verified through scenario expectations.
func TestScenarioEndToEnd(t *testing.T) {
	provider := NewScenarioProvider().
		AddPlanResponse(
			"find safari checkout issues", "search",
			"check mobile conversion trend", "analyze",
		).
		AddToolCallResponse(NewToolCall("search_jira").WithID("c1").WithArg("query", "safari").Build()).
		AddResponse("Found SHOP-2847, the Safari checkout crash.").
		AddToolCallResponse(NewToolCall("get_metric").WithID("c2").WithArg("metric_name", "mobile_conversions").Build()).
		AddResponse("Mobile conversions are down 8.6% week-over-week.")

	reg, err := registry.NewBuilder().
		Register(capability.NewReAct("search", "Find tickets and docs by keyword", provider, "test-model", toolbox.SearchTools())).
		Register(capability.NewReAct("analyze", "Analyze metrics and trends", provider, "test-model", toolbox.AnalyzeTools())).
		Default("search").
		Build()
	RequireNoError(t, err, "build registry")

	collector := NewEventCollector()
	orch, err := orchestrator.New(
		planner.NewLLM(provider, "test-model"),
		reg,
		orchestrator.WithEventEmitter(collector),
	)
	RequireNoError(t, err, "build orchestrator")

	scenario := NewScenario("search then analyze").
		WithQuestion("Are there Safari checkout issues and are conversions down?").
		ExpectNoError().
		ExpectStepCount(2).
		ExpectStepIntent(0, "search").
		ExpectStepIntent(1, "analyze").
		ExpectAnswer(Contains("SEARCH: Found SHOP-2847")).
		ExpectAnswer(Contains("ANALYZE: Mobile conversions are down")).
		ExpectRepairs(0).
		ExpectEvent(core.EventRunCompleted)

	result := scenario.RunWithEvents(t, orch, collector)
	result.Assert(t, scenario)

	// The step handlers must have been offered their own toolsets.
	a := NewAssertions(t)
	reqs := provider.Requests()
	if len(reqs) != 5 {
		t.Fatalf("expected 5 backend calls, got %d", len(reqs))
	}
	a.AssertRequest(&reqs[1]).HasTool("search_jira").HasTool("search_confluence")
	a.AssertRequest(&reqs[3]).HasTool("get_metric").HasTool("compare_metrics")
}

func TestScenarioDegradedRun(t *testing.T) {
	provider := NewScenarioProvider().
		AddPlanResponse("find issues", "search", "check metrics", "analyze").
		AddErrorResponse(fmt.Errorf("backend down")).
		AddResponse("Metrics look stable.")

	reg, err := registry.NewBuilder().
		Register(capability.NewReAct("search", "find", provider, "test-model", nil)).
		Register(capability.NewReAct("analyze", "analyze", provider, "test-model", nil)).
		Default("search").
		Build()
	RequireNoError(t, err, "build registry")

	orch, err := orchestrator.New(planner.NewLLM(provider, "test-model"), reg)
	RequireNoError(t, err, "build orchestrator")

	scenario := NewScenario("degraded search step").
		WithQuestion("q").
		ExpectNoError().
		ExpectStepCount(2).
		ExpectDegradedStep(0).
		ExpectAnswer(Contains("ANALYZE: Metrics look stable."))

	result := scenario.Run(t, orch)
	result.Assert(t, scenario)
}
