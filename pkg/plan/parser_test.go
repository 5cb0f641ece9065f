package plan

import "testing"

func TestParseRawStepsArray(t *testing.T) {
	payload := `[{"subquery": "find P0 tickets", "intent": "search"}, {"subquery": "get most critical", "intent": "retrieve"}]`
	steps, err := ParseRawSteps(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("unexpected step count: %d", len(steps))
	}
	if steps[0].Intent != "search" || steps[1].Subquery != "get most critical" {
		t.Fatalf("unexpected steps: %+v", steps)
	}
}

func TestParseRawStepsWrapped(t *testing.T) {
	payload := `{"plan": [{"subquery": "check metrics", "intent": "analyze"}]}`
	steps, err := ParseRawSteps(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(steps) != 1 || steps[0].Intent != "analyze" {
		t.Fatalf("unexpected steps: %+v", steps)
	}
}

func TestParseRawStepsFenced(t *testing.T) {
	payload := "```json\n[{\"subquery\": \"q\", \"intent\": \"search\"}]\n```"
	steps, err := ParseRawSteps(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(steps) != 1 || steps[0].Subquery != "q" {
		t.Fatalf("unexpected steps: %+v", steps)
	}
}

func TestParseRawStepsProseWrapped(t *testing.T) {
	payload := `Here is the plan: [{"subquery": "q", "intent": "search"}] Let me know!`
	steps, err := ParseRawSteps(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("unexpected steps: %+v", steps)
	}
}

func TestParseRawStepsEmptyArray(t *testing.T) {
	steps, err := ParseRawSteps("[]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(steps) != 0 {
		t.Fatalf("expected empty plan, got %+v", steps)
	}
}

func TestParseRawStepsGarbage(t *testing.T) {
	if _, err := ParseRawSteps("I cannot produce a plan."); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ParseRawSteps(""); err == nil {
		t.Fatal("expected parse error for empty payload")
	}
}
