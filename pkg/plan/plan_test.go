package plan

import (
	"strings"
	"testing"
)

type intentSet map[string]bool

func (s intentSet) Has(intent string) bool { return s[intent] }

var testIntents = intentSet{"search": true, "retrieve": true, "analyze": true}

func TestNormalizePassesValidPlan(t *testing.T) {
	raw := []RawStep{
		{Subquery: "find P0 tickets", Intent: "search"},
		{Subquery: "get most critical", Intent: "retrieve"},
	}
	p, repairs := Normalize(raw, testIntents, "search", "original question")
	if len(repairs) != 0 {
		t.Fatalf("unexpected repairs: %+v", repairs)
	}
	if p.Len() != 2 {
		t.Fatalf("unexpected plan length: %d", p.Len())
	}
	if p.Steps[0].Intent != "search" || p.Steps[1].Intent != "retrieve" {
		t.Fatalf("plan order not preserved: %+v", p.Steps)
	}
	if err := p.Validate(testIntents); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestNormalizeRepairsUnknownIntent(t *testing.T) {
	raw := []RawStep{{Subquery: "summarize the sprint", Intent: "summarize"}}
	p, repairs := Normalize(raw, testIntents, "search", "q")
	if p.Steps[0].Intent != "search" {
		t.Fatalf("unknown intent not repaired: %+v", p.Steps[0])
	}
	if p.Steps[0].Subquery != "summarize the sprint" {
		t.Fatalf("subquery must be preserved: %q", p.Steps[0].Subquery)
	}
	if len(repairs) != 1 || repairs[0].Field != "intent" || repairs[0].Original != "summarize" {
		t.Fatalf("unexpected repairs: %+v", repairs)
	}
}

func TestNormalizeLowercasesIntent(t *testing.T) {
	raw := []RawStep{{Subquery: "s", Intent: "Search"}}
	p, repairs := Normalize(raw, testIntents, "search", "q")
	if len(repairs) != 0 {
		t.Fatalf("case difference should not be a repair: %+v", repairs)
	}
	if p.Steps[0].Intent != "search" {
		t.Fatalf("intent not normalized: %q", p.Steps[0].Intent)
	}
}

func TestNormalizeRepairsBlankSubquery(t *testing.T) {
	raw := []RawStep{{Subquery: "   ", Intent: "analyze"}}
	p, repairs := Normalize(raw, testIntents, "search", "how are conversions trending?")
	if p.Steps[0].Subquery != "how are conversions trending?" {
		t.Fatalf("blank subquery not replaced: %q", p.Steps[0].Subquery)
	}
	if p.Steps[0].Intent != "analyze" {
		t.Fatalf("valid intent must be kept: %q", p.Steps[0].Intent)
	}
	if len(repairs) != 1 || repairs[0].Field != "subquery" {
		t.Fatalf("unexpected repairs: %+v", repairs)
	}
}

func TestNormalizeEmptyPlanFallsBack(t *testing.T) {
	p, repairs := Normalize(nil, testIntents, "search", "what is broken?")
	if p.Len() != 1 {
		t.Fatalf("expected single fallback step, got %d", p.Len())
	}
	if p.Steps[0].Subquery != "what is broken?" || p.Steps[0].Intent != "search" {
		t.Fatalf("unexpected fallback step: %+v", p.Steps[0])
	}
	if len(repairs) != 1 || repairs[0].Field != "plan" {
		t.Fatalf("unexpected repairs: %+v", repairs)
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	// Any garbage in, well-formed plan out.
	inputs := [][]RawStep{
		nil,
		{},
		{{}},
		{{Intent: "bogus"}, {Subquery: "x", Intent: "retrieve"}, {Subquery: "y"}},
	}
	for _, raw := range inputs {
		p, _ := Normalize(raw, testIntents, "search", "q")
		if err := p.Validate(testIntents); err != nil {
			t.Fatalf("Normalize(%+v) produced invalid plan: %v", raw, err)
		}
	}
}

func TestValidateRejectsUnknownIntent(t *testing.T) {
	p := Plan{Steps: []Step{{Subquery: "s", Intent: "bogus"}}}
	if err := p.Validate(testIntents); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestMarshalYAML(t *testing.T) {
	p := Plan{Steps: []Step{{Subquery: "find Safari issues", Intent: "search"}}}
	out, err := MarshalYAML(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), "find Safari issues") {
		t.Fatalf("unexpected yaml: %s", out)
	}
}
