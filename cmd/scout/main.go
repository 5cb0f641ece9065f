// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

// Command scout answers operational questions by planning a sequence of
// capability steps, executing them against the built-in toolbox, and
// synthesizing a single answer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/scouthq/scout/pkg/audit"
	"github.com/scouthq/scout/pkg/capability"
	"github.com/scouthq/scout/pkg/config"
	"github.com/scouthq/scout/pkg/core"
	"github.com/scouthq/scout/pkg/llm"
	"github.com/scouthq/scout/pkg/orchestrator"
	"github.com/scouthq/scout/pkg/plan"
	"github.com/scouthq/scout/pkg/planner"
	"github.com/scouthq/scout/pkg/registry"
	"github.com/scouthq/scout/pkg/telemetry"
	"github.com/scouthq/scout/pkg/toolbox"
)

const version = "dev"

type globalFlags struct {
	ConfigPath string
	Provider   string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	JSON       bool
	Help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if global.Help || len(args) == 0 {
		printUsage()
		return
	}

	cfg, err := config.Load(global.ConfigPath)
	if err != nil {
		fatal(err)
	}
	applyOverrides(cfg, global)

	switch args[0] {
	case "ask":
		runAsk(ctx, global, cfg, args[1:])
	case "capabilities":
		ensureNoArgs(args[1:])
		runCapabilities(global, cfg)
	case "audit":
		runAudit(ctx, global, cfg, args[1:])
	case "help":
		printUsage()
	case "version":
		fmt.Println(version)
	default:
		fatal(fmt.Errorf("unknown command %q", args[0]))
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	flags := globalFlags{
		ConfigPath: getenv("SCOUT_CONFIG", ""),
		Timeout:    5 * time.Minute,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flags, args[i+1:], nil
		}
		if !strings.HasPrefix(arg, "-") {
			return flags, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			flags.Help = true
			return flags, nil, nil
		case arg == "--json":
			flags.JSON = true
		case arg == "--config":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --config")
			}
			flags.ConfigPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--provider":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --provider")
			}
			flags.Provider = args[i+1]
			i++
		case strings.HasPrefix(arg, "--provider="):
			flags.Provider = strings.TrimPrefix(arg, "--provider=")
		case arg == "--model":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --model")
			}
			flags.Model = args[i+1]
			i++
		case strings.HasPrefix(arg, "--model="):
			flags.Model = strings.TrimPrefix(arg, "--model=")
		case arg == "--base-url":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --base-url")
			}
			flags.BaseURL = args[i+1]
			i++
		case strings.HasPrefix(arg, "--base-url="):
			flags.BaseURL = strings.TrimPrefix(arg, "--base-url=")
		case arg == "--timeout":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --timeout")
			}
			value, err := time.ParseDuration(args[i+1])
			if err != nil {
				return flags, nil, fmt.Errorf("invalid --timeout: %w", err)
			}
			flags.Timeout = value
			i++
		case strings.HasPrefix(arg, "--timeout="):
			value, err := time.ParseDuration(strings.TrimPrefix(arg, "--timeout="))
			if err != nil {
				return flags, nil, fmt.Errorf("invalid --timeout: %w", err)
			}
			flags.Timeout = value
		default:
			return flags, nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return flags, nil, nil
}

func applyOverrides(cfg *config.Config, flags globalFlags) {
	if flags.Provider != "" {
		cfg.LLM.Provider = flags.Provider
	}
	if flags.Model != "" {
		cfg.LLM.Model = flags.Model
	}
	if flags.BaseURL != "" {
		cfg.LLM.BaseURL = flags.BaseURL
	}
}

func runAsk(ctx context.Context, flags globalFlags, cfg *config.Config, args []string) {
	cmd := flag.NewFlagSet("ask", flag.ContinueOnError)
	showPlan := cmd.Bool("show-plan", true, "Print the validated plan before the answer")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}
	if cmd.NArg() < 1 {
		fatal(fmt.Errorf("usage: scout ask <question>"))
	}
	question := strings.TrimSpace(strings.Join(cmd.Args(), " "))
	if question == "" {
		fatal(fmt.Errorf("question is empty"))
	}

	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	shutdown, err := telemetry.InitWithConfig("scout", version, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		fatal(err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()

	provider, err := buildProvider(cfg)
	if err != nil {
		fatal(err)
	}

	orch, cleanup, err := buildOrchestrator(cfg, provider)
	if err != nil {
		fatal(err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()

	task := core.NewTask(question)
	task.Start()
	result, err := orch.Run(ctx, question)
	switch {
	case err != nil && result == nil:
		task.Fail(err.Error())
	case result != nil && result.Cancelled:
		task.Cancel(err.Error())
		task.Result = result.Answer
	default:
		task.Complete(result.Answer)
	}

	if flags.JSON {
		printJSON(map[string]any{"task": task, "result": result})
		if err != nil {
			os.Exit(1)
		}
		return
	}
	if result == nil {
		fatal(err)
	}

	if *showPlan {
		payload, merr := plan.MarshalYAML(result.Plan)
		if merr == nil {
			fmt.Println("Plan:")
			fmt.Print(string(payload))
			fmt.Println()
		}
	}
	for _, repair := range result.Repairs {
		fmt.Printf("repaired step %d: %s %q -> %q\n",
			repair.StepIndex, repair.Field, repair.Original, repair.Substituted)
	}
	for _, step := range result.Steps {
		marker := "ok"
		if step.Degraded {
			marker = "degraded"
		}
		fmt.Printf("step %d [%s] %s (%s, %s)\n",
			step.Index, step.Intent, step.Subquery, marker, step.Duration.Round(time.Millisecond))
	}
	fmt.Println()
	fmt.Println(result.Answer)

	if result.Cancelled {
		fmt.Fprintln(os.Stderr, "run cancelled; answer is partial")
		os.Exit(1)
	}
}

func runCapabilities(flags globalFlags, cfg *config.Config) {
	reg, err := buildRegistry(cfg, nil)
	if err != nil {
		fatal(err)
	}
	if flags.JSON {
		printJSON(map[string]any{
			"default": reg.DefaultIntent(),
			"intents": reg.Intents(),
		})
		return
	}
	fmt.Println(reg.Describe())
}

func runAudit(ctx context.Context, flags globalFlags, cfg *config.Config, args []string) {
	if len(args) == 0 || args[0] != "list" {
		fatal(fmt.Errorf("usage: scout audit list [--run <id>] [--intent <name>] [--status <status>] [--limit N]"))
	}
	cmd := flag.NewFlagSet("audit list", flag.ContinueOnError)
	runID := cmd.String("run", "", "Run ID filter")
	intent := cmd.String("intent", "", "Intent filter")
	status := cmd.String("status", "", "Status filter (completed, degraded, cancelled)")
	limit := cmd.Int("limit", 0, "Maximum rows")
	if err := cmd.Parse(args[1:]); err != nil {
		fatal(err)
	}

	if !cfg.Audit.Enabled || cfg.Audit.Driver != "sqlite" {
		fatal(fmt.Errorf("audit list requires audit.enabled=true with the sqlite driver"))
	}
	store, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	events, err := store.List(ctx, audit.Filter{
		RunID:  *runID,
		Intent: *intent,
		Status: *status,
		Limit:  *limit,
	})
	if err != nil {
		fatal(err)
	}

	if flags.JSON {
		printJSON(events)
		return
	}
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "RUN_ID\tSTEP\tINTENT\tSTATUS\tSTARTED\tANSWER")
	for _, event := range events {
		fmt.Fprintf(writer, "%s\t%d\t%s\t%s\t%s\t%s\n",
			event.RunID, event.StepIndex, event.Intent, event.Status,
			event.StartedAt.Format(time.RFC3339), truncate(event.Answer, 60))
	}
	_ = writer.Flush()
}

func buildProvider(cfg *config.Config) (llm.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLM.Provider)) {
	case "", "ollama":
		return llm.NewOllama(cfg.LLM.BaseURL), nil
	case "openai", "anthropic":
		// Hosted backends live in their own modules under providers/ to keep
		// their SDKs out of the core dependency graph.
		return nil, fmt.Errorf("provider %q is not built into the CLI; embed it via providers/%s",
			cfg.LLM.Provider, cfg.LLM.Provider)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func buildRegistry(cfg *config.Config, provider llm.Provider) (*registry.Registry, error) {
	model := cfg.LLM.Model
	return registry.NewBuilder().
		Register(capability.NewReAct("search",
			"Search JIRA tickets and Confluence docs by keyword",
			provider, model, toolbox.SearchTools(),
			capability.WithMaxIterations(4))).
		Register(capability.NewReAct("retrieve",
			"Fetch the full contents of a specific ticket or document",
			provider, model, toolbox.RetrieveTools(),
			capability.WithMaxIterations(3))).
		Register(capability.NewReAct("analyze",
			"Read and compare business metrics and trends",
			provider, model, toolbox.AnalyzeTools(),
			capability.WithMaxIterations(4))).
		Default(cfg.Orchestrator.DefaultIntent).
		Build()
}

func buildOrchestrator(cfg *config.Config, provider llm.Provider) (*orchestrator.Orchestrator, func(), error) {
	reg, err := buildRegistry(cfg, provider)
	if err != nil {
		return nil, nil, err
	}

	opts := []orchestrator.Option{
		orchestrator.WithPlannerTimeout(time.Duration(cfg.Orchestrator.PlannerTimeoutSeconds) * time.Second),
		orchestrator.WithStepTimeout(time.Duration(cfg.Orchestrator.StepTimeoutSeconds) * time.Second),
	}

	cleanup := func() {}
	if cfg.Audit.Enabled {
		switch cfg.Audit.Driver {
		case "sqlite":
			store, err := audit.Open(cfg.Audit.Path)
			if err != nil {
				return nil, nil, err
			}
			opts = append(opts, orchestrator.WithAuditStore(store))
			cleanup = func() { _ = store.Close() }
		case "", "memory":
			opts = append(opts, orchestrator.WithAuditStore(audit.NewMemoryStore()))
		default:
			return nil, nil, fmt.Errorf("unknown audit driver %q", cfg.Audit.Driver)
		}
	}

	orch, err := orchestrator.New(planner.NewLLM(provider, cfg.LLM.Model), reg, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return orch, cleanup, nil
}

func printJSON(value any) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(payload))
}

func truncate(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}

func printUsage() {
	fmt.Println(`Scout CLI

Usage:
  scout [global flags] <command> [args]

Global flags:
  --config <path>      Path to config YAML (or SCOUT_CONFIG)
  --provider <name>    LLM provider override (ollama)
  --model <name>       Model override
  --base-url <url>     Provider base URL override
  --timeout <dur>      Overall run timeout (default 5m)
  --json               JSON output

Commands:
  ask <question>       Plan, execute, and answer a question
  capabilities         List registered capabilities
  audit list           List recorded step events (sqlite audit driver)
  version
  help`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func ensureNoArgs(args []string) {
	if len(args) > 0 {
		fatal(fmt.Errorf("unexpected args: %v", args))
	}
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
