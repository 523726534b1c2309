// Command fileagents runs a natural-language file management request against
// the built-in agent catalogue. The planner provider is selected from the
// environment: ANTHROPIC_API_KEY wins, then OPENAI_API_KEY.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"fileagents/pkg/agent"
	"fileagents/pkg/catalog"
	"fileagents/pkg/env"
	"fileagents/pkg/model"
	anthropicplanner "fileagents/pkg/model/providers/anthropic"
	openaiplanner "fileagents/pkg/model/providers/openai"
	"fileagents/pkg/runner"
	"fileagents/pkg/tool"
	"fileagents/pkg/tool/imagegen"
	"fileagents/pkg/tracing"
)

func main() {
	role := flag.String("agent", catalog.RoleFileOrchestrator, "agent role to run the request against")
	trace := flag.String("trace", "", "name for a JSONL trace file (trace_<name>.jsonl); empty disables tracing")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	request := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if request == "" {
		fmt.Fprintln(os.Stderr, "usage: fileagents [-agent role] [-trace name] [-verbose] <request>")
		os.Exit(2)
	}

	if err := run(*role, request, *trace, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(role, request, traceName string, verbose bool) error {
	envs := env.NewService()

	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	planner, openaiKey, err := selectPlanner(envs)
	if err != nil {
		return err
	}

	tools := tool.NewRegistry()
	agents := agent.NewRegistry()

	cfg := catalog.Config{}
	if openaiKey != "" {
		cfg.ImageGenerator = imagegen.NewGenerator(openaiKey)
	}
	if err := catalog.Register(tools, agents, cfg); err != nil {
		return err
	}

	opts := &runner.RunOptions{}
	if traceName != "" {
		sink, err := tracing.NewFileSink(traceName)
		if err != nil {
			return err
		}
		defer sink.Close()
		opts.Sink = sink
	}

	r := runner.NewRunner(agents, tools, planner).WithLogger(logger)
	res, err := r.Run(context.Background(), role, request, opts)
	if err != nil {
		return err
	}

	fmt.Println(res.FinalAnswer)
	return nil
}

// selectPlanner picks a provider from the environment. The OpenAI key is
// returned separately because image generation needs it even when planning
// runs on Anthropic.
func selectPlanner(envs *env.Service) (model.Planner, string, error) {
	openaiKey := envs.Get("OPENAI_API_KEY")

	if key := envs.Get("ANTHROPIC_API_KEY"); key != "" {
		planner := anthropicplanner.New(key)
		if name := envs.Get("ANTHROPIC_MODEL"); name != "" {
			planner.WithModel(name)
		}
		return planner, openaiKey, nil
	}

	if openaiKey != "" {
		planner := openaiplanner.New(openaiKey)
		if name := envs.Get("OPENAI_MODEL"); name != "" {
			planner.WithModel(name)
		}
		return planner, openaiKey, nil
	}

	return nil, "", fmt.Errorf("no planner available: set ANTHROPIC_API_KEY or OPENAI_API_KEY")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
