package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	nodex "github.com/tanpawarit/guide-life-agents/agent/nodes"
)

const (
	nodeLoadSession   = "load_session"
	nodeStartGreeting = "start_greeting"
	nodePromptTurn    = "prompt_turn"
	nodeStopSummary   = "stop_summary"
	nodeApplyFallback = "apply_fallback"
	nodeCommitTurn    = "commit_turn"
	nodeFinalize      = "finalize_response"
)

func (o *Orchestrator) compileHandleGraph(
	ctx context.Context,
) (compose.Runnable[*nodex.GraphState, contractx.Response], error) {
	graph := compose.NewGraph[*nodex.GraphState, contractx.Response]()

	if err := graph.AddLambdaNode(nodeLoadSession,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadSession(in, o.deps.Store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeLoadSession, err)
	}

	if err := graph.AddLambdaNode(nodeStartGreeting,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.StartGreeting(ctx, in, o.deps.Completer, o.greetingTpl)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeStartGreeting, err)
	}

	if err := graph.AddLambdaNode(nodePromptTurn,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PromptTurn(ctx, in, o.deps.Extractor, o.deps.Dispatcher)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodePromptTurn, err)
	}

	if err := graph.AddLambdaNode(nodeStopSummary,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.StopSummary(ctx, in, nodex.StopDeps{
				FinalAgent: o.finalAgent,
				Runner:     o.deps.Runner,
				Dispatcher: o.deps.Dispatcher,
				Renderer:   o.deps.Renderer,
			})
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeStopSummary, err)
	}

	if err := graph.AddLambdaNode(nodeApplyFallback,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ApplyFallback(ctx, in, o.deps.Dispatcher.RootName())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeApplyFallback, err)
	}

	if err := graph.AddLambdaNode(nodeCommitTurn,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CommitTurn(ctx, in, o.deps.Reports)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeCommitTurn, err)
	}

	if err := graph.AddLambdaNode(nodeFinalize,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (contractx.Response, error) {
			return nodex.FinalizeResponse(in, o.deps.Cards)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeFinalize, err)
	}

	if err := graph.AddBranch(nodeLoadSession, phaseBranch()); err != nil {
		return nil, fmt.Errorf("add phase branch: %w", err)
	}
	for _, phaseNode := range []string{nodeStartGreeting, nodePromptTurn, nodeStopSummary} {
		if err := graph.AddBranch(phaseNode, fallbackBranch()); err != nil {
			return nil, fmt.Errorf("add fallback branch for %s: %w", phaseNode, err)
		}
	}

	edges := [][2]string{
		{compose.START, nodeLoadSession},
		{nodeApplyFallback, nodeCommitTurn},
		{nodeCommitTurn, nodeFinalize},
		{nodeFinalize, compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx,
		compose.WithGraphName("orchestrator.handle_request"),
		compose.WithNodeTriggerMode(compose.AnyPredecessor),
	)
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}

func phaseBranch() *compose.GraphBranch {
	return compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			switch in.Phase {
			case contractx.PhaseStart:
				return nodeStartGreeting, nil
			case contractx.PhasePrompt:
				return nodePromptTurn, nil
			case contractx.PhaseStop:
				return nodeStopSummary, nil
			default:
				return "", fmt.Errorf("%w: invalid type %q", contractx.ErrValidation, in.Phase)
			}
		},
		map[string]bool{
			nodeStartGreeting: true,
			nodePromptTurn:    true,
			nodeStopSummary:   true,
		},
	)
}

func fallbackBranch() *compose.GraphBranch {
	return compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in.Err != nil {
				return nodeApplyFallback, nil
			}
			return nodeCommitTurn, nil
		},
		map[string]bool{
			nodeApplyFallback: true,
			nodeCommitTurn:    true,
		},
	)
}
