package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/catalog"
	"github.com/agenticpal/pal/event"
	"github.com/agenticpal/pal/meta"
	"github.com/agenticpal/pal/retry"
	"github.com/agenticpal/pal/thread"
)

// Loop phase names reported through NodeStart/NodeEnd events.
const (
	nodeAgent = "agent"
	nodeTools = "tools"
)

// iterationCapReply is the graceful reply when a run exhausts its
// iteration bound without finishing.
const iterationCapReply = "I wasn't able to complete that request within the allowed number of steps. Could you simplify it or break it into smaller parts?"

// Loop drives the orchestration cycle for one thread at a time.
// Safe for concurrent use across threads.
type Loop struct {
	provider pal.ModelProvider
	facade   *meta.Facade
	registry *catalog.Registry
	options  *Options
}

// NewLoop creates a loop over a provider, meta façade, and registry.
func NewLoop(provider pal.ModelProvider, facade *meta.Facade, registry *catalog.Registry, opts ...Option) *Loop {
	return &Loop{
		provider: provider,
		facade:   facade,
		registry: registry,
		options:  ApplyOptions(opts...),
	}
}

// RunStream consumes the thread's pending input and runs one cycle,
// reporting progress on the returned channel. The channel is closed
// when the cycle ends; callers must drain it.
func (l *Loop) RunStream(ctx context.Context, th *thread.Thread) <-chan event.Event {
	ch := event.NewChannel()
	go l.run(ctx, th, ch)
	return ch
}

// Run is the blocking form of RunStream: it drains the event stream and
// returns the collected outcome.
func (l *Loop) Run(ctx context.Context, th *thread.Thread) (*Result, error) {
	result := &Result{ThreadID: th.ID()}
	for ev := range l.RunStream(ctx, th) {
		switch ev.Type {
		case event.ConfirmationRequired:
			result.Pending = ev.Pending
			result.Summary = ev.Summary
		case event.Complete:
			result.Text = ev.Response
		case event.Error:
			result.Err = ev.Err
		}
	}
	result.State = th.State()
	return result, result.Err
}

// Send submits a user message and runs one blocking cycle.
func (l *Loop) Send(ctx context.Context, th *thread.Thread, text string) (*Result, error) {
	th.SetPendingInput(thread.InputMessage, text)
	return l.Run(ctx, th)
}

// Confirm approves the thread's pending actions and runs one blocking
// cycle that executes them and synthesizes the closing reply.
func (l *Loop) Confirm(ctx context.Context, th *thread.Thread) (*Result, error) {
	th.SetPendingInput(thread.InputConfirm, "")
	return l.Run(ctx, th)
}

// ConfirmStream approves the thread's pending actions and runs one
// cycle, reporting progress on the returned channel.
func (l *Loop) ConfirmStream(ctx context.Context, th *thread.Thread) <-chan event.Event {
	th.SetPendingInput(thread.InputConfirm, "")
	return l.RunStream(ctx, th)
}

// Cancel discards the thread's pending actions. Reports ok=false, and
// changes nothing, when no confirmation was outstanding.
func (l *Loop) Cancel(th *thread.Thread) (cancelled []pal.Invocation, ok bool) {
	cancelled, ok = th.Cancel()
	if ok {
		th.History().Append(pal.NewUserMessage("I do not want to proceed with the held actions. Cancel them."))
		th.History().Append(pal.NewAssistantMessage("Understood, the pending actions were cancelled. Nothing was changed."))
	}
	return cancelled, ok
}

// Result is the collected outcome of one blocking run.
type Result struct {
	// ThreadID identifies the conversation.
	ThreadID string
	// Text is the final reply.
	Text string
	// Pending lists destructive invocations awaiting confirmation, if any.
	Pending []pal.Invocation
	// Summary is the confirmation prompt when Pending is non-empty.
	Summary string
	// State is the thread's gate state after the run.
	State thread.State
	// Err is the failure that ended the run, if any.
	Err error
}

// RequiresConfirmation reports whether the run parked destructive
// actions behind the confirmation gate.
func (r *Result) RequiresConfirmation() bool {
	return len(r.Pending) > 0
}

func (l *Loop) run(ctx context.Context, th *thread.Thread, ch chan<- event.Event) {
	defer close(ch)

	if l.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.options.Timeout)
		defer cancel()
	}

	event.Emit(ctx, ch, event.Event{Type: event.Connected, ThreadID: th.ID()})

	if err := th.BeginRun(); err != nil {
		event.Emit(ctx, ch, event.Event{Type: event.Error, ThreadID: th.ID(), Err: err})
		return
	}
	defer th.EndRun()

	input, ok := th.TakePendingInput()
	if !ok {
		event.Emit(ctx, ch, event.Event{Type: event.Error, ThreadID: th.ID(), Err: &thread.ErrNoPendingInput{ThreadID: th.ID()}})
		return
	}

	var err error
	switch input.Kind {
	case thread.InputConfirm:
		err = l.runConfirm(ctx, th, ch)
	default:
		err = l.runMessage(ctx, th, ch, input.Text)
	}
	if err != nil {
		event.Emit(ctx, ch, event.Event{Type: event.Error, ThreadID: th.ID(), Err: err})
	}
}

// runMessage handles a regular user message.
func (l *Loop) runMessage(ctx context.Context, th *thread.Thread, ch chan<- event.Event, text string) error {
	// A plain message while a confirmation is outstanding abandons the
	// parked actions; only an explicit confirm may execute them.
	if _, ok := th.Cancel(); ok {
		th.History().Append(pal.NewUserMessage("(The previously held actions were not confirmed; discard them.)"))
	}
	th.History().Append(pal.NewUserMessage(text))

	return l.iterate(ctx, th, ch)
}

// runConfirm executes the parked invocations in proposal order, then
// hands back to the model to synthesize the closing reply.
func (l *Loop) runConfirm(ctx context.Context, th *thread.Thread, ch chan<- event.Event) error {
	confirmed, err := th.TakeConfirmed()
	if err != nil {
		return err
	}

	event.Emit(ctx, ch, event.Event{Type: event.NodeStart, ThreadID: th.ID(), Node: nodeTools})
	lines := make([]string, 0, len(confirmed))
	for i := range confirmed {
		res := l.execute(ctx, th.ID(), ch, confirmed[i])
		status := "ok"
		if res.IsError {
			status = "error"
		}
		lines = append(lines, fmt.Sprintf("%s (%s): %s", confirmed[i].Tool, status, res.Content))
	}
	th.FinishExecuting()
	event.Emit(ctx, ch, event.Event{Type: event.NodeEnd, ThreadID: th.ID(), Node: nodeTools})

	th.History().Append(pal.NewUserMessage(
		"I confirm the held actions. They have now executed with these results:\n" + strings.Join(lines, "\n") +
			"\nReport the outcome to me."))

	return l.iterate(ctx, th, ch)
}

// iterate is the bounded model/tools cycle shared by both run kinds.
func (l *Loop) iterate(ctx context.Context, th *thread.Thread, ch chan<- event.Event) error {
	chatOpts := append([]pal.Option{pal.WithTools(l.facade.Tools())}, l.options.ChatOptions...)

	for iter := 1; iter <= l.options.MaxIterations; iter++ {
		resp, err := l.step(ctx, th, ch, chatOpts)
		if err != nil {
			return err
		}

		if len(resp.ToolCalls) == 0 {
			th.History().Append(pal.NewAssistantMessage(resp.Content))
			event.Emit(ctx, ch, event.Event{Type: event.Complete, ThreadID: th.ID(), Response: resp.Content})
			return nil
		}

		th.History().Append(pal.Message{
			ID:        pal.GenerateMessageID(),
			Role:      pal.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
			Timestamp: time.Now(),
		})

		results, proposed := l.processCalls(ctx, th, ch, resp.ToolCalls)
		th.History().Append(pal.NewToolResultMessage(results...))

		if len(proposed) > 0 {
			summary := th.ConfirmationSummary()
			event.Emit(ctx, ch, event.Event{
				Type:     event.ConfirmationRequired,
				ThreadID: th.ID(),
				Pending:  proposed,
				Summary:  summary,
			})
			th.History().Append(pal.NewAssistantMessage(summary))
			event.Emit(ctx, ch, event.Event{Type: event.Complete, ThreadID: th.ID(), Response: summary})
			return nil
		}
	}

	// Iteration bound reached; end the run gracefully.
	th.History().Append(pal.NewAssistantMessage(iterationCapReply))
	event.Emit(ctx, ch, event.Event{Type: event.Complete, ThreadID: th.ID(), Response: iterationCapReply})
	return nil
}

// step makes one streaming model call, forwarding text fragments as
// Token events.
func (l *Loop) step(ctx context.Context, th *thread.Thread, ch chan<- event.Event, chatOpts []pal.Option) (*pal.Response, error) {
	event.Emit(ctx, ch, event.Event{Type: event.NodeStart, ThreadID: th.ID(), Node: nodeAgent})

	messages := th.Window()
	if l.options.SystemPrompt != "" {
		messages = append([]pal.Message{{Role: pal.RoleSystem, Content: l.options.SystemPrompt}}, messages...)
	}

	streamCh, err := retry.DoStream(ctx, l.options.Retry, func() (<-chan pal.StreamEvent, error) {
		return l.provider.ChatStream(ctx, messages, chatOpts...)
	})
	if err != nil {
		return nil, err
	}

	var resp *pal.Response
	for ev := range streamCh {
		if ev.Err != nil {
			return nil, ev.Err
		}
		if ev.Delta != "" {
			event.Emit(ctx, ch, event.Event{Type: event.Token, ThreadID: th.ID(), Token: ev.Delta})
		}
		if ev.Done {
			resp = ev.Response
		}
	}
	if resp == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, context.Canceled
	}

	event.Emit(ctx, ch, event.Event{Type: event.NodeEnd, ThreadID: th.ID(), Node: nodeAgent})
	return resp, nil
}

// slot ties an executable invocation to its position in the model's
// tool-call batch, so results land in call order.
type slot struct {
	idx int
	inv pal.Invocation
}

// processCalls dispatches one batch of tool calls through the façade.
// Meta answers and validation failures fill their result slots
// directly; executable invocations run in lanes; destructive proposals
// park behind the gate and come back in proposed.
func (l *Loop) processCalls(ctx context.Context, th *thread.Thread, ch chan<- event.Event, calls []pal.ToolCall) (results []pal.ToolResult, proposed []pal.Invocation) {
	event.Emit(ctx, ch, event.Event{Type: event.NodeStart, ThreadID: th.ID(), Node: nodeTools})
	defer event.Emit(ctx, ch, event.Event{Type: event.NodeEnd, ThreadID: th.ID(), Node: nodeTools})

	results = make([]pal.ToolResult, len(calls))
	var execs []slot

	for i, call := range calls {
		out := l.facade.Dispatch(call, th)
		if out.Result != nil {
			results[i] = *out.Result
		}
		if out.Proposed != nil {
			proposed = append(proposed, *out.Proposed)
		}
		if out.Invocation != nil {
			execs = append(execs, slot{idx: i, inv: *out.Invocation})
		}
	}

	l.executeLanes(ctx, th.ID(), ch, execs, results)
	return results, proposed
}

// executeLanes runs invocations grouped into lanes. Every invocation in
// a category that contains a write runs on that category's single
// sequential lane, preserving batch order; pure reads in write-free
// categories each get their own lane. Lanes run concurrently.
func (l *Loop) executeLanes(ctx context.Context, threadID string, ch chan<- event.Event, execs []slot, results []pal.ToolResult) {
	if len(execs) == 0 {
		return
	}

	writers := make(map[catalog.Category]bool)
	for _, s := range execs {
		if def, ok := l.registry.Lookup(s.inv.Tool); ok && def.Writes() {
			writers[def.Category] = true
		}
	}

	var lanes [][]slot
	laneFor := make(map[catalog.Category]int)
	for _, s := range execs {
		def, ok := l.registry.Lookup(s.inv.Tool)
		if ok && writers[def.Category] {
			li, seen := laneFor[def.Category]
			if !seen {
				li = len(lanes)
				laneFor[def.Category] = li
				lanes = append(lanes, nil)
			}
			lanes[li] = append(lanes[li], s)
			continue
		}
		lanes = append(lanes, []slot{s})
	}

	var wg sync.WaitGroup
	for _, lane := range lanes {
		wg.Add(1)
		go func(lane []slot) {
			defer wg.Done()
			for _, s := range lane {
				results[s.idx] = l.execute(ctx, threadID, ch, s.inv)
			}
		}(lane)
	}
	wg.Wait()
}

// execute runs one invocation with the handler timeout, bracketing it
// with action events.
func (l *Loop) execute(ctx context.Context, threadID string, ch chan<- event.Event, inv pal.Invocation) pal.ToolResult {
	event.Emit(ctx, ch, event.Event{Type: event.ActionStart, ThreadID: threadID, Invocation: &inv})

	execCtx := ctx
	if l.options.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, l.options.HandlerTimeout)
		defer cancel()
	}

	res := l.registry.Invoke(execCtx, inv)
	if res.IsError {
		inv.Status = pal.InvocationFailed
	} else {
		inv.Status = pal.InvocationExecuted
	}

	event.Emit(ctx, ch, event.Event{Type: event.ActionEnd, ThreadID: threadID, Invocation: &inv, Result: &res})
	return res
}
