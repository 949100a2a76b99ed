// Package pal is the orchestration core of a natural-language
// productivity assistant over calendar, mail, and task services.
//
// The root package holds the shared types: messages, model responses,
// tool definitions and calls, invocations flowing through the
// confirmation gate, and the ModelProvider boundary. Orchestration
// lives in the subpackages:
//
//   - catalog: the immutable tool catalog, discovery index, and
//     validating dispatcher
//   - meta: the three-tool façade the model actually sees
//   - thread: per-conversation state and the confirmation gate
//   - agent: the bounded model-call / tool-call loop
//   - event: the ordered stream event taxonomy
//   - server: the two-step HTTP/SSE transport
//   - provider/...: Anthropic, OpenAI, and Google model providers
//   - retry: backoff for transient provider failures
//   - agui, mcp: AG-UI protocol and Model Context Protocol surfaces
//
// A typical embedding wires the pieces like this:
//
//	cat := catalog.Default()
//	reg := catalog.NewRegistry(cat)
//	service.BindAll(reg, service.NewCalendar(), service.NewMail(), service.NewTasks())
//
//	threads := thread.NewManager()
//	loop := agent.NewLoop(provider, meta.NewFacade(cat, reg), reg)
//
//	th := threads.GetOrCreate("")
//	th.SetPendingInput(thread.InputMessage, "delete my 3pm meeting")
//	for ev := range loop.RunStream(ctx, th) {
//	    fmt.Println(ev.Type)
//	}
package pal
