// Package agent runs the bounded orchestration loop that turns a user
// message into tool invocations and a final reply.
//
// Each run alternates between two phases: the agent phase, where the
// model plans against the three meta operations, and the tools phase,
// where validated invocations execute. Non-destructive invocations run
// immediately; destructive ones park behind the thread's confirmation
// gate and the run ends with a confirmation prompt instead. A separate
// confirm run executes the parked actions and synthesizes the closing
// reply.
//
// Progress is reported as an ordered stream of events; see the event
// package for the protocol.
package agent
