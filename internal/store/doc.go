// Package store holds per-thread conversation history.
//
// [MessageStore] keeps an append-only message log behind a mutex and
// supports a bounded context window via [MessageStore.Window].
// Persistence is pluggable through the [Adapter] interface; the default
// [MemoryAdapter] keeps everything in process.
package store
