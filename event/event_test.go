package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	t.Run("delivers and stamps the event", func(t *testing.T) {
		ch := NewChannel()

		ok := Emit(context.Background(), ch, Event{Type: Token, Token: "hi"})
		require.True(t, ok)

		e := <-ch
		assert.Equal(t, Token, e.Type)
		assert.Equal(t, "hi", e.Token)
		assert.False(t, e.Timestamp.IsZero())
	})

	t.Run("preserves emission order", func(t *testing.T) {
		ch := NewChannel()
		types := []Type{Connected, NodeStart, Token, Token, NodeEnd, Complete}
		for _, typ := range types {
			require.True(t, Emit(context.Background(), ch, Event{Type: typ}))
		}
		close(ch)

		var got []Type
		for e := range ch {
			got = append(got, e.Type)
		}
		assert.Equal(t, types, got)
	})

	t.Run("blocks on a full channel until the consumer reads", func(t *testing.T) {
		ch := make(chan Event, 1)
		require.True(t, Emit(context.Background(), ch, Event{Type: Token}))

		delivered := make(chan bool)
		go func() {
			delivered <- Emit(context.Background(), ch, Event{Type: Complete})
		}()

		select {
		case <-delivered:
			t.Fatal("second emit should block while the buffer is full")
		case <-time.After(20 * time.Millisecond):
		}

		<-ch
		assert.True(t, <-delivered)
	})

	t.Run("returns false when the context ends first", func(t *testing.T) {
		ch := make(chan Event) // unbuffered, no consumer
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ok := Emit(ctx, ch, Event{Type: Token})
		assert.False(t, ok)
	})
}
