package openrouter

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

// collectEvents runs ParseSSEStream over sseData and returns all events.
func collectEvents(t *testing.T, sseData string) []StreamEvent {
	t.Helper()
	return collectEventsFrom(t, strings.NewReader(sseData))
}

func collectEventsFrom(t *testing.T, r io.Reader) []StreamEvent {
	t.Helper()
	ch := make(chan StreamEvent, 64)

	go func() {
		defer close(ch)
		ParseSSEStream(context.Background(), r, ch)
	}()

	var events []StreamEvent
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

// deltas extracts the text fragments from a sequence of events.
func deltas(events []StreamEvent) []string {
	var out []string
	for _, ev := range events {
		if ev.Type == StreamEventDelta {
			out = append(out, ev.Delta)
		}
	}
	return out
}

func TestParseSSEStream_TextDeltas(t *testing.T) {
	sseData := `data: {"choices":[{"delta":{"content":"Hel"}}]}

data: {"choices":[{"delta":{"content":"lo"}}]}

data: [DONE]
`
	events := collectEvents(t, sseData)

	got := deltas(events)
	want := []string{"Hel", "lo"}
	if len(got) != len(want) {
		t.Fatalf("deltas = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delta[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	last := events[len(events)-1]
	if last.Type != StreamEventDone {
		t.Errorf("last event = %q, want %q", last.Type, StreamEventDone)
	}
}

func TestParseSSEStream_DoneEmitsNoValue(t *testing.T) {
	events := collectEvents(t, "data: [DONE]\n")

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	if events[0].Type != StreamEventDone || events[0].Delta != "" {
		t.Errorf("got %+v, want bare done event", events[0])
	}
}

func TestParseSSEStream_NothingAfterDone(t *testing.T) {
	// Records after [DONE] must never be decoded.
	sseData := `data: [DONE]

data: {"choices":[{"delta":{"content":"late"}}]}
`
	events := collectEvents(t, sseData)

	if len(events) != 1 || events[0].Type != StreamEventDone {
		t.Fatalf("expected only the done event, got %+v", events)
	}
}

func TestParseSSEStream_MalformedChunkSkipped(t *testing.T) {
	sseData := `data: {"choices":[{"delta":{"content":"a"}}]}

data: {not json at all

data: {"choices":[{"delta":{"content":"b"}}]}

data: [DONE]
`
	events := collectEvents(t, sseData)

	got := deltas(events)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("deltas = %q, want [a b]", got)
	}
}

func TestParseSSEStream_IgnoresCommentsAndBlankLines(t *testing.T) {
	sseData := `: keep-alive

data: {"choices":[{"delta":{"content":"x"}}]}

: another comment
data: [DONE]
`
	events := collectEvents(t, sseData)

	got := deltas(events)
	if len(got) != 1 || got[0] != "x" {
		t.Errorf("deltas = %q, want [x]", got)
	}
}

func TestParseSSEStream_FinishReasonTerminates(t *testing.T) {
	sseData := `data: {"choices":[{"delta":{"content":"hi"}}]}

data: {"choices":[{"delta":{},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}
`
	events := collectEvents(t, sseData)

	last := events[len(events)-1]
	if last.Type != StreamEventDone {
		t.Fatalf("last event = %+v, want done", last)
	}
	if last.FinishReason != "stop" {
		t.Errorf("FinishReason = %q, want stop", last.FinishReason)
	}
	if last.Usage == nil || last.Usage.TotalTokens != 4 {
		t.Errorf("Usage = %+v, want total 4", last.Usage)
	}
}

// fragmentedReader returns its payload in tiny reads to exercise partial-line
// buffering in the decoder.
type fragmentedReader struct {
	data []byte
	pos  int
	n    int
}

func (r *fragmentedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	end := r.pos + r.n
	if end > len(r.data) {
		end = len(r.data)
	}
	copied := copy(p, r.data[r.pos:end])
	r.pos += copied
	return copied, nil
}

func TestParseSSEStream_PartialLinesBuffered(t *testing.T) {
	sseData := `data: {"choices":[{"delta":{"content":"Hel"}}]}

data: {"choices":[{"delta":{"content":"lo"}}]}

data: [DONE]
`
	// 3-byte reads split every record across many reads.
	events := collectEventsFrom(t, &fragmentedReader{data: []byte(sseData), n: 3})

	got := deltas(events)
	if len(got) != 2 || got[0] != "Hel" || got[1] != "lo" {
		t.Errorf("deltas = %q, want [Hel lo]", got)
	}
}

// failingReader yields some data and then a read error, simulating a
// dropped connection.
type failingReader struct {
	data string
	err  error
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		return copy(p, r.data), nil
	}
	return 0, r.err
}

func TestParseSSEStream_TransportFailureIsFatal(t *testing.T) {
	r := &failingReader{
		data: "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n",
		err:  io.ErrUnexpectedEOF,
	}
	events := collectEventsFrom(t, r)

	got := deltas(events)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("deltas = %q, want [a]", got)
	}

	last := events[len(events)-1]
	if last.Type != StreamEventError || last.Err == nil {
		t.Errorf("last event = %+v, want error event", last)
	}
}

func TestParseSSEStream_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	go func() {
		pw.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n"))
	}()

	ch := make(chan StreamEvent, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(ch)
		ParseSSEStream(ctx, pr, ch)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("decoder did not stop after cancellation")
	}

	for ev := range ch {
		if ev.Type == StreamEventError {
			t.Errorf("cancellation produced an error event: %+v", ev)
		}
	}
}
