package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewLimitedDisabled(t *testing.T) {
	gen := &fakeGen{}
	if got := NewLimited(gen, 0, 1); got != Generator(gen) {
		t.Fatalf("expected unwrapped generator")
	}
}

func TestLimitedPassesThrough(t *testing.T) {
	gen := &fakeGen{text: "x"}
	lim := NewLimited(gen, 100, 2)
	if lim.Name() != "fake" {
		t.Fatalf("unexpected name %q", lim.Name())
	}
	resp, err := lim.Generate(context.Background(), Request{Prompt: "p"})
	if err != nil || resp.Text != "x" {
		t.Fatalf("unexpected result %+v %v", resp, err)
	}
}

func TestLimitedTimesOutWhenBucketEmpty(t *testing.T) {
	lim := NewLimited(&fakeGen{}, 0.01, 1)
	if _, err := lim.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := lim.Generate(ctx, Request{}); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestLimitedReturnsCancellation(t *testing.T) {
	lim := NewLimited(&fakeGen{}, 0.01, 1)
	_, _ = lim.Generate(context.Background(), Request{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lim.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
