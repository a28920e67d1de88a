package promise

import (
	"errors"
	"testing"
)

func TestInterruptRecordsSignalAndRunsHandler(t *testing.T) {
	p := New[int]()

	var log []string
	p.SetInterruptHandler(func(e error) { log = append(log, e.Error()) })

	sig := errors.New("x")
	p.Raise(sig)

	if len(log) != 1 || log[0] != "x" {
		t.Fatalf("log = %v, want [x]", log)
	}

	got, ok := p.IsInterrupted()
	if !ok || got != sig {
		t.Fatalf("IsInterrupted() = (%v, %v), want (%v, true)", got, ok, sig)
	}

	if err := p.SetValue(1); err != nil {
		t.Fatalf("SetValue after interrupt should still succeed: %v", err)
	}
	r, err := p.Get(0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, _ := r.Value(); v != 1 {
		t.Fatalf("value = %v, want 1", v)
	}
}

func TestHandlerInstalledAfterRaise(t *testing.T) {
	p := New[int]()

	sig := errors.New("x")
	p.Raise(sig)

	var log []string
	p.SetInterruptHandler(func(e error) { log = append(log, e.Error()) })

	if len(log) != 1 || log[0] != "x" {
		t.Fatalf("log = %v, want [x]", log)
	}
}

func TestSecondRaiseDoesNotRerunHandler(t *testing.T) {
	p := New[int]()

	var calls int
	var lastSignal error
	p.SetInterruptHandler(func(e error) {
		calls++
		lastSignal = e
	})

	first := errors.New("first")
	second := errors.New("second")
	p.Raise(first)
	p.Raise(second)

	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if lastSignal != first {
		t.Fatalf("handler invoked with %v, want %v", lastSignal, first)
	}

	got, ok := p.IsInterrupted()
	if !ok || got != second {
		t.Fatalf("IsInterrupted() = (%v, %v), want (%v, true)", got, ok, second)
	}
}

func TestSetInterruptHandlerReplacement(t *testing.T) {
	p := New[int]()

	var calledOld, calledNew bool
	p.SetInterruptHandler(func(error) { calledOld = true })
	p.SetInterruptHandler(func(error) { calledNew = true })

	p.Raise(errors.New("x"))

	if calledOld {
		t.Fatal("replaced handler should not run")
	}
	if !calledNew {
		t.Fatal("replacement handler should run")
	}
}

func TestForwardInterruptsTo(t *testing.T) {
	target := New[int]()
	source := New[struct{}]()
	source.ForwardInterruptsTo(target)

	sig := errors.New("cancel")
	source.Raise(sig)

	got, ok := target.IsInterrupted()
	if !ok || got != sig {
		t.Fatalf("target.IsInterrupted() = (%v, %v), want (%v, true)", got, ok, sig)
	}
}

func TestInterruptsAggregatesAcrossTargets(t *testing.T) {
	a := New[int]()
	b := New[string]()

	agg := Interrupts(a, b)
	sig := errors.New("shutdown")
	agg.Raise(sig)

	if got, ok := a.IsInterrupted(); !ok || got != sig {
		t.Fatalf("a.IsInterrupted() = (%v, %v)", got, ok)
	}
	if got, ok := b.IsInterrupted(); !ok || got != sig {
		t.Fatalf("b.IsInterrupted() = (%v, %v)", got, ok)
	}
}
