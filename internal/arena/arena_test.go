package arena

import (
	"errors"
	"testing"
)

type testNode struct {
	a, b uint64
	c    [3]byte
}

func TestAllocZeroed(t *testing.T) {
	a := New()

	n, err := Alloc[testNode](a)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if n.a != 0 || n.b != 0 || n.c != [3]byte{} {
		t.Fatalf("expected zeroed struct, got %+v", n)
	}

	n.a = 0xdeadbeef
	n2, err := Alloc[testNode](a)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if n2.a != 0 {
		t.Fatalf("second allocation aliases the first: %+v", n2)
	}
}

func TestAllocBytesDistinctBackingArrays(t *testing.T) {
	a := New(WithSlabSize(64))

	b1, err := a.AllocBytes(8)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	b2, err := a.AllocBytes(8)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	b1[0] = 1
	if b2[0] != 0 {
		t.Fatalf("writes to one allocation leaked into another")
	}
}

func TestGrowsAcrossSlabs(t *testing.T) {
	a := New(WithSlabSize(16))

	var total int
	for i := 0; i < 10; i++ {
		b, err := a.AllocBytes(5)
		if err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
		total += len(b)
	}
	if a.Allocated() != total {
		t.Fatalf("allocated=%d, want %d", a.Allocated(), total)
	}
}

func TestBoundedExhausts(t *testing.T) {
	a := NewBounded(32)

	if _, err := a.AllocBytes(16); err != nil {
		t.Fatalf("unexpected error on first alloc: %v", err)
	}
	if _, err := a.AllocBytes(16); err != nil {
		t.Fatalf("unexpected error on second alloc: %v", err)
	}
	if _, err := a.AllocBytes(16); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestDestroyResets(t *testing.T) {
	a := New()
	if _, err := a.AllocBytes(100); err != nil {
		t.Fatalf("alloc: %v", err)
	}
	a.Destroy()
	if a.Allocated() != 0 {
		t.Fatalf("expected 0 allocated after Destroy, got %d", a.Allocated())
	}
}

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Warn(format string, args ...any) {
	r.warnings = append(r.warnings, format)
}

func TestLoggerSeesGrowthAndExhaustion(t *testing.T) {
	log := &recordingLogger{}
	a := NewBounded(16, WithSlabSize(16), WithLogger(log))

	if _, err := a.AllocBytes(16); err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if _, err := a.AllocBytes(1); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	if len(log.warnings) < 2 {
		t.Fatalf("expected growth and exhaustion warnings, got %v", log.warnings)
	}
}
