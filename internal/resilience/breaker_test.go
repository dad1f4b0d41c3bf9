package resilience

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		if err := b.Execute(failing); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: err = %v, want boom", i, err)
		}
	}

	// Fourth call never reaches fn.
	err := b.Execute(func() error {
		t.Error("fn ran while circuit open")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := NewBreaker(2, time.Minute)

	if err := b.Execute(failing); !errors.Is(err, errBoom) {
		t.Fatal(err)
	}
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	// One more failure must not trip the reset breaker.
	if err := b.Execute(failing); !errors.Is(err, errBoom) {
		t.Fatal(err)
	}
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("circuit opened early: %v", err)
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	clock := time.Unix(0, 0)
	b := NewBreaker(1, 30*time.Second)
	b.now = func() time.Time { return clock }

	if err := b.Execute(failing); !errors.Is(err, errBoom) {
		t.Fatal(err)
	}
	if err := b.Execute(failing); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}

	// After the cooldown one probe is allowed through.
	clock = clock.Add(31 * time.Second)
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("half-open probe rejected: %v", err)
	}

	// The successful probe closes the circuit.
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("circuit still open after probe: %v", err)
	}
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	clock := time.Unix(0, 0)
	b := NewBreaker(1, 30*time.Second)
	b.now = func() time.Time { return clock }

	if err := b.Execute(failing); !errors.Is(err, errBoom) {
		t.Fatal(err)
	}
	clock = clock.Add(31 * time.Second)
	if err := b.Execute(failing); !errors.Is(err, errBoom) {
		t.Fatalf("probe err = %v", err)
	}
	// Failed probe snaps back to open immediately.
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}
