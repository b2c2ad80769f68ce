package join

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestAllSucceed(t *testing.T) {
	g, _ := New(context.Background())

	// Each load waits for the other to start, so a sequential join would time out
	var started sync.WaitGroup
	started.Add(2)
	rendezvous := func(ctx context.Context) error {
		started.Done()
		done := make(chan struct{})
		go func() {
			started.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("loads did not overlap")
		}
	}

	fonts := Go(g, "font catalog", func(ctx context.Context) (int, error) {
		return 3, rendezvous(ctx)
	})
	images := Go(g, "image catalog", func(ctx context.Context) (string, error) {
		return "sprites", rendezvous(ctx)
	})

	if err := g.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if v, ok := fonts.Value(); !ok || v != 3 {
		t.Errorf("Expected fonts 3, got %v (ok=%v)", v, ok)
	}
	if v, ok := images.Value(); !ok || v != "sprites" {
		t.Errorf("Expected images \"sprites\", got %q (ok=%v)", v, ok)
	}
	if diff := cmp.Diff([]string{"font catalog", "image catalog"}, g.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestFailureNamesSubsystem(t *testing.T) {
	g, _ := New(context.Background())
	missing := errors.New("fonts.json: no such file")

	fonts := Go(g, "font catalog", func(context.Context) (int, error) {
		return 0, missing
	})
	images := Go(g, "image catalog", func(context.Context) (int, error) {
		return 7, nil
	})

	err := g.Wait()
	var sub *SubsystemError
	if !errors.As(err, &sub) {
		t.Fatalf("Expected SubsystemError, got %v", err)
	}
	if sub.Subsystem != "font catalog" {
		t.Errorf("Expected font catalog, got %q", sub.Subsystem)
	}
	if !errors.Is(err, missing) {
		t.Errorf("Expected cause to unwrap, got %v", err)
	}
	if _, ok := fonts.Value(); ok {
		t.Error("Expected failed load to hold no value")
	}
	if v, ok := images.Value(); !ok || v != 7 {
		t.Errorf("Expected successful load to still report its value, got %v (ok=%v)", v, ok)
	}
}

func TestFailureCancelsOthers(t *testing.T) {
	g, _ := New(context.Background())
	boom := errors.New("boom")

	Go(g, "audio controller", func(context.Context) (struct{}, error) {
		return struct{}{}, boom
	})
	slow := Go(g, "scene stack", func(ctx context.Context) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return 1, nil
		}
	})

	err := g.Wait()
	var sub *SubsystemError
	if !errors.As(err, &sub) || sub.Subsystem != "audio controller" {
		t.Errorf("Expected the first failure to be reported, got %v", err)
	}
	if _, ok := slow.Value(); ok {
		t.Error("Expected cancelled load to hold no value")
	}
}

func TestPanicBecomesError(t *testing.T) {
	g, _ := New(context.Background())
	Go(g, "image catalog", func(context.Context) (int, error) {
		panic("decoder exploded")
	})

	err := g.Wait()
	var sub *SubsystemError
	if !errors.As(err, &sub) || sub.Subsystem != "image catalog" {
		t.Fatalf("Expected SubsystemError for the panicking load, got %v", err)
	}
	if want := "load image catalog: panic: decoder exploded"; err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := New(ctx)
	cancel()

	Go(g, "font catalog", func(ctx context.Context) (int, error) {
		return 0, ctx.Err()
	})
	if err := g.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if gctx.Err() == nil {
		t.Error("Expected group context to be cancelled")
	}
}
