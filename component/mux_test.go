package component

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lixenwraith/scenery/load"
)

func TestMuxUnknownID(t *testing.T) {
	mux := DefaultMux()
	_, err := mux.Resolve(load.New("basic_float_test_component", map[string]any{}))

	var unknown *load.UnknownIDError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownIDError, got %v", err)
	}
	if unknown.ID != "basic_float_test_component" {
		t.Errorf("Expected unmatched id, got %q", unknown.ID)
	}
	if diff := cmp.Diff(mux.IDs(), unknown.Known); diff != "" {
		t.Errorf("known ids mismatch (-want +got):\n%s", diff)
	}
}

// TestMuxResolvesOnlyOwnID checks every registered constructor accepts its id and rejects the others
func TestMuxResolvesOnlyOwnID(t *testing.T) {
	mux := DefaultMux()
	for id, payload := range basicPayloads {
		if _, err := mux.Resolve(load.New(id, payload)); err != nil {
			t.Errorf("Resolve(%s): %v", id, err)
		}

		for other, ctor := range mux {
			if other == id {
				continue
			}
			_, err := ctor(load.New(id, payload))
			var mismatch *load.IDMismatchError
			if !errors.As(err, &mismatch) {
				t.Errorf("constructor %s accepted %s: %v", other, id, err)
				continue
			}
			if mismatch.Expected != other || mismatch.Actual != id {
				t.Errorf("constructor %s: unexpected mismatch %+v", other, mismatch)
			}
		}
	}
}

func TestMuxWith(t *testing.T) {
	base := DefaultMux()
	extended := base.With("custom", Adapt[BasicTextComponent]())

	if _, ok := base["custom"]; ok {
		t.Error("With must not modify the receiver")
	}
	if len(extended) != len(base)+1 {
		t.Errorf("Expected %d entries, got %d", len(base)+1, len(extended))
	}

	var empty Mux
	if got := empty.With("x", Adapt[BasicTextComponent]()); len(got) != 1 {
		t.Errorf("Expected With on nil mux to allocate, got %d entries", len(got))
	}
}
