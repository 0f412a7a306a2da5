package checks

import (
	"context"
	"testing"

	"github.com/driftworks/slipway/internal/models"
)

func TestRegistry_EmptyPassesEverything(t *testing.T) {
	registry := NewRegistry(nil)

	verdicts := registry.Run(context.Background(), &models.Build{ID: "b1"}, &models.Deploy{ID: "d1"})
	if len(verdicts) != 0 {
		t.Errorf("got %d verdicts from empty registry, want 0", len(verdicts))
	}
}

func TestRegistry_RunsInRegistrationOrder(t *testing.T) {
	var order []string
	mk := func(name string, verdict bool) Check {
		return CheckFunc{
			CheckName: name,
			Fn: func(ctx context.Context, build *models.Build, deploy *models.Deploy) bool {
				order = append(order, name)
				return verdict
			},
		}
	}

	registry := NewRegistry(nil, mk("first", true))
	registry.Register(mk("second", false))
	registry.Register(mk("third", true))

	verdicts := registry.Run(context.Background(), &models.Build{ID: "b1"}, &models.Deploy{ID: "d1"})

	want := []bool{true, false, true}
	if len(verdicts) != len(want) {
		t.Fatalf("got %d verdicts, want %d", len(verdicts), len(want))
	}
	for i := range want {
		if verdicts[i] != want[i] {
			t.Errorf("verdict[%d] = %v, want %v", i, verdicts[i], want[i])
		}
	}

	wantOrder := []string{"first", "second", "third"}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Errorf("checks ran in order %v, want %v", order, wantOrder)
			break
		}
	}
}

func TestRegistry_RejectionDoesNotShortCircuit(t *testing.T) {
	calls := 0
	failing := CheckFunc{
		CheckName: "always-fails",
		Fn: func(ctx context.Context, build *models.Build, deploy *models.Deploy) bool {
			calls++
			return false
		},
	}

	registry := NewRegistry(nil, failing, failing)
	registry.Run(context.Background(), &models.Build{ID: "b1"}, &models.Deploy{ID: "d1"})

	if calls != 2 {
		t.Errorf("checks ran %d times, want all 2 despite rejection", calls)
	}
}
