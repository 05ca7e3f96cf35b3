package authctx

import (
	"context"
	"testing"
)

func TestSetGet(t *testing.T) {
	ctx := Set(context.Background(), Identity{UserID: "u-1", Username: "alice"})

	id, ok := Get(ctx)
	if !ok {
		t.Fatal("expected identity")
	}
	if id.UserID != "u-1" || id.Username != "alice" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestGet_Missing(t *testing.T) {
	if _, ok := Get(context.Background()); ok {
		t.Error("expected no identity on empty context")
	}
	if _, err := GetOrError(context.Background()); err != ErrNoIdentity {
		t.Errorf("expected ErrNoIdentity, got %v", err)
	}
}

func TestMustGet_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustGet(context.Background())
}
