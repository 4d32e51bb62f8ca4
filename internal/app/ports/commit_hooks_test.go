package ports

import (
	"context"
	"testing"
)

func TestAfterCommit_RunsImmediatelyOutsideTransaction(t *testing.T) {
	ran := 0
	AfterCommit(context.Background(), func() { ran++ })
	if ran != 1 {
		t.Fatalf("hook run count mismatch: got=%d want=1", ran)
	}
}

func TestCommitHooks_DiscardAndRun(t *testing.T) {
	ctx, hooks := WithCommitHooks(context.Background())
	var order []string
	AfterCommit(ctx, func() { order = append(order, "outer") })
	mark := hooks.Mark()
	AfterCommit(ctx, func() { order = append(order, "inner") })
	hooks.DiscardFrom(mark)
	AfterCommit(ctx, func() { order = append(order, "last") })

	if len(order) != 0 {
		t.Fatalf("hooks ran before commit: %v", order)
	}
	hooks.Run()
	if len(order) != 2 || order[0] != "outer" || order[1] != "last" {
		t.Fatalf("hook order mismatch: got=%v", order)
	}
}
