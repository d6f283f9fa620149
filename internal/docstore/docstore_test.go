// Tests for the document tape backend.
// Implements: prd003-document-tape acceptance criteria (unit tests).
package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

func testRecord(flavor types.Flavor, op string, args []int64, result int64) types.Record {
	return types.Record{
		Flavor:    flavor,
		Operation: op,
		Arguments: args,
		Result:    result,
	}
}

func TestTape_SaveWithIDAndHistory(t *testing.T) {
	tape, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer tape.Close()

	ctx := context.Background()

	// Saved out of identifier order; History must return them ordered.
	if err := tape.SaveWithID(ctx, 2, testRecord(types.FlavorIndependent, "fact", []int64{5}, 120)); err != nil {
		t.Fatalf("SaveWithID failed: %v", err)
	}
	if err := tape.SaveWithID(ctx, 1, testRecord(types.FlavorStack, "plus", []int64{4, 3}, 7)); err != nil {
		t.Fatalf("SaveWithID failed: %v", err)
	}
	if err := tape.SaveWithID(ctx, 3, testRecord(types.FlavorStack, "minus", []int64{9, 1}, 8)); err != nil {
		t.Fatalf("SaveWithID failed: %v", err)
	}

	all, err := tape.History(ctx, "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("History returned %d records, want 3", len(all))
	}
	for i, rec := range all {
		if rec.ID != int64(i+1) {
			t.Errorf("record %d has id %d, want %d", i, rec.ID, i+1)
		}
	}
	if all[0].Operation != "plus" || all[0].Result != 7 {
		t.Errorf("record 1 = %+v, want plus/7", all[0])
	}
	if len(all[0].Arguments) != 2 || all[0].Arguments[0] != 4 || all[0].Arguments[1] != 3 {
		t.Errorf("record 1 arguments = %v, want [4 3]", all[0].Arguments)
	}
}

func TestTape_HistoryFlavorFilter(t *testing.T) {
	tape, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer tape.Close()

	ctx := context.Background()
	tape.SaveWithID(ctx, 1, testRecord(types.FlavorStack, "plus", []int64{1, 2}, 3))
	tape.SaveWithID(ctx, 2, testRecord(types.FlavorIndependent, "abs", []int64{-4}, 4))

	stack, err := tape.History(ctx, string(types.FlavorStack))
	if err != nil {
		t.Fatalf("History(STACK) failed: %v", err)
	}
	if len(stack) != 1 || stack[0].Flavor != types.FlavorStack {
		t.Errorf("History(STACK) = %+v, want one STACK record", stack)
	}

	none, err := tape.History(ctx, "SIDEWAYS")
	if err != nil {
		t.Fatalf("History(SIDEWAYS) failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("History(SIDEWAYS) returned %d records, want 0", len(none))
	}
}

func TestTape_HistoryEmptyStore(t *testing.T) {
	tape, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer tape.Close()

	got, err := tape.History(context.Background(), "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if got == nil {
		t.Error("History returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("History returned %d records, want 0", len(got))
	}
}

func TestTape_SaveWithIDOverwrites(t *testing.T) {
	tape, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer tape.Close()

	ctx := context.Background()
	tape.SaveWithID(ctx, 1, testRecord(types.FlavorStack, "plus", []int64{1, 2}, 3))
	tape.SaveWithID(ctx, 1, testRecord(types.FlavorStack, "times", []int64{2, 3}, 6))

	all, err := tape.History(ctx, "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("History returned %d records, want 1", len(all))
	}
	if all[0].Operation != "times" {
		t.Errorf("record operation = %q, want times (overwritten)", all[0].Operation)
	}
}

func TestTape_Ping(t *testing.T) {
	tape, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer tape.Close()

	if err := tape.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestTape_Close(t *testing.T) {
	tape, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := tape.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Idempotent.
	if err := tape.Close(); err != nil {
		t.Errorf("second Close should not error, got %v", err)
	}

	ctx := context.Background()
	if err := tape.SaveWithID(ctx, 1, testRecord(types.FlavorStack, "plus", []int64{1, 2}, 3)); !errors.Is(err, types.ErrTapeClosed) {
		t.Errorf("SaveWithID after Close: expected ErrTapeClosed, got %v", err)
	}
	if _, err := tape.History(ctx, ""); !errors.Is(err, types.ErrTapeClosed) {
		t.Errorf("History after Close: expected ErrTapeClosed, got %v", err)
	}
	if err := tape.Ping(ctx); !errors.Is(err, types.ErrTapeClosed) {
		t.Errorf("Ping after Close: expected ErrTapeClosed, got %v", err)
	}
}

func TestTape_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tape, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := tape.SaveWithID(ctx, 7, testRecord(types.FlavorIndependent, "pow", []int64{2, 5}, 32)); err != nil {
		t.Fatalf("SaveWithID failed: %v", err)
	}
	if err := tape.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	all, err := reopened.History(ctx, "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != 7 || all[0].Result != 32 {
		t.Errorf("History after reopen = %+v, want one record id 7 result 32", all)
	}
}
