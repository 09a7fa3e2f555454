package repository

import (
	"context"
	"testing"
)

func TestKVRepositoryPutGetDelete(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewKVRepository(db)
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, "lunapatch-cart:a"); err != nil || ok {
		t.Fatalf("empty store should miss, ok=%v err=%v", ok, err)
	}

	if err := repo.Put(ctx, "lunapatch-cart:a", []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := repo.Put(ctx, "lunapatch-cart:a", []byte(`{"items":[{"productId":"p"}]}`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, ok, err := repo.Get(ctx, "lunapatch-cart:a")
	if err != nil || !ok {
		t.Fatalf("get failed ok=%v err=%v", ok, err)
	}
	if string(value) != `{"items":[{"productId":"p"}]}` {
		t.Fatalf("unexpected value: %s", value)
	}

	if err := repo.Delete(ctx, "lunapatch-cart:a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, err := repo.Get(ctx, "lunapatch-cart:a"); err != nil || ok {
		t.Fatalf("deleted key should miss, ok=%v err=%v", ok, err)
	}
}
