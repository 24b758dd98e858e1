package redismessages

import (
	"context"
	"reflect"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/hypermedia-go/hyperapi/messages"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: "127.0.0.1:6379",
		DB:   3,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	table, err := New(Config{KeyPrefix: "test:messages:"}, WithClient(client))
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	return table
}

func TestTable_Lifecycle(t *testing.T) {
	ctx := context.Background()
	table := testTable(t)

	if table.HasMessageForExchange(ctx, "search", "200") {
		t.Fatalf("no mapping installed yet")
	}
	if table.GetMessageForExchange(ctx, "search", "200") != nil {
		t.Fatalf("absent mapping must be nil")
	}

	table.AddMessage(ctx, messages.NewEntry("search", "200", []string{"search", "create"}))
	table.AddMessage(ctx, messages.NewEntry("search", "500", []string{"search"}))
	table.AddMessage(ctx, nil) // ignored

	if !table.HasMessageForExchange(ctx, "search", "200") {
		t.Fatalf("installed mapping not found")
	}
	e := table.GetMessageForExchange(ctx, "search", "200")
	if e == nil {
		t.Fatalf("installed mapping not returned")
	}
	if !reflect.DeepEqual(e.Message(), []string{"search", "create"}) {
		t.Fatalf("wrong message list: %v", e.Message())
	}
	if got := table.Count(ctx); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}
}
