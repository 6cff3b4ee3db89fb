package history

import (
	"fmt"
	"testing"

	"teestudio/internal/domain"
)

func item(id string) domain.HistoryItem {
	return domain.HistoryItem{ID: id, Image: domain.DesignFile{Data: []byte{1}, MimeType: "image/png"}}
}

func TestAddPrependsMostRecentFirst(t *testing.T) {
	l := NewList()
	l.Add(item("a"))
	l.Add(item("b"))
	l.Add(item("c"))

	got := l.Items()
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("items[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestAddBlockKeepsOrder(t *testing.T) {
	l := NewList()
	l.Add(item("old"))
	l.Add(item("b1"), item("b2"), item("b3"))

	got := l.Items()
	want := []string{"b1", "b2", "b3", "old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("items[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestCapEvictsOldest(t *testing.T) {
	l := NewList()
	for i := 0; i < Cap+7; i++ {
		l.Add(item(fmt.Sprintf("item-%d", i)))
	}
	got := l.Items()
	if len(got) != Cap {
		t.Fatalf("len = %d, want %d", len(got), Cap)
	}
	if got[0].ID != fmt.Sprintf("item-%d", Cap+6) {
		t.Fatalf("head = %s, want most recent", got[0].ID)
	}
	if got[Cap-1].ID != "item-7" {
		t.Fatalf("tail = %s, want item-7", got[Cap-1].ID)
	}
}

func TestGet(t *testing.T) {
	l := NewList()
	l.Add(item("x"))
	if _, ok := l.Get("x"); !ok {
		t.Fatal("expected to find item x")
	}
	if _, ok := l.Get("missing"); ok {
		t.Fatal("did not expect to find missing item")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	l := NewList()
	l.Add(item("a"), item("b"))
	snapshot := l.Items()
	snapshot[0] = item("mutated")
	if l.Items()[0].ID != "b" {
		t.Fatal("mutating the snapshot must not affect the list")
	}
}

func TestNewItemStampsIDAndTime(t *testing.T) {
	it := NewItem(domain.DesignFile{Data: []byte{9}, MimeType: "image/png"}, domain.MockupOptions{})
	if it.ID == "" {
		t.Fatal("id must be set")
	}
	if it.CreatedAt.IsZero() {
		t.Fatal("created at must be set")
	}
	other := NewItem(domain.DesignFile{}, domain.MockupOptions{})
	if other.ID == it.ID {
		t.Fatal("ids must be unique")
	}
}
