package push

import (
	"sync"
	"testing"
	"time"
)

// flushRecorder collects coalescer flushes for assertions.
type flushRecorder struct {
	mu      sync.Mutex
	flushes []struct {
		UserID uint
		N      Notification
	}
}

func (r *flushRecorder) record(userID uint, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes = append(r.flushes, struct {
		UserID uint
		N      Notification
	}{userID, n})
}

func (r *flushRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flushes)
}

func (r *flushRecorder) last() (uint, Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.flushes[len(r.flushes)-1]
	return f.UserID, f.N
}

func testItem(chatID, messageID uint, preview string) Item {
	return Item{
		ChatID:     chatID,
		MessageID:  messageID,
		ChatName:   "general",
		SenderName: "alice",
		Preview:    preview,
	}
}

func TestCoalescerBurstFlushesOnce(t *testing.T) {
	rec := &flushRecorder{}
	c := NewCoalescer(30*time.Millisecond, rec.record)
	defer c.Stop()

	c.Add(5, testItem(7, 1, "one"))
	c.Add(5, testItem(7, 2, "two"))
	c.Add(5, testItem(7, 3, "three"))

	time.Sleep(100 * time.Millisecond)

	if rec.count() != 1 {
		t.Fatalf("burst produced %d flushes, want exactly 1", rec.count())
	}
	userID, n := rec.last()
	if userID != 5 {
		t.Errorf("flush userID = %d, want 5", userID)
	}
	if n.BatchCount != 3 {
		t.Errorf("BatchCount = %d, want 3", n.BatchCount)
	}
	if n.Body != "3 new messages" {
		t.Errorf("Body = %q, want %q", n.Body, "3 new messages")
	}
	if n.Title != "general" {
		t.Errorf("Title = %q, want chat name for a batch", n.Title)
	}
	if n.MessageID != 3 {
		t.Errorf("MessageID = %d, want the latest item's 3", n.MessageID)
	}
	if c.PendingCount(5) != 0 {
		t.Errorf("accumulator not cleared after flush")
	}
}

func TestCoalescerSingleItemPayload(t *testing.T) {
	rec := &flushRecorder{}
	c := NewCoalescer(20*time.Millisecond, rec.record)
	defer c.Stop()

	c.Add(5, testItem(7, 42, "hello there"))
	time.Sleep(80 * time.Millisecond)

	if rec.count() != 1 {
		t.Fatalf("got %d flushes, want 1", rec.count())
	}
	_, n := rec.last()
	if n.Title != "alice · general" {
		t.Errorf("Title = %q, want %q", n.Title, "alice · general")
	}
	if n.Body != "hello there" {
		t.Errorf("Body = %q, want the preview", n.Body)
	}
	if n.BatchCount != 0 {
		t.Errorf("single item must not carry BatchCount, got %d", n.BatchCount)
	}
	if n.MessageID != 42 {
		t.Errorf("MessageID = %d, want 42", n.MessageID)
	}
}

func TestCoalescerWindowResetsOnArrival(t *testing.T) {
	rec := &flushRecorder{}
	c := NewCoalescer(100*time.Millisecond, rec.record)
	defer c.Stop()

	c.Add(5, testItem(7, 1, "one"))
	time.Sleep(60 * time.Millisecond)
	c.Add(5, testItem(7, 2, "two"))
	// 120ms after the first add but only 60ms after the second: the
	// window restarted, so nothing has flushed yet.
	time.Sleep(60 * time.Millisecond)
	if rec.count() != 0 {
		t.Fatalf("flush fired before the window went quiet")
	}

	time.Sleep(100 * time.Millisecond)
	if rec.count() != 1 {
		t.Fatalf("got %d flushes after quiet period, want 1", rec.count())
	}
	_, n := rec.last()
	if n.BatchCount != 2 {
		t.Errorf("BatchCount = %d, want 2", n.BatchCount)
	}
}

func TestCoalescerIndependentRecipients(t *testing.T) {
	rec := &flushRecorder{}
	c := NewCoalescer(20*time.Millisecond, rec.record)
	defer c.Stop()

	c.Add(5, testItem(7, 1, "for five"))
	c.Add(6, testItem(7, 1, "for six"))
	c.Add(6, testItem(7, 2, "for six again"))

	time.Sleep(80 * time.Millisecond)

	if rec.count() != 2 {
		t.Fatalf("got %d flushes, want one per recipient", rec.count())
	}
	counts := make(map[uint]int)
	rec.mu.Lock()
	for _, f := range rec.flushes {
		if f.N.BatchCount == 0 {
			counts[f.UserID] = 1
		} else {
			counts[f.UserID] = f.N.BatchCount
		}
	}
	rec.mu.Unlock()
	if counts[5] != 1 || counts[6] != 2 {
		t.Errorf("per-recipient item counts = %v, want map[5:1 6:2]", counts)
	}
}

func TestCoalescerStopSuppressesFlush(t *testing.T) {
	rec := &flushRecorder{}
	c := NewCoalescer(20*time.Millisecond, rec.record)

	c.Add(5, testItem(7, 1, "doomed"))
	c.Stop()

	time.Sleep(80 * time.Millisecond)
	if rec.count() != 0 {
		t.Errorf("stopped coalescer still flushed %d times", rec.count())
	}
}
