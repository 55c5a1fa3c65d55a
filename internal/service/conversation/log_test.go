package conversation

import (
	"fmt"
	"testing"
)

func TestAppendIssuesIdsWhenMissing(t *testing.T) {
	l := NewLog(10)

	first := l.Append("", "user", "问题一")
	second := l.Append("", "user", "问题二")

	if first == "" || first == second {
		t.Fatalf("expected distinct issued ids, got %q and %q", first, second)
	}

	if got := l.Append(first, "assistant", "回答一"); got != first {
		t.Fatalf("explicit id must be kept, got %q", got)
	}
}

func TestWindowEvictsOldestExchanges(t *testing.T) {
	l := NewLog(3)

	for i := 0; i < 5; i++ {
		l.Append("conv", "user", fmt.Sprintf("message %d", i))
	}

	history := l.List("conv", 0)
	if len(history) != 3 {
		t.Fatalf("expected the window of 3, got %d", len(history))
	}
	if history[0].Content != "message 2" {
		t.Fatalf("oldest exchanges should be evicted, got %q first", history[0].Content)
	}
}

func TestListLimitAndUnknownConversation(t *testing.T) {
	l := NewLog(10)

	l.Append("conv", "user", "a")
	l.Append("conv", "assistant", "b")
	l.Append("conv", "user", "c")

	limited := l.List("conv", 2)
	if len(limited) != 2 || limited[0].Content != "b" {
		t.Fatalf("expected the 2 latest exchanges, got %+v", limited)
	}

	if got := l.List("missing", 0); len(got) != 0 {
		t.Fatalf("unknown conversation should be empty, got %+v", got)
	}
}
