package history

import (
	"fmt"
	"testing"
)

func TestGetMissReturnsFalse(t *testing.T) {
	s := New(10)
	if _, ok := s.Get("letter-a", "What happened?"); ok {
		t.Error("Expected cache miss on empty store")
	}
}

func TestPutThenGet(t *testing.T) {
	s := New(10)
	s.Put("letter-a", "What happened?", "Rates held steady.", "test-model")

	e, ok := s.Get("letter-a", "What happened?")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if e.Answer != "Rates held steady." {
		t.Errorf("Unexpected answer: %q", e.Answer)
	}
	if e.Model != "test-model" {
		t.Errorf("Unexpected model: %q", e.Model)
	}
}

func TestGetNormalizesQuestion(t *testing.T) {
	s := New(10)
	s.Put("letter-a", "What happened?", "Answer.", "m")

	if _, ok := s.Get("letter-a", "  WHAT HAPPENED?  "); !ok {
		t.Error("Expected hit for case/whitespace variant of the same question")
	}
	if _, ok := s.Get("letter-b", "What happened?"); ok {
		t.Error("Expected miss for same question about a different letter")
	}
}

func TestPutReplacesExistingAnswer(t *testing.T) {
	s := New(10)
	s.Put("letter-a", "Q?", "old answer", "m")
	s.Put("letter-a", "Q?", "new answer", "m")

	e, ok := s.Get("letter-a", "Q?")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if e.Answer != "new answer" {
		t.Errorf("Expected replaced answer, got %q", e.Answer)
	}

	if got := len(s.History("letter-a")); got != 1 {
		t.Errorf("Expected 1 history entry after replacement, got %d", got)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	s := New(10)
	s.Put("letter-a", "first?", "a1", "m")
	s.Put("letter-a", "second?", "a2", "m")
	s.Put("letter-b", "other?", "b1", "m")

	entries := s.History("letter-a")
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].CreatedAt.Before(entries[1].CreatedAt) {
		t.Error("Expected newest entry first")
	}
	for _, e := range entries {
		if e.LetterID != "letter-a" {
			t.Errorf("Expected only letter-a entries, got %q", e.LetterID)
		}
	}
}

func TestDelete(t *testing.T) {
	s := New(10)
	e := s.Put("letter-a", "Q?", "answer", "m")

	if !s.Delete("letter-a", e.ID) {
		t.Fatal("Expected delete to succeed")
	}
	if _, ok := s.Get("letter-a", "Q?"); ok {
		t.Error("Expected entry gone after delete")
	}
	if s.Delete("letter-a", e.ID) {
		t.Error("Expected second delete to report missing entry")
	}
	if s.Delete("letter-b", e.ID) {
		t.Error("Expected delete under wrong letter to fail")
	}
}

func TestStatsAndClear(t *testing.T) {
	s := New(10)
	s.Put("letter-a", "one?", "a", "m")
	s.Put("letter-a", "two?", "b", "m")
	s.Put("letter-b", "three?", "c", "m")

	stats := s.Stats()
	if stats.Insights != 3 {
		t.Errorf("Expected 3 insights, got %d", stats.Insights)
	}
	if stats.Letters != 2 {
		t.Errorf("Expected 2 letters with history, got %d", stats.Letters)
	}

	s.Clear()
	stats = s.Stats()
	if stats.Insights != 0 || stats.Letters != 0 {
		t.Errorf("Expected empty store after clear, got %+v", stats)
	}
}

func TestBoundedEviction(t *testing.T) {
	s := New(3)
	for i := 0; i < 5; i++ {
		s.Put("letter-a", fmt.Sprintf("question %d?", i), "answer", "m")
	}

	if got := s.Stats().Insights; got != 3 {
		t.Fatalf("Expected store bounded at 3 entries, got %d", got)
	}
	if _, ok := s.Get("letter-a", "question 0?"); ok {
		t.Error("Expected oldest entry evicted")
	}
	if _, ok := s.Get("letter-a", "question 4?"); !ok {
		t.Error("Expected newest entry retained")
	}
}
