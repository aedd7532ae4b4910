package state

import (
	"sync"
	"testing"
)

const stepTest Step = "awaiting_test"

func TestGetAbsentReturnsFreshSession(t *testing.T) {
	store := NewMemoryStore()
	s := store.Get(5)
	if s.Step != StepNone {
		t.Fatalf("step = %q, want %q", s.Step, StepNone)
	}
	if s.UserID != 5 {
		t.Fatalf("user id = %d", s.UserID)
	}
	if s.Answers == nil || len(s.Answers) != 0 {
		t.Fatalf("answers = %#v", s.Answers)
	}
	if store.Active() != 0 {
		t.Fatalf("Get must not create sessions, active = %d", store.Active())
	}
}

func TestSetStoresCopy(t *testing.T) {
	store := NewMemoryStore()
	s := store.Get(1)
	s.Step = stepTest
	s.Answers["age"] = "19"
	store.Set(1, s)

	s.Answers["age"] = "mutated"
	got := store.Get(1)
	if v, _ := got.Answer("age"); v != "19" {
		t.Fatalf("stored answer leaked caller mutation: %q", v)
	}

	got.Answers["age"] = "mutated again"
	if v, _ := store.Get(1).Answer("age"); v != "19" {
		t.Fatalf("Get returned shared map: %q", v)
	}
	if store.Get(1).UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt must be stamped on Set")
	}
}

func TestClearAndActive(t *testing.T) {
	store := NewMemoryStore()
	store.Set(1, Session{Step: stepTest})
	store.Set(2, Session{Step: stepTest})
	store.Set(2, Session{Step: stepTest, Answers: map[string]string{"a": "b"}})
	if store.Active() != 2 {
		t.Fatalf("active = %d, want 2", store.Active())
	}
	store.Clear(1)
	store.Clear(1)
	if store.Active() != 1 {
		t.Fatalf("active = %d, want 1", store.Active())
	}
	if store.Get(1).Step != StepNone {
		t.Fatal("cleared session must read back as StepNone")
	}
}

func TestSetNoneWithoutAnswersClears(t *testing.T) {
	store := NewMemoryStore()
	store.Set(3, Session{Step: stepTest})
	store.Set(3, Session{Step: StepNone})
	if store.Active() != 0 {
		t.Fatalf("active = %d, want 0", store.Active())
	}
}

func TestConcurrentDistinctUsers(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := int64(1); i <= 64; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s := store.Get(id)
				s.Step = stepTest
				s.Answers["n"] = "x"
				store.Set(id, s)
			}
		}(i)
	}
	wg.Wait()
	if store.Active() != 64 {
		t.Fatalf("active = %d, want 64", store.Active())
	}
}
