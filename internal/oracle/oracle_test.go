package oracle

import (
	"errors"
	"testing"

	"PerpMarket/internal/fixed"
)

func TestStoreAppendAssignsDenseVersions(t *testing.T) {
	s := NewStore()

	for i := 1; i <= 3; i++ {
		v, err := s.Append(int64(1000+i), fixed.D6("100"))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if v.Version != uint64(i) {
			t.Fatalf("version = %d, want %d", v.Version, i)
		}
	}

	if got := s.Current().Version; got != 3 {
		t.Fatalf("current = %d, want 3", got)
	}
}

func TestStoreAtReturnsPublishedRecords(t *testing.T) {
	s := NewStore()
	s.Append(1000, fixed.D6("100"))
	s.Append(1001, fixed.D6("105"))

	v, err := s.At(1)
	if err != nil {
		t.Fatalf("at 1: %v", err)
	}
	if v.Price.Cmp(fixed.D6("100")) != 0 || v.Timestamp != 1000 {
		t.Errorf("record = %+v", v)
	}

	// Version 0 is the pre-genesis sentinel.
	v, err = s.At(0)
	if err != nil {
		t.Fatalf("at 0: %v", err)
	}
	if v.Version != 0 || !v.Price.IsZero() || v.Timestamp != 0 {
		t.Errorf("sentinel = %+v", v)
	}

	if _, err := s.At(3); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("unpublished version err = %v, want ErrInvalidVersion", err)
	}
}

func TestStoreRejectsBackwardsTimestamps(t *testing.T) {
	s := NewStore()
	s.Append(1000, fixed.D6("100"))

	if _, err := s.Append(999, fixed.D6("100")); err == nil {
		t.Fatal("backwards timestamp accepted")
	}

	// Equal timestamps are fine: versions can share an instant.
	if _, err := s.Append(1000, fixed.D6("101")); err != nil {
		t.Fatalf("equal timestamp rejected: %v", err)
	}
}

func TestStoreEmptyCurrent(t *testing.T) {
	s := NewStore()
	if got := s.Current(); got.Version != 0 {
		t.Fatalf("empty current = %+v, want sentinel", got)
	}
	v, err := s.Sync()
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if v.Version != 0 {
		t.Fatalf("sync = %+v, want sentinel", v)
	}
}
