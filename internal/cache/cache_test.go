package cache

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDomainSetKey_OrderAndCaseInsensitive(t *testing.T) {
	a := DomainSetKey([]string{"DealCheck.io", " zilculator.com "})
	b := DomainSetKey([]string{"zilculator.com", "dealcheck.io"})

	if a != b {
		t.Errorf("Same domain set must map to one key: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "prevet:v1:") {
		t.Errorf("Expected versioned key prefix, got %q", a)
	}
}

func TestDomainSetKey_DistinctSets(t *testing.T) {
	a := DomainSetKey([]string{"a.io", "b.io"})
	b := DomainSetKey([]string{"a.io", "c.io"})

	if a == b {
		t.Error("Different domain sets must not collide")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Errorf("Expected payload back, got %q (found=%v)", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "cache"), time.Hour)

	key := DomainSetKey([]string{"a.io"})
	if err := c.Set(key, []byte("dataset"), time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	val, found := c.Get(key)
	if !found || !bytes.Equal(val, []byte("dataset")) {
		t.Errorf("Expected dataset back, got %q (found=%v)", val, found)
	}
}

func TestDiskCache_ExpiredEntryIsMiss(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Set("k", []byte("old"), time.Nanosecond); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to miss")
	}
	// The stale file is reaped on read.
	if _, found := c.Get("k"); found {
		t.Error("Expected entry to stay gone")
	}
}

func TestDiskCache_MissingDirIsMiss(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "never-created"), time.Hour)

	if _, found := c.Get("k"); found {
		t.Error("Expected miss for absent cache dir")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := c.Set("k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Drop the memory layer only; the next read falls through to disk and
	// repopulates memory.
	if err := c.memory.Clear(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.memory.Get("k"); found {
		t.Fatal("Expected memory layer cleared")
	}

	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("v")) {
		t.Fatalf("Expected disk hit, got %q (found=%v)", val, found)
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("Expected disk hit promoted to memory")
	}
}

func TestLayeredCache_DeleteRemovesBothLayers(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Hour)

	if err := c.Set("k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}
