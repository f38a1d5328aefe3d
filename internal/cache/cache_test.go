package cache

import (
	"testing"
	"time"
)

func TestSetGetRoundtrip(t *testing.T) {
	c := New(true)
	etag := c.Set("trends:week5", []byte(`{"hot":[]}`), time.Minute)
	if etag == "" {
		t.Fatal("expected an etag")
	}

	data, gotETag, ok := c.Get("trends:week5")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if string(data) != `{"hot":[]}` {
		t.Errorf("data = %q", data)
	}
	if gotETag != etag {
		t.Errorf("etag = %q, want %q", gotETag, etag)
	}
}

func TestExpiredEntryMisses(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), -time.Second)
	if _, _, ok := c.Get("k"); ok {
		t.Fatal("expired entry must miss")
	}
}

func TestDisabledCacheStillComputesETag(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	if etag == "" {
		t.Fatal("disabled cache must still return an etag")
	}
	if _, _, ok := c.Get("k"); ok {
		t.Fatal("disabled cache must never hit")
	}
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("body"))
	if !CheckETagMatch(etag, etag) {
		t.Error("exact match must succeed")
	}
	if !CheckETagMatch("*", etag) {
		t.Error("wildcard must match")
	}
	if CheckETagMatch("", etag) {
		t.Error("empty header must not match")
	}
	if CheckETagMatch(`W/"other"`, etag) {
		t.Error("different etag must not match")
	}
}
