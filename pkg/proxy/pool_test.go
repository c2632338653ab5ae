package proxy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPool_RoundRobin(t *testing.T) {
	pool := NewPool(Config{})
	if err := pool.Add("127.0.0.1:8080", "http://127.0.0.1:8081", "socks5://127.0.0.1:9050"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"http://127.0.0.1:8080",
		"http://127.0.0.1:8081",
		"socks5://127.0.0.1:9050",
		"http://127.0.0.1:8080",
	}
	for i, w := range want {
		if got := pool.Next(); got == nil || got.String() != w {
			t.Errorf("call %d: Expected %s, got %v", i, w, got)
		}
	}
}

func TestPool_Cooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pool := NewPool(Config{MaxFailures: 2, Cooldown: time.Minute})
	pool.now = func() time.Time { return now }
	_ = pool.Add("http://a", "http://b")

	a := pool.Next()
	pool.Report(a, errors.New("refused"))
	pool.Report(a, errors.New("refused"))

	for i := 0; i < 3; i++ {
		if got := pool.Next(); got.String() != "http://b" {
			t.Fatalf("Expected only http://b while a cools down, got %v", got)
		}
	}

	b := pool.Next()
	pool.Report(b, errors.New("refused"))
	pool.Report(b, errors.New("refused"))
	if got := pool.Next(); got != nil {
		t.Fatalf("Expected nil with every proxy benched, got %v", got)
	}

	now = now.Add(2 * time.Minute)
	if got := pool.Next(); got == nil {
		t.Fatal("Expected a proxy after cooldown")
	}
}

func TestPool_SuccessResetsStreak(t *testing.T) {
	pool := NewPool(Config{MaxFailures: 2})
	_ = pool.Add("http://a")

	a := pool.Next()
	pool.Report(a, errors.New("refused"))
	pool.Report(a, nil)
	pool.Report(a, errors.New("refused"))

	if got := pool.Next(); got == nil {
		t.Error("Expected proxy to stay available after a success")
	}
}

func TestPool_Load(t *testing.T) {
	pool := NewPool(Config{})
	err := pool.Load(strings.NewReader("# egress\n\nhttp://p1:3128\n p2:3128 \n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.Len() != 2 {
		t.Errorf("Expected 2 proxies, got %d", pool.Len())
	}

	path := filepath.Join(t.TempDir(), "proxies.txt")
	if err := os.WriteFile(path, []byte("http://p3:3128\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := pool.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.Len() != 3 {
		t.Errorf("Expected 3 proxies, got %d", pool.Len())
	}

	if err := pool.LoadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
	if err := pool.Add("http://"); err == nil {
		t.Error("Expected error for proxy without host")
	}
}

func TestPool_Nil(t *testing.T) {
	var pool *Pool
	if pool.Next() != nil || pool.Len() != 0 {
		t.Error("nil pool should be empty")
	}
	pool.Report(nil, nil)
}
