package service

import (
	"regexp"
	"sync"
	"testing"
	"time"
)

var orderNoPattern = regexp.MustCompile(`^LP\d{8}$`)

func TestFormatOrderNoUsesLastEightDigits(t *testing.T) {
	if got := FormatOrderNo(1760000012345); got != "LP00012345" {
		t.Fatalf("unexpected order no: %s", got)
	}
	if got := FormatOrderNo(1761234567890); got != "LP34567890" {
		t.Fatalf("unexpected order no: %s", got)
	}
	if got := FormatOrderNo(42); got != "LP00000042" {
		t.Fatalf("short timestamps should be zero padded, got %s", got)
	}
}

func TestOrderNoGeneratorMonotonicWithinSameMillisecond(t *testing.T) {
	fixed := time.UnixMilli(1761234567890)
	gen := NewOrderNoGenerator(func() time.Time { return fixed })

	first := gen.Next()
	second := gen.Next()
	third := gen.Next()
	if first != "LP34567890" || second != "LP34567891" || third != "LP34567892" {
		t.Fatalf("unexpected sequence: %s %s %s", first, second, third)
	}
}

func TestOrderNoGeneratorClockGoingBackwards(t *testing.T) {
	readings := []int64{1761234567890, 1761234567000, 1761234569000}
	idx := 0
	gen := NewOrderNoGenerator(func() time.Time {
		ms := readings[idx]
		idx++
		return time.UnixMilli(ms)
	})
	got := []string{gen.Next(), gen.Next(), gen.Next()}
	want := []string{"LP34567890", "LP34567891", "LP34569000"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reading %d: want %s got %s", i, want[i], got[i])
		}
	}
}

func TestOrderNoGeneratorConcurrentUnique(t *testing.T) {
	gen := NewOrderNoGenerator(nil)
	var mu sync.Mutex
	seen := make(map[string]struct{})
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orderNo := gen.Next()
			mu.Lock()
			seen[orderNo] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != 200 {
		t.Fatalf("want 200 unique order numbers got %d", len(seen))
	}
	for orderNo := range seen {
		if !orderNoPattern.MatchString(orderNo) {
			t.Fatalf("unexpected format: %s", orderNo)
		}
	}
}
