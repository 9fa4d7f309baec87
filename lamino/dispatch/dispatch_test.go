package dispatch

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestSplitCoversRange(t *testing.T) {
	cases := []struct{ n, blocks int }{
		{10, 3},
		{7, 7},
		{5, 9},
		{1, 1},
		{100, 1},
	}

	for _, c := range cases {
		ranges := Split(c.n, c.blocks)
		covered := 0
		prev := 0
		for _, r := range ranges {
			if r.Lo != prev {
				t.Fatalf("n=%d blocks=%d: gap before %d", c.n, c.blocks, r.Lo)
			}
			if r.Len() <= 0 {
				t.Fatalf("n=%d blocks=%d: empty block", c.n, c.blocks)
			}
			covered += r.Len()
			prev = r.Hi
		}
		if covered != c.n {
			t.Fatalf("n=%d blocks=%d: covered %d", c.n, c.blocks, covered)
		}
		if len(ranges) > c.blocks {
			t.Fatalf("n=%d blocks=%d: %d ranges", c.n, c.blocks, len(ranges))
		}
	}
}

func TestSplitEmpty(t *testing.T) {
	if got := Split(0, 4); got != nil {
		t.Fatalf("Split(0,4)=%v, want nil", got)
	}
}

func TestRunVisitsEveryIndex(t *testing.T) {
	const n = 1000
	var sum atomic.Int64

	err := Run(n, 7, 4, func(r Range) error {
		local := int64(0)
		for i := r.Lo; i < r.Hi; i++ {
			local += int64(i)
		}
		sum.Add(local)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := int64(n*(n-1)) / 2
	if sum.Load() != want {
		t.Fatalf("sum=%d, want %d", sum.Load(), want)
	}
}

func TestRunSequentialFallback(t *testing.T) {
	order := []int{}
	err := Run(10, 5, 1, func(r Range) error {
		order = append(order, r.Lo)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 5 {
		t.Fatalf("ran %d blocks, want 5", len(order))
	}
	for i := 1; i < len(order); i++ {
		if order[i] <= order[i-1] {
			t.Fatal("sequential path must run blocks in order")
		}
	}
}

func TestRunPropagatesError(t *testing.T) {
	sentinel := errors.New("boom")

	err := Run(100, 10, 4, func(r Range) error {
		if r.Lo >= 50 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want wrapped sentinel", err)
	}
}
