package watch

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestDebounceCoalesces(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)

	var mu sync.Mutex
	var got []string
	d.OnFire(func(paths []string) {
		mu.Lock()
		got = paths
		mu.Unlock()
	})

	d.Push("b.go")
	d.Push("a.go")
	d.Push("a.go")
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	want := []string{"a.go", "b.go"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("batch = %v, want sorted dedup %v", got, want)
	}
}

func TestDebounceFlushFiresImmediately(t *testing.T) {
	d := NewDebouncer(time.Hour)

	fired := make(chan []string, 1)
	d.OnFire(func(paths []string) { fired <- paths })

	d.Push("x.go")
	d.Flush()

	select {
	case paths := <-fired:
		if len(paths) != 1 || paths[0] != "x.go" {
			t.Fatalf("flush batch = %v", paths)
		}
	case <-time.After(time.Second):
		t.Fatalf("flush did not fire")
	}
}

func TestDebounceIgnoresBlankPaths(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	fired := false
	d.OnFire(func(paths []string) { fired = true })
	d.Push("  ")
	time.Sleep(150 * time.Millisecond)

	if fired {
		t.Fatalf("blank push should not fire")
	}
}

func TestDebounceNilSafe(t *testing.T) {
	var d *Debouncer
	d.Push("a.go")
	d.Flush()
	d.OnFire(nil)
}
