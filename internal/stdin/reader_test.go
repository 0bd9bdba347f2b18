package stdin

import (
	"strings"
	"testing"
	"time"
)

func TestReaderPublishesCompletedLines(t *testing.T) {
	r := New(strings.NewReader("c\nn\nj 0x200\n"))

	want := []string{"c", "n", "j 0x200"}
	for _, w := range want {
		deadline := time.Now().Add(time.Second)
		for {
			if line, ok := r.ReadLine(); ok {
				if line != w {
					t.Fatalf("got %q, want %q", line, w)
				}
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for line %q", w)
			}
			time.Sleep(time.Millisecond)
		}
	}
}

func TestInjectDeliversLatestPrefill(t *testing.T) {
	r := New(strings.NewReader(""))
	r.Inject("first")
	r.Inject("second")

	got, ok := r.TakeInjected()
	if !ok || got != "second" {
		t.Fatalf("TakeInjected() = (%q, %v), want (\"second\", true)", got, ok)
	}
	if _, ok := r.TakeInjected(); ok {
		t.Fatal("expected no further injected value")
	}
}
