package scanpos_test

import (
	"testing"

	"github.com/carolinlawrence/nlmaps-mrl/internal/scanpos"
)

func TestAtIndex(t *testing.T) {
	t.Parallel()

	atoms := []string{"query@3", "area@1", "bad"}

	pos := scanpos.AtIndex("stdin", atoms, 2)
	if pos.Line != 1 {
		t.Errorf("Line = %d, want 1", pos.Line)
	}

	want := len("query@3 area@1 ") + 1
	if pos.Column != want {
		t.Errorf("Column = %d, want %d", pos.Column, want)
	}
}

func TestFirstUntagged(t *testing.T) {
	t.Parallel()

	if got := scanpos.FirstUntagged([]string{"a@0", "b@0"}); got != -1 {
		t.Errorf("FirstUntagged = %d, want -1", got)
	}

	if got := scanpos.FirstUntagged([]string{"a@0", "bare", "c@0"}); got != 1 {
		t.Errorf("FirstUntagged = %d, want 1", got)
	}
}
