package cfgvalidate

import (
	"context"
	"strings"
	"testing"
)

func TestValidate_NoDecoderConfigured(t *testing.T) {
	t.Parallel()

	v := New("", "", nil)

	ok, err := v.Validate(context.Background(), "query(area(keyval('name','Paris')))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok {
		t.Error("expected Validate to report false with no decoder configured")
	}
}

func TestRetokenise(t *testing.T) {
	t.Parallel()

	in := "query(area(keyval('name','Paris')),qtype(count))"

	got := retokenise(in)

	if got == in {
		t.Error("retokenise should rewrite the query, got identical output")
	}

	for _, want := range []string{"( ", " )", " , "} {
		if !strings.Contains(got, want) {
			t.Errorf("retokenise(%q) = %q, missing %q", in, got, want)
		}
	}
}
