package generic_test

import (
	"strings"
	"testing"

	mrl "github.com/carolinlawrence/nlmaps-mrl"
	"github.com/carolinlawrence/nlmaps-mrl/dialects/generic"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	d := generic.Dialect{}

	query := "query(area(name),nwr(cuisine))"

	atoms := d.Linearise(d.Escape(query))

	got, ok := d.Reconstruct(atoms)
	if !ok {
		t.Fatalf("Reconstruct(%v) failed", atoms)
	}

	if got != query {
		t.Errorf("round trip: got %q, want %q", got, query)
	}
}

func TestRegisteredUnderGeneric(t *testing.T) {
	t.Parallel()

	d, err := mrl.NewDialect("generic")
	if err != nil {
		t.Fatalf("NewDialect(generic): %v", err)
	}

	if d.Name() != "generic" {
		t.Errorf("Name() = %q, want generic", d.Name())
	}
}

func TestLineariseAtomFormat(t *testing.T) {
	t.Parallel()

	d := generic.Dialect{}

	atoms := d.Linearise("a(b,c)")

	want := "a@2 b@0 c@0"
	if got := strings.Join(atoms, " "); got != want {
		t.Errorf("Linearise = %q, want %q", got, want)
	}
}
