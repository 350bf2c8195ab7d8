package nlmaps_test

import (
	"strings"
	"testing"

	mrl "github.com/carolinlawrence/nlmaps-mrl"
	"github.com/carolinlawrence/nlmaps-mrl/dialects/nlmaps"
)

func TestRegisteredUnderNLmaps(t *testing.T) {
	t.Parallel()

	d, err := mrl.NewDialect("nlmaps")
	if err != nil {
		t.Fatalf("NewDialect(nlmaps): %v", err)
	}

	if d.Name() != "nlmaps" {
		t.Errorf("Name() = %q, want nlmaps", d.Name())
	}
}

func linearString(t *testing.T, d nlmaps.Dialect, query string) string {
	t.Helper()

	atoms := d.Linearise(d.Escape(query))

	return strings.Join(atoms, " ")
}

func TestEscapeAndLinearise(t *testing.T) {
	t.Parallel()

	d := nlmaps.Dialect{}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "simple area and amenity",
			query: "query(area(keyval('name','Paris'),keyval('is_in:country','France')),nwr(keyval('cuisine','japanese')),qtype(count))",
			want:  "query@3 area@2 keyval@2 name@0 Paris@s keyval@2 is_in:country@0 France@s nwr@1 keyval@2 cuisine@0 japanese@s qtype@1 count@0",
		},
		{
			name:  "interior apostrophe",
			query: "query(area(keyval('name','Heidelberg'),keyval('de:place','city')),nwr(keyval('name','McDonald's')),qtype(count))",
			want:  "query@3 area@2 keyval@2 name@0 Heidelberg@s keyval@2 de:place@0 city@s nwr@1 keyval@2 name@0 McDonaldSAVEAPOs@s qtype@1 count@0",
		},
		{
			name:  "parens inside value",
			query: "query(area(keyval('name','Heidelberg'),keyval('de:place','city')),nwr(keyval('name','M(c)Donalds')),qtype(count))",
			want:  "query@3 area@2 keyval@2 name@0 Heidelberg@s keyval@2 de:place@0 city@s nwr@1 keyval@2 name@0 MBRACKETOPENcBRACKETCLOSEDonalds@s qtype@1 count@0",
		},
		{
			name:  "space inside value",
			query: "query(area(keyval('name','Heidelberg'),keyval('de:place','city')),nwr(keyval('name','Mc Donalds')),qtype(count))",
			want:  "query@3 area@2 keyval@2 name@0 Heidelberg@s keyval@2 de:place@0 city@s nwr@1 keyval@2 name@0 Mc€Donalds@s qtype@1 count@0",
		},
		{
			name:  "comma inside value",
			query: "query(area(keyval('name','Paris'),keyval('is_in:country','France')),nwr(keyval('cuisine','japanese,italian')),qtype(count))",
			want:  "query@3 area@2 keyval@2 name@0 Paris@s keyval@2 is_in:country@0 France@s nwr@1 keyval@2 cuisine@0 japaneseSAVECOMMAitalian@s qtype@1 count@0",
		},
		{
			name:  "deeply nested around/search/and",
			query: "query(around(center(area(keyval('name','Heidelberg'),keyval('de:place','city')),nwr(keyval('name','Yorckstraße'))),search(nwr(and(keyval('amenity','bank'),keyval('amenity','pharmacy')))),maxdist(DIST_INTOWN),topx(1)),qtype(latlong))",
			want:  "query@2 around@4 center@2 area@2 keyval@2 name@0 Heidelberg@s keyval@2 de:place@0 city@s nwr@1 keyval@2 name@0 Yorckstraße@s search@1 nwr@1 and@2 keyval@2 amenity@0 bank@s keyval@2 amenity@0 pharmacy@s maxdist@1 DIST_INTOWN@0 topx@1 1@0 qtype@1 latlong@0",
		},
		{
			name:  "or with two quoted values",
			query: "query(area(keyval('name','Paris'),keyval('is_in:country','France')),nwr(keyval('amenity','restaurant'),keyval('cuisine',or('greek','italian'))),qtype(count))",
			want:  "query@3 area@2 keyval@2 name@0 Paris@s keyval@2 is_in:country@0 France@s nwr@2 keyval@2 amenity@0 restaurant@s keyval@2 cuisine@0 or@2 greek@s italian@s qtype@1 count@0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := linearString(t, d, tt.query)
			if got != tt.want {
				t.Errorf("linearise(%q)\n got:  %s\n want: %s", tt.query, got, tt.want)
			}
		})
	}
}

func TestReconstructAndDecode(t *testing.T) {
	t.Parallel()

	d := nlmaps.Dialect{}

	tests := []struct {
		name string
		lin  string
		want string
		ok   bool
	}{
		{
			name: "simple area and amenity",
			lin:  "query@3 area@2 keyval@2 name@0 Paris@s keyval@2 is_in:country@0 France@s nwr@1 keyval@2 cuisine@0 japanese@s qtype@1 count@0",
			want: "query(area(keyval('name','Paris'),keyval('is_in:country','France')),nwr(keyval('cuisine','japanese')),qtype(count))",
			ok:   true,
		},
		{
			name: "interior apostrophe",
			lin:  "query@3 area@2 keyval@2 name@0 Heidelberg@s keyval@2 de:place@0 city@s nwr@1 keyval@2 name@0 McDonaldSAVEAPOs@s qtype@1 count@0",
			want: "query(area(keyval('name','Heidelberg'),keyval('de:place','city')),nwr(keyval('name','McDonald's')),qtype(count))",
			ok:   true,
		},
		{
			name: "parens inside value",
			lin:  "query@3 area@2 keyval@2 name@0 Heidelberg@s keyval@2 de:place@0 city@s nwr@1 keyval@2 name@0 MBRACKETOPENcBRACKETCLOSEDonalds@s qtype@1 count@0",
			want: "query(area(keyval('name','Heidelberg'),keyval('de:place','city')),nwr(keyval('name','M(c)Donalds')),qtype(count))",
			ok:   true,
		},
		{
			name: "space inside value",
			lin:  "query@3 area@2 keyval@2 name@0 Heidelberg@s keyval@2 de:place@0 city@s nwr@1 keyval@2 name@0 Mc€Donalds@s qtype@1 count@0",
			want: "query(area(keyval('name','Heidelberg'),keyval('de:place','city')),nwr(keyval('name','Mc Donalds')),qtype(count))",
			ok:   true,
		},
		{
			name: "comma inside value",
			lin:  "query@3 area@2 keyval@2 name@0 Paris@s keyval@2 is_in:country@0 France@s nwr@1 keyval@2 cuisine@0 japaneseSAVECOMMAitalian@s qtype@1 count@0",
			want: "query(area(keyval('name','Paris'),keyval('is_in:country','France')),nwr(keyval('cuisine','japanese,italian')),qtype(count))",
			ok:   true,
		},
		{
			name: "or with two quoted values",
			lin:  "query@3 area@2 keyval@2 name@0 Paris@s keyval@2 is_in:country@0 France@s nwr@2 keyval@2 amenity@0 restaurant@s keyval@2 cuisine@0 or@2 greek@s italian@s qtype@1 count@0",
			want: "query(area(keyval('name','Paris'),keyval('is_in:country','France')),nwr(keyval('amenity','restaurant'),keyval('cuisine',or('greek','italian'))),qtype(count))",
			ok:   true,
		},
		{
			name: "arity overstates functor's true argument count",
			lin:  "query@5 area@2 keyval@2 name@0 Paris@s keyval@2 is_in:country@0 France@s nwr@1 keyval@2 cuisine@0 japanese@s qtype@1 count@0",
			want: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			atoms := splitFields(tt.lin)

			escaped, ok := d.Reconstruct(atoms)
			if ok != tt.ok {
				t.Fatalf("Reconstruct(%q) ok = %v, want %v", tt.lin, ok, tt.ok)
			}

			if !tt.ok {
				return
			}

			got := d.Decode(escaped)
			if got != tt.want {
				t.Errorf("Reconstruct+Decode(%q)\n got:  %s\n want: %s", tt.lin, got, tt.want)
			}
		})
	}
}

func TestInsertPassThrough(t *testing.T) {
	t.Parallel()

	d := nlmaps.Dialect{}

	lin := splitFields("query@3 area@2 keyval@2 name@0 pari keyval@2 is_in:country@0 France@s nwr@1 keyval@2 cuisine@0 japanese@s qtype@1 count@0")
	nonStemmed := splitFields("noise noise Paris noise")
	stemmed := splitFields("noise noise pari noise")

	repaired := nlmaps.InsertPassThrough(lin, nonStemmed, stemmed)

	escaped, ok := d.Reconstruct(repaired)
	if !ok {
		t.Fatalf("Reconstruct after pass-through repair failed")
	}

	got := d.Decode(escaped)
	want := "query(area(keyval('name','Paris'),keyval('is_in:country','France')),nwr(keyval('cuisine','japanese')),qtype(count))"

	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestInsertPassThrough_DuplicateStemUsesLastMatch(t *testing.T) {
	t.Parallel()

	lin := []string{"x"}
	nonStemmed := []string{"P", "Q", "R"}
	stemmed := []string{"x", "a", "x"}

	got := nlmaps.InsertPassThrough(lin, nonStemmed, stemmed)
	want := []string{"R@s"}

	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAddMissingSuffix(t *testing.T) {
	t.Parallel()

	got := nlmaps.AddMissingSuffix([]string{"query@1", "Paris", "count@0"})
	want := []string{"query@1", "Paris@s", "count@0"}

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestStripTopXTags(t *testing.T) {
	t.Parallel()

	got := nlmaps.StripTopXTags("topx@1 <topx>5</topx>")
	want := "topx@1 5@0"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCountArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{",Paris@s)keyval@2", 0},
		{"(a,b,c)", 3},
		{"()", 1},
		{"count)", 0},
	}

	for _, tt := range tests {
		if got := nlmaps.CountArguments(tt.in); got != tt.want {
			t.Errorf("CountArguments(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func splitFields(s string) []string {
	return strings.Fields(s)
}
