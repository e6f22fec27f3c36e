package transformer

import (
	"reflect"
	"testing"

	"flightdw/pkg/records"
)

// setField mutates each record in place by setting key -> value. Used to
// verify that mutation flows through Chain in declared order.
type setField struct {
	key string
	val any
}

func (t setField) Apply(in []records.Record) []records.Record {
	for i := range in {
		in[i][t.key] = t.val
	}
	return in
}

// dropEmpty filters in place by reslicing, keeping only records with a
// non-nil, non-empty value for key.
type dropEmpty struct{ key string }

func (t dropEmpty) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, r := range in {
		if v, ok := r[t.key]; ok && v != nil && v != "" {
			out = append(out, r)
		}
	}
	return out
}

func TestChainApply_Order(t *testing.T) {
	in := []records.Record{{"id": 1}}
	c := Chain{
		setField{key: "a", val: "first"},
		setField{key: "b", val: "second"},
		setField{key: "a", val: "last-wins"},
	}
	out := c.Apply(in)

	want := records.Record{"id": 1, "a": "last-wins", "b": "second"}
	if !reflect.DeepEqual(out[0], want) {
		t.Fatalf("composition mismatch:\n got: %#v\nwant: %#v", out[0], want)
	}
}

func TestChainApply_FilterThenMutate(t *testing.T) {
	in := []records.Record{
		{"keep": "yes", "id": 1},
		{"keep": "", "id": 2},
		{"keep": "yes", "id": 3},
	}
	c := Chain{
		dropEmpty{key: "keep"},
		setField{key: "tag", val: "ok"},
	}
	out := c.Apply(in)
	if len(out) != 2 {
		t.Fatalf("len(out)=%d; want 2", len(out))
	}
	for _, r := range out {
		if r["tag"] != "ok" {
			t.Fatalf("mutate-after-filter missing tag on %#v", r)
		}
	}
}

func TestChainApply_NilAndEmptyChain(t *testing.T) {
	in := []records.Record{{"id": 1}, {"id": 2}}

	var cNil Chain
	if out := cNil.Apply(in); len(out) != len(in) || &out[0] != &in[0] {
		t.Fatalf("nil chain should return the same slice header")
	}

	cEmpty := Chain{}
	if out := cEmpty.Apply(in); !reflect.DeepEqual(out, in) {
		t.Fatalf("empty chain mutated output")
	}

	cNilEntry := Chain{nil, setField{key: "x", val: 1}}
	out := cNilEntry.Apply(in)
	if out[0]["x"] != 1 {
		t.Fatalf("nil chain entries must be skipped, not fatal")
	}
}
