package model

import (
	"reflect"
	"testing"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	t.Run("one level of nesting", func(t *testing.T) {
		t.Parallel()
		got := Flatten(map[string]any{"a": map[string]any{"b": 1}})
		want := Record{"a.b": 1}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("arbitrary depth", func(t *testing.T) {
		t.Parallel()
		got := Flatten(map[string]any{
			"_links":     map[string]any{"self": map[string]any{"href": "bold/1", "title": "bold"}},
			"provenance": map[string]any{"md5sum": "abc", "settings": map[string]any{"fd_thres": 0.2}},
			"snr":        5.5,
		})
		want := Record{
			"_links.self.href":             "bold/1",
			"_links.self.title":            "bold",
			"provenance.md5sum":            "abc",
			"provenance.settings.fd_thres": 0.2,
			"snr":                          5.5,
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("empty nested mapping contributes no keys", func(t *testing.T) {
		t.Parallel()
		got := Flatten(map[string]any{"rating": map[string]any{}, "aor": 0.1})
		if len(got) != 1 {
			t.Fatalf("expected 1 key, got %v", got)
		}
		if _, ok := got["rating"]; ok {
			t.Error("empty mapping should not be kept as a value")
		}
	})

	t.Run("leaf values are preserved", func(t *testing.T) {
		t.Parallel()
		list := []any{0.0, 0.5, 1.0}
		got := Flatten(map[string]any{
			"bids_meta": map[string]any{"SliceTiming": list, "TaskName": nil, "flag": true},
		})
		if !reflect.DeepEqual(got["bids_meta.SliceTiming"], list) {
			t.Errorf("expected list to be kept, got %v", got["bids_meta.SliceTiming"])
		}
		if v, ok := got["bids_meta.TaskName"]; !ok || v != nil {
			t.Errorf("expected nil leaf to be kept, got %v (present=%v)", v, ok)
		}
		if got["bids_meta.flag"] != true {
			t.Errorf("expected boolean leaf, got %v", got["bids_meta.flag"])
		}
	})

	t.Run("idempotent on flat records", func(t *testing.T) {
		t.Parallel()
		flat := Flatten(map[string]any{"a": map[string]any{"b": 1, "c": "x"}, "d": 2.5})
		again := Flatten(flat)
		if !reflect.DeepEqual(flat, again) {
			t.Errorf("expected %v, got %v", flat, again)
		}
	})

	t.Run("no value is a mapping after flattening", func(t *testing.T) {
		t.Parallel()
		got := Flatten(map[string]any{
			"a": map[string]any{"b": map[string]any{"c": map[string]any{"d": 1}}},
			"e": Record{"f": 2},
		})
		for k, v := range got {
			switch v.(type) {
			case map[string]any, Record:
				t.Errorf("key %q still holds a mapping", k)
			}
		}
		if got["a.b.c.d"] != 1 || got["e.f"] != 2 {
			t.Errorf("unexpected flattening: %v", got)
		}
	})
}

func TestClean(t *testing.T) {
	t.Parallel()

	t.Run("removes listed fields", func(t *testing.T) {
		t.Parallel()
		rec := Record{"_etag": "x", "_links.self.href": "y", "snr": 1.0}
		Clean(rec, DefaultFieldsToRemove())
		if len(rec) != 1 || rec["snr"] != 1.0 {
			t.Errorf("expected only snr to remain, got %v", rec)
		}
	})

	t.Run("absent fields are ignored", func(t *testing.T) {
		t.Parallel()
		rec := Record{"snr": 1.0}
		Clean(rec, []string{"nope", "_etag"})
		if len(rec) != 1 {
			t.Errorf("expected record unchanged, got %v", rec)
		}
	})

	t.Run("CleanAll cleans every record", func(t *testing.T) {
		t.Parallel()
		recs := []Record{{"_etag": 1, "a": 1}, {"_etag": 2, "b": 2}}
		CleanAll(recs, []string{"_etag"})
		for i, rec := range recs {
			if _, ok := rec["_etag"]; ok {
				t.Errorf("record %d still has _etag", i)
			}
		}
	})
}
