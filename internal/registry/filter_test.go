package registry

import "testing"

func TestHasLabelsEmptySearchMatches(t *testing.T) {
	target := map[string]string{"foo": "bar", "blah": "blah"}
	if !hasLabels(map[string]string{}, target) {
		t.Error("empty search should match any target")
	}
}

func TestHasLabelsMissingKeyFails(t *testing.T) {
	search := map[string]string{"notreal": "a non existent value", "foo": "bar"}
	target := map[string]string{"foo": "bar", "blah": "blah"}
	if hasLabels(search, target) {
		t.Error("search with an unmatched key should fail")
	}
}

func TestHasLabelsAllKeysPresentMatches(t *testing.T) {
	search := map[string]string{"foo": "bar", "blah": "blah"}
	target := map[string]string{"foo": "bar", "blah": "blah"}
	if !hasLabels(search, target) {
		t.Error("search that is a subset of target should match")
	}
}

func TestHasLabelsWrongValueFails(t *testing.T) {
	search := map[string]string{"foo": "baz"}
	target := map[string]string{"foo": "bar"}
	if hasLabels(search, target) {
		t.Error("search with a mismatched value should fail")
	}
}
