package usecase

import (
	"reflect"
	"testing"
)

func TestLegalFilterAdmitsAtThreshold(t *testing.T) {
	filter := NewLegalFilter(nil, 2)

	if filter.Admit("This Contract is short.") {
		t.Fatalf("expected single indicator to be rejected")
	}
	if !filter.Admit("This contract is covered by the governing law of Ohio.") {
		t.Fatalf("expected two indicators to be admitted")
	}
}

func TestLegalFilterMatchesCaseInsensitiveInVocabularyOrder(t *testing.T) {
	filter := NewLegalFilter(nil, DefaultLegalKeywordThreshold)

	got := filter.Matches("ARBITRATION applies. This agreement is CONFIDENTIAL. Agreement again.")
	want := []string{"Agreement", "This Agreement", "Confidential", "Arbitration"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected matches: got %v want %v", got, want)
	}
}

func TestLegalFilterCountsDistinctPhrasesOnly(t *testing.T) {
	filter := NewLegalFilter(nil, 2)
	if filter.Admit("License. License. License.") {
		t.Fatalf("repeated indicator must count once")
	}
}

func TestLegalFilterDefaultsAndDedup(t *testing.T) {
	filter := NewLegalFilter([]string{"Lease", " lease ", "", "Tenant"}, -1)
	if filter.Threshold() != DefaultLegalKeywordThreshold {
		t.Fatalf("expected default threshold, got %d", filter.Threshold())
	}
	got := filter.Matches("the LEASE binds the tenant")
	if !reflect.DeepEqual(got, []string{"Lease", "Tenant"}) {
		t.Fatalf("unexpected matches: %v", got)
	}
}

func TestLegalFilterEmptyText(t *testing.T) {
	filter := NewLegalFilter(nil, 1)
	if filter.Admit("") {
		t.Fatalf("empty text must be rejected")
	}
}

func TestLegalFilterZeroThresholdAdmitsEverything(t *testing.T) {
	filter := NewLegalFilter(nil, 0)
	if filter.Threshold() != 0 {
		t.Fatalf("expected zero threshold to be kept, got %d", filter.Threshold())
	}
	if !filter.Admit("A shopping list: eggs, milk, bread.") {
		t.Fatalf("zero threshold must admit text without indicators")
	}
}
