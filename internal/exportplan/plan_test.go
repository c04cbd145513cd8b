package exportplan

import (
	"reflect"
	"strings"
	"testing"
)

func TestPlanPreservesOriginalColumns(t *testing.T) {
	t.Parallel()

	headers := []string{"Weird Col !", "ДРУГАЯ колонка", "x", "x", "price"}
	s := Plan(headers, "shopify")

	if !reflect.DeepEqual(s.OriginalColumns, headers) {
		t.Fatalf("OriginalColumns = %q, want input verbatim", s.OriginalColumns)
	}

	// The plan copies the input: mutating it later must not leak in.
	headers[0] = "mutated"
	if s.OriginalColumns[0] != "Weird Col !" {
		t.Error("Plan must copy the header slice")
	}
}

func TestPlanGeneratedSets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		platform     string
		wantPlatform []string
	}{
		{name: "shopify", platform: "shopify", wantPlatform: []string{"gen_handle", "gen_tags"}},
		{name: "woocommerce", platform: "woocommerce", wantPlatform: []string{"gen_short_description", "gen_tags"}},
		{name: "insales", platform: "insales", wantPlatform: []string{"gen_seo_keywords"}},
		{name: "unknown gets standard only", platform: "unknown", wantPlatform: nil},
		{name: "unregistered platform", platform: "tilda", wantPlatform: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := Plan([]string{"name", "price"}, tt.platform)

			wantStd := []string{"gen_title", "gen_description", "gen_seo_title", "gen_seo_description", "gen_keywords"}
			if !reflect.DeepEqual(s.StandardGenerated, wantStd) {
				t.Errorf("StandardGenerated = %q, want %q", s.StandardGenerated, wantStd)
			}
			if !reflect.DeepEqual(s.PlatformGenerated, tt.wantPlatform) {
				t.Errorf("PlatformGenerated = %q, want %q", s.PlatformGenerated, tt.wantPlatform)
			}
			if want := 2 + len(wantStd) + len(tt.wantPlatform); s.TotalColumns != want {
				t.Errorf("TotalColumns = %d, want %d", s.TotalColumns, want)
			}
		})
	}
}

func TestPlanAllColumnsOrder(t *testing.T) {
	t.Parallel()

	s := Plan([]string{"b", "a"}, "shopify")
	all := s.AllColumns()

	if all[0] != "b" || all[1] != "a" {
		t.Fatalf("originals must come first in original order, got %q", all[:2])
	}
	for _, col := range all[2:] {
		if !strings.HasPrefix(col, GeneratedPrefix) {
			t.Errorf("generated column %q missing %q prefix", col, GeneratedPrefix)
		}
	}
	if len(all) != s.TotalColumns {
		t.Errorf("AllColumns = %d entries, TotalColumns = %d", len(all), s.TotalColumns)
	}
}

func TestPlanGrowthRatio(t *testing.T) {
	t.Parallel()

	s := Plan([]string{"a", "b", "c", "d", "e"}, "unknown")
	if s.GrowthRatio != 1.0 {
		t.Errorf("GrowthRatio = %v, want 1.0 (5 generated on 5 originals)", s.GrowthRatio)
	}

	empty := Plan(nil, "unknown")
	if empty.GrowthRatio != 0 {
		t.Errorf("GrowthRatio on empty headers = %v, want 0", empty.GrowthRatio)
	}
}

func TestPlanIsPure(t *testing.T) {
	t.Parallel()

	a := Plan([]string{"x", "y"}, "shopify")
	b := Plan([]string{"x", "y"}, "shopify")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same input produced different plans: %+v vs %+v", a, b)
	}
}
