package wasm_test

import (
	"testing"

	"github.com/wippyai/wasm-tools/wasm"
)

func TestFeaturesHasEnableDisable(t *testing.T) {
	f := wasm.FeaturesMVP.Enable(wasm.FeatureSimd | wasm.FeatureThreads)
	if !f.Has(wasm.FeatureSimd) || !f.Has(wasm.FeatureThreads) {
		t.Error("enabled features not reported")
	}
	if f.Has(wasm.FeatureTailCall) {
		t.Error("unrelated feature reported as enabled")
	}
	f = f.Disable(wasm.FeatureThreads)
	if f.Has(wasm.FeatureThreads) {
		t.Error("disabled feature still reported")
	}
}

func TestFeaturesStringParseRoundTrip(t *testing.T) {
	cases := []wasm.Features{
		wasm.FeaturesMVP,
		wasm.FeatureSimd,
		wasm.FeatureBulkMemory | wasm.FeatureReferenceTypes,
		wasm.FeaturesAll,
	}
	for _, f := range cases {
		parsed, unknown := wasm.ParseFeatures(f.String())
		if len(unknown) != 0 {
			t.Errorf("%s: unknown names %v", f, unknown)
		}
		if parsed != f {
			t.Errorf("round trip of %s yielded %s", f, parsed)
		}
	}
}

func TestParseFeaturesUnknown(t *testing.T) {
	_, unknown := wasm.ParseFeatures("simd,flux-capacitor")
	if len(unknown) != 1 || unknown[0] != "flux-capacitor" {
		t.Errorf("unknown = %v", unknown)
	}
}

func TestParseFeaturesAll(t *testing.T) {
	f, unknown := wasm.ParseFeatures("all")
	if len(unknown) != 0 || f != wasm.FeaturesAll {
		t.Errorf("all = %s, unknown %v", f, unknown)
	}
}
