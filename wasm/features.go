package wasm

import "strings"

// Features is a bitset of optional WebAssembly proposals. The MVP is
// always enabled; each constant below independently toggles the opcodes,
// types, and validation relaxations of one proposal. Use of a gated
// opcode or type with the feature disabled is a validation error, never
// a parse error, so callers can still introspect feature use.
type Features uint32

const (
	FeatureMutableGlobals Features = 1 << iota
	FeatureSignExtension
	FeatureSaturatingFloatToInt
	FeatureMultiValue
	FeatureReferenceTypes
	FeatureBulkMemory
	FeatureSimd
	FeatureThreads
	FeatureTailCall
	FeatureExceptions
	FeatureMemory64
)

// FeaturesMVP enables nothing beyond the WebAssembly 1.0 core.
const FeaturesMVP Features = 0

// FeaturesAll enables every supported proposal.
const FeaturesAll Features = FeatureMutableGlobals | FeatureSignExtension |
	FeatureSaturatingFloatToInt | FeatureMultiValue | FeatureReferenceTypes |
	FeatureBulkMemory | FeatureSimd | FeatureThreads | FeatureTailCall |
	FeatureExceptions | FeatureMemory64

var featureNames = map[Features]string{
	FeatureMutableGlobals:       "mutable-globals",
	FeatureSignExtension:        "sign-extension",
	FeatureSaturatingFloatToInt: "saturating-float-to-int",
	FeatureMultiValue:           "multi-value",
	FeatureReferenceTypes:       "reference-types",
	FeatureBulkMemory:           "bulk-memory",
	FeatureSimd:                 "simd",
	FeatureThreads:              "threads",
	FeatureTailCall:             "tail-call",
	FeatureExceptions:           "exceptions",
	FeatureMemory64:             "memory64",
}

// Has reports whether all bits of f2 are enabled.
func (f Features) Has(f2 Features) bool {
	return f&f2 == f2
}

// Enable returns f with the given bits set.
func (f Features) Enable(f2 Features) Features {
	return f | f2
}

// Disable returns f with the given bits cleared.
func (f Features) Disable(f2 Features) Features {
	return f &^ f2
}

// String returns the comma-separated names of the enabled proposals.
func (f Features) String() string {
	if f == 0 {
		return "mvp"
	}
	var names []string
	for bit := Features(1); bit != 0 && bit <= f; bit <<= 1 {
		if f.Has(bit) {
			if name, ok := featureNames[bit]; ok {
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, ",")
}

// ParseFeatures parses a comma-separated feature list as printed by
// String. The name "all" enables everything, "mvp" nothing. Unknown
// names are reported.
func ParseFeatures(s string) (Features, []string) {
	var f Features
	var unknown []string
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		switch part {
		case "", "mvp":
			continue
		case "all":
			f = FeaturesAll
			continue
		}
		found := false
		for bit, name := range featureNames {
			if name == part {
				f = f.Enable(bit)
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, part)
		}
	}
	return f, unknown
}
