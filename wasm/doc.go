// Package wasm provides reading, validation, and re-encoding of
// WebAssembly binary modules.
//
// The decoder is lazy and zero-copy: sections are surfaced as
// descriptors over sub-views of the input buffer, entities decode on
// demand, and strings and code bodies alias the input. The buffer must
// outlive every value derived from it.
//
// # Supported Features
//
// The MVP is always enabled. Optional proposals are toggled through the
// Features bitset:
//
//   - Mutable globals
//   - Sign extension operators
//   - Saturating float-to-int conversions
//   - Multi-value
//   - Reference types (funcref, externref, table instructions)
//   - Bulk memory (memory.copy, memory.init, data.drop, ...)
//   - SIMD (v128 and the 0xFD opcode space)
//   - Threads (shared memory and the 0xFE atomic opcode space)
//   - Tail calls (return_call, return_call_indirect)
//   - Exceptions (events, try/catch, throw, br_on_exn)
//   - Memory64
//
// Use of a gated opcode or type is a validation error, never a parse
// error, so feature usage of arbitrary modules can be inspected.
//
// # Decoding
//
// Decode a module, collecting every diagnostic:
//
//	sink := errors.NewSink()
//	module := wasm.DecodeModule(data, wasm.FeaturesAll, sink)
//	for _, e := range sink.Errors() {
//	    log.Println(e)
//	}
//
// Or iterate sections lazily without materializing the module:
//
//	it := wasm.Sections(data, sink)
//	for sec, ok := it.Next(); ok; sec, ok = it.Next() {
//	    fmt.Printf("%s: %d bytes\n", sec.ID, len(sec.Payload))
//	}
//
// # Validation
//
// wasm.ValidateModule checks cross-section consistency (index spaces,
// signatures, limits) and type checks every function body with a
// stack-polymorphic checker. The validator appends diagnostics and
// never aborts, so one pass reports everything it can find.
//
// # Encoding
//
// Module.Encode re-emits the binary form in canonical section order
// with shortest-form integers; decoding then encoding a canonically
// encoded module reproduces it byte for byte.
package wasm
