// Package value implements the dynamically-typed content tree carried by
// configuration documents.
//
// A Value is one of Null, Bool, Number, String, Sequence, Map or Overridden.
// Overridden wraps another value together with a merge Strategy and is how an
// author forces non-default merge behavior at a single path. Values are
// treated as immutable: every transformation returns a new Value and the
// accessors return copies of the underlying slices and maps.
package value
