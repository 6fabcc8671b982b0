// Package pathquery matches dotted path expressions against decoded JSON documents.
//
// A path is a sequence of segments separated by '.':
//   - a name selects the child with that key from a mapping, or the element at that
//     index from a sequence when the name is a non-negative integer
//   - '*' selects every child of a mapping (keys in sorted order) or a sequence
//
// A literal segment only keeps children that are Truthy, so "", 0, false, null and
// missing keys all drop out of the working set. Missing data never produces an error,
// it only shrinks the result.
//
// MatchForward returns the values reached by the full path. MatchReverse returns every
// container whose child, produced while walking the path, equals a target value.
package pathquery
