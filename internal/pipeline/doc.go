// Package pipeline sequences a full release pass: mirror upstream sources,
// rebuild the font artifacts, detect working-tree changes, and, when the
// build output differs, publish the commit, tag, changelog, and hosted
// release. A file lock guarantees that overlapping scheduled runs never
// interleave.
package pipeline
