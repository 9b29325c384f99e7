// Package changelog renders release notes from commit history: the commits
// between the previous tag and the target tag, plus an optional glyph-level
// diff of the UFO sources.
package changelog
