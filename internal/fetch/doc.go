// Package fetch retrieves upstream font source material into the working
// tree. Downloads are idempotent: files are rewritten only when upstream
// bytes differ, so an unchanged upstream produces no working-tree diff.
package fetch
