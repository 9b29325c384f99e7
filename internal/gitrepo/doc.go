// Package gitrepo wraps go-git for the pipeline's version-control needs:
// working-tree change detection, committing, date-stamped tagging, and
// lease-guarded pushes.
package gitrepo
