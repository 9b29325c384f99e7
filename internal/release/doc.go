// Package release publishes hosted releases: a release entity per tag with
// the changelog as its body and the static artifact manifest attached as
// binary assets.
package release
