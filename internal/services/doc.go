// Package services holds cross-cutting helpers shared by the pipeline
// components: the sentinel error taxonomy used to classify failures and
// context annotations carried through a run.
package services
