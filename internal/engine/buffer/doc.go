// Package buffer implements the mutable editing session around a
// document.Document: undo history, the multiline Enter decision, input
// validation, completion state and the clipboard.
//
// A Buffer is owned by the event loop and is not safe for concurrent use.
// Collaborators (CompletenessChecker, Validator) are called synchronously;
// a collaborator that panics is treated as having returned nothing.
package buffer
