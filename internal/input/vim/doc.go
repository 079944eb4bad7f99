// Package vim implements the building blocks of Vi navigation mode:
// repeat counts, motions, text objects and operators.
//
// Motions compute a cursor target over a document.Document. When typed
// after an operator, MotionRegion turns the target into a Region that the
// operator edits:
//
//	region, ok := vim.MotionRegion(doc, vim.MotionWordForward, 3, 0, false)
//	if ok {
//	    err = vim.OpDelete.Apply(buf, clipboard, region)
//	}
//
// Doubled operators ("dd", "yy", "g~~") act on whole lines via
// CurrentLines. Text objects ("iw", "a(") select a Region directly.
//
// Key dispatch lives in the input package; this package only knows about
// documents and buffers.
package vim
