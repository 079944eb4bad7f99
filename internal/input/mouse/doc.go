// Package mouse turns terminal mouse reports into editing gestures.
//
// The decoder delivers SGR mouse reports as key.Mouse payloads. A Tracker
// classifies each report:
//
//   - Single click: places the cursor
//   - Double click: selects a word
//   - Triple click: selects a line
//   - Drag with the left button held: extends a selection
//   - Wheel: moves the cursor by ScrollLines rows
//
// Click sequences are detected from timing and position thresholds, the
// same way a desktop toolkit does it:
//
//	tracker := mouse.NewTracker(mouse.DefaultConfig())
//	g := tracker.Handle(ev.Mouse, time.Now())
//	if g.Kind == mouse.GestureDoubleClick {
//	    selectWordAt(g.Pos)
//	}
//
// Positions are screen cells. A Pointer, implemented by the layout that
// drew the input, maps them back to buffer offsets.
//
// Tracker is safe for concurrent use.
package mouse
