// Package layout describes what a session draws as a tree of containers.
//
// Containers (HSplit, VSplit, Window, Conditional, Fill) split the space
// they are given among their children using Dimension preferences.
// Windows hold controls, which paint their full content onto an
// unbounded screen; the window then scrolls that content so the cursor
// stays visible and copies the visible rows into place.
package layout
