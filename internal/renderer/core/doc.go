// Package core provides the value types shared by the layout tree, the
// diff renderer and the output backends: colors, styles, cells and the
// screen grid.
package core
