package layout

import (
	"github.com/dshills/promptline/internal/renderer/core"
)

// Context carries what painting needs besides the space to paint in.
type Context struct {
	Styles *core.StyleSheet
}

// NewContext returns a context using styles, or the default style sheet
// when styles is nil.
func NewContext(styles *core.StyleSheet) *Context {
	if styles == nil {
		styles = core.DefaultStyleSheet()
	}
	return &Context{Styles: styles}
}

// Container is a node of the layout tree.
type Container interface {
	// PreferredWidth returns the width the container wants.
	PreferredWidth(ctx *Context, maxAvailable int) Dimension
	// PreferredHeight returns the height the container wants at width.
	PreferredHeight(ctx *Context, width, maxAvailable int) Dimension
	// WriteTo paints the container into region r of s.
	WriteTo(ctx *Context, s *core.Screen, r core.Rect)
}

// HSplit stacks its children vertically.
type HSplit struct {
	Children []Container
}

// NewHSplit returns an HSplit of children.
func NewHSplit(children ...Container) *HSplit {
	return &HSplit{Children: children}
}

// PreferredWidth implements Container.
func (h *HSplit) PreferredWidth(ctx *Context, maxAvailable int) Dimension {
	ds := make([]Dimension, len(h.Children))
	for i, c := range h.Children {
		ds[i] = c.PreferredWidth(ctx, maxAvailable)
	}
	return maxDimensions(ds)
}

// PreferredHeight implements Container.
func (h *HSplit) PreferredHeight(ctx *Context, width, maxAvailable int) Dimension {
	return sumDimensions(h.heights(ctx, width, maxAvailable))
}

func (h *HSplit) heights(ctx *Context, width, maxAvailable int) []Dimension {
	ds := make([]Dimension, len(h.Children))
	for i, c := range h.Children {
		ds[i] = c.PreferredHeight(ctx, width, maxAvailable)
	}
	return ds
}

// WriteTo implements Container. Nothing is painted when the children's
// minimum heights do not fit.
func (h *HSplit) WriteTo(ctx *Context, s *core.Screen, r core.Rect) {
	sizes := divide(h.heights(ctx, r.Width, r.Height), r.Height)
	row := r.Row
	for i, size := range sizes {
		if size > 0 {
			h.Children[i].WriteTo(ctx, s, core.Rect{Row: row, Col: r.Col, Height: size, Width: r.Width})
		}
		row += size
	}
}

// VSplit places its children side by side.
type VSplit struct {
	Children []Container
}

// NewVSplit returns a VSplit of children.
func NewVSplit(children ...Container) *VSplit {
	return &VSplit{Children: children}
}

func (v *VSplit) widths(ctx *Context, maxAvailable int) []Dimension {
	ds := make([]Dimension, len(v.Children))
	for i, c := range v.Children {
		ds[i] = c.PreferredWidth(ctx, maxAvailable)
	}
	return ds
}

// PreferredWidth implements Container.
func (v *VSplit) PreferredWidth(ctx *Context, maxAvailable int) Dimension {
	return sumDimensions(v.widths(ctx, maxAvailable))
}

// PreferredHeight implements Container.
func (v *VSplit) PreferredHeight(ctx *Context, width, maxAvailable int) Dimension {
	sizes := divide(v.widths(ctx, width), width)
	if sizes == nil {
		return Zero
	}
	ds := make([]Dimension, 0, len(sizes))
	for i, w := range sizes {
		ds = append(ds, v.Children[i].PreferredHeight(ctx, w, maxAvailable))
	}
	return maxDimensions(ds)
}

// WriteTo implements Container.
func (v *VSplit) WriteTo(ctx *Context, s *core.Screen, r core.Rect) {
	sizes := divide(v.widths(ctx, r.Width), r.Width)
	col := r.Col
	for i, size := range sizes {
		if size > 0 {
			v.Children[i].WriteTo(ctx, s, core.Rect{Row: r.Row, Col: col, Height: r.Height, Width: size})
		}
		col += size
	}
}

// Conditional shows Content only while Filter returns true.
type Conditional struct {
	Content Container
	Filter  func() bool
}

// When returns content shown only while filter holds.
func When(filter func() bool, content Container) *Conditional {
	return &Conditional{Content: content, Filter: filter}
}

func (c *Conditional) visible() bool {
	return c.Filter == nil || c.Filter()
}

// PreferredWidth implements Container.
func (c *Conditional) PreferredWidth(ctx *Context, maxAvailable int) Dimension {
	if !c.visible() {
		return Zero
	}
	return c.Content.PreferredWidth(ctx, maxAvailable)
}

// PreferredHeight implements Container.
func (c *Conditional) PreferredHeight(ctx *Context, width, maxAvailable int) Dimension {
	if !c.visible() {
		return Zero
	}
	return c.Content.PreferredHeight(ctx, width, maxAvailable)
}

// WriteTo implements Container.
func (c *Conditional) WriteTo(ctx *Context, s *core.Screen, r core.Rect) {
	if c.visible() {
		c.Content.WriteTo(ctx, s, r)
	}
}

// Fill paints its whole region with one character.
type Fill struct {
	Char   string
	Style  string
	Width  Dimension
	Height Dimension
}

// NewFill returns a Fill that takes whatever space it is given.
func NewFill(char, style string) *Fill {
	return &Fill{Char: char, Style: style, Width: Flexible(0, 0), Height: Flexible(0, 0)}
}

// PreferredWidth implements Container.
func (f *Fill) PreferredWidth(*Context, int) Dimension { return f.Width }

// PreferredHeight implements Container.
func (f *Fill) PreferredHeight(*Context, int, int) Dimension { return f.Height }

// WriteTo implements Container.
func (f *Fill) WriteTo(ctx *Context, s *core.Screen, r core.Rect) {
	char := f.Char
	if core.CellWidth(char) != 1 {
		char = " "
	}
	s.Fill(r, core.Cell{Text: char, Width: 1, Style: ctx.Styles.Resolve(f.Style)})
}
