//go:build !ebiten

package ui

import "vipers/internal/session"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(*session.Session) *Overlay { return &Overlay{} }

// SetSession is a no-op in headless builds.
func (o *Overlay) SetSession(*session.Session) {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, float64) {}
