package core

// Color is a foreground color for a screen cell. The platform layer maps
// each value to a terminal color.
type Color uint8

// Palette used by the flappy renderer.
const (
	ColorDefault Color = iota
	ColorPipe
	ColorPipeCap
	ColorActor
	ColorSpark // Fresh projectile
	ColorEmber // Half-faded projectile
	ColorAsh   // Nearly faded projectile
	ColorGround
	ColorCloud
	ColorHUD
	ColorAlert
)
