package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nevisdale/nestic-8bit/internal/nes"
)

// keyboardSource maps the host keyboard onto the first controller port.
type keyboardSource struct{}

func (keyboardSource) IsPressed(b nes.Button) bool {
	switch b {
	case nes.ButtonA:
		return ebiten.IsKeyPressed(ebiten.KeyZ)
	case nes.ButtonB:
		return ebiten.IsKeyPressed(ebiten.KeyX)
	case nes.ButtonSelect:
		return ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	case nes.ButtonStart:
		return ebiten.IsKeyPressed(ebiten.KeyEnter)
	case nes.ButtonUp:
		return ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	case nes.ButtonDown:
		return ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	case nes.ButtonLeft:
		return ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	case nes.ButtonRight:
		return ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	}
	return false
}
