package nes

import (
	"image"
	"image/color"
)

const (
	dotsPerScanline    = 341
	scanlinesPerFrame  = 262
	visibleScanlines   = 240
	prerenderScanline  = 261
	vblankStartLine    = 241
	maxSpritesPerLine  = 8
	oamSizeBytes       = 256
	nametableSizeBytes = 0x400
	spriteHeight       = 8
)

// spriteScanEntry is one member of the per-scanline shortlist the PPU
// precomputes at the start of every visible line, holding the sprite's
// 8 decoded pixels for that line ahead of time (only the row that falls on
// the line is decoded, not the whole 8x8 tile) so the per-dot compositor
// never has to touch OAM or pattern memory itself.
type spriteScanEntry struct {
	x         uint8
	oamIndex  int
	priority  bool // true == behind background
	pixels    [8]uint8
	pixelsSet bool
}

// delayedWrite is the PPU's one-slot mechanism for register writes that
// must not take effect until a fixed number of dots after they land.
type delayedWrite struct {
	addr     uint16
	value    uint8
	dotsLeft int
}

type PPU struct {
	mem ReadWriter

	dot      uint16
	scanline uint16
	frameOdd bool

	ctrl       uint8
	oamAddr    uint8
	vramAddr   uint16
	tempAddr   uint16
	fineX      uint8
	addrLatch  bool
	readBuffer uint8

	scrollX         uint8
	scrollY         uint8
	scrollXStart    uint8
	scrollYStart    uint8
	scrollNametable uint8

	statusVBlank  bool
	statusSprite0 bool

	oam        [oamSizeBytes]uint8
	paletteRAM [0x20]uint8

	lineSprites []spriteScanEntry

	pending *delayedWrite

	nmiOut func()

	frame *image.RGBA
}

func NewPPU(mem ReadWriter) *PPU {
	p := &PPU{
		mem:   mem,
		frame: image.NewRGBA(image.Rect(0, 0, 256, 240)),
	}
	return p
}

// SetNMICallback wires the PPU's vblank edge to the CPU's NMI line.
func (p *PPU) SetNMICallback(fn func()) {
	p.nmiOut = fn
}

func (p *PPU) nmiEnabled() bool {
	return bit(p.ctrl, 7)
}

func (p *PPU) vramIncrement() uint16 {
	if bit(p.ctrl, 2) {
		return 32
	}
	return 1
}

func (p *PPU) bgPatternBase() uint16 {
	if bit(p.ctrl, 4) {
		return 0x1000
	}
	return 0
}

func (p *PPU) spritePatternBase() uint16 {
	if bit(p.ctrl, 3) {
		return 0x1000
	}
	return 0
}

func (p *PPU) statusByte() uint8 {
	return assembleFromBits(false, false, false, false, false, false, p.statusSprite0, p.statusVBlank)
}

// readRegister implements the CPU-visible register aperture, addr already
// folded into [0,8).
func (p *PPU) readRegister(addr uint16) uint8 {
	switch addr {
	case 0x2: // PPUSTATUS
		v := p.statusByte()
		p.statusVBlank = false
		p.addrLatch = false
		return v
	case 0x4: // OAMDATA
		return p.oam[p.oamAddr]
	case 0x7: // PPUDATA
		v := p.readBuffer
		if p.vramAddr < 0x3f00 {
			p.readBuffer = p.mem.Read8(p.vramAddr & 0x3fff)
		} else {
			v = p.readPalette(uint8(p.vramAddr))
		}
		p.vramAddr += p.vramIncrement()
		return v
	default:
		return 0
	}
}

// writeRegister implements the CPU-visible register aperture, addr already
// folded into [0,8).
func (p *PPU) writeRegister(addr uint16, data uint8) {
	switch addr {
	case 0x0: // PPUCTRL
		p.ctrl = data
		p.scrollNametable = data & 0x3
	case 0x3: // OAMADDR
		p.oamAddr = data
	case 0x4: // OAMDATA
		p.oamWrite(data)
	case 0x5: // PPUSCROLL
		if !p.addrLatch {
			p.scrollXStart = data
			p.scrollX = data
			p.addrLatch = true
		} else {
			p.scrollYStart = data
			p.addrLatch = false
		}
	case 0x6: // PPUADDR
		if !p.addrLatch {
			p.vramAddr = (p.vramAddr & 0x00ff) | uint16(data&0x3f)<<8
			p.addrLatch = true
		} else {
			p.vramAddr = (p.vramAddr & 0xff00) | uint16(data)
			p.addrLatch = false
		}
	case 0x7: // PPUDATA
		if p.vramAddr >= 0x3f00 {
			p.writePalette(uint8(p.vramAddr), data)
		} else {
			p.mem.Write8(p.vramAddr&0x3fff, data)
		}
		p.vramAddr += p.vramIncrement()
	}
}

func (p *PPU) readPalette(addr uint8) uint8 {
	return p.paletteRAM[paletteAliasIndex(addr)]
}

func (p *PPU) writePalette(addr uint8, data uint8) {
	p.paletteRAM[paletteAliasIndex(addr)] = data & 0x3f
}

// oamWrite dispatches a byte into the OAM entry at oamAddr, matching the
// hardware's per-field layout (Y, tile, attribute, X), and always
// post-increments oamAddr regardless of which field was hit. The Y field
// (n mod 4 == 0) is stored as written+1, matching the sprite unit's
// off-by-one row latch, so a raw OAMDATA read reflects the same value the
// scanline evaluator uses.
func (p *PPU) oamWrite(val uint8) {
	if p.oamAddr%4 == 0 {
		val++
	}
	p.oam[p.oamAddr] = val
	p.oamAddr++
}

// SetWithDelay schedules a register write to take effect a fixed number
// of PPU dots after the CPU cycle that issued it, a one-slot deferred-write
// primitive for side-effecting register writes. No register write currently
// routes through it — the original's own `gfx::set_with_delay` is likewise
// defined but never called from anywhere in `gfx.cpp`.
func (p *PPU) SetWithDelay(addr uint16, value uint8, dots int) {
	p.pending = &delayedWrite{addr: addr, value: value, dotsLeft: dots}
}

func (p *PPU) drainPending() {
	if p.pending == nil {
		return
	}
	p.pending.dotsLeft--
	if p.pending.dotsLeft <= 0 {
		p.writeRegister(p.pending.addr, p.pending.value)
		p.pending = nil
	}
}

// ColorFromPalette resolves one of the 4 colors in one of the 8 on-screen
// palettes (0-3 background, 4-7 sprite) to an RGB color, for the debug
// overlay's palette swatches.
func (p *PPU) ColorFromPalette(paletteIdx, colorIdx uint8) color.Color {
	if colorIdx == 0 {
		return nesPaletteRGB[p.paletteRAM[0]&0x3f]
	}
	entry := p.paletteRAM[paletteAliasIndex(paletteIdx*4+colorIdx)]
	return nesPaletteRGB[entry&0x3f]
}

// PatternTable renders one 128x128 pattern-table half through the given
// palette, for the debug overlay.
func (p *PPU) PatternTable(paletteIdx, half uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for tileY := 0; tileY < 16; tileY++ {
		for tileX := 0; tileX < 16; tileX++ {
			base := uint16(half&1) * 0x1000
			offset := base + uint16(tileY*256+tileX*16)
			for row := 0; row < 8; row++ {
				lo := p.mem.Read8(offset + uint16(row))
				hi := p.mem.Read8(offset + uint16(row) + 8)
				for col := 0; col < 8; col++ {
					b0 := (lo >> (7 - col)) & 1
					b1 := (hi >> (7 - col)) & 1
					colorIdx := b0 | b1<<1
					c := p.ColorFromPalette(paletteIdx, colorIdx)
					img.Set(tileX*8+col, tileY*8+row, c)
				}
			}
		}
	}
	return img
}

// Screen returns the current composited frame buffer.
func (p *PPU) Screen() image.Image {
	return p.frame
}
