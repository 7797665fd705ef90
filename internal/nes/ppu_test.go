package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// flatMem is a simple 16KB address space standing in for ppuMemory in
// register-level tests that don't need real nametable/CHR routing.
type flatMem struct {
	data [0x4000]uint8
}

func (m *flatMem) Read8(addr uint16) uint8 {
	return m.data[addr&0x3fff]
}

func (m *flatMem) Write8(addr uint16, data uint8) {
	m.data[addr&0x3fff] = data
}

func Test_PPU_PaletteAliasing(t *testing.T) {
	p := NewPPU(&flatMem{})

	t.Run("write through alias reads back through base", func(t *testing.T) {
		p.writePalette(0x10, 0x3f&0x2c)
		assert.Equal(t, uint8(0x2c), p.readPalette(0x00))
	})

	t.Run("write through base reads back through alias", func(t *testing.T) {
		p.writePalette(0x04, 0x1a)
		assert.Equal(t, uint8(0x1a), p.readPalette(0x14))
	})

	t.Run("non-aliased entries stay independent", func(t *testing.T) {
		p.writePalette(0x01, 0x11)
		p.writePalette(0x11, 0x22)
		assert.Equal(t, uint8(0x11), p.readPalette(0x01))
		assert.Equal(t, uint8(0x22), p.readPalette(0x11))
	})
}

func Test_PPU_RegisterAperture(t *testing.T) {
	t.Run("PPUSTATUS read clears vblank and address latch", func(t *testing.T) {
		p := NewPPU(&flatMem{})
		p.statusVBlank = true
		p.addrLatch = true

		v := p.readRegister(0x2)

		assert.True(t, v&0x80 != 0)
		assert.False(t, p.statusVBlank)
		assert.False(t, p.addrLatch)
	})

	t.Run("PPUADDR write is two bytes, high then low", func(t *testing.T) {
		p := NewPPU(&flatMem{})
		p.writeRegister(0x6, 0x21)
		p.writeRegister(0x6, 0x08)
		assert.Equal(t, uint16(0x2108), p.vramAddr)
	})

	t.Run("PPUDATA read below palette range is buffered one byte behind", func(t *testing.T) {
		mem := &flatMem{}
		mem.data[0x0010] = 0xaa
		mem.data[0x0011] = 0xbb
		p := NewPPU(mem)
		p.vramAddr = 0x0010

		first := p.readRegister(0x7)
		second := p.readRegister(0x7)

		assert.Equal(t, uint8(0), first)
		assert.Equal(t, uint8(0xaa), second)
	})

	t.Run("PPUDATA write auto-increments by the configured step", func(t *testing.T) {
		p := NewPPU(&flatMem{})
		p.ctrl = 1 << 2 // increment by 32
		p.vramAddr = 0x0000
		p.writeRegister(0x7, 0x42)
		assert.Equal(t, uint16(32), p.vramAddr)
	})

	t.Run("OAMDATA write auto-increments OAMADDR", func(t *testing.T) {
		p := NewPPU(&flatMem{})
		p.oamAddr = 5
		p.writeRegister(0x4, 0x99)
		assert.Equal(t, uint8(0x99), p.oam[5])
		assert.Equal(t, uint8(6), p.oamAddr)
	})

	t.Run("OAMDATA write applies the sprite-field dispatcher's Y+1 encoding", func(t *testing.T) {
		p := NewPPU(&flatMem{})
		p.oamAddr = 0
		p.writeRegister(0x4, 0x50) // Y field, n mod 4 == 0
		p.writeRegister(0x4, 0x11) // tile
		p.writeRegister(0x4, 0x22) // attr
		p.writeRegister(0x4, 0x33) // X

		assert.Equal(t, uint8(0x51), p.oam[0])
		assert.Equal(t, uint8(0x11), p.oam[1])
		assert.Equal(t, uint8(0x22), p.oam[2])
		assert.Equal(t, uint8(0x33), p.oam[3])

		p.oamAddr = 4
		p.writeRegister(0x4, 0xff) // Y field wraps
		assert.Equal(t, uint8(0x00), p.oam[4])
	})
}

func Test_PPU_NMITiming(t *testing.T) {
	p := NewPPU(&flatMem{})
	fired := false
	p.SetNMICallback(func() { fired = true })
	p.ctrl = 1 << 7 // NMI enabled

	p.scanline = vblankStartLine
	p.dot = 1
	p.Tick()

	assert.True(t, fired)
	assert.True(t, p.statusVBlank)
}

func Test_PPU_PrerenderClearsStatus(t *testing.T) {
	p := NewPPU(&flatMem{})
	p.statusVBlank = true
	p.statusSprite0 = true

	p.scanline = prerenderScanline
	p.dot = 1
	p.Tick()

	assert.False(t, p.statusVBlank)
	assert.False(t, p.statusSprite0)
}

func Test_PPU_EvaluateScanline_CapsAtEightSprites(t *testing.T) {
	p := NewPPU(&flatMem{})
	for i := 0; i < 9; i++ {
		base := i * 4
		p.oam[base] = 10 // stored Y already reflects the write-time +1
		p.oam[base+3] = uint8(i * 10)
	}

	p.evaluateScanline(10)

	assert.Len(t, p.lineSprites, maxSpritesPerLine)
}

func Test_PPUMemory_NametableMirroring(t *testing.T) {
	t.Run("horizontal mirroring pairs table 0 with 1, and 2 with 3", func(t *testing.T) {
		bus := NewBus()
		bus.cart = &Cart{mirror: 0}
		mem := bus.newPpuMemory()

		mem.Write8(0x2000, 0x11)
		assert.Equal(t, uint8(0x11), mem.Read8(0x2400))

		mem.Write8(0x2800, 0x22)
		assert.Equal(t, uint8(0x22), mem.Read8(0x2c00))
	})

	t.Run("vertical mirroring pairs table 0 with 2, and 1 with 3", func(t *testing.T) {
		bus := NewBus()
		bus.cart = &Cart{mirror: 1}
		mem := bus.newPpuMemory()

		mem.Write8(0x2000, 0x33)
		assert.Equal(t, uint8(0x33), mem.Read8(0x2800))

		mem.Write8(0x2400, 0x44)
		assert.Equal(t, uint8(0x44), mem.Read8(0x2c00))
	})
}
