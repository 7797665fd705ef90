package nes

import (
	"image"
	"image/color"
)

// DebugInfo is a snapshot of CPU state for the UI's debug overlay.
type DebugInfo struct {
	PC      uint16
	A, X, Y uint8
	SP      uint8
	P       uint8
	Halted  bool
	Paused  bool
}

func (i DebugInfo) StatusString() string {
	if i.Halted {
		return "HALTED"
	}
	if i.Paused {
		return "PAUSED"
	}
	return "RUNNING"
}

type Bus struct {
	cpu  *CPU
	ppu  *PPU
	ram  *RAM
	cart *Cart

	pad1 *Controller
	pad2 *Controller

	ticCounter uint64

	paused      bool
	oneStepStop bool

	dmaActive     bool
	dmaPage       uint8
	dmaOffset     uint16
	dmaBuf        uint8
	dmaExtraWait  int
	dmaCycleIndex int
	dmaTotal      int
}

func NewBus() *Bus {
	b := &Bus{}
	b.ram = NewRAM()
	b.cpu = NewCPU(b.newCpuMemory())
	b.ppu = NewPPU(b.newPpuMemory())
	b.ppu.SetNMICallback(b.cpu.RequestNMI)
	b.pad1 = NewController(nil)
	b.pad2 = NewController(nil)
	return b
}

// SetControllers wires the host's live button state into the two
// controller ports. Passing nil leaves a port reporting no buttons held.
func (b *Bus) SetControllers(pad1, pad2 ButtonSource) {
	b.pad1 = NewController(pad1)
	b.pad2 = NewController(pad2)
}

func (b *Bus) LoadCart(cart *Cart) {
	b.cart = cart
	b.cpu.Reset()
}

func (b *Bus) Reset() {
	b.cpu.Reset()
	b.ticCounter = 0
}

func (b *Bus) TogglePause() {
	b.paused = !b.paused
}

func (b *Bus) OneStepAndStop() {
	b.paused = false
	b.oneStepStop = true
}

// Tick advances the machine by one CPU cycle's worth of work: one CPU tick
// and three PPU dots, the fixed 1:3 ratio the hardware runs at. OAM DMA, if
// in flight, steals the CPU cycle instead of ticking it. The returned error
// is non-nil exactly once, the cycle an unimplemented opcode is fetched;
// the CPU stays halted for every call after that.
func (b *Bus) Tick() error {
	if b.paused {
		return nil
	}

	var err error
	if b.dmaActive {
		b.stepDMA()
	} else {
		_, err = b.cpu.Tick()
	}

	b.ppu.Tick()
	b.ppu.Tick()
	b.ppu.Tick()
	b.ticCounter++

	if b.oneStepStop {
		b.oneStepStop = false
		b.paused = true
	}

	return err
}

// oamDMA is triggered by a CPU write to $4014. The real transfer takes 513
// cycles on an even CPU cycle, 514 on an odd one: the extra cycle aligns
// the CPU with the PPU before the 256 alternating read/write pairs begin.
func (b *Bus) oamDMA(page uint8) {
	b.dmaActive = true
	b.dmaPage = page
	b.dmaOffset = 0
	b.dmaCycleIndex = 0
	b.dmaExtraWait = 1
	if b.ticCounter%2 == 1 {
		b.dmaExtraWait = 2
	}
	b.dmaTotal = 512 + b.dmaExtraWait
}

func (b *Bus) stepDMA() {
	if b.dmaCycleIndex < b.dmaExtraWait {
		b.dmaCycleIndex++
		return
	}

	n := b.dmaCycleIndex - b.dmaExtraWait
	if n%2 == 0 {
		b.dmaBuf = b.cpu.read8(uint16(b.dmaPage)<<8 | b.dmaOffset)
	} else {
		b.ppu.oamWrite(b.dmaBuf)
		b.dmaOffset++
	}

	b.dmaCycleIndex++
	if b.dmaCycleIndex >= b.dmaTotal {
		b.dmaActive = false
	}
}

func (b *Bus) Disassemble() map[uint16]string {
	return b.cpu.Disassemble()
}

func (b *Bus) DebugInfo() DebugInfo {
	return DebugInfo{
		PC:     b.cpu.pc,
		A:      b.cpu.a,
		X:      b.cpu.x,
		Y:      b.cpu.y,
		SP:     b.cpu.sp,
		P:      b.cpu.p,
		Halted: b.cpu.halted,
		Paused: b.paused,
	}
}

func (b *Bus) Screen() image.Image {
	return b.ppu.Screen()
}

func (b *Bus) GetColorFromPalette(paletteIdx, colorIdx uint8) color.Color {
	return b.ppu.ColorFromPalette(paletteIdx, colorIdx)
}

func (b *Bus) GetPatternTable(paletteIdx, half uint8) image.Image {
	return b.ppu.PatternTable(paletteIdx, half)
}
