package nes

import "fmt"

const (
	stackStartAddr = uint16(0x100)

	vectorNMI   = uint16(0xfffa)
	vectorReset = uint16(0xfffc)
	vectorIRQ   = uint16(0xfffe)
)

const (
	flagC = uint8(1 << iota) // Carry
	flagZ                    // Zero
	flagI                    // Interrupt Disable
	flagD                    // Decimal Mode
	flagB                    // Break Command
	flagU                    // Unused
	flagV                    // Overflow
	flagN                    // Negative
)

type addrMode uint8

const (
	addrModeIMM  addrMode = iota + 1 // Immediate
	addrModeZP                       // Zero Page
	addrModeZPX                      // Zero Page X
	addrModeZPY                      // Zero Page Y
	addrModeABS                      // Absolute
	addrModeABSX                     // Absolute X
	addrModeABSY                     // Absolute Y
	addrModeIND                      // Indirect
	addrModeINDX                     // Indirect X
	addrModeINDY                     // Indirect Y
	addrModeREL                      // Relative
	addrModeACC                      // Accumulator
	addrModeIMP                      // Implied
)

func (mode addrMode) String() string {
	switch mode {
	case addrModeIMM:
		return "IMM"
	case addrModeZP:
		return "ZP"
	case addrModeZPX:
		return "ZPX"
	case addrModeZPY:
		return "ZPY"
	case addrModeABS:
		return "ABS"
	case addrModeABSX:
		return "ABSX"
	case addrModeABSY:
		return "ABSY"
	case addrModeIND:
		return "IND"
	case addrModeINDX:
		return "INDX"
	case addrModeINDY:
		return "INDY"
	case addrModeREL:
		return "REL"
	case addrModeACC:
		return "ACC"
	case addrModeIMP:
		return "IMP"
	}
	return "???"
}

// instr.fn is a method expression, not a bound closure: it takes the
// executing CPU explicitly, which lets the dispatch table below be built
// as a flat, mnemonic-grouped literal instead of per-instance assignments.
type instr struct {
	name   string
	mode   addrMode
	fn     func(*CPU)
	cycles uint8
}

// ErrUnknownOpcode is returned from Tick when the fetched byte has no
// entry in the instruction table. The CPU halts and every subsequent
// Tick call is a no-op until Reset is called again.
type ErrUnknownOpcode struct {
	Opcode uint8
	PC     uint16
}

func (e ErrUnknownOpcode) Error() string {
	return fmt.Sprintf("unsupported opcode %02X at PC %04X", e.Opcode, e.PC)
}

type CPU struct {
	a            uint8
	x            uint8
	y            uint8
	p            uint8
	sp           uint8
	pc           uint16
	mem          ReadWriter
	instrs       [0x100]instr
	cycles       uint8
	totalCycles  uint64
	addrMode     addrMode
	operandAddr  uint16
	operandValue uint8
	pageCrossed  bool
	halted       bool

	nmiPending   bool
	irqPending   bool
	resetPending bool
}

func isSameSign(a, b uint8) bool {
	return (a^b)&0x80 == 0
}

func isDiffPage(a, b uint16) bool {
	return a&0xff00 != b&0xff00
}

func NewCPU(mem ReadWriter) *CPU {
	c := &CPU{
		mem: mem,
	}
	c.initInstructions()
	return c
}

func (c CPU) read8(addr uint16) uint8 {
	return c.mem.Read8(addr)
}

func (c CPU) read16(addr uint16) uint16 {
	return uint16(c.read8(addr)) | uint16(c.read8(addr+1))<<8
}

func (c *CPU) write8(addr uint16, data uint8) {
	c.mem.Write8(addr, data)
}

func (c CPU) getFlag(flag uint8) bool {
	return c.p&flag > 0
}

func (c *CPU) setFlag(flag uint8, v bool) {
	if v {
		c.p |= flag
		return
	}
	c.p &= ^flag
}

func (c *CPU) setFlagsZN(value uint8) {
	c.setFlag(flagZ, value == 0)
	c.setFlag(flagN, value&flagN > 0)
}

func (c *CPU) stackPop8() uint8 {
	c.sp++
	return c.read8(stackStartAddr | uint16(c.sp))
}

func (c *CPU) stackPop16() uint16 {
	lo := uint16(c.stackPop8())
	hi := uint16(c.stackPop8())
	return lo | hi<<8
}

func (c *CPU) stackPush8(data uint8) {
	c.write8(stackStartAddr|uint16(c.sp), data)
	c.sp--
}

func (c *CPU) stackPush16(data uint16) {
	lo := uint8(data & 0xff)
	hi := uint8(data >> 8)
	c.stackPush8(hi)
	c.stackPush8(lo)
}

// Reset puts the CPU into its power-on state and fetches PC from the reset vector.
func (c *CPU) Reset() {
	c.a = 0
	c.x = 0
	c.y = 0
	c.p = 0x00 | flagU | flagI
	c.sp = 0xfd
	c.pc = c.read16(vectorReset)
	c.cycles = 7
	c.totalCycles = 7
	c.halted = false
	c.nmiPending = false
	c.irqPending = false
	c.resetPending = false
}

// RequestIRQ raises the maskable interrupt line. It stays pending until
// serviceInterrupts finds the interrupt-disable flag clear.
func (c *CPU) RequestIRQ() {
	c.irqPending = true
}

// RequestNMI raises the edge-triggered non-maskable interrupt line.
func (c *CPU) RequestNMI() {
	c.nmiPending = true
}

// irq services a pending maskable interrupt. Ignored while flagI is set.
func (c *CPU) irq() {
	if c.getFlag(flagI) {
		return
	}
	c.irqPending = false
	c.stackPush16(c.pc)
	c.setFlag(flagB, false)
	c.setFlag(flagU|flagI, true)
	c.stackPush8(c.p)
	c.pc = c.read16(vectorIRQ)
	c.cycles += 6
}

// nmi services the pending non-maskable interrupt. Cannot be masked.
func (c *CPU) nmi() {
	c.nmiPending = false
	c.stackPush16(c.pc)
	c.setFlag(flagB, false)
	c.setFlag(flagU|flagI, true)
	c.stackPush8(c.p)
	c.pc = c.read16(vectorNMI)
	c.cycles += 6
}

// serviceInterrupts arbitrates NMI over IRQ, per the priority order the
// hardware applies at instruction boundaries. Returns true if either fired.
func (c *CPU) serviceInterrupts() bool {
	switch {
	case c.nmiPending:
		c.nmi()
		return true
	case c.irqPending && !c.getFlag(flagI):
		c.irq()
		return true
	}
	return false
}

// Disassemble returns a map of addresses and their corresponding instructions
// from 0x0000 to 0xffff
func (c *CPU) Disassemble() map[uint16]string {
	disasm := make(map[uint16]string, 0x10000)

	addr := uint32(0)
	for addr <= 0xFFFF {
		pc := uint16(addr)
		opcode := c.read8(pc)
		instr := c.instrs[opcode]
		if instr.fn == nil {
			disasm[pc] = fmt.Sprintf("$%04X: ???", pc)
			addr++
			continue
		}

		pc++
		skip := uint32(0)
		switch instr.mode {
		case addrModeIMM:
			operand := c.read8(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s #$%02X {%s}", addr, instr.name, operand, instr.mode)
			skip = 1
		case addrModeZP:
			operand := c.read8(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s $%02X {%s}", addr, instr.name, operand, instr.mode)
			skip = 1
		case addrModeZPX:
			operand := c.read8(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s $%02X,X {%s}", addr, instr.name, operand, instr.mode)
			skip = 1
		case addrModeZPY:
			operand := c.read8(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s $%02X,Y {%s}", addr, instr.name, operand, instr.mode)
			skip = 1
		case addrModeABS:
			operand := c.read16(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s $%04X {%s}", addr, instr.name, operand, instr.mode)
			skip = 2
		case addrModeABSX:
			operand := c.read16(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s $%04X,X {%s}", addr, instr.name, operand, instr.mode)
			skip = 2
		case addrModeABSY:
			operand := c.read16(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s $%04X,Y {%s}", addr, instr.name, operand, instr.mode)
			skip = 2
		case addrModeIND:
			operand := c.read16(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s ($%04X) {%s}", addr, instr.name, operand, instr.mode)
			skip = 2
		case addrModeINDX:
			operand := c.read8(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s ($%02X,X) {%s}", addr, instr.name, operand, instr.mode)
			skip = 1
		case addrModeINDY:
			operand := c.read8(pc)
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s ($%02X),Y {%s}", addr, instr.name, operand, instr.mode)
			skip = 1
		case addrModeREL:
			operand := uint16(c.read8(pc))
			pc++
			if operand&0x80 > 0 {
				operand |= 0xff00 // add leading 1s to save the sign
			}
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s $%02X {%s}", addr, instr.name, pc+operand, instr.mode)
			skip = 1
		case addrModeACC:
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s A {%s}", addr, instr.name, instr.mode)
		case addrModeIMP:
			disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s {%s}", addr, instr.name, instr.mode)
		}

		addr = addr + 1 + skip
	}

	return disasm
}

// Tick executes one CPU cycle. It returns the number of cycles still owed
// to the instruction (or interrupt) currently in flight, and a non-nil
// error the moment an unimplemented opcode is fetched.
func (c *CPU) Tick() (uint8, error) {
	if c.halted {
		return 0, nil
	}

	if c.cycles > 0 {
		c.cycles--
		return c.cycles, nil
	}

	if c.serviceInterrupts() {
		c.cycles--
		return c.cycles, nil
	}

	opcode := c.read8(c.pc)
	pcAtFetch := c.pc
	c.pc++
	instr := c.instrs[opcode]
	if instr.fn == nil {
		c.hlt()
		return 0, ErrUnknownOpcode{Opcode: opcode, PC: pcAtFetch}
	}
	_ = c.fetch(instr.mode)
	instr.fn(c)
	c.cycles += instr.cycles
	c.totalCycles += uint64(c.cycles)
	// the fetch itself spends this tick's cycle
	if c.cycles > 0 {
		c.cycles--
	}

	c.addrMode = 0
	c.operandAddr = 0
	c.operandValue = 0
	c.pageCrossed = false
	return c.cycles, nil
}

// addrModeFetchers dispatches an addrMode straight to the method that
// knows how to read that mode's operand, rather than switching on it
// inline. Index 0 is left nil (no instruction uses the zero addrMode).
var addrModeFetchers = [...]func(*CPU) int{
	addrModeIMM:  (*CPU).fetchImmediate,
	addrModeZP:   (*CPU).fetchZeroPage,
	addrModeZPX:  (*CPU).fetchZeroPageX,
	addrModeZPY:  (*CPU).fetchZeroPageY,
	addrModeABS:  (*CPU).fetchAbsolute,
	addrModeABSX: (*CPU).fetchAbsoluteX,
	addrModeABSY: (*CPU).fetchAbsoluteY,
	addrModeIND:  (*CPU).fetchIndirect,
	addrModeINDX: (*CPU).fetchIndirectX,
	addrModeINDY: (*CPU).fetchIndirectY,
	addrModeREL:  (*CPU).fetchRelative,
	addrModeACC:  (*CPU).fetchAccumulator,
	addrModeIMP:  (*CPU).fetchImplied,
}

// fetch reads the operand for the current instruction and returns the
// number of bytes read, per the addressing mode's own fetcher.
func (c *CPU) fetch(addrMode addrMode) (n int) {
	c.addrMode = addrMode
	c.pageCrossed = false
	c.operandAddr = 0
	c.operandValue = 0

	fn := addrModeFetchers[addrMode]
	if fn == nil {
		return 0
	}
	return fn(c)
}

func (c *CPU) fetchImmediate() int {
	c.operandAddr = c.pc
	c.pc++
	c.operandValue = c.read8(c.operandAddr)
	return 1
}

func (c *CPU) fetchZeroPage() int {
	c.operandAddr = uint16(c.read8(c.pc))
	c.pc++
	c.operandValue = c.read8(c.operandAddr)
	return 1
}

func (c *CPU) fetchZeroPageX() int {
	c.operandAddr = uint16(c.read8(c.pc) + c.x)
	c.pc++
	c.operandValue = c.read8(c.operandAddr)
	return 1
}

func (c *CPU) fetchZeroPageY() int {
	c.operandAddr = uint16(c.read8(c.pc) + c.y)
	c.pc++
	c.operandValue = c.read8(c.operandAddr)
	return 1
}

func (c *CPU) fetchAbsolute() int {
	c.operandAddr = c.read16(c.pc)
	c.pc += 2
	c.operandValue = c.read8(c.operandAddr)
	return 2
}

// fetchIndexedAbsolute is shared by ABS,X and ABS,Y: read a base address,
// add the index register, and flag whether that crossed a page boundary.
func (c *CPU) fetchIndexedAbsolute(index uint8) int {
	baseAddr := c.read16(c.pc)
	c.pc += 2
	c.operandAddr = baseAddr + uint16(index)
	c.operandValue = c.read8(c.operandAddr)
	c.pageCrossed = isDiffPage(baseAddr, c.operandAddr)
	return 2
}

func (c *CPU) fetchAbsoluteX() int {
	return c.fetchIndexedAbsolute(c.x)
}

func (c *CPU) fetchAbsoluteY() int {
	return c.fetchIndexedAbsolute(c.y)
}

func (c *CPU) fetchIndirect() int {
	addr := c.read16(c.pc)
	c.pc += 2

	lo := addr
	hi := addr + 1
	if lo&0xff == 0xff { // simulate the 6502's page-wrap bug
		hi = (lo & 0xff00) | uint16((lo+1)&0x00ff)
	}
	c.operandAddr = uint16(c.read8(lo)) | uint16(c.read8(hi))<<8
	c.operandValue = c.read8(c.operandAddr)
	return 2
}

func (c *CPU) fetchIndirectX() int {
	addr := uint16(c.read8(c.pc))
	addr = addr + uint16(c.x)
	c.pc++
	lo := uint16(c.read8(addr & 0x00ff))
	hi := uint16(c.read8((addr + 1) & 0x00ff))
	c.operandAddr = lo | hi<<8
	c.operandValue = c.read8(c.operandAddr)
	return 1
}

func (c *CPU) fetchIndirectY() int {
	addr := uint16(c.read8(c.pc))
	c.pc++
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8((addr + 1) & 0x00ff))
	addr = lo | hi<<8
	c.operandAddr = addr + uint16(c.y)
	c.operandValue = c.read8(c.operandAddr)
	c.pageCrossed = isDiffPage(addr, c.operandAddr)
	return 1
}

func (c *CPU) fetchRelative() int {
	c.operandAddr = uint16(c.read8(c.pc))
	c.pc++
	if c.operandAddr&0x80 > 0 {
		c.operandAddr |= 0xff00 // sign-extend the 8-bit displacement
	}
	return 1
}

func (c *CPU) fetchAccumulator() int {
	c.operandValue = c.a
	return 0
}

func (c *CPU) fetchImplied() int {
	return 0
}

func opcodeIsSupported(opcode byte) bool {
	fake := NewCPU(nil)
	return fake.instrs[opcode].fn != nil
}
