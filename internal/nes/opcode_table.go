package nes

// opcodeForm is one opcode/addressing-mode/cycle-count combination that
// shares a mnemonic's implementation.
type opcodeForm struct {
	opcode uint8
	mode   addrMode
	cycles uint8
}

// opcodeGroup binds every form of one mnemonic to its implementation, so
// the 256-entry table below reads by instruction rather than by hex
// address. Unlisted opcodes keep their zero value (fn == nil), which
// Tick treats as a fatal fetch.
type opcodeGroup struct {
	name  string
	fn    func(*CPU)
	forms []opcodeForm
}

func forms(f ...opcodeForm) []opcodeForm { return f }

var opcodeGroups = []opcodeGroup{
	{"BRK", (*CPU).brk, forms(opcodeForm{0x00, addrModeIMP, 7})},
	{"ORA", (*CPU).ora, forms(
		opcodeForm{0x01, addrModeINDX, 6}, opcodeForm{0x05, addrModeZP, 3},
		opcodeForm{0x09, addrModeIMM, 2}, opcodeForm{0x0d, addrModeABS, 4},
		opcodeForm{0x11, addrModeINDY, 5}, opcodeForm{0x15, addrModeZPX, 4},
		opcodeForm{0x19, addrModeABSY, 4}, opcodeForm{0x1d, addrModeABSX, 4},
	)},
	{"HLT", (*CPU).hlt, forms(
		opcodeForm{0x02, addrModeIMP, 0}, opcodeForm{0x12, addrModeIMP, 0},
		opcodeForm{0x22, addrModeIMP, 0}, opcodeForm{0x32, addrModeIMP, 0},
		opcodeForm{0x42, addrModeIMP, 0}, opcodeForm{0x52, addrModeIMP, 0},
		opcodeForm{0x62, addrModeIMP, 0}, opcodeForm{0x72, addrModeIMP, 0},
		opcodeForm{0x92, addrModeIMP, 0}, opcodeForm{0xb2, addrModeIMP, 0},
		opcodeForm{0xd2, addrModeIMP, 0}, opcodeForm{0xf2, addrModeIMP, 0},
	)},
	{"SLO", (*CPU).slo, forms(
		opcodeForm{0x03, addrModeINDX, 8}, opcodeForm{0x07, addrModeZP, 5},
		opcodeForm{0x0f, addrModeABS, 6}, opcodeForm{0x13, addrModeINDY, 8},
		opcodeForm{0x17, addrModeZPX, 6}, opcodeForm{0x1b, addrModeABSY, 7},
		opcodeForm{0x1f, addrModeABSX, 7},
	)},
	{"NOP", (*CPU).nop, forms(
		opcodeForm{0x04, addrModeZP, 3}, opcodeForm{0x0c, addrModeABS, 4},
		opcodeForm{0x14, addrModeZPX, 4}, opcodeForm{0x1a, addrModeIMP, 2},
		opcodeForm{0x1c, addrModeABSX, 4}, opcodeForm{0x34, addrModeZPX, 4},
		opcodeForm{0x3a, addrModeIMP, 2}, opcodeForm{0x3c, addrModeABSX, 4},
		opcodeForm{0x44, addrModeZP, 3}, opcodeForm{0x54, addrModeZPX, 4},
		opcodeForm{0x5a, addrModeIMP, 2}, opcodeForm{0x5c, addrModeABSX, 4},
		opcodeForm{0x64, addrModeZP, 3}, opcodeForm{0x74, addrModeZPX, 4},
		opcodeForm{0x7a, addrModeIMP, 2}, opcodeForm{0x7c, addrModeABSX, 4},
		opcodeForm{0x80, addrModeIMM, 2}, opcodeForm{0x82, addrModeIMM, 2},
		opcodeForm{0x89, addrModeIMM, 2}, opcodeForm{0xc2, addrModeIMM, 2},
		opcodeForm{0xd4, addrModeZPX, 4}, opcodeForm{0xda, addrModeIMP, 2},
		opcodeForm{0xdc, addrModeABSX, 4},
		opcodeForm{0xe2, addrModeIMM, 2}, opcodeForm{0xea, addrModeIMP, 2},
		opcodeForm{0xf4, addrModeZPX, 4}, opcodeForm{0xfa, addrModeIMP, 2},
		opcodeForm{0xfc, addrModeABSX, 4},
	)},
	{"ASL", (*CPU).asl, forms(
		opcodeForm{0x06, addrModeZP, 5}, opcodeForm{0x0a, addrModeACC, 2},
		opcodeForm{0x0e, addrModeABS, 6}, opcodeForm{0x16, addrModeZPX, 6},
		opcodeForm{0x1e, addrModeABSX, 7},
	)},
	{"PHP", (*CPU).php, forms(opcodeForm{0x08, addrModeIMP, 3})},
	{"ANC", (*CPU).anc, forms(opcodeForm{0x0b, addrModeIMM, 2}, opcodeForm{0x2b, addrModeIMM, 2})},
	{"BPL", (*CPU).bpl, forms(opcodeForm{0x10, addrModeREL, 2})},
	{"CLC", (*CPU).clc, forms(opcodeForm{0x18, addrModeIMP, 2})},
	{"JSR", (*CPU).jsr, forms(opcodeForm{0x20, addrModeABS, 6})},
	{"AND", (*CPU).and, forms(
		opcodeForm{0x21, addrModeINDX, 6}, opcodeForm{0x25, addrModeZP, 3},
		opcodeForm{0x29, addrModeIMM, 2}, opcodeForm{0x2d, addrModeABS, 4},
		opcodeForm{0x31, addrModeINDY, 5}, opcodeForm{0x35, addrModeZPX, 4},
		opcodeForm{0x39, addrModeABSY, 4}, opcodeForm{0x3d, addrModeABSX, 4},
	)},
	{"RLA", (*CPU).rla, forms(
		opcodeForm{0x23, addrModeINDX, 8}, opcodeForm{0x27, addrModeZP, 5},
		opcodeForm{0x2f, addrModeABS, 6}, opcodeForm{0x33, addrModeINDY, 8},
		opcodeForm{0x37, addrModeZPX, 6}, opcodeForm{0x3b, addrModeABSY, 7},
		opcodeForm{0x3f, addrModeABSX, 7},
	)},
	{"BIT", (*CPU).bit, forms(opcodeForm{0x24, addrModeZP, 3}, opcodeForm{0x2c, addrModeABS, 4})},
	{"ROL", (*CPU).rol, forms(
		opcodeForm{0x26, addrModeZP, 5}, opcodeForm{0x2a, addrModeACC, 2},
		opcodeForm{0x2e, addrModeABS, 6}, opcodeForm{0x36, addrModeZPX, 6},
		opcodeForm{0x3e, addrModeABSX, 7},
	)},
	{"PLP", (*CPU).plp, forms(opcodeForm{0x28, addrModeIMP, 4})},
	{"BMI", (*CPU).bmi, forms(opcodeForm{0x30, addrModeREL, 2})},
	{"SEC", (*CPU).sec, forms(opcodeForm{0x38, addrModeIMP, 2})},
	{"RTI", (*CPU).rti, forms(opcodeForm{0x40, addrModeIMP, 6})},
	{"EOR", (*CPU).eor, forms(
		opcodeForm{0x41, addrModeINDX, 6}, opcodeForm{0x45, addrModeZP, 3},
		opcodeForm{0x49, addrModeIMM, 2}, opcodeForm{0x4d, addrModeABS, 4},
		opcodeForm{0x51, addrModeINDY, 5}, opcodeForm{0x55, addrModeZPX, 4},
		opcodeForm{0x59, addrModeABSY, 4}, opcodeForm{0x5d, addrModeABSX, 4},
	)},
	{"SRE", (*CPU).sre, forms(
		opcodeForm{0x43, addrModeINDX, 8}, opcodeForm{0x47, addrModeZP, 5},
		opcodeForm{0x4f, addrModeABS, 6}, opcodeForm{0x53, addrModeINDY, 8},
		opcodeForm{0x57, addrModeZPX, 6}, opcodeForm{0x5b, addrModeABSY, 7},
		opcodeForm{0x5f, addrModeABSX, 7},
	)},
	{"LSR", (*CPU).lsr, forms(
		opcodeForm{0x46, addrModeZP, 5}, opcodeForm{0x4a, addrModeACC, 2},
		opcodeForm{0x4e, addrModeABS, 6}, opcodeForm{0x56, addrModeZPX, 6},
		opcodeForm{0x5e, addrModeABSX, 7},
	)},
	{"PHA", (*CPU).pha, forms(opcodeForm{0x48, addrModeIMP, 3})},
	{"ALR", (*CPU).alr, forms(opcodeForm{0x4b, addrModeIMM, 2})},
	{"JMP", (*CPU).jmp, forms(opcodeForm{0x4c, addrModeABS, 3}, opcodeForm{0x6c, addrModeIND, 5})},
	{"BVC", (*CPU).bvc, forms(opcodeForm{0x50, addrModeREL, 2})},
	{"CLI", (*CPU).cli, forms(opcodeForm{0x58, addrModeIMP, 2})},
	{"RTS", (*CPU).rts, forms(opcodeForm{0x60, addrModeIMP, 6})},
	{"ADC", (*CPU).adc, forms(
		opcodeForm{0x61, addrModeINDX, 6}, opcodeForm{0x65, addrModeZP, 3},
		opcodeForm{0x69, addrModeIMM, 2}, opcodeForm{0x6d, addrModeABS, 4},
		opcodeForm{0x71, addrModeINDY, 5}, opcodeForm{0x75, addrModeZPX, 4},
		opcodeForm{0x79, addrModeABSY, 4}, opcodeForm{0x7d, addrModeABSX, 4},
	)},
	{"RRA", (*CPU).rra, forms(
		opcodeForm{0x63, addrModeINDX, 8}, opcodeForm{0x67, addrModeZP, 5},
		opcodeForm{0x6f, addrModeABS, 6}, opcodeForm{0x73, addrModeINDY, 8},
		opcodeForm{0x77, addrModeZPX, 6}, opcodeForm{0x7b, addrModeABSY, 7},
		opcodeForm{0x7f, addrModeABSX, 7},
	)},
	{"ROR", (*CPU).ror, forms(
		opcodeForm{0x66, addrModeZP, 5}, opcodeForm{0x6a, addrModeACC, 2},
		opcodeForm{0x6e, addrModeABS, 6}, opcodeForm{0x76, addrModeZPX, 6},
		opcodeForm{0x7e, addrModeABSX, 7},
	)},
	{"PLA", (*CPU).pla, forms(opcodeForm{0x68, addrModeIMP, 4})},
	{"BVS", (*CPU).bvs, forms(opcodeForm{0x70, addrModeREL, 2})},
	{"SEI", (*CPU).sei, forms(opcodeForm{0x78, addrModeIMP, 2})},
	{"STA", (*CPU).sta, forms(
		opcodeForm{0x81, addrModeINDX, 6}, opcodeForm{0x85, addrModeZP, 3},
		opcodeForm{0x8d, addrModeABS, 4}, opcodeForm{0x91, addrModeINDY, 6},
		opcodeForm{0x95, addrModeZPX, 4}, opcodeForm{0x99, addrModeABSY, 5},
		opcodeForm{0x9d, addrModeABSX, 5},
	)},
	{"SAX", (*CPU).sax, forms(
		opcodeForm{0x83, addrModeINDX, 6}, opcodeForm{0x87, addrModeZP, 3},
		opcodeForm{0x8f, addrModeABS, 4}, opcodeForm{0x97, addrModeZPY, 4},
	)},
	{"STY", (*CPU).sty, forms(
		opcodeForm{0x84, addrModeZP, 3}, opcodeForm{0x8c, addrModeABS, 4},
		opcodeForm{0x94, addrModeZPX, 4},
	)},
	{"STX", (*CPU).stx, forms(
		opcodeForm{0x86, addrModeZP, 3}, opcodeForm{0x8e, addrModeABS, 4},
		opcodeForm{0x96, addrModeZPY, 4},
	)},
	{"DEY", (*CPU).dey, forms(opcodeForm{0x88, addrModeIMP, 2})},
	{"TXA", (*CPU).txa, forms(opcodeForm{0x8a, addrModeIMP, 2})},
	{"BCC", (*CPU).bcc, forms(opcodeForm{0x90, addrModeREL, 2})},
	{"TYA", (*CPU).tya, forms(opcodeForm{0x98, addrModeIMP, 2})},
	{"TXS", (*CPU).txs, forms(opcodeForm{0x9a, addrModeIMP, 2})},
	{"LDY", (*CPU).ldy, forms(
		opcodeForm{0xa0, addrModeIMM, 2}, opcodeForm{0xa4, addrModeZP, 3},
		opcodeForm{0xac, addrModeABS, 4}, opcodeForm{0xb4, addrModeZPX, 4},
		opcodeForm{0xbc, addrModeABSX, 4},
	)},
	{"LDA", (*CPU).lda, forms(
		opcodeForm{0xa1, addrModeINDX, 6}, opcodeForm{0xa5, addrModeZP, 3},
		opcodeForm{0xa9, addrModeIMM, 2}, opcodeForm{0xad, addrModeABS, 4},
		opcodeForm{0xb1, addrModeINDY, 5}, opcodeForm{0xb5, addrModeZPX, 4},
		opcodeForm{0xb9, addrModeABSY, 4}, opcodeForm{0xbd, addrModeABSX, 4},
	)},
	{"LDX", (*CPU).ldx, forms(
		opcodeForm{0xa2, addrModeIMM, 2}, opcodeForm{0xa6, addrModeZP, 3},
		opcodeForm{0xae, addrModeABS, 4}, opcodeForm{0xb6, addrModeZPY, 4},
		opcodeForm{0xbe, addrModeABSY, 4},
	)},
	{"LAX", (*CPU).lax, forms(
		opcodeForm{0xa3, addrModeINDX, 6}, opcodeForm{0xa7, addrModeZP, 3},
		opcodeForm{0xaf, addrModeABS, 4}, opcodeForm{0xb3, addrModeINDY, 5},
		opcodeForm{0xb7, addrModeZPY, 4}, opcodeForm{0xbf, addrModeABSY, 4},
	)},
	{"TAY", (*CPU).tay, forms(opcodeForm{0xa8, addrModeIMP, 2})},
	{"TAX", (*CPU).tax, forms(opcodeForm{0xaa, addrModeIMP, 2})},
	{"BCS", (*CPU).bcs, forms(opcodeForm{0xb0, addrModeREL, 2})},
	{"CLV", (*CPU).clv, forms(opcodeForm{0xb8, addrModeIMP, 2})},
	{"TSX", (*CPU).tsx, forms(opcodeForm{0xba, addrModeIMP, 2})},
	{"LAS", (*CPU).las, forms(opcodeForm{0xbb, addrModeABSY, 4})},
	{"CPY", (*CPU).cpy, forms(
		opcodeForm{0xc0, addrModeIMM, 2}, opcodeForm{0xc4, addrModeZP, 3},
		opcodeForm{0xcc, addrModeABS, 4},
	)},
	{"CMP", (*CPU).cmp, forms(
		opcodeForm{0xc1, addrModeINDX, 6}, opcodeForm{0xc5, addrModeZP, 3},
		opcodeForm{0xc9, addrModeIMM, 2}, opcodeForm{0xcd, addrModeABS, 4},
		opcodeForm{0xd1, addrModeINDY, 5}, opcodeForm{0xd5, addrModeZPX, 4},
		opcodeForm{0xd9, addrModeABSY, 4}, opcodeForm{0xdd, addrModeABSX, 4},
	)},
	{"DCP", (*CPU).dcp, forms(
		opcodeForm{0xc3, addrModeINDX, 8}, opcodeForm{0xc7, addrModeZP, 5},
		opcodeForm{0xcf, addrModeABS, 6}, opcodeForm{0xd3, addrModeINDY, 8},
		opcodeForm{0xd7, addrModeZPX, 6}, opcodeForm{0xdb, addrModeABSY, 7},
		opcodeForm{0xdf, addrModeABSX, 7},
	)},
	{"DEC", (*CPU).dec, forms(
		opcodeForm{0xc6, addrModeZP, 5}, opcodeForm{0xce, addrModeABS, 6},
		opcodeForm{0xd6, addrModeZPX, 6}, opcodeForm{0xde, addrModeABSX, 7},
	)},
	{"INY", (*CPU).iny, forms(opcodeForm{0xc8, addrModeIMP, 2})},
	{"DEX", (*CPU).dex, forms(opcodeForm{0xca, addrModeIMP, 2})},
	{"BNE", (*CPU).bne, forms(opcodeForm{0xd0, addrModeREL, 2})},
	{"CLD", (*CPU).cld, forms(opcodeForm{0xd8, addrModeIMP, 2})},
	{"CPX", (*CPU).cpx, forms(
		opcodeForm{0xe0, addrModeIMM, 2}, opcodeForm{0xe4, addrModeZP, 3},
		opcodeForm{0xec, addrModeABS, 4},
	)},
	{"SBC", (*CPU).sbc, forms(
		opcodeForm{0xe1, addrModeINDX, 6}, opcodeForm{0xe5, addrModeZP, 3},
		opcodeForm{0xe9, addrModeIMM, 2}, opcodeForm{0xeb, addrModeIMM, 2},
		opcodeForm{0xed, addrModeABS, 4}, opcodeForm{0xf1, addrModeINDY, 5},
		opcodeForm{0xf5, addrModeZPX, 4}, opcodeForm{0xf9, addrModeABSY, 4},
		opcodeForm{0xfd, addrModeABSX, 4},
	)},
	{"ISC", (*CPU).isc, forms(
		opcodeForm{0xe3, addrModeINDX, 8}, opcodeForm{0xe7, addrModeZP, 5},
		opcodeForm{0xef, addrModeABS, 6}, opcodeForm{0xf3, addrModeINDY, 8},
		opcodeForm{0xf7, addrModeZPX, 6}, opcodeForm{0xfb, addrModeABSY, 7},
		opcodeForm{0xff, addrModeABSX, 7},
	)},
	{"INC", (*CPU).inc, forms(
		opcodeForm{0xe6, addrModeZP, 5}, opcodeForm{0xee, addrModeABS, 6},
		opcodeForm{0xf6, addrModeZPX, 6}, opcodeForm{0xfe, addrModeABSX, 7},
	)},
	{"INX", (*CPU).inx, forms(opcodeForm{0xe8, addrModeIMP, 2})},
	{"BEQ", (*CPU).beq, forms(opcodeForm{0xf0, addrModeREL, 2})},
	{"SED", (*CPU).sed, forms(opcodeForm{0xf8, addrModeIMP, 2})},
}

// initInstructions flattens opcodeGroups into the flat 256-entry array
// Tick indexes by fetched opcode byte.
func (c *CPU) initInstructions() {
	for _, g := range opcodeGroups {
		for _, f := range g.forms {
			c.instrs[f.opcode] = instr{name: g.name, mode: f.mode, fn: g.fn, cycles: f.cycles}
		}
	}
}
