package cpu

// OpID enumerates the internal operations the decode table can name.
// opUndefined (the zero value) marks an opcode byte with no defined
// operation; executing it halts the CPU. Undocumented NMOS opcodes
// (LAX, SAX, DCP, ISC, ...) are deliberately left undefined here rather
// than implemented.
type OpID int

const (
	opUndefined OpID = iota

	opLDA
	opLDX
	opLDY
	opSTA
	opSTX
	opSTY
	opTAX
	opTAY
	opTSX
	opTXA
	opTYA
	opTXS

	opPHA
	opPHP
	opPLA
	opPLP

	opADC
	opSBC

	opAND
	opORA
	opEOR

	opASL
	opLSR
	opROL
	opROR

	opINC
	opDEC
	opINX
	opINY
	opDEX
	opDEY

	opCMP
	opCPX
	opCPY
	opBIT

	opBCC
	opBCS
	opBEQ
	opBNE
	opBMI
	opBPL
	opBVC
	opBVS

	opJMP
	opJSR
	opRTS
	opBRK
	opRTI

	opCLC
	opSEC
	opCLI
	opSEI
	opCLV
	opCLD
	opSED

	opNOP
)

// mnemonics maps each OpID to the text a disassembler should print for
// it. Indexed by OpID rather than a map since OpID is a dense, small
// enum; opUndefined's slot ("HLT") is what Lookup returns for an opcode
// byte with no decode-table entry.
var mnemonics = [...]string{
	opUndefined: "HLT",

	opLDA: "LDA", opLDX: "LDX", opLDY: "LDY",
	opSTA: "STA", opSTX: "STX", opSTY: "STY",
	opTAX: "TAX", opTAY: "TAY", opTSX: "TSX", opTXA: "TXA", opTYA: "TYA", opTXS: "TXS",

	opPHA: "PHA", opPHP: "PHP", opPLA: "PLA", opPLP: "PLP",

	opADC: "ADC", opSBC: "SBC",
	opAND: "AND", opORA: "ORA", opEOR: "EOR",

	opASL: "ASL", opLSR: "LSR", opROL: "ROL", opROR: "ROR",

	opINC: "INC", opDEC: "DEC", opINX: "INX", opINY: "INY", opDEX: "DEX", opDEY: "DEY",

	opCMP: "CMP", opCPX: "CPX", opCPY: "CPY", opBIT: "BIT",

	opBCC: "BCC", opBCS: "BCS", opBEQ: "BEQ", opBNE: "BNE",
	opBMI: "BMI", opBPL: "BPL", opBVC: "BVC", opBVS: "BVS",

	opJMP: "JMP", opJSR: "JSR", opRTS: "RTS", opBRK: "BRK", opRTI: "RTI",

	opCLC: "CLC", opSEC: "SEC", opCLI: "CLI", opSEI: "SEI",
	opCLV: "CLV", opCLD: "CLD", opSED: "SED",

	opNOP: "NOP",
}

// AddrMode enumerates the 13 addressing modes the resolver understands.
type AddrMode int

const (
	ModeImplied AddrMode = iota
	ModeAccumulator
	ModeImmediate
	ModeRelative
	ModeAbsolute
	ModeZeroPage
	ModeIndirect
	ModeAbsoluteX
	ModeAbsoluteY
	ModeZeroPageX
	ModeZeroPageY
	ModeIndexedIndirectX
	ModeIndirectIndexedY
)

// opcodeEntry is a single row of the decode table: the operation this
// byte performs, the addressing mode that supplies its operand, the base
// cycle count, and whether an indexed access crossing a page boundary
// (or, for branches, a taken/page-crossing branch) adds a cycle.
type opcodeEntry struct {
	op        OpID
	mode      AddrMode
	cycles    uint8
	pageCross bool
}

// decodeTable is the 256-entry opcode matrix, regenerated from the
// documented NMOS-6502 instruction set (http://obelisk.me.uk/6502/reference.html,
// http://nesdev.com/6502_cpu.txt) rather than copied as a packed
// bitfield. Entries left at the zero value are undefined opcodes.
var decodeTable [256]opcodeEntry

func init() {
	for _, s := range opcodeSpecs {
		decodeTable[s.opcode] = opcodeEntry{op: s.op, mode: s.mode, cycles: s.cycles, pageCross: s.pageCross}
	}
}

// Lookup returns the mnemonic and addressing mode this core's decode
// table assigns to opcode, and false if the byte is undefined. It
// exists so other packages (disassemble) describe instructions from
// the same table Run executes rather than keeping a second one.
func Lookup(opcode uint8) (mnemonic string, mode AddrMode, ok bool) {
	e := decodeTable[opcode]
	if e.op == opUndefined {
		return mnemonics[opUndefined], ModeImplied, false
	}
	return mnemonics[e.op], e.mode, true
}

var opcodeSpecs = []struct {
	opcode    uint8
	op        OpID
	mode      AddrMode
	cycles    uint8
	pageCross bool
}{
	// LDA
	{0xA9, opLDA, ModeImmediate, 2, false},
	{0xA5, opLDA, ModeZeroPage, 3, false},
	{0xB5, opLDA, ModeZeroPageX, 4, false},
	{0xAD, opLDA, ModeAbsolute, 4, false},
	{0xBD, opLDA, ModeAbsoluteX, 4, true},
	{0xB9, opLDA, ModeAbsoluteY, 4, true},
	{0xA1, opLDA, ModeIndexedIndirectX, 6, false},
	{0xB1, opLDA, ModeIndirectIndexedY, 5, true},

	// LDX
	{0xA2, opLDX, ModeImmediate, 2, false},
	{0xA6, opLDX, ModeZeroPage, 3, false},
	{0xB6, opLDX, ModeZeroPageY, 4, false},
	{0xAE, opLDX, ModeAbsolute, 4, false},
	{0xBE, opLDX, ModeAbsoluteY, 4, true},

	// LDY
	{0xA0, opLDY, ModeImmediate, 2, false},
	{0xA4, opLDY, ModeZeroPage, 3, false},
	{0xB4, opLDY, ModeZeroPageX, 4, false},
	{0xAC, opLDY, ModeAbsolute, 4, false},
	{0xBC, opLDY, ModeAbsoluteX, 4, true},

	// STA
	{0x85, opSTA, ModeZeroPage, 3, false},
	{0x95, opSTA, ModeZeroPageX, 4, false},
	{0x8D, opSTA, ModeAbsolute, 4, false},
	{0x9D, opSTA, ModeAbsoluteX, 5, false},
	{0x99, opSTA, ModeAbsoluteY, 5, false},
	{0x81, opSTA, ModeIndexedIndirectX, 6, false},
	{0x91, opSTA, ModeIndirectIndexedY, 6, false},

	// STX
	{0x86, opSTX, ModeZeroPage, 3, false},
	{0x96, opSTX, ModeZeroPageY, 4, false},
	{0x8E, opSTX, ModeAbsolute, 4, false},

	// STY
	{0x84, opSTY, ModeZeroPage, 3, false},
	{0x94, opSTY, ModeZeroPageX, 4, false},
	{0x8C, opSTY, ModeAbsolute, 4, false},

	// Register transfers.
	{0xAA, opTAX, ModeImplied, 2, false},
	{0xA8, opTAY, ModeImplied, 2, false},
	{0xBA, opTSX, ModeImplied, 2, false},
	{0x8A, opTXA, ModeImplied, 2, false},
	{0x98, opTYA, ModeImplied, 2, false},
	{0x9A, opTXS, ModeImplied, 2, false},

	// Stack.
	{0x48, opPHA, ModeImplied, 3, false},
	{0x08, opPHP, ModeImplied, 3, false},
	{0x68, opPLA, ModeImplied, 4, false},
	{0x28, opPLP, ModeImplied, 4, false},

	// ADC
	{0x69, opADC, ModeImmediate, 2, false},
	{0x65, opADC, ModeZeroPage, 3, false},
	{0x75, opADC, ModeZeroPageX, 4, false},
	{0x6D, opADC, ModeAbsolute, 4, false},
	{0x7D, opADC, ModeAbsoluteX, 4, true},
	{0x79, opADC, ModeAbsoluteY, 4, true},
	{0x61, opADC, ModeIndexedIndirectX, 6, false},
	{0x71, opADC, ModeIndirectIndexedY, 5, true},

	// SBC
	{0xE9, opSBC, ModeImmediate, 2, false},
	{0xE5, opSBC, ModeZeroPage, 3, false},
	{0xF5, opSBC, ModeZeroPageX, 4, false},
	{0xED, opSBC, ModeAbsolute, 4, false},
	{0xFD, opSBC, ModeAbsoluteX, 4, true},
	{0xF9, opSBC, ModeAbsoluteY, 4, true},
	{0xE1, opSBC, ModeIndexedIndirectX, 6, false},
	{0xF1, opSBC, ModeIndirectIndexedY, 5, true},

	// AND
	{0x29, opAND, ModeImmediate, 2, false},
	{0x25, opAND, ModeZeroPage, 3, false},
	{0x35, opAND, ModeZeroPageX, 4, false},
	{0x2D, opAND, ModeAbsolute, 4, false},
	{0x3D, opAND, ModeAbsoluteX, 4, true},
	{0x39, opAND, ModeAbsoluteY, 4, true},
	{0x21, opAND, ModeIndexedIndirectX, 6, false},
	{0x31, opAND, ModeIndirectIndexedY, 5, true},

	// ORA
	{0x09, opORA, ModeImmediate, 2, false},
	{0x05, opORA, ModeZeroPage, 3, false},
	{0x15, opORA, ModeZeroPageX, 4, false},
	{0x0D, opORA, ModeAbsolute, 4, false},
	{0x1D, opORA, ModeAbsoluteX, 4, true},
	{0x19, opORA, ModeAbsoluteY, 4, true},
	{0x01, opORA, ModeIndexedIndirectX, 6, false},
	{0x11, opORA, ModeIndirectIndexedY, 5, true},

	// EOR
	{0x49, opEOR, ModeImmediate, 2, false},
	{0x45, opEOR, ModeZeroPage, 3, false},
	{0x55, opEOR, ModeZeroPageX, 4, false},
	{0x4D, opEOR, ModeAbsolute, 4, false},
	{0x5D, opEOR, ModeAbsoluteX, 4, true},
	{0x59, opEOR, ModeAbsoluteY, 4, true},
	{0x41, opEOR, ModeIndexedIndirectX, 6, false},
	{0x51, opEOR, ModeIndirectIndexedY, 5, true},

	// ASL
	{0x0A, opASL, ModeAccumulator, 2, false},
	{0x06, opASL, ModeZeroPage, 5, false},
	{0x16, opASL, ModeZeroPageX, 6, false},
	{0x0E, opASL, ModeAbsolute, 6, false},
	{0x1E, opASL, ModeAbsoluteX, 7, false},

	// LSR
	{0x4A, opLSR, ModeAccumulator, 2, false},
	{0x46, opLSR, ModeZeroPage, 5, false},
	{0x56, opLSR, ModeZeroPageX, 6, false},
	{0x4E, opLSR, ModeAbsolute, 6, false},
	{0x5E, opLSR, ModeAbsoluteX, 7, false},

	// ROL
	{0x2A, opROL, ModeAccumulator, 2, false},
	{0x26, opROL, ModeZeroPage, 5, false},
	{0x36, opROL, ModeZeroPageX, 6, false},
	{0x2E, opROL, ModeAbsolute, 6, false},
	{0x3E, opROL, ModeAbsoluteX, 7, false},

	// ROR
	{0x6A, opROR, ModeAccumulator, 2, false},
	{0x66, opROR, ModeZeroPage, 5, false},
	{0x76, opROR, ModeZeroPageX, 6, false},
	{0x6E, opROR, ModeAbsolute, 6, false},
	{0x7E, opROR, ModeAbsoluteX, 7, false},

	// INC/DEC
	{0xE6, opINC, ModeZeroPage, 5, false},
	{0xF6, opINC, ModeZeroPageX, 6, false},
	{0xEE, opINC, ModeAbsolute, 6, false},
	{0xFE, opINC, ModeAbsoluteX, 7, false},
	{0xC6, opDEC, ModeZeroPage, 5, false},
	{0xD6, opDEC, ModeZeroPageX, 6, false},
	{0xCE, opDEC, ModeAbsolute, 6, false},
	{0xDE, opDEC, ModeAbsoluteX, 7, false},

	{0xE8, opINX, ModeImplied, 2, false},
	{0xC8, opINY, ModeImplied, 2, false},
	{0xCA, opDEX, ModeImplied, 2, false},
	{0x88, opDEY, ModeImplied, 2, false},

	// CMP
	{0xC9, opCMP, ModeImmediate, 2, false},
	{0xC5, opCMP, ModeZeroPage, 3, false},
	{0xD5, opCMP, ModeZeroPageX, 4, false},
	{0xCD, opCMP, ModeAbsolute, 4, false},
	{0xDD, opCMP, ModeAbsoluteX, 4, true},
	{0xD9, opCMP, ModeAbsoluteY, 4, true},
	{0xC1, opCMP, ModeIndexedIndirectX, 6, false},
	{0xD1, opCMP, ModeIndirectIndexedY, 5, true},

	// CPX/CPY
	{0xE0, opCPX, ModeImmediate, 2, false},
	{0xE4, opCPX, ModeZeroPage, 3, false},
	{0xEC, opCPX, ModeAbsolute, 4, false},
	{0xC0, opCPY, ModeImmediate, 2, false},
	{0xC4, opCPY, ModeZeroPage, 3, false},
	{0xCC, opCPY, ModeAbsolute, 4, false},

	// BIT
	{0x24, opBIT, ModeZeroPage, 3, false},
	{0x2C, opBIT, ModeAbsolute, 4, false},

	// Branches (all relative; base 2, +1 taken, +1 more if the branch
	// target crosses a page, both handled by the branch() helper rather
	// than this table's pageCross flag).
	{0x90, opBCC, ModeRelative, 2, false},
	{0xB0, opBCS, ModeRelative, 2, false},
	{0xF0, opBEQ, ModeRelative, 2, false},
	{0xD0, opBNE, ModeRelative, 2, false},
	{0x30, opBMI, ModeRelative, 2, false},
	{0x10, opBPL, ModeRelative, 2, false},
	{0x50, opBVC, ModeRelative, 2, false},
	{0x70, opBVS, ModeRelative, 2, false},

	// Jumps/subroutines.
	{0x4C, opJMP, ModeAbsolute, 3, false},
	{0x6C, opJMP, ModeIndirect, 5, false},
	{0x20, opJSR, ModeAbsolute, 6, false},
	{0x60, opRTS, ModeImplied, 6, false},
	{0x00, opBRK, ModeImplied, 7, false},
	{0x40, opRTI, ModeImplied, 6, false},

	// Flags.
	{0x18, opCLC, ModeImplied, 2, false},
	{0x38, opSEC, ModeImplied, 2, false},
	{0x58, opCLI, ModeImplied, 2, false},
	{0x78, opSEI, ModeImplied, 2, false},
	{0xB8, opCLV, ModeImplied, 2, false},
	{0xD8, opCLD, ModeImplied, 2, false},
	{0xF8, opSED, ModeImplied, 2, false},

	{0xEA, opNOP, ModeImplied, 2, false},
}
