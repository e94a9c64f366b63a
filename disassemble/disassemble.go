// Package disassemble turns the byte at a program counter into its
// 6502 mnemonic text. It is a consumer of the cpu package's own decode
// table (via cpu.Lookup) rather than keeping a second opcode matrix, so
// a disassembly always agrees with what Run would actually execute.
package disassemble

import (
	"fmt"

	"github.com/nescore/nes6502/cpu"
	"github.com/nescore/nes6502/memory"
)

// Step disassembles the instruction at pc, returning its text and the
// number of bytes (1-3) it occupies. It never executes or follows
// control flow: a JMP's target is printed, not chased. The byte(s) past
// the opcode are read even for 1-byte instructions' sake of a uniform
// lookahead, so pc+2 must be a valid address.
func Step(pc uint16, bus memory.Bus) (string, int) {
	opcode := bus.Read(pc)
	mnemonic, mode, ok := cpu.Lookup(opcode)
	if !ok {
		return mnemonic, 1
	}
	b1 := bus.Read(pc + 1)
	b2 := bus.Read(pc + 2)

	switch mode {
	case cpu.ModeImplied:
		return mnemonic, 1
	case cpu.ModeAccumulator:
		return fmt.Sprintf("%s A", mnemonic), 1
	case cpu.ModeImmediate:
		return fmt.Sprintf("%s #$%.2X", mnemonic, b1), 2
	case cpu.ModeZeroPage:
		return fmt.Sprintf("%s $%.2X", mnemonic, b1), 2
	case cpu.ModeZeroPageX:
		return fmt.Sprintf("%s $%.2X,X", mnemonic, b1), 2
	case cpu.ModeZeroPageY:
		return fmt.Sprintf("%s $%.2X,Y", mnemonic, b1), 2
	case cpu.ModeIndexedIndirectX:
		return fmt.Sprintf("%s ($%.2X,X)", mnemonic, b1), 2
	case cpu.ModeIndirectIndexedY:
		return fmt.Sprintf("%s ($%.2X),Y", mnemonic, b1), 2
	case cpu.ModeRelative:
		target := pc + 2 + uint16(int16(int8(b1)))
		return fmt.Sprintf("%s $%.4X", mnemonic, target), 2
	case cpu.ModeAbsolute:
		return fmt.Sprintf("%s $%.4X", mnemonic, (uint16(b2)<<8)|uint16(b1)), 3
	case cpu.ModeAbsoluteX:
		return fmt.Sprintf("%s $%.4X,X", mnemonic, (uint16(b2)<<8)|uint16(b1)), 3
	case cpu.ModeAbsoluteY:
		return fmt.Sprintf("%s $%.4X,Y", mnemonic, (uint16(b2)<<8)|uint16(b1)), 3
	case cpu.ModeIndirect:
		return fmt.Sprintf("%s ($%.4X)", mnemonic, (uint16(b2)<<8)|uint16(b1)), 3
	}
	return mnemonic, 1
}
