package cpu

import (
	"fmt"

	"github.com/nescore/nes6502/memory"
)

// execute resolves the addressing mode (if any) for entry and performs
// its operation, returning any additional cycles earned (page-cross or
// taken-branch penalties) beyond the table's base cycle count.
func (c *Chip) execute(opcode uint8, entry opcodeEntry) (uint8, error) {
	var addr uint16
	var pageCrossed bool
	if needsAddr(entry.mode) {
		addr, pageCrossed = c.resolveAddr(entry.mode)
	}

	extra := uint8(0)
	if entry.pageCross && pageCrossed {
		extra = 1
	}

	switch entry.op {
	case opLDA:
		c.loadRegister(&c.A, c.bus.Read(addr))
	case opLDX:
		c.loadRegister(&c.X, c.bus.Read(addr))
	case opLDY:
		c.loadRegister(&c.Y, c.bus.Read(addr))
	case opSTA:
		c.bus.Write(addr, c.A)
	case opSTX:
		c.bus.Write(addr, c.X)
	case opSTY:
		c.bus.Write(addr, c.Y)

	case opTAX:
		c.loadRegister(&c.X, c.A)
	case opTAY:
		c.loadRegister(&c.Y, c.A)
	case opTSX:
		c.loadRegister(&c.X, c.S)
	case opTXA:
		c.loadRegister(&c.A, c.X)
	case opTYA:
		c.loadRegister(&c.A, c.Y)
	case opTXS:
		// Unique among transfers: no flags touched.
		c.S = c.X

	case opPHA:
		c.pushStack(c.A)
	case opPHP:
		c.pushStack(c.P | PReserved | PBreak)
	case opPLA:
		c.loadRegister(&c.A, c.popStack())
	case opPLP:
		c.P = (c.popStack() | PReserved) &^ PBreak

	case opADC:
		c.adc(c.bus.Read(addr))
	case opSBC:
		c.adc(^c.bus.Read(addr))

	case opAND:
		c.loadRegister(&c.A, c.A&c.bus.Read(addr))
	case opORA:
		c.loadRegister(&c.A, c.A|c.bus.Read(addr))
	case opEOR:
		c.loadRegister(&c.A, c.A^c.bus.Read(addr))

	case opASL:
		if entry.mode == ModeAccumulator {
			c.A = c.aslValue(c.A)
		} else {
			c.bus.Write(addr, c.aslValue(c.bus.Read(addr)))
		}
	case opLSR:
		if entry.mode == ModeAccumulator {
			c.A = c.lsrValue(c.A)
		} else {
			c.bus.Write(addr, c.lsrValue(c.bus.Read(addr)))
		}
	case opROL:
		if entry.mode == ModeAccumulator {
			c.A = c.rolValue(c.A)
		} else {
			c.bus.Write(addr, c.rolValue(c.bus.Read(addr)))
		}
	case opROR:
		if entry.mode == ModeAccumulator {
			c.A = c.rorValue(c.A)
		} else {
			c.bus.Write(addr, c.rorValue(c.bus.Read(addr)))
		}

	case opINC:
		v := c.bus.Read(addr) + 1
		c.bus.Write(addr, v)
		c.zeroCheck(v)
		c.negativeCheck(v)
	case opDEC:
		v := c.bus.Read(addr) - 1
		c.bus.Write(addr, v)
		c.zeroCheck(v)
		c.negativeCheck(v)
	case opINX:
		c.loadRegister(&c.X, c.X+1)
	case opINY:
		c.loadRegister(&c.Y, c.Y+1)
	case opDEX:
		c.loadRegister(&c.X, c.X-1)
	case opDEY:
		c.loadRegister(&c.Y, c.Y-1)

	case opCMP:
		c.compare(c.A, c.bus.Read(addr))
	case opCPX:
		c.compare(c.X, c.bus.Read(addr))
	case opCPY:
		c.compare(c.Y, c.bus.Read(addr))
	case opBIT:
		c.bit(c.bus.Read(addr))

	case opBCC:
		extra = c.branch(c.P&PCarry == 0, addr, pageCrossed)
	case opBCS:
		extra = c.branch(c.P&PCarry != 0, addr, pageCrossed)
	case opBEQ:
		extra = c.branch(c.P&PZero != 0, addr, pageCrossed)
	case opBNE:
		extra = c.branch(c.P&PZero == 0, addr, pageCrossed)
	case opBMI:
		extra = c.branch(c.P&PNegative != 0, addr, pageCrossed)
	case opBPL:
		extra = c.branch(c.P&PNegative == 0, addr, pageCrossed)
	case opBVC:
		extra = c.branch(c.P&POverflow == 0, addr, pageCrossed)
	case opBVS:
		extra = c.branch(c.P&POverflow != 0, addr, pageCrossed)

	case opJMP:
		c.PC = addr
	case opJSR:
		ret := c.PC - 1
		c.pushStack(uint8(ret >> 8))
		c.pushStack(uint8(ret & 0xFF))
		c.PC = addr
	case opRTS:
		lo := c.popStack()
		hi := c.popStack()
		c.PC = ((uint16(hi) << 8) | uint16(lo)) + 1
	case opBRK:
		// BRK skips (without reading) a padding byte after the opcode.
		c.PC++
		c.pushStack(uint8(c.PC >> 8))
		c.pushStack(uint8(c.PC & 0xFF))
		c.pushStack(c.P | PReserved | PBreak)
		c.P |= PInterrupt
		c.PC = memory.Read16(c.bus, IRQVector)
	case opRTI:
		c.P = (c.popStack() | PReserved) &^ PBreak
		lo := c.popStack()
		hi := c.popStack()
		c.PC = (uint16(hi) << 8) | uint16(lo)

	case opCLC:
		c.P &^= PCarry
	case opSEC:
		c.P |= PCarry
	case opCLI:
		c.P &^= PInterrupt
	case opSEI:
		c.P |= PInterrupt
	case opCLV:
		c.P &^= POverflow
	case opCLD:
		c.P &^= PDecimal
	case opSED:
		c.P |= PDecimal

	case opNOP:
		// No effect.

	default:
		return 0, InvalidCPUState{fmt.Sprintf("unimplemented op id %d for opcode 0x%.2X", entry.op, opcode)}
	}
	return extra, nil
}

// adc implements ADC (and, via a ones-complemented operand, SBC): the
// standard 6502 derivation of subtraction from add-with-carry. BCD mode
// is never consulted; the Ricoh NES variant never implements it.
func (c *Chip) adc(val uint8) {
	carry := uint16(c.P & PCarry)
	sum := uint16(c.A) + uint16(val) + carry
	c.overflowCheck(c.A, val, uint8(sum))
	c.carryCheck(sum)
	c.loadRegister(&c.A, uint8(sum))
}

// compare implements CMP/CPX/CPY: reg - val as unsigned 8-bit
// subtraction, with carry set when reg >= val.
func (c *Chip) compare(reg, val uint8) {
	result := reg - val
	c.zeroCheck(result)
	c.negativeCheck(result)
	c.carryCheck(uint16(reg) + uint16(^val) + 1)
}

// bit implements BIT: Z from A&val, but N and V come from the operand's
// bits 7 and 6 directly, not from the AND result.
func (c *Chip) bit(val uint8) {
	c.zeroCheck(c.A & val)
	c.P &^= PNegative
	if val&PNegative != 0 {
		c.P |= PNegative
	}
	c.P &^= POverflow
	if val&POverflow != 0 {
		c.P |= POverflow
	}
}

func (c *Chip) aslValue(v uint8) uint8 {
	c.carryCheck(uint16(v) << 1)
	res := v << 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

func (c *Chip) lsrValue(v uint8) uint8 {
	c.carryCheck(uint16(v&0x01) << 8)
	res := v >> 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

func (c *Chip) rolValue(v uint8) uint8 {
	oldCarry := c.P & PCarry
	c.carryCheck(uint16(v) << 1)
	res := (v << 1) | oldCarry
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

func (c *Chip) rorValue(v uint8) uint8 {
	oldCarry := c.P & PCarry
	c.carryCheck(uint16(v&0x01) << 8)
	res := (v >> 1) | (oldCarry << 7)
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

// branch applies a conditional branch: if taken, PC moves to target and
// the caller earns 1 cycle, plus a 2nd if the branch crossed a page. An
// untaken branch earns nothing (PC was already left past the offset byte
// by the addressing-mode resolver).
func (c *Chip) branch(taken bool, target uint16, pageCrossed bool) uint8 {
	if !taken {
		return 0
	}
	c.PC = target
	if pageCrossed {
		return 2
	}
	return 1
}
