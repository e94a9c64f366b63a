package cpu

import "github.com/nescore/nes6502/memory"

// resolveAddr consumes 0-2 bytes at PC (advancing PC) for the given
// addressing mode and returns the effective address plus whether an
// indexed access crossed a page boundary. Accumulator and Implied modes
// have no effective address and must not be passed here; callers branch
// on entry.mode before calling.
func (c *Chip) resolveAddr(mode AddrMode) (uint16, bool) {
	switch mode {
	case ModeImmediate:
		// The operand byte is at PC; the effective "address" is PC itself.
		addr := c.PC
		c.PC++
		return addr, false

	case ModeZeroPage:
		b := c.bus.Read(c.PC)
		c.PC++
		return uint16(b), false

	case ModeZeroPageX:
		b := c.bus.Read(c.PC)
		c.PC++
		return uint16(b + c.X), false

	case ModeZeroPageY:
		b := c.bus.Read(c.PC)
		c.PC++
		return uint16(b + c.Y), false

	case ModeAbsolute:
		addr := memory.Read16(c.bus, c.PC)
		c.PC += 2
		return addr, false

	case ModeAbsoluteX:
		return c.resolveIndexedAbsolute(c.X)

	case ModeAbsoluteY:
		return c.resolveIndexedAbsolute(c.Y)

	case ModeIndirect:
		// JMP only. Quirk: if the low byte of the pointer is 0xFF the high
		// byte is read from the same page, not the next one.
		ptr := memory.Read16(c.bus, c.PC)
		c.PC += 2
		lo := c.bus.Read(ptr)
		hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr&0xFF)+1)
		hi := c.bus.Read(hiAddr)
		return (uint16(hi) << 8) | uint16(lo), false

	case ModeIndexedIndirectX:
		b := c.bus.Read(c.PC)
		c.PC++
		ptr := b + c.X
		lo := c.bus.Read(uint16(ptr))
		hi := c.bus.Read(uint16(ptr + 1))
		return (uint16(hi) << 8) | uint16(lo), false

	case ModeIndirectIndexedY:
		b := c.bus.Read(c.PC)
		c.PC++
		lo := c.bus.Read(uint16(b))
		hi := c.bus.Read(uint16(b + 1))
		base := (uint16(hi) << 8) | uint16(lo)
		addr := base + uint16(c.Y)
		return addr, (addr & 0xFF00) != (base & 0xFF00)

	case ModeRelative:
		off := int8(c.bus.Read(c.PC))
		c.PC++
		target := c.PC + uint16(int16(off))
		return target, (target & 0xFF00) != (c.PC & 0xFF00)
	}
	// ModeAccumulator, ModeImplied: not reachable, callers never resolve these.
	return 0, false
}

func (c *Chip) resolveIndexedAbsolute(idx uint8) (uint16, bool) {
	base := memory.Read16(c.bus, c.PC)
	c.PC += 2
	addr := base + uint16(idx)
	return addr, (addr & 0xFF00) != (base & 0xFF00)
}

// needsAddr reports whether mode requires resolveAddr at all.
func needsAddr(mode AddrMode) bool {
	return mode != ModeImplied && mode != ModeAccumulator
}
