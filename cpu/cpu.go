// Package cpu implements the MOS 6502 core (Ricoh NES variant: no BCD
// mode) as used by the NES: register file, status flags, the 256-entry
// opcode decode table, the addressing-mode resolver, and the
// instruction-granularity fetch/decode/execute loop.
package cpu

import (
	"fmt"

	"github.com/nescore/nes6502/irq"
	"github.com/nescore/nes6502/memory"
)

// Status flag bit positions within P, packed N V - B D I Z C (bit 7..0).
const (
	PNegative  = uint8(0x80)
	POverflow  = uint8(0x40)
	PReserved  = uint8(0x20) // Always reads as 1.
	PBreak     = uint8(0x10) // Set by PowerOn; always set in bytes pushed by BRK/PHP, cleared by PLP/RTI.
	PDecimal   = uint8(0x08) // Carried in P but never consulted (no BCD mode).
	PInterrupt = uint8(0x04)
	PZero      = uint8(0x02)
	PCarry     = uint8(0x01)
)

// Interrupt/reset vector addresses.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// InvalidCPUState represents an internal precondition violation: a
// programming error by the host, never raised by valid ROM execution.
type InvalidCPUState struct {
	Reason string
}

// Error implements error.
func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// HaltOpcode is returned when the decode table has no defined operation
// for the opcode byte fetched. The CPU remains halted until Reset.
type HaltOpcode struct {
	Opcode uint8
}

// Error implements error.
func (e HaltOpcode) Error() string {
	return fmt.Sprintf("HALT(0x%.2X) executed", e.Opcode)
}

// Chip is a single 6502 core bound to a memory.Bus. It owns all
// programmer-visible state; the bus is shared and called synchronously.
type Chip struct {
	A  uint8
	X  uint8
	Y  uint8
	S  uint8
	P  uint8
	PC uint16

	cycles uint64

	halted     bool
	haltOpcode uint8
	irqPending bool

	bus memory.Bus

	// Optional interrupt sources. Nmi is edge-detected across Run
	// invocations; Irq is level-detected and gated on the I flag, both
	// serviced at instruction boundaries like real hardware.
	nmi     irq.Sender
	irq     irq.Sender
	nmiPrev bool
}

// ChipDef defines how to construct a Chip.
type ChipDef struct {
	// Bus is the memory interface this core reads/writes through. Required.
	Bus memory.Bus
	// Nmi, if non-nil, is polled (edge-triggered) at instruction boundaries.
	Nmi irq.Sender
	// Irq, if non-nil, is polled (level-triggered, gated by the I flag) at
	// instruction boundaries.
	Irq irq.Sender
}

// Init constructs a Chip bound to the given bus and optional interrupt
// sources, then powers it on (see PowerOn).
func Init(def *ChipDef) (*Chip, error) {
	if def == nil || def.Bus == nil {
		return nil, InvalidCPUState{"Init requires a non-nil Bus"}
	}
	c := &Chip{
		bus: def.Bus,
		nmi: def.Nmi,
		irq: def.Irq,
	}
	if err := c.PowerOn(); err != nil {
		return nil, err
	}
	return c, nil
}

// Halted reports whether an undefined opcode has stopped the core.
func (c *Chip) Halted() bool {
	return c.halted
}

// Cycles returns the monotonic cycle count since the last PowerOn. Reset
// does not clear it.
func (c *Chip) Cycles() uint64 {
	return c.cycles
}

// SetIRQPending asserts the host-driven IRQ-return latch: the next Run
// invocation will return at the next instruction boundary without
// servicing an interrupt itself, handing control back to the host.
func (c *Chip) SetIRQPending(v bool) {
	c.irqPending = v
}

// PowerOn resets all registers to the documented power-on state (A, X, Y
// zeroed; S=0xFD; P=0x34 with I set and the reserved/break bits set) and
// then performs a cold Reset to load PC from the reset vector.
func (c *Chip) PowerOn() error {
	c.A, c.X, c.Y = 0, 0, 0
	c.S = 0xFD
	c.P = PReserved | PBreak | PInterrupt
	c.cycles = 0
	c.halted = false
	c.haltOpcode = 0
	c.irqPending = false
	c.nmiPrev = false
	return c.reset(true)
}

// Reset performs the reset sequence described for a running system: A,
// X, Y are preserved, I is forced set, the APU-adjacent I/O shadow is
// quieted, and PC is reloaded from the reset vector.
func (c *Chip) Reset() error {
	return c.reset(c.cycles == 0)
}

func (c *Chip) reset(cold bool) error {
	if cold {
		for a := uint16(0x4000); a <= 0x4013; a++ {
			c.bus.Write(a, 0)
		}
	}
	c.P |= PInterrupt
	c.bus.Write(0x4015, 0)
	if cold {
		c.bus.Write(0x4017, 0)
	}
	c.PC = memory.Read16(c.bus, ResetVector)
	c.halted = false
	c.haltOpcode = 0
	c.irqPending = false
	return nil
}

// NMI performs the non-maskable-interrupt entry sequence immediately:
// push PC high, PC low, P (with B cleared, reserved set); set I; load PC
// from the NMI vector. Intended to be called by the host between Run
// invocations, or automatically via a wired irq.Sender (see ChipDef.Nmi).
func (c *Chip) NMI() error {
	c.pushStack(uint8(c.PC >> 8))
	c.pushStack(uint8(c.PC & 0xFF))
	push := (c.P | PReserved) &^ PBreak
	c.pushStack(push)
	c.P |= PInterrupt
	c.PC = memory.Read16(c.bus, NMIVector)
	return nil
}

// serviceIRQ performs a hardware (non-BRK) IRQ entry: identical to NMI
// but through the IRQ/BRK vector and without forcing B clear beyond the
// normal push (B is cleared exactly as it is for NMI).
func (c *Chip) serviceIRQ() error {
	c.pushStack(uint8(c.PC >> 8))
	c.pushStack(uint8(c.PC & 0xFF))
	push := (c.P | PReserved) &^ PBreak
	c.pushStack(push)
	c.P |= PInterrupt
	c.PC = memory.Read16(c.bus, IRQVector)
	return nil
}

func (c *Chip) pushStack(val uint8) {
	c.bus.Write(0x0100|uint16(c.S), val)
	c.S--
}

func (c *Chip) popStack() uint8 {
	c.S++
	return c.bus.Read(0x0100 | uint16(c.S))
}

// Run executes instructions until the cycle budget is met, the CPU
// halts on an undefined opcode, or the host's irq_pending latch causes
// the loop to return control at the next instruction boundary. It
// returns the number of cycles actually consumed by this call.
func (c *Chip) Run(budget uint64) (uint64, error) {
	if budget == 0 {
		return 0, InvalidCPUState{"Run called with a zero cycle budget"}
	}
	var consumed uint64
	for {
		if c.halted {
			return consumed, HaltOpcode{c.haltOpcode}
		}
		if c.irqPending {
			return consumed, nil
		}
		if c.nmi != nil {
			raised := c.nmi.Raised()
			entering := raised && !c.nmiPrev
			c.nmiPrev = raised
			if entering {
				if err := c.NMI(); err != nil {
					return consumed, err
				}
				consumed += 7
				c.cycles += 7
				if consumed >= budget {
					return consumed, nil
				}
				continue
			}
		}
		if c.irq != nil && c.irq.Raised() && c.P&PInterrupt == 0 {
			if err := c.serviceIRQ(); err != nil {
				return consumed, err
			}
			consumed += 7
			c.cycles += 7
			if consumed >= budget {
				return consumed, nil
			}
			continue
		}

		opcode := c.bus.Read(c.PC)
		c.PC++

		entry := decodeTable[opcode]
		if entry.op == opUndefined {
			c.halted = true
			c.haltOpcode = opcode
			return consumed, HaltOpcode{opcode}
		}

		extra, err := c.execute(opcode, entry)
		if err != nil {
			c.halted = true
			c.haltOpcode = opcode
			return consumed, err
		}

		spent := uint64(entry.cycles) + uint64(extra)
		c.cycles += spent
		consumed += spent

		if consumed >= budget {
			return consumed, nil
		}
	}
}

// zeroCheck sets the Z flag based on the byte value.
func (c *Chip) zeroCheck(v uint8) {
	c.P &^= PZero
	if v == 0 {
		c.P |= PZero
	}
}

// negativeCheck sets the N flag from bit 7 of the byte value.
func (c *Chip) negativeCheck(v uint8) {
	c.P &^= PNegative
	if v&PNegative != 0 {
		c.P |= PNegative
	}
}

// carryCheck sets the C flag if the 16-bit ALU result carried out of bit 7.
func (c *Chip) carryCheck(res uint16) {
	c.P &^= PCarry
	if res >= 0x100 {
		c.P |= PCarry
	}
}

// overflowCheck sets the V flag when adding reg and arg produced a result
// with a sign that neither operand's sign could explain (two's complement
// overflow). See http://www.righto.com/2012/12/the-6502-overflow-flag-explained.html.
func (c *Chip) overflowCheck(reg, arg, res uint8) {
	c.P &^= POverflow
	if (reg^res)&(arg^res)&0x80 != 0 {
		c.P |= POverflow
	}
}

// loadRegister stores val into reg and sets N/Z from it. Used by every
// instruction that ends with "set the register, then set flags from it".
func (c *Chip) loadRegister(reg *uint8, val uint8) {
	*reg = val
	c.zeroCheck(val)
	c.negativeCheck(val)
}
