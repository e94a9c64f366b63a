// Command nesrun loads an iNES ROM, maps its PRG banks into CPU address
// space, and runs the core for a fixed cycle budget, optionally tracing
// every instruction it executes.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nescore/nes6502/cpu"
	"github.com/nescore/nes6502/disassemble"
	"github.com/nescore/nes6502/ines"
	"github.com/nescore/nes6502/irq"
	"github.com/nescore/nes6502/memory"
)

func main() {
	app := &cli.App{
		Name:  "nesrun",
		Usage: "run an iNES ROM's PRG code through the 6502 core",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "rom",
				Aliases:  []string{"r"},
				Usage:    "path to the .nes ROM image",
				Value:    "rom.nes",
			},
			&cli.Uint64Flag{
				Name:    "cycles",
				Aliases: []string{"c"},
				Usage:   "cycle budget to run before stopping",
				Value:   1_000_000,
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "log every instruction executed (slow)",
			},
			&cli.Uint64Flag{
				Name:  "nmi-at",
				Usage: "assert an NMI once the cycle count reaches this value (0 disables)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	budget := c.Uint64("cycles")
	trace := c.Bool("trace")
	nmiAt := c.Uint64("nmi-at")

	data, err := os.ReadFile(romPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading %s: %v", romPath, err), 1)
	}

	rom, err := ines.Parse(data)
	if err != nil {
		return cli.Exit(fmt.Sprintf("parsing %s: %v", romPath, err), 1)
	}
	log.Printf("loaded %s: mapper %d, %d PRG bank(s), %d CHR bank(s), mirror=%v",
		romPath, rom.Mapper, rom.PRGBanks, rom.CHRBanks, rom.Mirror)
	if rom.Mapper != 0 {
		log.Printf("warning: mapper %d has no bank-switching support; PRG is loaded flat", rom.Mapper)
	}

	bus := memory.NewRAM()
	loadPRG(bus, rom.PRG)

	// nmi is wired through ChipDef so Run polls it at instruction
	// boundaries (see cpu.Chip.Run); -nmi-at just flips the latch once
	// the requested cycle count has elapsed, the same way a mapper's
	// scanline counter or a host test harness would.
	nmi := &irq.Latch{}
	chip, err := cpu.Init(&cpu.ChipDef{Bus: bus, Nmi: nmi})
	if err != nil {
		return cli.Exit(fmt.Sprintf("initializing CPU: %v", err), 1)
	}

	var consumed uint64
	for consumed < budget {
		if nmiAt != 0 && consumed >= nmiAt {
			nmi.Set()
		}
		if trace {
			text, _ := disassemble.Step(chip.PC, bus)
			log.Printf("%.4X  A=%.2X X=%.2X Y=%.2X P=%.2X S=%.2X  %s",
				chip.PC, chip.A, chip.X, chip.Y, chip.P, chip.S, text)
		}
		n, err := chip.Run(1)
		consumed += n
		if err != nil {
			if _, ok := err.(cpu.HaltOpcode); ok {
				log.Printf("halted after %d cycles: %v", consumed, err)
				return nil
			}
			return cli.Exit(fmt.Sprintf("running: %v", err), 1)
		}
	}

	log.Printf("ran %d cycles: A=%.2X X=%.2X Y=%.2X P=%.2X S=%.2X PC=%.4X",
		consumed, chip.A, chip.X, chip.Y, chip.P, chip.S, chip.PC)
	return nil
}

// loadPRG maps PRG-ROM into the 0x8000-0xFFFF window. A single 16KB bank
// is mirrored into both halves; two banks fill the window directly.
// Larger images (bank-switching mappers) are loaded flat from 0x8000,
// truncated at the top of address space — bank switching itself is out
// of scope for this core.
func loadPRG(bus *memory.RAM, prg []uint8) {
	const (
		lowBank  = 0x8000
		highBank = 0xC000
		bankSize = 16 * 1024
	)
	switch {
	case len(prg) >= 2*bankSize:
		bus.LoadAt(lowBank, prg[:2*bankSize])
	case len(prg) == bankSize:
		bus.LoadAt(lowBank, prg)
		bus.LoadAt(highBank, prg)
	default:
		bus.LoadAt(lowBank, prg)
	}
}
