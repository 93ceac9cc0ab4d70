// Command dmgrun is a headless runner for the DMG core: it loads a
// ROM, runs it for a fixed number of frames with no window, input, or
// audio output, and optionally dumps the final frame as a BMP and/or a
// frame-timing histogram. It exists to give the core's ambient
// diagnostics and golden-frame tooling a runnable home outside any GUI
// shell.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/corvidlabs/dmg-core/internal/cartridge"
	"github.com/corvidlabs/dmg-core/internal/diag"
	"github.com/corvidlabs/dmg-core/internal/gameboy"
	"github.com/corvidlabs/dmg-core/internal/loader"
	"github.com/corvidlabs/dmg-core/pkg/emulator"
)

func main() {
	romPath := flag.String("rom", "", "ROM file to load (.gb/.gbc, optionally .zip/.7z/.gz compressed)")
	bootPath := flag.String("boot", "", "boot ROM image to run before the cartridge (default: skip straight to post-boot state)")
	frames := flag.Int("frames", 60, "number of frames to run")
	dumpBMP := flag.String("dump-bmp", "", "write the final frame to this path as a BMP")
	palette := flag.String("palette", "greyscale", "palette for -dump-bmp: greyscale or green")
	histogram := flag.String("histogram", "", "write a per-frame T-cycle histogram PNG to this path")
	noSave := flag.Bool("no-save", false, "do not read or write a <md5>.sav cart-RAM file")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "dmgrun: -rom is required")
		os.Exit(2)
	}

	if err := run(*romPath, *bootPath, *frames, *dumpBMP, *palette, *histogram, *noSave); err != nil {
		fmt.Fprintf(os.Stderr, "dmgrun: %v\n", err)
		os.Exit(1)
	}
}

func run(romPath, bootPath string, frames int, dumpBMP, paletteName, histogramPath string, noSave bool) error {
	rom, err := loader.LoadROM(romPath)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	var ram cartridge.CartRAM
	var save *emulator.Save
	if !noSave {
		cart, err := cartridge.Load(rom, nil)
		if err != nil {
			return fmt.Errorf("parsing header: %w", err)
		}
		save, err = emulator.NewSave(cart.MD5(), int(cart.Header().RAMSize))
		if err != nil {
			return fmt.Errorf("opening save file: %w", err)
		}
		ram = save
	}

	var opts []gameboy.Opt
	if bootPath != "" {
		bootImage, err := loader.LoadROM(bootPath)
		if err != nil {
			return fmt.Errorf("loading boot rom: %w", err)
		}
		opts = append(opts, gameboy.WithBootROM(bootImage))
	}

	frame := loader.NewFrame()
	if dumpBMP != "" {
		opts = append(opts, gameboy.WithLineSink(frame.Sink))
	}

	recorder := diag.NewFrameTimingRecorder()
	if histogramPath != "" {
		opts = append(opts, gameboy.WithFrameObserver(recorder.Observe))
	}

	opts = append(opts, gameboy.WithOnError(func(kind string, addr uint16) {
		fmt.Fprintf(os.Stderr, "dmgrun: runtime fault %s at %#04x\n", kind, addr)
		os.Exit(1)
	}))

	gb, err := gameboy.New(rom, ram, opts...)
	if err != nil {
		return fmt.Errorf("loading cartridge: %w", err)
	}
	fmt.Printf("dmgrun: running %q for %d frames\n", gb.Cart.Title(), frames)

	for i := 0; i < frames; i++ {
		gb.RunFrame()
	}

	if save != nil {
		if err := save.Close(); err != nil {
			return fmt.Errorf("writing save file: %w", err)
		}
	}

	if dumpBMP != "" {
		pal := loader.Greyscale
		if paletteName == "green" {
			pal = loader.DMGGreen
		}
		if err := frame.DumpBMPFile(dumpBMP, pal); err != nil {
			return fmt.Errorf("dumping bmp: %w", err)
		}
	}

	if histogramPath != "" {
		f, err := os.Create(histogramPath)
		if err != nil {
			return fmt.Errorf("creating histogram file: %w", err)
		}
		defer f.Close()
		if err := diag.FrameTimingHistogram(recorder.Samples(), 640, 480, f); err != nil {
			return fmt.Errorf("rendering histogram: %w", err)
		}
	}

	return nil
}
