// Command ch8 runs CHIP-8 ROMs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"runtime/pprof"
	"strings"

	"github.com/nf/ch8/chip8"
	"github.com/nf/ch8/host"
	"github.com/nf/ch8/raster"
	"github.com/nf/ch8/rom"
	"github.com/nf/ch8/runloop"
)

func main() {
	log.SetPrefix("ch8: ")
	log.SetFlags(0)

	var (
		driverFlag = flag.String("driver", host.Drivers[0], "window `driver` ("+strings.Join(host.Drivers, ", ")+")")
		scaleFlag  = flag.Float64("scale", 12.5, "screen pixels per CHIP-8 pixel")
		devFlag    = flag.Bool("dev", false, "enable developer mode (reload the ROM when the file changes)")
		debugFlag  = flag.Bool("debug", false, "enable debugger")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")

		versionFlag bool
	)
	flag.BoolVar(&versionFlag, "V", false, "print version and exit")
	flag.BoolVar(&versionFlag, "version", false, "print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.ch8 | ->\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if versionFlag {
		fmt.Println("ch8", version())
		return
	}
	if flag.NArg() != 1 || *scaleFlag <= 0 {
		flag.Usage()
		os.Exit(2)
	}
	name := flag.Arg(0)
	if *devFlag && name == rom.Stdin {
		log.Fatal("-dev needs a ROM file, not stdin")
	}
	if *debugFlag && *driverFlag == "term" {
		log.Fatal("-debug needs the terminal; use another -driver")
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := run(name, config{
		driver: *driverFlag,
		scale:  *scaleFlag,
		dev:    *devFlag,
		debug:  *debugFlag,
	})

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

type config struct {
	driver     string
	scale      float64
	dev, debug bool
}

func run(name string, c config) error {
	b, err := rom.Read(name, os.Stdin)
	if err != nil {
		return err
	}
	loop, err := runloop.New(b, newMachine)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}
	h, err := host.New(c.driver, host.Options{
		Width:  int(raster.Cols * c.scale),
		Height: int(raster.Rows * c.scale),
	})
	if err != nil {
		return err
	}

	var d *debugger
	if c.debug {
		d = newDebugger(h, b)
		loop.OnStep = d.StateFunc
		log.SetPrefix("")
		log.SetOutput(d.log)
		go func() {
			if err := d.Run(); err != nil {
				log.Printf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("ch8: ")
			h.Post(runloop.Event{Quit: true})
		}()
		defer d.Stop()
	}

	if c.dev {
		w, err := rom.Watch(name, func(b []byte) {
			if d != nil {
				d.setROM(b)
			}
			h.Post(runloop.Event{Load: b})
		})
		if err != nil {
			return fmt.Errorf("dev: %w", err)
		}
		defer w.Close()
	}

	return h.Run(loop)
}

// newMachine adapts chip8.New to runloop.Factory.
func newMachine(rom []byte) (runloop.Machine, error) {
	m, err := chip8.New(rom)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func version() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}
