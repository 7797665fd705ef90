package main

import (
	"flag"
	"log"

	"github.com/nevisdale/nestic-8bit/internal/nes"
	"github.com/nevisdale/nestic-8bit/internal/ui"
	"github.com/pkg/profile"
)

func main() {
	romPath := flag.String("rom", "", "path to an iNES .nes file to load")
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile to ./cpu.pprof")
	scale := flag.Int("scale", 2, "window scale factor")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("missing -rom")
	}

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	cart, err := nes.NewCartFromFile(*romPath)
	if err != nil {
		log.Fatalf("couldn't load rom: %s", err)
	}

	bus := nes.NewBus()
	bus.LoadCart(cart)

	if err := ui.RunUI(ui.New(bus, *scale)); err != nil {
		log.Fatalf("ui exited with error: %s", err)
	}
}
