package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/brunoclausen/steam-nfc-scanner/config"
	"github.com/brunoclausen/steam-nfc-scanner/events"
	"github.com/brunoclausen/steam-nfc-scanner/launcher"
	"github.com/brunoclausen/steam-nfc-scanner/reader"
	"github.com/brunoclausen/steam-nfc-scanner/scanner"
	"github.com/brunoclausen/steam-nfc-scanner/store"
)

var myBuild string

func main() {
	fmt.Printf("steamtagd build %s\n", myBuild)

	cfgfile := flag.String("cfg", "", "Config file (YAML)")
	readerType := flag.String("reader", "", "Reader type override (serial, keyboard, fifo)")
	device := flag.String("device", "", "Reader device override")
	flag.Parse()

	cfg, err := config.Load(*cfgfile)
	if err != nil {
		log.Printf("Load config: %v", err)
		os.Exit(1)
	}
	if *readerType != "" {
		cfg.Reader.Type = *readerType
	}
	if *device != "" {
		cfg.Reader.Device = *device
	}

	st := store.New(cfg.Store)
	if err := st.EnsureInitialized(); err != nil {
		// Not fatal: lookups degrade to an empty mapping.
		log.Printf("Init mapping store: %v", err)
	}
	log.Printf("Mapping store: %s", st.Path())

	rd, err := reader.New(cfg.Reader)
	if err != nil {
		log.Printf("Open reader: %v", err)
		os.Exit(2)
	}

	ev, err := events.New(cfg.Events, cfg.ClientID)
	if err != nil {
		log.Printf("Init event publisher: %v", err)
		os.Exit(1)
	}
	go func() {
		if err := ev.Connect(); err != nil {
			log.Printf("Event publisher connect: %v", err)
		}
	}()

	app := scanner.NewListener(rd, st, launcher.New(cfg.Launcher), ev)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("Shutting down...")
		cancel()
	}()

	err = app.Run(ctx)

	// Best-effort cleanup; close errors do not matter on the way out.
	_ = rd.Close()
	ev.Disconnect()

	if err != nil {
		log.Printf("Listener: %v", err)
		os.Exit(1)
	}
}
