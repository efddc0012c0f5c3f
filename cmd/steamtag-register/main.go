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
	"github.com/brunoclausen/steam-nfc-scanner/reader"
	"github.com/brunoclausen/steam-nfc-scanner/scanner"
	"github.com/brunoclausen/steam-nfc-scanner/store"
)

func main() {
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

	rd, err := reader.New(cfg.Reader)
	if err != nil {
		log.Printf("Open reader: %v", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println()
		cancel()
	}()

	rg := scanner.NewRegistrar(rd, store.New(cfg.Store), os.Stdin, os.Stdout)
	err = rg.Run(ctx)

	_ = rd.Close()

	if err != nil {
		log.Printf("Register: %v", err)
		os.Exit(1)
	}
}
