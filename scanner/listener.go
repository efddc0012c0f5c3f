package scanner

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/brunoclausen/steam-nfc-scanner/launcher"
	"github.com/brunoclausen/steam-nfc-scanner/reader"
	"github.com/brunoclausen/steam-nfc-scanner/store"
)

// GameLauncher asks the host to open a URL. Satisfied by
// *launcher.Launcher.
type GameLauncher interface {
	Launch(url string)
}

// EventSink receives scan notifications. Satisfied by *events.Publisher.
type EventSink interface {
	PublishScan(uid string)
	PublishLaunch(uid, appid, name string)
	PublishUnknown(uid string)
}

// Listener is the steady-state scan loop: wait for a tag, look its UID
// up in the mapping store, launch the matched game. The store is read
// fresh on every contact so registrations made by a concurrently running
// registrar take effect immediately.
type Listener struct {
	reader   reader.TagReader
	store    *store.Store
	launcher GameLauncher
	events   EventSink

	// pause between scan cycles, keeps the poll loop from spinning
	cycleDelay time.Duration
}

// NewListener wires up a Listener. events may be nil.
func NewListener(r reader.TagReader, st *store.Store, l GameLauncher, ev EventSink) *Listener {
	return &Listener{
		reader:     r,
		store:      st,
		launcher:   l,
		events:     ev,
		cycleDelay: 300 * time.Millisecond,
	}
}

// Run loops until the context is cancelled. Per-tag problems are logged
// and the loop keeps going; only cancellation ends it, and that returns
// nil so a signal-driven shutdown exits clean.
func (l *Listener) Run(ctx context.Context) error {
	log.Println("Waiting for tags")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		uid, err := l.reader.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Printf("Read tag: %v", err)
			sleep(ctx, time.Second)
			continue
		}

		if uid != "" {
			l.handleTag(uid)
		}

		sleep(ctx, l.cycleDelay)
	}
}

func (l *Listener) handleTag(uid string) {
	log.Printf("Tag read: %s", uid)
	if l.events != nil {
		l.events.PublishScan(uid)
	}

	entry, found := l.store.Lookup(uid)
	if !found {
		log.Printf("Tag %s: no mapping, register it with steamtag-register", uid)
		if l.events != nil {
			l.events.PublishUnknown(uid)
		}
		return
	}

	log.Printf("Tag %s: launching appid %s (%s)", uid, entry.AppID, entry.Name)
	if l.events != nil {
		l.events.PublishLaunch(uid, entry.AppID, entry.Name)
	}
	l.launchGame(entry.AppID)
}

// launchGame dispatches to the host. Whatever goes wrong in there stays
// in there; the scan loop must survive every launch attempt.
func (l *Listener) launchGame(appid string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Launch dispatch panic: %v", r)
		}
	}()

	l.launcher.Launch(launcher.RunGameURL(appid))
}

// sleep waits for the duration or until the context is done.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
