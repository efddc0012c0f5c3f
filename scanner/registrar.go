package scanner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brunoclausen/steam-nfc-scanner/reader"
	"github.com/brunoclausen/steam-nfc-scanner/store"
)

// Registrar is the single-shot registration flow: wait for one tag,
// prompt for an AppID and optional label, persist, exit.
type Registrar struct {
	reader reader.TagReader
	store  *store.Store
	in     *bufio.Reader
	out    io.Writer
}

// NewRegistrar wires up a Registrar reading prompts from in and writing
// to out.
func NewRegistrar(r reader.TagReader, st *store.Store, in io.Reader, out io.Writer) *Registrar {
	return &Registrar{
		reader: r,
		store:  st,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Run performs one registration. Returns nil when cancelled before a tag
// showed up.
func (rg *Registrar) Run(ctx context.Context) error {
	if err := rg.store.EnsureInitialized(); err != nil {
		return err
	}

	fmt.Fprintln(rg.out, "Hold a tag against the reader...")

	var uid string
	for uid == "" {
		u, err := rg.reader.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read tag: %w", err)
		}
		uid = u
	}

	fmt.Fprintf(rg.out, "Tag %s\n", uid)

	appid, err := rg.promptRequired("Steam AppID: ")
	if err != nil {
		return err
	}
	name, err := rg.prompt("Label (optional): ")
	if err != nil {
		return err
	}

	m := rg.store.Load()
	m[uid] = store.Entry{AppID: appid, Name: name}
	if err := rg.store.Save(m); err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}

	fmt.Fprintf(rg.out, "Registered %s -> appid %s\n", uid, appid)
	return nil
}

func (rg *Registrar) prompt(label string) (string, error) {
	fmt.Fprint(rg.out, label)
	line, err := rg.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptRequired keeps asking until the answer is non-empty.
func (rg *Registrar) promptRequired(label string) (string, error) {
	for {
		v, err := rg.prompt(label)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
	}
}
