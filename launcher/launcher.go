package launcher

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
)

// DefaultBox is the distrobox container entered by the second fallback
// tier when no box name is configured.
const DefaultBox = "gaming"

// Outcome is the result of attempting one fallback tier.
type Outcome int

const (
	// Started means the tier's binary exists and the process was spawned.
	// Whether it ultimately opened the URL is not checked.
	Started Outcome = iota
	// NotFound means the tier's binary is not installed; try the next tier.
	NotFound
	// Failed means the binary exists but could not be started.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Started:
		return "started"
	case NotFound:
		return "not found"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Config holds host-launch settings.
type Config struct {
	// BoxName is the distrobox container name used by the
	// distrobox-enter fallback tier. Defaults to DefaultBox.
	BoxName string `yaml:"box_name"`
}

// Tier is one candidate command for asking the host to open a URL.
type Tier struct {
	Name string
	Argv func(url string) []string
}

// Runner spawns a tier's command and reports how that went.
type Runner func(argv []string) Outcome

// Launcher asks the host environment to open URLs through an ordered
// fallback of shim commands. From inside the container, flatpak-spawn
// is the sanctioned way out; distrobox-enter is the second guess; if
// neither binary exists the user gets the command to run by hand.
type Launcher struct {
	tiers []Tier
	run   Runner
	out   io.Writer
}

// New creates a Launcher with the default tier list.
func New(cfg Config) *Launcher {
	box := cfg.BoxName
	if box == "" {
		box = DefaultBox
	}

	tiers := []Tier{
		{
			Name: "flatpak-spawn",
			Argv: func(url string) []string {
				return []string{"flatpak-spawn", "--host", "xdg-open", url}
			},
		},
		{
			Name: "distrobox-enter",
			Argv: func(url string) []string {
				return []string{"distrobox-enter", "--name", box, "--", "xdg-open", url}
			},
		},
	}

	return &Launcher{
		tiers: tiers,
		run:   runDetached,
		out:   os.Stdout,
	}
}

// Launch tries each tier in order and stops at the first one whose binary
// exists. Exactly one tier runs per call. Nothing that happens in here is
// allowed to escape as an error; the worst case is a printed instruction.
func (l *Launcher) Launch(url string) {
	for _, t := range l.tiers {
		switch l.run(t.Argv(url)) {
		case Started:
			log.Printf("Dispatched %s via %s", url, t.Name)
			return
		case Failed:
			log.Printf("%s found but failed to start, giving up on %s", t.Name, url)
			return
		case NotFound:
			// tier binary not installed, fall through
		}
	}

	fmt.Fprintf(l.out, "No host launch helper found. Run this on the host to start the game:\n")
	fmt.Fprintf(l.out, "  xdg-open %s\n", url)
}

// runDetached is the default Runner. The child's output is discarded and
// its exit status is never inspected; "it started" is all we ask.
func runDetached(argv []string) Outcome {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return NotFound
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return NotFound
		}
		return Failed
	}

	// Reap the child in the background so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()

	return Started
}

// RunGameURL builds the steam:// URL for an AppID. The AppID is used
// verbatim; it was stored as free-form text and is not validated here.
func RunGameURL(appid string) string {
	return "steam://rungameid/" + appid
}
