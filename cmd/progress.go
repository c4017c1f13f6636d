package cmd

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"photoprep/internal/processor"
	"photoprep/internal/tui"
)

// progress owns the update channel for one run and whatever is draining it:
// the bubbletea model on a terminal, a plain line printer otherwise.
type progress struct {
	updates chan processor.ProgressUpdate
	done    chan struct{}
}

func startProgress(title string, interactive bool, out io.Writer, cancel context.CancelFunc) *progress {
	p := &progress{
		updates: make(chan processor.ProgressUpdate, 64),
		done:    make(chan struct{}),
	}

	if interactive {
		program := tea.NewProgram(tui.NewModel(title, p.updates, cancel), tea.WithOutput(out))
		go p.display(out, func() error {
			_, err := program.Run()
			return err
		})
		return p
	}

	go func() {
		defer close(p.done)
		printLines(out, p.updates)
	}()
	return p
}

// display runs the interactive view, then prints whatever it left in the
// channel, which is everything when the program fails to start.
func (p *progress) display(out io.Writer, run func() error) {
	defer close(p.done)
	if err := run(); err != nil {
		fmt.Fprintf(out, "progress display unavailable: %v\n", err)
	}
	printLines(out, p.updates)
}

// finish closes the channel and waits for the display to drain it.
func (p *progress) finish() {
	close(p.updates)
	<-p.done
}

func printLines(out io.Writer, updates <-chan processor.ProgressUpdate) {
	for update := range updates {
		if update.Message != "" {
			fmt.Fprintln(out, update.Message)
		}
	}
}
