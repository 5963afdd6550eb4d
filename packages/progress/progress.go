// Package progress shows a terminal spinner while pages are fetched.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

type Spinner struct {
	mu     sync.Mutex
	s      *spinner.Spinner
	done   int
	failed int
}

func New(w io.Writer) *Spinner {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	return &Spinner{s: s}
}

// setSuffix holds the spinner's own lock, which its render loop takes while drawing.
func (p *Spinner) setSuffix(format string, args ...any) {
	p.s.Lock()
	p.s.Suffix = fmt.Sprintf(format, args...)
	p.s.Unlock()
}

// Start shows url as the page in flight.
func (p *Spinner) Start(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setSuffix(" fetching %s (%d done, %d failed)", url, p.done, p.failed)
	if !p.s.Active() {
		p.s.Start()
	}
}

func (p *Spinner) Done(url string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.failed++
	} else {
		p.done++
	}
	p.setSuffix(" %s (%d done, %d failed)", url, p.done, p.failed)
}

// Stop clears the spinner and leaves a one-line summary behind.
func (p *Spinner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Lock()
	p.s.FinalMSG = fmt.Sprintf("fetched %d pages, %d failed\n", p.done, p.failed)
	p.s.Unlock()
	p.s.Stop()
}

func (p *Spinner) counts() (done, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.failed
}
