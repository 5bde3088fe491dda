// Package host connects a runloop.Loop to a window system.
//
// Each host owns a window and delivers its events to the loop from the
// goroutine that owns that window. Other goroutines talk to the loop only
// by posting events to the host's queue.
package host

import (
	"fmt"

	"github.com/nf/ch8/runloop"
)

// Drivers lists the available hosts, default first.
var Drivers = []string{"ebiten", "shiny", "term"}

// Options configures a host window.
type Options struct {
	Width, Height int // initial window size in pixels
}

// Host is a window that drives a Loop.
type Host interface {
	runloop.Window

	// Post queues e for dispatch on the window goroutine.
	// It may be called from any goroutine.
	Post(e runloop.Event)

	// Run delivers window events to l until the window is closed,
	// Escape is pressed, or an event with Quit set is posted.
	Run(l *runloop.Loop) error
}

// New returns the host named by driver.
func New(driver string, opts Options) (Host, error) {
	switch driver {
	case "ebiten":
		return &ebitenHost{Queue: newQueue(), opts: opts}, nil
	case "shiny":
		return &shinyHost{Queue: newQueue(), opts: opts}, nil
	case "term":
		return &termHost{Queue: newQueue()}, nil
	}
	return nil, fmt.Errorf("unknown driver %q", driver)
}
