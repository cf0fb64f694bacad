package cmdlog

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
)

// MaybeSpinner is a spinner that can also just log text
type MaybeSpinner struct {
	Spin    bool
	Spinner *spinner.Spinner
	last    string
}

// Start might start the spinner
func (m *MaybeSpinner) Start() {
	if m.Spin {
		m.Spinner.Start()
	}
}

// Stop will stop the spinner
func (m *MaybeSpinner) Stop() {
	if m.Spin {
		m.Spinner.Stop()
	}
}

// Update will update the spinner text. Without spinning, changed lines are printed
func (m *MaybeSpinner) Update(t string) {
	if m.Spin {
		m.Spinner.Lock()
		m.Spinner.Suffix = " " + t
		m.Spinner.Unlock()
		return
	}
	if t != m.last {
		fmt.Println(t)
		m.last = t
	}
}

// NewMaybeSpinner will return a new MaybeSpinner
func NewMaybeSpinner(spin bool) *MaybeSpinner {
	s := &MaybeSpinner{
		Spin:    spin,
		Spinner: spinner.New(spinner.CharSets[9], 300*time.Millisecond),
	}
	s.Spinner.Prefix = " "
	return s
}
