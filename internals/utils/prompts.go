package utils

import (
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
)

// ErrAborted is returned when a prompt was closed with ctrl+c or ctrl+d
var ErrAborted = errors.New("aborted")

// SelectPrompt runs prompt and returns the index of the picked item
func SelectPrompt(prompt *promptui.Select) (int, error) {
	index, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return 0, ErrAborted
		}
		return 0, err
	}
	return index, nil
}
