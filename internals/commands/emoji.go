package commands

import (
	"os"
	"runtime"
)

// EmojiEnabled can be set to false to never print emojis
var EmojiEnabled = true

var emojiSupport = detectEmojiSupport()

func detectEmojiSupport() bool {
	if runtime.GOOS != "windows" {
		return os.Getenv("TERM") != "linux"
	}
	// windows terminal does not set SESSIONNAME, raw cmd and powershell do
	return os.Getenv("SESSIONNAME") == "" || os.Getenv("WT_SESSION") != ""
}

// Emoji returns e if the current terminal (probably) supports emojis
func Emoji(e string) string {
	if emojiSupport && EmojiEnabled {
		return e
	}
	return ""
}
