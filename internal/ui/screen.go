package ui

import (
	"fmt"
	"io"
)

// ClearScreen wipes the terminal before a new run
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}
