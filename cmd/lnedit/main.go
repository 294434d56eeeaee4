// Lnedit reads lines from the terminal with an interactive line editor and
// echoes each of them back, until it reads an empty line or the input ends.
// Committed lines form an in-memory history that can be recalled with the Up
// and Down keys and edited without changing the recalled entry.
package main

import (
	"os"

	"src.lnedit.sh/pkg/buildinfo"
	"src.lnedit.sh/pkg/prog"
	"src.lnedit.sh/pkg/repl"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, repl.Program{})))
}
