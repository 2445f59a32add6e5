package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const banner = `
           __          __                      __       __             __
 _      __/ /_  ____ _/ /_______      ______ _/ /______/ /_  ___  ____/ /
| | /| / / __ \/ __ ` + "`" + `/ __/ ___/ | /| / / __ ` + "`" + `/ __/ ___/ __ \/ _ \/ __  /
| |/ |/ / / / / /_/ / /_(__  )| |/ |/ / /_/ / /_/ /__/ / / /  __/ /_/ /
|__/|__/_/ /_/\__,_/\__/____/ |__/|__/\__,_/\__/\___/_/ /_/\___/\__,_/
`

func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// isTerminal reports whether writer is an interactive terminal. Buffers and
// pipes never are.
func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
