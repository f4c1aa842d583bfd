// iris launches development applications in their own consoles and keeps
// track of which ones are running.
package main

import (
	"os"

	"github.com/steveyegge/iris/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
