// cubectl drives the concurrentcube library from the command line.
package main

import (
	"github.com/gocube/concurrentcube/internal/cli"
)

func main() {
	cli.Execute()
}
