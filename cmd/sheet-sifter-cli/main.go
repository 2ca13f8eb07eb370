// sheet-sifter-cli filters spreadsheet rows from the command line.
package main

import (
	"os"

	"sheet-sifter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
