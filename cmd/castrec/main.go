// Command castrec is the thin entrypoint over internal/cmd's cobra
// surface.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dcosson/castrec/internal/cmd"
)

func main() {
	root := cmd.NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "castrec:", err)
		var argErr *cmd.ArgumentError
		if errors.As(err, &argErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
