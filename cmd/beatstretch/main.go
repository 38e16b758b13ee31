// SPDX-License-Identifier: EPL-2.0

// Command beatstretch renders or serves beat-synchronous time stretching
// of annotated audio loops.
//
// Usage:
//
//	beatstretch render [flags] <input> <tempo>
//	beatstretch serve [flags] [<input> <tempo>]
//
// Settings are read from the environment and from a .env file in the
// working directory; flags override them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("beatstretch %s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: beatstretch render [flags] <input> <tempo>")
	fmt.Fprintln(os.Stderr, "       beatstretch serve [flags] [<input> <tempo>]")
}
