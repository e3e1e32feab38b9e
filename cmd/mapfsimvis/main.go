// Command mapfsimvis plays back a map and a path table written by
// cmd/mapfsim in a scrubbable Gio window. It never plans or re-derives
// paths; it only replays what is already on disk.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/elektrokombinacija/mapf-het-research/internal/vis"
	"github.com/elektrokombinacija/mapf-het-research/internal/vis/state"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <map_file> <path_file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	mapFile, pathFile := flag.Arg(0), flag.Arg(1)

	st, err := state.Load(mapFile, pathFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("mapfsim playback"),
			app.Size(unit.Dp(1400), unit.Dp(900)),
		)

		application := vis.NewApp(st)
		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}
