// Package statsview serves live runtime statistics (heap, GC, goroutines)
// while the emulator runs. It is started on request from the command line.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const Address = "localhost:12600"

const path = "/debug/statsview"

// URL is where the charts are served.
func URL() string { return "http://" + Address + path }

// Launch starts the statistics server in a new goroutine and reports its
// address on output.
func Launch(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()
	fmt.Fprintf(output, "stats server available at %s\n", URL())
}
