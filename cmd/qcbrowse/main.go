// qcbrowse serves a read-only view of a directory of quality reports: the
// reports themselves and a test-run summary recompiled on each request.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/carbocation/tshcqc/compileinfo"
)

var global *Global

func init() {
	// Prevent seed re-use
	rand.Seed(int64(time.Now().Nanosecond()))
}

func main() {
	errors := make(chan error, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig,
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGUSR1,
	)

	reports := flag.String("reports", "", "Directory holding the <ws1>_<ws2>_quality_checks.html reports.")
	port := flag.Int("port", 9019, "Port for HTTP server")
	flag.Parse()

	if *reports == "" {
		flag.PrintDefaults()
		os.Exit(2)
	}

	if fi, err := os.Stat(*reports); err != nil {
		log.Fatalln(err)
	} else if !fi.IsDir() {
		log.Fatalln(*reports, "is not a directory")
	}

	global = &Global{
		Site: "TSHC QC",
		Lab:  "Genomics Laboratory",
		log:  log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime),

		ReportsDir: *reports,
	}

	global.log.Println("Launching", global.Site)
	global.log.Println(compileinfo.Get())

	handler, err := router(global)
	if err != nil {
		log.Fatalln(err)
	}

	go func() {
		global.log.Println("Starting HTTP server on port", *port)
		if err := http.ListenAndServe(fmt.Sprintf(`:%d`, *port), handler); err != nil {
			errors <- err
			global.log.Println(err)
			sig <- syscall.SIGTERM
			return
		}
	}()

Outer:
	for {
		select {
		case sigl := <-sig:

			if sigl == syscall.SIGUSR1 {
				SigStatus()
				continue
			}

			// By default, exit
			global.log.Printf("\nExit: %s\n", sigl.String())

			break Outer

		case err := <-errors:
			if err == nil {
				global.log.Println("Finished")
				break Outer
			}

			// Return a status code indicating failure
			global.log.Println("Exiting due to error", err)
			os.Exit(1)
		}
	}
}

func SigStatus() {
	global.log.Println("There are", runtime.NumGoroutine(), "goroutines running")
}
