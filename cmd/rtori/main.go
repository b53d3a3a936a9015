// Command rtori launches the WebSocket relay spec.md §6 lists for
// completeness: a broadcaster endpoint at /simulator and a recipient
// endpoint at /consumer, both served at the given address. It does not
// itself run a Solver; it only relays frames a producer pushes to
// whatever consumers are listening.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <server-address>\n", os.Args[0])
		os.Exit(2)
	}
	addr := os.Args[1]

	r := newRelay()
	log.Printf("rtori: listening on %s (/simulator, /consumer)", addr)
	if err := http.ListenAndServe(addr, r.mux()); err != nil {
		log.Fatalf("rtori: %v", err)
	}
}
