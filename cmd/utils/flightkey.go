// Command flightkey derives the deterministic flight key for an
// (airline, flightId, timestamp) triple, for use when querying the ledger
// or its persisted snapshots by hand.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"suretyledger-service/internal/domain/entity"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <airline-address> <flight-id> <timestamp>\n", os.Args[0])
		os.Exit(2)
	}

	timestamp, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		log.Fatalf("invalid timestamp %q: %v", os.Args[3], err)
	}

	fmt.Println(entity.FlightKey(os.Args[1], os.Args[2], timestamp))
}
