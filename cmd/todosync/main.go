// Command todosync is an offline-first todo list that reconciles a local
// SQLite store with a per-user Firestore collection on demand.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
