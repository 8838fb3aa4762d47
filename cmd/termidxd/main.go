package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"

	"termidx/internal/termidxd"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:7461", "listen address (tcp)")
	flag.Parse()

	s := termidxd.NewServer(termidxd.Options{Listen: *listen})
	if err := s.Run(); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			_, _ = fmt.Fprintf(os.Stderr, "listen address in use: %s\nTry: -listen 127.0.0.1:7462\n", *listen)
		} else {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
