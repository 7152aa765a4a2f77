package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nickpending/voicejournal/internal/journaltest"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	delay := flag.Duration("delay", 0, "Delay every response, e.g. 800ms")
	empty := flag.Bool("empty", false, "Start without demo data")
	flag.Parse()

	opts := []journaltest.Option{journaltest.WithMiddleware(middleware.Logger)}
	if *delay > 0 {
		opts = append(opts, journaltest.WithDelay(*delay))
	}
	s := journaltest.New(opts...)
	if !*empty {
		journaltest.SeedDemo(s, time.Now())
	}

	log.Info("fake journal backend listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, s); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}
