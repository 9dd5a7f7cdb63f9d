package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lrpalns/internal/buildinfo"
	"lrpalns/internal/config"
	"lrpalns/internal/instance"
	"lrpalns/internal/model"
	"lrpalns/internal/opt"
	"lrpalns/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "solve":
		runSolve(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "--version", "version":
		info := buildinfo.Info()
		fmt.Printf("lrpalns %s (commit %s, built %s)\n", info["version"], info["commit"], info["builtAt"])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: lrpalns solve <instance-dir> [flags] | lrpalns serve [flags] | lrpalns version")
}

func runSolve(args []string) {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	method := fs.String("method", "cw", "initial-solution builder: cw|nn|random|regret2|regret3|cluster")
	configPath := fs.String("config", "", "YAML parameters file (defaults built in when omitted)")
	operators := fs.String("operators", "", "comma-separated destroy operator catalog override")
	iterations := fs.Int("iterations", 0, "override total ALNS iterations")
	seed := fs.Int64("seed", 1, "RNG seed")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	if fs.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	instanceDir := fs.Arg(0)

	var cfg *config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	} else {
		cfg = config.Default()
	}
	p := cfg.Parameters
	p.Seed = *seed
	if *iterations > 0 {
		p.TotalIterations = *iterations
	}
	if *operators != "" {
		p.DestroyCatalog = strings.Split(*operators, ",")
	}
	if _, ok := opt.BuilderRegistry[*method]; !ok {
		log.Fatalf("unknown method %q", *method)
	}

	ctx := context.Background()
	g, err := instance.Build(ctx, instanceDir)
	if err != nil {
		log.Fatalf("build instance: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	s0, err := opt.BuilderRegistry[*method](rng, g, p.Weights)
	if err != nil {
		log.Fatalf("initial solution: %v", err)
	}

	limiter := rate.NewLimiter(rate.Every(200*time.Millisecond), 1)
	progress := func(iter int, bestCost, currentCost, temperature float64) {
		if limiter.Allow() {
			fmt.Fprintf(os.Stderr, "iter=%d best=%.2f current=%.2f temp=%.4f\n", iter, bestCost, currentCost, temperature)
		}
	}

	result, err := opt.Solve(rng, p, s0, instanceDir, progress)
	if err != nil {
		log.Fatalf("solve: %v", err)
	}

	vec := model.Vectorize(result.Best)
	fmt.Printf("cost=%.4f\n", result.BestCost)
	for d, routes := range vec {
		fmt.Printf("depot[%d]: %v\n", d, routes)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	var cfg *config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	} else {
		cfg = config.Default()
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("server init: %v", err)
	}
	worker := srv.NewWebhookWorker()
	worker.Start()

	mux := srv.Mux(true)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("lrpalns serve listening on %s", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, time.Since(start))
	})
}
