package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	html2doc "github.com/alnah/go-html2doc"
	"github.com/alnah/go-html2doc/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, args, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	env := DefaultEnv()

	if flags.initConfig != "" {
		if err := config.WriteDefault(flags.initConfig); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitCodeFor(err))
		}
		if !flags.quiet {
			fmt.Fprintln(env.Stdout, flags.initConfig)
		}
		return
	}

	if flags.config != "" {
		cfg, err := config.LoadConfig(flags.config)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitCodeFor(err))
		}
		env.Config = cfg
	}

	opts, err := buildServiceOptions(flags, env.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}

	workers := flags.workers
	if workers == 0 {
		workers = env.Config.Pool.Workers
	}
	poolSize := html2doc.ResolvePoolSize(workers)
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := html2doc.NewServicePool(poolSize, opts...)
	defer pool.Close()

	if err := run(flags, args, env, pool); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := exitCodeFor(err)
		_ = pool.Close()
		os.Exit(code)
	}
}
