package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/greetbridge/greetings"
	"github.com/wippyai/greetbridge/host"
	"github.com/wippyai/greetbridge/memory"
	"github.com/wippyai/greetbridge/scheduler"
)

type options struct {
	call            string
	name            string
	first           string
	last            string
	order           string
	backend         string
	count           int
	workers         int
	timeout         time.Duration
	callbackTimeout time.Duration
	verbose         bool
	interactive     bool
	list            bool
}

func main() {
	var opts options
	flag.StringVar(&opts.call, "call", "printGreeting", "Entry point to call, or \"all\"")
	flag.StringVar(&opts.name, "name", "", "Name argument (default: first positional argument or World)")
	flag.StringVar(&opts.first, "first", "", "First name for greet")
	flag.StringVar(&opts.last, "last", "", "Last name for greet")
	flag.IntVar(&opts.count, "count", 3, "Greeting count for renderGreetingsInParallel")
	flag.StringVar(&opts.order, "order", "index", "Parallel result ordering: index or completion")
	flag.StringVar(&opts.backend, "backend", string(greetings.BackendWazero), "Memory backend: wazero or heap")
	flag.IntVar(&opts.workers, "workers", 0, "Scheduler workers (0 = GOMAXPROCS)")
	flag.DurationVar(&opts.timeout, "timeout", greetings.DefaultParallelTimeout, "Parallel wait bound (0 disables)")
	flag.DurationVar(&opts.callbackTimeout, "callback-timeout", 0, "Callback wait bound (0 waits forever)")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.list, "list", false, "List entry points and exit")
	flag.Parse()

	if opts.name == "" && flag.NArg() > 0 {
		opts.name = flag.Arg(0)
	}

	if opts.list {
		listCalls()
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx := context.Background()

	log := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		log = l
		defer func() { _ = log.Sync() }()
	}
	memory.SetLogger(log.Named("memory"))
	scheduler.SetLogger(log.Named("scheduler"))
	greetings.SetLogger(log.Named("greetings"))

	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	mod, err := greetings.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	defer mod.Close(ctx)
	client := host.New(mod)

	if opts.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(client, cfg)
	}

	values := map[string]string{
		nameParam.name:  opts.name,
		firstParam.name: opts.first,
		lastParam.name:  opts.last,
		countParam.name: fmt.Sprint(opts.count),
	}

	selected := calls
	if !strings.EqualFold(opts.call, "all") {
		c, ok := findCall(opts.call)
		if !ok {
			return fmt.Errorf("unknown entry point %q (use -list)", opts.call)
		}
		selected = []call{c}
	}

	for _, c := range selected {
		out, err := c.run(ctx, client, argsFor(c, values))
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		if len(selected) > 1 {
			fmt.Printf("%s:\n", c.name)
		}
		fmt.Println(out)
	}

	if n := mod.Outstanding(); n > 0 {
		return fmt.Errorf("%d values were never released", n)
	}
	return nil
}

func buildConfig(opts options) (*greetings.Config, error) {
	order, err := greetings.ParseOrdering(opts.order)
	if err != nil {
		return nil, err
	}
	backend := greetings.Backend(opts.backend)
	if backend != greetings.BackendWazero && backend != greetings.BackendHeap {
		return nil, fmt.Errorf("unknown backend %q", opts.backend)
	}

	cfg := greetings.DefaultConfig()
	cfg.Backend = backend
	cfg.Workers = opts.workers
	cfg.Ordering = order
	cfg.ParallelTimeout = opts.timeout
	cfg.CallbackTimeout = opts.callbackTimeout
	return cfg, nil
}

func listCalls() {
	for _, c := range calls {
		var params []string
		for _, p := range c.params {
			params = append(params, p.name+": "+p.typeStr)
		}
		result := ""
		if c.result != "" {
			result = " -> " + c.result
		}
		fmt.Printf("  %s(%s)%s  [%s]\n", c.name, strings.Join(params, ", "), result, c.mode)
	}
}
