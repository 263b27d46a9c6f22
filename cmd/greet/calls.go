package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/greetbridge/greetings"
	"github.com/wippyai/greetbridge/host"
)

type param struct {
	name     string
	typeStr  string
	fallback string
}

type call struct {
	run    func(ctx context.Context, c *host.Client, args []string) (string, error)
	name   string
	mode   string
	result string
	params []param
}

var (
	nameParam  = param{name: "name", typeStr: "string", fallback: "World"}
	firstParam = param{name: "first", typeStr: "string", fallback: "Jane"}
	lastParam  = param{name: "last", typeStr: "string", fallback: "Doe"}
	countParam = param{name: "count", typeStr: "s32", fallback: "3"}
)

// calls lists every entry point the CLI can drive. Release entry points are
// not listed; each call releases what it receives.
var calls = []call{
	{
		name:   "printGreeting",
		params: []param{nameParam},
		run: func(_ context.Context, _ *host.Client, args []string) (string, error) {
			return "Hello, " + args[0], nil
		},
	},
	{
		name:   "renderGreeting",
		params: []param{nameParam},
		run: func(_ context.Context, c *host.Client, args []string) (string, error) {
			return c.RenderGreeting(args[0])
		},
	},
	{
		name:   "greet",
		params: []param{firstParam, lastParam},
		run: func(_ context.Context, c *host.Client, args []string) (string, error) {
			return c.Greet(args[0], args[1])
		},
	},
	{
		name: "getGreetingByValue",
		run: func(_ context.Context, c *host.Client, _ []string) (string, error) {
			g, err := c.GetGreetingByValue()
			if err != nil {
				return "", err
			}
			defer g.Release()
			return g.Text()
		},
	},
	{
		name: "getGreetingByReference",
		run: func(_ context.Context, c *host.Client, _ []string) (string, error) {
			g, err := c.GetGreetingByReference()
			if err != nil {
				return "", err
			}
			defer g.Release()
			return g.Text()
		},
	},
	{
		name: "sendGreetings",
		run: func(ctx context.Context, c *host.Client, _ []string) (string, error) {
			var out []string
			err := c.SendGreetings(ctx, func(texts []string) { out = texts })
			return strings.Join(out, "\n"), err
		},
	},
	{
		name: "renderGreetings",
		run: func(_ context.Context, c *host.Client, _ []string) (string, error) {
			set, err := c.RenderGreetings()
			if err != nil {
				return "", err
			}
			defer set.Release()
			texts, err := set.Texts()
			return strings.Join(texts, "\n"), err
		},
	},
	{
		name:   "renderGreetingsInParallel",
		params: []param{countParam, nameParam},
		run: func(ctx context.Context, c *host.Client, args []string) (string, error) {
			n, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return "", fmt.Errorf("count: %w", err)
			}
			set, err := c.RenderGreetingsInParallel(ctx, int32(n), args[1])
			if err != nil {
				return "", err
			}
			defer set.Release()
			texts, err := set.Texts()
			return strings.Join(texts, "\n"), err
		},
	},
	{
		name: "callMeBack",
		run: func(ctx context.Context, c *host.Client, _ []string) (string, error) {
			var out string
			err := c.CallMeBack(ctx, func(s string) { out = s })
			return out, err
		},
	},
}

func init() {
	modes := make(map[string]greetings.EntryPoint, len(greetings.EntryPoints))
	for _, ep := range greetings.EntryPoints {
		modes[ep.Name] = ep
	}
	for i := range calls {
		if ep, ok := modes[calls[i].name]; ok {
			calls[i].mode = ep.Mode.String()
			calls[i].result = ep.Output
		} else {
			calls[i].mode = "console"
		}
	}
}

func findCall(name string) (call, bool) {
	for _, c := range calls {
		if strings.EqualFold(c.name, name) {
			return c, true
		}
	}
	return call{}, false
}

// argsFor fills missing values with each parameter's fallback.
func argsFor(c call, values map[string]string) []string {
	args := make([]string, len(c.params))
	for i, p := range c.params {
		args[i] = values[p.name]
		if args[i] == "" {
			args[i] = p.fallback
		}
	}
	return args
}
