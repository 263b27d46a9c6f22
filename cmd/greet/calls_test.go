package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/greetbridge/greetings"
	"github.com/wippyai/greetbridge/host"
)

func newTestClient(t *testing.T) *host.Client {
	t.Helper()
	mod, err := greetings.New(context.Background(), &greetings.Config{Backend: greetings.BackendHeap})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = mod.Close(context.Background()) })
	return host.New(mod)
}

func TestCalls(t *testing.T) {
	client := newTestClient(t)
	values := map[string]string{"name": "Alice"}

	tests := []struct {
		name string
		want string
	}{
		{"printGreeting", "Hello, Alice"},
		{"renderGreeting", "Hello, Alice!"},
		{"greet", "Hello, Jane Doe!"},
		{"getGreetingByValue", "Hello from Rust!"},
		{"getGreetingByReference", "Hello from Rust!"},
		{"sendGreetings", "Hello!\nHello again!"},
		{"renderGreetings", "Hello!\nHello again!"},
		{"renderGreetingsInParallel", "Greeting number 1 for Alice\nGreeting number 2 for Alice\nGreeting number 3 for Alice"},
		{"callMeBack", "Hello there!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := findCall(tt.name)
			if !ok {
				t.Fatalf("call %s not registered", tt.name)
			}
			got, err := c.run(context.Background(), client, argsFor(c, values))
			if err != nil {
				t.Fatalf("%s failed: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	if n := client.Module().Outstanding(); n != 0 {
		t.Errorf("%d values left outstanding", n)
	}
}

func TestCallModes(t *testing.T) {
	for _, c := range calls {
		if c.mode == "" {
			t.Errorf("%s has no ownership mode", c.name)
		}
	}
	if c, _ := findCall("callmeback"); c.mode != "borrow-for-call" {
		t.Errorf("callMeBack mode = %q", c.mode)
	}
}

func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig(options{order: "completion", backend: "heap", workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Ordering != greetings.OrderCompletion || cfg.Backend != greetings.BackendHeap || cfg.Workers != 2 {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := buildConfig(options{order: "index", backend: "disk"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := buildConfig(options{order: "sideways", backend: "heap"}); err == nil {
		t.Error("expected error for unknown ordering")
	}
}

func TestInteractiveModel(t *testing.T) {
	client := newTestClient(t)
	m := newInteractiveModel(client, greetings.DefaultConfig())

	if !strings.Contains(m.View(), "printGreeting") {
		t.Fatal("selection view does not list entry points")
	}

	// move to getGreetingByValue, which takes no input
	for i := 0; i < 3; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a call command")
	}
	m.Update(cmd())

	if m.state != stateShowResult {
		t.Fatalf("state = %d, want result", m.state)
	}
	if m.err != nil || m.result != "Hello from Rust!" {
		t.Errorf("result = %q, err = %v", m.result, m.err)
	}
	if m.outstanding != 0 {
		t.Errorf("outstanding = %d", m.outstanding)
	}
}
