package scraper

import (
	"time"

	"github.com/use-agent/solvetrack/config"
)

// Arg is one Chromium command-line switch with optional values.
type Arg struct {
	Name   string
	Values []string
}

// Viewport is the emulated window size of every page.
type Viewport struct {
	Width  int
	Height int
}

// SessionConfig describes how one browser session is launched and how its
// page is prepared. It is built fresh for every launch and never mutated.
type SessionConfig struct {
	Runtime           config.Runtime
	Bin               string
	Headless          bool
	Leakless          bool
	Args              []Arg
	UserAgent         string
	Viewport          Viewport
	IgnoreHTTPSErrors bool

	// Timeout bounds process start and CDP connect.
	Timeout time.Duration
}

// serverlessArgs trade isolation for a small memory footprint on
// single-core function runtimes.
func serverlessArgs() []Arg {
	return []Arg{
		{Name: "no-sandbox"},
		{Name: "disable-setuid-sandbox"},
		{Name: "disable-dev-shm-usage"},
		{Name: "disable-gpu"},
		{Name: "single-process"},
		{Name: "no-zygote"},
		{Name: "disable-web-security"},
		{Name: "disable-features", Values: []string{"VizDisplayCompositor"}},
		{Name: "disable-background-timer-throttling"},
		{Name: "disable-backgrounding-occluded-windows"},
		{Name: "disable-renderer-backgrounding"},
		{Name: "disable-ipc-flooding-protection"},
		{Name: "memory-pressure-off"},
		{Name: "js-flags", Values: []string{"--max-old-space-size=4096"}},
	}
}

func localArgs(noSandbox bool) []Arg {
	args := []Arg{
		{Name: "disable-dev-shm-usage"},
		{Name: "disable-gpu"},
	}
	if noSandbox {
		args = append([]Arg{{Name: "no-sandbox"}, {Name: "disable-setuid-sandbox"}}, args...)
	}
	return args
}

// SelectSessionConfig picks the launch configuration for the runtime that
// getenv describes. It reads the environment on every call.
func SelectSessionConfig(getenv func(string) string, cfg config.BrowserConfig) SessionConfig {
	sc := SessionConfig{
		Runtime:   config.DetectRuntime(getenv),
		Bin:       cfg.BrowserBin,
		Headless:  cfg.Headless,
		UserAgent: cfg.UserAgent,
		Viewport:  Viewport{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight},
		Timeout:   cfg.LaunchTimeout,
	}

	if sc.Runtime == config.RuntimeServerless {
		if sc.Bin == "" {
			sc.Bin = cfg.ServerlessBin
		}
		// Function runtimes have no writable place for the leakless guard
		// binary and tear the process tree down themselves.
		sc.Headless = true
		sc.Leakless = false
		sc.Args = serverlessArgs()
		sc.IgnoreHTTPSErrors = true
		return sc
	}

	sc.Leakless = true
	sc.Args = localArgs(cfg.NoSandbox)
	return sc
}
