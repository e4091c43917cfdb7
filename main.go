/*
anima-io loads a batch of resources and reports how it went.

	anima-io [flags] ids...

With no ids the configured asset directory is loaded instead, and kept
up to date while assets.watch is set.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/spaghettifunk/anima-io/engine/assets"
	"github.com/spaghettifunk/anima-io/engine/core"
	"github.com/spaghettifunk/anima-io/engine/loader"
	"github.com/spaghettifunk/anima-io/testbed"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a TOML config file (default ./anima.toml)")
		platform    = flag.String("platform", "", "fetch platform: native or cooperative")
		pollMS      = flag.Int("poll", 0, "poll interval in milliseconds")
		root        = flag.String("root", "", "directory prepended to relative ids (native)")
		baseURL     = flag.String("base-url", "", "URL relative ids are resolved against (cooperative)")
		printConfig = flag.Bool("print-config", false, "print the effective config and exit")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal("%s", err)
	}
	if *platform != "" {
		cfg.Loader.Platform = *platform
	}
	if *pollMS > 0 {
		cfg.Loader.PollIntervalMS = *pollMS
	}
	if *root != "" {
		cfg.Loader.Root = *root
	}
	if *baseURL != "" {
		cfg.Loader.BaseURL = *baseURL
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		core.LogFatal("%s", err)
	}
	if err := core.SetLogLevel(cfg.Logging.Level); err != nil {
		core.LogFatal("%s", err)
	}

	if *printConfig {
		data, err := core.EncodeConfig(cfg)
		if err != nil {
			core.LogFatal("%s", err)
		}
		os.Stdout.Write(data)
		return
	}

	l, err := loader.NewFromConfig(cfg.Loader)
	if err != nil {
		core.LogFatal("%s", err)
	}
	defer l.Close()

	if flag.NArg() == 0 {
		if err := runAssets(l, cfg.Assets); err != nil {
			core.LogFatal("%s", err)
		}
		return
	}

	loaded, err := runBatch(l, flag.Args())
	if err != nil {
		core.LogFatal("%s", err)
	}
	if len(loaded.Failed()) > 0 {
		l.Close()
		os.Exit(1)
	}
}

func runBatch(l *loader.Loader, ids []string) (loader.Loaded, error) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return testbed.Run(l, ids, os.Stdout)
	}

	loaded, err := l.LoadAndWait(context.Background(), ids, func(p float32) {
		core.LogInfo("Progress: %.0f%%", p*100)
	})
	if err != nil {
		return nil, err
	}
	fmt.Print(testbed.Summary(loaded))
	return loaded, nil
}

func runAssets(l *loader.Loader, cfg core.AssetsConfig) error {
	am, err := assets.NewAssetManager(l, cfg)
	if err != nil {
		return err
	}
	am.OnReload(func(path string) {
		core.LogInfo("Reloaded '%s'.", path)
	})
	if err := am.Initialize(); err != nil {
		return err
	}
	defer am.Shutdown()

	done := make(chan loader.Loaded, 1)
	if err := am.LoadAll(nil, func(loaded loader.Loaded) { done <- loaded }); err != nil {
		return err
	}
	fmt.Print(testbed.Summary(<-done))

	if !cfg.Watch {
		return nil
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	core.LogInfo("Watching '%s' for changes.", cfg.Dir)
	<-sigCh
	return nil
}
