/*
Copyright (C) 2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
/*
	awful - interpreter for the AWful FUnctional Language

	awful [flags] [batchfile...]
*/
package main

import "os"
import "fmt"
import "flag"
import "sync"
import "errors"
import "sync/atomic"
import "time"
import "context"
import "log/slog"
import "crypto/rand"
import "runtime/pprof"
import "github.com/google/uuid"
import "github.com/dc0d/onexit"
import "github.com/launix-de/awful/awful"
import "github.com/launix-de/awful/service"

// workaround for flags package to allow multiple values
type arrayFlags []string

func (i *arrayFlags) String() string {
	return "dummy"
}

func (i *arrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

// set before a normal shutdown runs the exit hooks
var shuttingDown atomic.Bool

// exit runs the hooks registered with onexit and ends the process
func exit(code int) {
	shuttingDown.Store(true)
	onexit.ForceExit(code)
}

// exitAfterHooks ends the process once the exit hooks ran because of a
// signal. A normal shutdown exits on its own.
func exitAfterHooks(done <-chan struct{}, cancel func(), osExit func(int)) {
	<-done
	if shuttingDown.Load() {
		return
	}
	cancel()
	osExit(1)
}

func main() {
	// init random generator for UUIDs
	uuid.SetRand(rand.Reader)

	settings := awful.DefaultSettings()

	// parse command line options
	var commands arrayFlags
	flag.Var(&commands, "c", "Evaluate an expression (may be repeated)")

	wd, _ := os.Getwd() // batch files are relative to working directory... or change with -wd PATH
	flag.StringVar(&wd, "wd", wd, "Working Directory for batch files (Default: .)")

	watch := ""
	flag.StringVar(&watch, "watch", "", "Run a batch file and run it again whenever it changes")

	serve := ""
	flag.StringVar(&serve, "serve", "", "Address of the HTTP/websocket evaluation service, e.g. :8080")

	norepl := false
	flag.BoolVar(&norepl, "norepl", false, "Do not start the interactive prompt")

	config := ""
	flag.StringVar(&config, "config", "", "YAML settings file; flags given explicitly take precedence")

	maxdepth := settings.MaxDepth
	flag.IntVar(&maxdepth, "maxdepth", maxdepth, "Maximum nesting of evaluations (0 = unlimited)")

	maxsize := awful.HumanSize(settings.MaxSourceSize)
	flag.StringVar(&maxsize, "maxsize", maxsize, "Maximum size of a source text, e.g. 64KiB (0 = unlimited)")

	timeout := time.Duration(0)
	flag.DurationVar(&timeout, "timeout", 0, "Time limit of a single evaluation in the service (0 = none)")

	trace := false
	flag.BoolVar(&trace, "trace", false, "Write a chrome://tracing file of keyword calls and applications")

	docs := ""
	flag.StringVar(&docs, "docs", "", "Write the keyword documentation as Markdown into a folder and exit")

	profile := ""
	flag.StringVar(&profile, "profile", "", "Write a CPU profile to a file")

	quiet := false
	flag.BoolVar(&quiet, "q", false, "Do not print the banner and log only warnings")

	flag.Parse()
	batches := flag.Args()

	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if docs != "" {
		if err := awful.DefaultCatalog().WriteDocumentation(docs); err != nil {
			logger.Error("writing documentation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if config != "" {
		loaded, err := awful.LoadSettings(config, settings)
		if err != nil {
			logger.Error("bad -config", "error", err)
			os.Exit(2)
		}
		settings = loaded
	}
	var badFlag error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "maxdepth":
			settings.MaxDepth = maxdepth
		case "maxsize":
			size, err := awful.ParseSize(maxsize)
			if err != nil {
				badFlag = err
			}
			settings.MaxSourceSize = size
		}
	})
	if badFlag != nil {
		logger.Error("bad -maxsize", "error", badFlag)
		os.Exit(2)
	}

	if !quiet {
		fmt.Print(`awful Copyright (C) 2026   Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;

`)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// onexit runs the hooks on SIGINT, SIGTERM, SIGQUIT and SIGTSTP; the
	// process must not outlive them
	go exitAfterHooks(onexit.Done(), cancel, os.Exit)

	opts := []awful.Option{awful.WithSettings(settings), awful.WithLogger(logger)}
	if trace {
		dir := settings.TraceDir
		if dir == "" {
			dir = wd
		}
		tf, err := awful.OpenTrace(dir)
		if err != nil {
			logger.Error("trace", "error", err)
			os.Exit(1)
		}
		onexit.Register(func() { tf.Close() }) // close trace file on exit
		opts = append(opts, awful.WithTrace(tf))
	}
	interp := awful.New(opts...)
	logger.Debug("interpreter ready", "settings", settings.String(), "catalog", awful.HumanSize(int64(interp.Catalog().ComputeSize())))

	// init profiling
	if profile != "" {
		f, err := os.Create(profile)
		if err != nil {
			logger.Error("profile", "error", err)
			exit(1)
		}
		pprof.StartCPUProfile(f)
		onexit.Register(func() {
			pprof.StopCPUProfile()
			f.Close()
		})
	}

	runner := awful.NewRunner(interp, os.Stdout, wd)
	var failed atomic.Bool
	for _, batch := range batches {
		logger.Info("running batch file", "file", batch)
		if err := runner.Batch(ctx, batch); err != nil {
			fmt.Println("Error:", err)
			failed.Store(true)
		}
	}
	for _, command := range commands {
		if err := runner.Exec(ctx, command); err != nil && !errors.Is(err, awful.ErrBye) {
			fmt.Println("Error:", err)
			failed.Store(true)
		}
	}

	var background sync.WaitGroup
	if serve != "" {
		srv := service.New(interp, timeout)
		background.Add(1)
		go func() {
			defer background.Done()
			if err := srv.ListenAndServe(ctx, serve); err != nil {
				logger.Error("service stopped", "error", err)
				failed.Store(true)
				cancel()
			}
		}()
	}
	if watch != "" {
		watcher := awful.NewRunner(interp, os.Stdout, wd)
		background.Add(1)
		go func() {
			defer background.Done()
			if err := watcher.Watch(ctx, watch); err != nil {
				logger.Error("watch stopped", "error", err)
				failed.Store(true)
				cancel()
			}
		}()
	}

	if !norepl {
		if !quiet {
			fmt.Print(`
    Type help to show help, bye to leave

`)
		}
		// REPL shell
		if err := awful.Repl(ctx, runner); err != nil {
			logger.Error("prompt failed", "error", err)
			failed.Store(true)
		}
		cancel()
	}
	background.Wait()

	// normal shutdown
	if failed.Load() {
		exit(1)
	}
	exit(0)
}
