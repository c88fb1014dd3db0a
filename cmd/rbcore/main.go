// rbcore - line-oriented driver for the guest Array method table
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/rbcore/array"
	"github.com/chazu/rbcore/config"
	"github.com/chazu/rbcore/snapshot"
	"github.com/chazu/rbcore/vm"
)

var log = commonlog.GetLogger("rbcore.cmd")

func main() {
	configDir := flag.String("config", ".", "Directory to search upwards for rbcore.toml")
	verbose := flag.Bool("v", false, "Verbose output (debug logging)")
	dump := flag.String("dump", "", "Write the final array as a snapshot to this file")
	format := flag.String("format", "", "Snapshot format for -dump: cbor or yaml (default from rbcore.toml)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rbcore [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Sends one method per input line to a working Array and prints each result.\n")
		fmt.Fprintf(os.Stderr, "Reads stdin when no files are given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  push 1, 2, 3          # => [1, 2, 3]\n")
		fmt.Fprintf(os.Stderr, "  []= 1 2 [:a, \"b\"]     # splice\n")
		fmt.Fprintf(os.Stderr, "  concat self           # => doubles the array\n")
		fmt.Fprintf(os.Stderr, "  Array.new 2 :x        # class-side call\n")
	}
	flag.Parse()

	cfg, err := config.FindAndLoad(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	verbosity := cfg.Log.Verbosity
	if *verbose {
		verbosity = max(verbosity, 2)
	}
	commonlog.Configure(verbosity, cfg.LogPath())
	if cfg.Dir != "" {
		log.Infof("loaded configuration from %s", cfg.Dir)
	}

	interp := vm.NewVM()
	class := array.Init(interp)
	if !cfg.Runtime.Warnings {
		interp.SetGlobal("$stderr", vm.Nil)
	}
	working := array.WithCapacity(interp, cfg.Array.InitialCapacity)
	s := &session{interp: interp, class: class, working: working, out: os.Stdout}

	if flag.NArg() == 0 {
		prompt := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		err = s.run(os.Stdin, prompt)
	} else {
		for _, path := range flag.Args() {
			if err = s.runFile(path); err != nil {
				break
			}
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dump != "" {
		f := snapshot.Format(cfg.Snapshot.Format)
		if *format != "" {
			f = snapshot.Format(*format)
		}
		data, err := snapshot.Marshal(interp, working, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*dump, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// session sends parsed commands to one working array.
type session struct {
	interp  *vm.VM
	class   *vm.Class
	working vm.Value
	out     io.Writer
}

func (s *session) runFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.run(f, false)
}

// run executes every line of r. Guest exceptions are printed and execution
// continues; only fatal runtime errors stop it.
func (s *session) run(r io.Reader, prompt bool) error {
	scanner := bufio.NewScanner(r)
	for {
		if prompt {
			fmt.Fprint(s.out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if err := s.exec(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *session) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	cmd, err := parseCommand(s.interp, s.working, line)
	if err != nil {
		// Input errors go through the guest warning path.
		return s.interp.Warn(fmt.Sprintf("rbcore: %v", err))
	}

	recv := s.working
	if cmd.classSide {
		recv = s.interp.ClassValue(s.class)
	}
	result, err := s.interp.Send(recv, cmd.method, cmd.args...)
	var ex *vm.Exception
	switch {
	case errors.As(err, &ex):
		fmt.Fprintf(s.out, "%s\n", ex)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(s.out, "=> %s\n", s.interp.Inspect(result))
	return nil
}
