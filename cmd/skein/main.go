package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/tliron/commonlog"

	"github.com/skein-lang/skein/combinator"
	"github.com/skein-lang/skein/lang"
	"github.com/skein-lang/skein/manifest"
	"github.com/skein-lang/skein/rewrite"
	"github.com/skein-lang/skein/store"

	_ "github.com/tliron/commonlog/simple"
)

const (
	appName = "skein"
	version = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "disasm":
		os.Exit(cmdDisasm(os.Args[2:]))
	case "tape":
		os.Exit(cmdTape(os.Args[2:]))
	case "ski":
		os.Exit(cmdSki(os.Args[2:]))
	case "version":
		fmt.Println(version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`skein %s

Usage:
  %s repl                       Start the interactive session.
  %s run [-v N] [-trace] <file> Compile and run a source file.
  %s disasm <file>              Print the compiled instruction stream.
  %s tape [-steps N] <system>   Run a rewriting system demo (rule54, tag, cyclic, thue).
  %s ski [-basis B] <expr>      Parse and print a combinator expression.
  %s version                    Print the version.

`, version, appName, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

type repl struct {
	ln      *liner.State
	man     *manifest.Manifest
	vm      *lang.VM
	vars    lang.Vars
	stack   lang.Stack
	st      *store.Store
	session string
	tracing bool
}

func cmdRepl(args []string) (ret int) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	verbosity := fs.Int("v", -1, "log verbosity (overrides skein.toml)")
	fs.Parse(args)

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	man, err := manifest.FindAndLoad(cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *verbosity < 0 {
		*verbosity = man.Trace.Verbosity
	}
	commonlog.Configure(*verbosity, nil)

	r := &repl{
		man:  man,
		vm:   &lang.VM{},
		vars: lang.Vars{},
	}
	if man.Trace.Enabled {
		r.tracing = true
		r.vm.Tracer = lang.NewLogTracer()
	}

	if man.Store.Enabled {
		st, err := store.Open(man.StorePath())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer st.Close()
		r.st = st
		r.session = uuid.NewString()
	}

	r.ln = liner.NewLiner()
	defer r.ln.Close()
	r.ln.SetCtrlCAborts(true)

	histPath := man.HistoryPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = r.ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = r.ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		r.ln.Close()
		os.Exit(130)
	}()

	fmt.Printf("skein %s\n", version)
	printSpecialCommands()
	return r.loop()
}

func printSpecialCommands() {
	fmt.Println("Special commands: '%exit' '%info' '%debug'")
}

func (r *repl) loop() int {
	var buf strings.Builder
	for {
		prompt := r.man.REPL.Prompt
		if buf.Len() > 0 {
			prompt = r.man.REPL.Continuation
		}
		line, err := r.ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C drops the pending chunk.
			buf.Reset()
			fmt.Println("Enter the command '%exit' to exit.")
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		// Special commands work even mid-continuation and leave the
		// pending chunk alone.
		if strings.HasPrefix(line, "%") {
			if r.command(line) {
				return 0
			}
			continue
		}
		if strings.TrimSpace(line) == "" && buf.Len() == 0 {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
		src := buf.String()

		code, err := lang.Compile(src)
		if lang.IsIncomplete(err) {
			continue
		}
		buf.Reset()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		r.ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		r.record(src, code)

		if err := r.eval(code); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// eval runs one compiled chunk against the session state. The chunk
// works on copies, so a fault leaves vars and stack exactly as they
// were; only a clean run commits.
func (r *repl) eval(code *lang.Code) error {
	vars, stack, _, err := r.vm.Execute(code, r.vars.Copy(), r.stack.Copy(), 0)
	if err != nil {
		return err
	}
	r.vars, r.stack = vars, stack
	return nil
}

// record persists the input and its compiled form when the store is
// enabled. Failures are reported but never interrupt the session.
func (r *repl) record(src string, code *lang.Code) {
	if r.st == nil {
		return
	}
	if err := r.st.AppendHistory(r.session, src); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if _, err := r.st.SaveProgram(src, code); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// command handles one %-prefixed line; it reports whether to exit.
func (r *repl) command(line string) bool {
	switch strings.TrimSpace(line) {
	case "%exit", "%e":
		return true

	case "%debug", "%d":
		r.tracing = !r.tracing
		if r.tracing {
			r.vm.Tracer = lang.NewLogTracer()
			fmt.Println("Debug mode: ON")
		} else {
			r.vm.Tracer = nil
			fmt.Println("Debug mode: OFF")
		}

	case "%info", "%i":
		names := make([]string, 0, len(r.vars))
		for name := range r.vars {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Vars:")
		for _, name := range names {
			fmt.Printf(" %s: %s\n", name, lang.FormatValue(r.vars[name]))
		}
		fmt.Println("Stack:")
		for i := len(r.stack) - 1; i >= 0; i-- {
			fmt.Printf(" %d: %s\n", len(r.stack)-1-i, lang.FormatValue(r.stack[i]))
		}

	default:
		fmt.Printf("Unknown special command: %s\n", line)
		printSpecialCommands()
	}
	return false
}

// -----------------------------------------------------------------------------
// run / disasm
// -----------------------------------------------------------------------------

func compileFile(path string) (*lang.Code, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return lang.Compile(string(data))
}

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	trace := fs.Bool("trace", false, "log every executed instruction")
	verbosity := fs.Int("v", 0, "log verbosity")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-v N] [-trace] <file>\n", appName)
		return 2
	}
	commonlog.Configure(*verbosity, nil)

	code, err := compileFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	vm := &lang.VM{}
	if *trace {
		vm.Tracer = lang.NewLogTracer()
	}
	_, stack, _, err := vm.Execute(code, nil, nil, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for i := len(stack) - 1; i >= 0; i-- {
		fmt.Printf("%d: %s\n", len(stack)-1-i, lang.FormatValue(stack[i]))
	}
	return 0
}

func cmdDisasm(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s disasm <file>\n", appName)
		return 2
	}
	code, err := compileFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(code.Disassemble())
	return 0
}

// -----------------------------------------------------------------------------
// tape
// -----------------------------------------------------------------------------

func cmdTape(args []string) int {
	fs := flag.NewFlagSet("tape", flag.ExitOnError)
	steps := fs.Int("steps", 40, "number of steps to run")
	seed := fs.String("seed", "1101", "initial pattern (rule54 demo)")
	runs := fs.Bool("runs", false, "render run lengths instead of filtered cells")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s tape [-steps N] <rule54|tag|cyclic|thue>\n", appName)
		return 2
	}

	tapes, filtered, err := tapeDemo(fs.Arg(0), *seed, *steps)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if filtered && !*runs {
		r := &rewrite.Renderer{Filters: rewrite.Filters54}
		err = r.RenderTapes(os.Stdout, tapes)
	} else if filtered {
		err = rewrite.RenderRuns(os.Stdout, tapes)
	} else {
		for _, tape := range tapes {
			fmt.Println(tape)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// tapeDemo runs one of the built-in rewriting demos. The second result
// says whether the tapes are binary and worth rendering through the
// glyph filters.
func tapeDemo(name, seed string, steps int) ([]string, bool, error) {
	switch name {
	case "rule54":
		sys := rewrite.NewElementaryCellularAutomaton(54)
		run, err := sys.Start(rewrite.Pad(seed, steps), 0)
		if err != nil {
			return nil, false, err
		}
		tapes, err := run.Take(steps)
		return tapes, true, err

	case "tag":
		sys, err := rewrite.NewTagSystem(2, map[string]string{"a": "ccbaH", "b": "cca", "c": "cc"}, "H")
		if err != nil {
			return nil, false, err
		}
		run, err := sys.Start("baa", rewrite.DefaultMaxSteps)
		if err != nil {
			return nil, false, err
		}
		tapes, err := run.Collect()
		return tapes, false, err

	case "cyclic":
		sys, err := rewrite.NewCyclicTagSystem([]string{"010010", "100010001", "001", "", "", ""})
		if err != nil {
			return nil, false, err
		}
		run, err := sys.Start("010100", 0)
		if err != nil {
			return nil, false, err
		}
		tapes, err := run.Take(steps)
		return tapes, false, err

	case "thue":
		sys, err := rewrite.NewSemiThueSystem([]rewrite.Rule{
			{From: "^o", To: "i^"},
			{From: "^b", To: "b^"},
			{From: "^d", To: "d^"},
			{From: "^g", To: "g^"},
			{From: "^ ", To: " ^"},
			{From: "^", To: ""},
		}, false)
		if err != nil {
			return nil, false, err
		}
		run, err := sys.Start("^dog bog", rewrite.DefaultMaxSteps)
		if err != nil {
			return nil, false, err
		}
		tapes, err := run.Collect()
		return tapes, false, err
	}
	return nil, false, fmt.Errorf("unknown system %q, want rule54, tag, cyclic or thue", name)
}

// -----------------------------------------------------------------------------
// ski
// -----------------------------------------------------------------------------

func cmdSki(args []string) int {
	fs := flag.NewFlagSet("ski", flag.ExitOnError)
	basisName := fs.String("basis", "full", "combinator basis (ski, bckw, full)")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s ski [-basis B] <expr>\n", appName)
		return 2
	}

	var basis combinator.Basis
	switch *basisName {
	case "ski":
		basis = combinator.SKI
	case "bckw":
		basis = combinator.BCKW
	case "full":
		basis = combinator.Full
	default:
		fmt.Fprintf(os.Stderr, "unknown basis %q, want ski, bckw or full\n", *basisName)
		return 2
	}

	term, err := combinator.Parse(strings.Join(fs.Args(), " "), basis)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(term)
	return 0
}
