package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/jss/ast"
	"github.com/npillmayer/jss/future"
	"github.com/npillmayer/jss/interp"
	"github.com/npillmayer/jss/value"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// main() starts an interactive CLI, where users may enter jss statements.
// Every line is executed and its result printed. With file arguments, the
// files are run as scripts, one after another, in a shared interpreter.
//
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	initf := flag.String("init", "", "Initial load")
	globals := flag.String("globals", "", "YAML or JSON document to seed the global scope")
	async := flag.Bool("async", false, "Run scripts asynchronously, one step per tick")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelInfo) // will set the correct level later
	pterm.Info.Println("Welcome to jss")      // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	tracer().SetTraceLevel(traceLevel(*tlevel))
	//
	intp := &Intp{ip: interp.New(), async: *async}
	intp.initSymbols()
	if err := intp.loadGlobals(*globals); err != nil {
		tracer().Errorf("%v", err)
		os.Exit(2)
	}
	intp.ctx = intp.ip.NewContext()
	if flag.NArg() > 0 {
		os.Exit(intp.runScripts(flag.Args()))
	}
	//
	// set up REPL
	repl, err := readline.New("jss> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp.repl = repl
	defer repl.Close()
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.loadInitFile(*initf)           // init file name provided by flag
	intp.REPL()                         // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  =>",
		Style: pterm.NewStyle(pterm.BgLightBlue, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Fault",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	ip    *interp.Interpreter
	ctx   *interp.Context
	repl  *readline.Instance
	async bool
}

// Pre-load some host functions:
// print = print arguments to the terminal
// wait  = a promise resolving after n ticks
//
func (intp *Intp) initSymbols() {
	intp.ip.Define("print", func(_ value.Value, args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Text()
		}
		pterm.Println(strings.Join(parts, " "))
		return value.Null, nil
	})
	intp.ip.LoadFuncs("", map[string]interface{}{
		"wait": func(n int) future.Promise {
			return future.Delay(n, value.Int(n))
		},
	})
}

func (intp *Intp) loadGlobals(filename string) error {
	if filename == "" {
		return nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("unable to read globals: %w", err)
	}
	doc, err := value.Parse(string(data))
	if err != nil {
		return err
	}
	return intp.ip.SeedGlobals(doc)
}

// loadInitFile runs a script before interactive mode starts. Globals set by
// the script remain visible.
func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	if code := intp.runScripts([]string{filename}); code != 0 {
		tracer().Errorf("Init file %s failed, continuing without it", filename)
		intp.ctx = intp.ip.NewContext()
	}
}

// runScripts runs script files and returns an exit code.
func (intp *Intp) runScripts(files []string) int {
	for _, filename := range files {
		src, err := os.ReadFile(filename)
		if err != nil {
			tracer().Errorf("%v", err)
			return 1
		}
		prog, err := interp.Compile(string(src))
		if err != nil {
			pterm.Error.Printf("%s: %v\n", filename, err)
			return 2
		}
		result, err := intp.execute(prog)
		if err != nil {
			pterm.Error.Printf("%s: %v\n", filename, err)
			return 1
		}
		tracer().Infof("%s: %s", filename, result)
	}
	return 0
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval executes a command or a line of jss.
//
func (intp *Intp) Eval(line string) (bool, error) {
	if strings.HasPrefix(line, ":") && !strings.HasPrefix(line, "::") {
		if cmd, arg, _ := strings.Cut(line, " "); isCommand(cmd) {
			return intp.command(cmd, strings.TrimSpace(arg))
		}
	}
	prog, err := interp.Compile(line)
	if err != nil {
		return false, err
	}
	result, err := intp.execute(prog)
	if err != nil {
		intp.ctx = intp.ip.NewContext() // faulted contexts are inert
		return false, err
	}
	pterm.Info.Println(result.String())
	return false, nil
}

func isCommand(cmd string) bool {
	switch cmd {
	case ":tree", ":globals", ":reset", ":quit":
		return true
	}
	return false
}

func (intp *Intp) command(cmd, arg string) (bool, error) {
	switch cmd {
	case ":tree":
		prog, err := interp.Compile(arg)
		if err != nil {
			return false, err
		}
		printTree(prog)
	case ":globals":
		pterm.Info.Println(value.Obj(intp.ip.Globals()).String())
	case ":reset":
		intp.ctx = intp.ip.NewContext()
	case ":quit":
		return true, nil
	}
	return false, nil
}

// execute runs a program, either blocking or as a stepper driven by a
// scheduler.
func (intp *Intp) execute(prog *ast.Node) (value.Value, error) {
	if !intp.async {
		result := intp.ctx.Execute(prog)
		return result, intp.ctx.Fault()
	}
	sch := interp.NewScheduler(1)
	st := sch.Spawn(intp.ctx.Run(prog))
	ticks := 0
	for sch.Tick() > 0 {
		ticks++
	}
	tracer().Debugf("program completed after %d ticks", ticks+1)
	if err := st.Err(); err != nil {
		return value.Null, err
	}
	return st.Value(), nil
}

func printTree(prog *ast.Node) {
	tracer().Debugf("fingerprint %s", prog.Fingerprint())
	pterm.DefaultTree.WithRoot(prog.Tree()).Render()
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
