/*
Rillc compiles Rill source files down to a quadruple listing and, on
request, dumps the ACTION/GOTO tables that drove the parse.

Usage:

	rillc [flags] [file]

The flags are:

	-g, --grammar FILE
		Grammar source file in the "LHS -> alt1 | alt2" text format. Defaults
		to the value of rillc.toml's grammar key, or "grammar.cfg".

	-i, --interactive
		Start a readline-backed REPL that compiles one snippet at a time
		instead of reading a file.

	-t, --dump-tables
		Print the ACTION/GOTO tables before compiling.

	-q, --dump-quads
		Print the emitted quadruple listing after compiling.

	--trace
		Print the full shift/reduce parse trace.

	--history FILE
		Record (and list, with no source file given) build history in the
		named sqlite database.

	--serve ADDR
		Serve a small HTTP front end on ADDR instead of compiling from the
		command line: POST /compile and GET /tables.

	-c, --config FILE
		Load configuration from FILE instead of "rillc.toml".

Once a grammar is loaded, running rillc against a source file lexes,
parses, and translates it, printing any diagnostics to stderr and, with
--dump-quads, the quadruple listing to stdout.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/chzyer/readline"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"

	"github.com/stonebound/rillc/internal/buildcache"
	"github.com/stonebound/rillc/internal/compiler"
	"github.com/stonebound/rillc/internal/rcconfig"
	"github.com/stonebound/rillc/internal/report"
	"github.com/stonebound/rillc/internal/snapshot"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates a grammar or source file failed to compile.
	ExitCompileError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the compiler.
	ExitInitError
)

var (
	returnCode int = ExitSuccess

	flagGrammar     *string = pflag.StringP("grammar", "g", "", "Grammar source file to load")
	flagInteractive *bool   = pflag.BoolP("interactive", "i", false, "Start a readline-backed REPL")
	flagDumpTables  *bool   = pflag.BoolP("dump-tables", "t", false, "Print the ACTION/GOTO tables")
	flagDumpQuads   *bool   = pflag.BoolP("dump-quads", "q", false, "Print the emitted quadruple listing")
	flagTrace       *bool   = pflag.Bool("trace", false, "Print the full shift/reduce parse trace")
	flagHistory     *string = pflag.String("history", "", "Record build history in the named sqlite database")
	flagServe       *string = pflag.String("serve", "", "Serve a small HTTP front end on the given address")
	flagConfig      *string = pflag.StringP("config", "c", "rillc.toml", "Configuration file to load")

	logger = log.New(os.Stderr, "rillc: ", 0)
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	cfg := rcconfig.Default()
	if loaded, err := rcconfig.Load(*flagConfig); err == nil {
		cfg = loaded
	}

	grammarPath := cfg.Grammar
	if *flagGrammar != "" {
		grammarPath = *flagGrammar
	}
	trace := cfg.Trace || *flagTrace

	grammarSrc, err := os.ReadFile(grammarPath)
	if err != nil {
		logger.Printf("ERROR: %s", err)
		returnCode = ExitInitError
		return
	}

	comp, err := compiler.New(string(grammarSrc), cfg.StartAddress)
	if err != nil {
		logger.Printf("ERROR: %s", err)
		returnCode = ExitInitError
		return
	}
	grammarHash := snapshot.HashGrammar(string(grammarSrc))

	for _, c := range comp.Table.Conflicts {
		termName, _ := comp.Table.Grammar.Reg.NameOf(c.Terminal)
		logger.Printf("grammar conflict: state %d, terminal %q, %v", c.State, termName, c.Actions)
	}

	if *flagDumpTables {
		fmt.Println(report.ActionGotoTables(comp.Table))
	}

	var cache *buildcache.Store
	if *flagHistory != "" {
		cache, err = buildcache.Open(*flagHistory)
		if err != nil {
			logger.Printf("ERROR: %s", err)
			returnCode = ExitInitError
			return
		}
		defer cache.Close()
	}

	switch {
	case *flagServe != "":
		runServer(comp, *flagServe)
	case *flagInteractive:
		runREPL(comp, cache, grammarHash, trace)
	default:
		args := pflag.Args()
		if len(args) == 0 {
			if cache != nil {
				printHistory(cache)
				return
			}
			logger.Printf("ERROR: no source file given")
			returnCode = ExitInitError
			return
		}
		runFile(comp, cache, grammarHash, args[0], trace)
	}
}

func runFile(comp *compiler.Compiler, cache *buildcache.Store, grammarHash, path string, trace bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		logger.Printf("ERROR: %s", err)
		returnCode = ExitInitError
		return
	}

	out, compileErr := comp.Compile(string(src))
	if out == nil {
		logger.Printf("ERROR: %s", compileErr)
		returnCode = ExitCompileError
		return
	}
	reportOutput(comp, out, trace)
	recordHistory(cache, grammarHash, string(src), out)

	if compileErr != nil {
		returnCode = ExitCompileError
	}
}

func reportOutput(comp *compiler.Compiler, out *compiler.Output, trace bool) {
	for _, d := range out.Diagnostics {
		logger.Printf("%s", d)
	}
	if out.SyntaxError != nil {
		logger.Printf("syntax error: %s", out.SyntaxError)
	}
	if trace {
		for _, rec := range out.Trace {
			fmt.Println(rec.String())
		}
	}
	if *flagDumpQuads {
		fmt.Println(report.RenderQuadruples(out.Quads, comp.StartAddress))
	}
}

func recordHistory(cache *buildcache.Store, grammarHash, src string, out *compiler.Output) {
	if cache == nil || out == nil {
		return
	}
	sourceHash := snapshot.HashGrammar(src)
	err := cache.Insert(context.Background(), sourceHash, grammarHash, len(out.Quads), len(out.Diagnostics))
	if err != nil {
		logger.Printf("ERROR: recording build history: %s", err)
	}
}

func printHistory(cache *buildcache.Store) {
	records, err := cache.Recent(context.Background(), 20)
	if err != nil {
		logger.Printf("ERROR: %s", err)
		returnCode = ExitInitError
		return
	}
	for _, r := range records {
		fmt.Printf("%d\t%s\t%d quads\t%d diagnostics\t%s\n",
			r.ID, r.SourceHash[:8], r.QuadCount, r.DiagnosticCount, r.CompiledAt.Format("2006-01-02 15:04:05"))
	}
}

func runREPL(comp *compiler.Compiler, cache *buildcache.Store, grammarHash string, trace bool) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "rillc> ",
	})
	if err != nil {
		logger.Printf("ERROR: %s", err)
		returnCode = ExitInitError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		if line == "" {
			continue
		}

		out, compileErr := comp.Compile(line)
		if out == nil {
			logger.Printf("ERROR: %s", compileErr)
			continue
		}
		reportOutput(comp, out, trace)
		recordHistory(cache, grammarHash, line, out)
		if compileErr != nil {
			continue
		}
	}
}

func runServer(comp *compiler.Compiler, addr string) {
	r := chi.NewRouter()

	r.Get("/tables", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, report.ActionGotoTables(comp.Table))
	})

	r.Post("/compile", func(w http.ResponseWriter, req *http.Request) {
		src, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, compileErr := comp.Compile(string(src))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if compileErr != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprintf(w, "syntax error: %s\n", compileErr)
			return
		}
		fmt.Fprint(w, report.RenderQuadruples(out.Quads, comp.StartAddress))
	})

	logger.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Printf("ERROR: %s", err)
		returnCode = ExitInitError
	}
}
