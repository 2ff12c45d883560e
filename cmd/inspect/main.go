package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/jsonapi/document"
	"github.com/wippyai/jsonapi/registry"
	"github.com/wippyai/jsonapi/resource"
	"github.com/wippyai/jsonapi/session"
)

// node is the resource type registered for every inspected type name.
type node struct {
	resource.Base
}

type options struct {
	file        string
	types       string
	strict      bool
	reassign    bool
	dump        bool
	interactive bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "Path to JSON:API document (- for stdin)")
	flag.StringVar(&opts.types, "types", "", "Resource types to register (comma-separated, default: every type in the document)")
	flag.BoolVar(&opts.strict, "strict", false, "Reject records without an id")
	flag.BoolVar(&opts.reassign, "reassign", false, "Reassign the pool to weak ownership after resolving")
	flag.BoolVar(&opts.dump, "dump", false, "Dump resolved resources with spew")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging to stderr")
	flag.Parse()

	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect -file <doc.json> [-types a,b] [-strict] [-reassign] [-dump] [-v]")
		fmt.Fprintln(os.Stderr, "       inspect -file <doc.json> -i  (interactive mode)")
		os.Exit(1)
	}

	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: logger: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = l.Sync() }()
		session.SetLogger(l.Named("session"))
		registry.SetLogger(l.Named("registry"))
	}

	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))

	if useInteractive(opts, stdinTTY, stdoutTTY) {
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(os.Stdout, opts, stdoutTTY); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// useInteractive reports whether the TUI can run. Without a terminal on both
// ends, -i falls back to plain output. Reading the document from stdin also
// rules it out.
func useInteractive(opts options, stdinTTY, stdoutTTY bool) bool {
	return opts.interactive && stdinTTY && stdoutTTY && opts.file != "-"
}

// inspection is a resolved document ready for display.
type inspection struct {
	ctx    *session.Context
	types  []string
	result session.DataType
}

func inspect(opts options) (*inspection, error) {
	doc, err := readDocument(opts.file)
	if err != nil {
		return nil, err
	}

	var types []string
	if opts.types != "" {
		for _, t := range strings.Split(opts.types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	} else {
		types = documentTypes(doc)
	}

	reg := registry.New()
	for _, t := range types {
		if err := reg.Register(t, registry.Of[node]()); err != nil {
			return nil, err
		}
	}

	sessionOpts := []session.Option{session.WithRegistry(reg)}
	if opts.strict {
		sessionOpts = append(sessionOpts, session.WithStrictIDs())
	}

	ctx := session.New(sessionOpts...)
	result, err := ctx.Resolve(doc)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	if opts.reassign {
		ctx.Reassign()
	}

	return &inspection{ctx: ctx, types: reg.Entries(), result: result}, nil
}

func readDocument(file string) (document.Document, error) {
	if file == "-" {
		return document.Decode(os.Stdin)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()
	return document.Decode(f)
}

// documentTypes collects every type named by a record or a relationship
// reference in doc.
func documentTypes(doc document.Document) []string {
	seen := make(map[string]bool)

	var visit func(v any)
	visit = func(v any) {
		rec, ok := document.RecordOf(v)
		if !ok {
			return
		}
		if t, ok := rec.Type(); ok {
			seen[strings.ToLower(t)] = true
		}
		raw, _ := rec.Relationships()
		rels, _ := document.ObjectOf(raw)
		for name, value := range rels {
			rel, ok := document.ObjectOf(value)
			if !ok {
				continue
			}
			refs, _ := document.References(rel[document.MemberData])
			for _, ref := range refs {
				if ref.HasType {
					seen[strings.ToLower(ref.Type)] = true
				} else {
					seen[strings.ToLower(name)] = true
				}
			}
		}
	}

	if included, ok := doc.Included(); ok {
		for _, item := range included {
			visit(item)
		}
	}
	data, _ := doc.Data()
	if items, ok := data.([]any); ok {
		for _, item := range items {
			visit(item)
		}
	} else {
		visit(data)
	}

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func run(w io.Writer, opts options, color bool) error {
	in, err := inspect(opts)
	if err != nil {
		return err
	}

	paint := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	fmt.Fprintf(w, "Document: %s\n", opts.file)
	fmt.Fprintf(w, "Registered types: %s\n", strings.Join(in.types, ", "))
	fmt.Fprintf(w, "Result: %s\n", paint(kindStyle, in.result.Kind.String()))

	switch in.result.Kind {
	case session.KindResource:
		if in.result.Resource == nil {
			fmt.Fprintln(w, "  (type not registered)")
		} else {
			fmt.Fprintf(w, "  %s\n", paint(keyStyle, in.result.Resource.Key().String()))
		}
	case session.KindCollection:
		for _, r := range in.result.Collection {
			fmt.Fprintf(w, "  %s\n", paint(keyStyle, r.Key().String()))
		}
	case session.KindErrors:
		for _, e := range in.result.Errors {
			fmt.Fprintf(w, "  %s\n", paint(errorStyle, e.Error()))
		}
	}

	pool := in.ctx.Pool()
	fmt.Fprintf(w, "\nPool (%s, %d resources):\n", pool.Mode(), pool.Len())
	pool.Each(func(r resource.Resource) bool {
		line := "  " + paint(keyStyle, r.Key().String())
		if r.IsStub() {
			line += " " + paint(stubStyle, "[stub]")
		}
		fmt.Fprintln(w, line)
		return true
	})

	if opts.dump {
		fmt.Fprintln(w, "\n--- dump ---")
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true, MaxDepth: 4}
		pool.Each(func(r resource.Resource) bool {
			cfg.Fdump(w, r.Key(), r.Record())
			return true
		})
	}

	return nil
}
