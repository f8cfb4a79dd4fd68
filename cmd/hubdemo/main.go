// Package main is an interactive terminal demo for the delegation engine:
// it loads an HTML document, binds subscriptions on it, and turns key
// presses into occurrences raised on the document tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	hub "github.com/yaijs/hub"
	"github.com/yaijs/hub/config"
	"github.com/yaijs/hub/htmltree"
	"github.com/yaijs/hub/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

const sampleDocument = `<html><body>
  <div id="app">
    <nav id="menu">
      <button data-action-click="open">Open</button>
      <button data-action-click="save">Save</button>
      <button data-action-click="close">Close</button>
    </nav>
    <section id="panel">
      <a data-action-click="follow" href="#1">First link</a>
      <a data-action-click="follow" href="#2">Second link</a>
      <button data-action-click="quit">Quit</button>
    </section>
  </div>
</body></html>`

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	doc, err := loadDocument(opts.docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	engineOpts, err := loadOptions(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	d := &demo{doc: doc}

	engine, err := hub.New(doc, hub.Subscriptions{
		"#menu":  hub.Types("click"),
		"#panel": hub.Types("click"),
	}, nil, hub.WithOptions(engineOpts))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build engine: %v\n", err)
		return 1
	}
	defer engine.Destroy()
	d.engine = engine

	for _, name := range []string{"open", "save", "close", "follow"} {
		engine.OnFunc(name, func(ctx context.Context, act hub.Action) error {
			d.logf("%s: %s on <%s>", act.Occurrence.Type, name, act.Target.Tag())
			return nil
		})
	}
	engine.OnFunc("quit", func(ctx context.Context, act hub.Action) error {
		d.quit = true
		return nil
	})
	engine.Hook(hub.HookAfterHandle, func(ctx, instance any) {
		if act, ok := ctx.(*hub.Action); ok && act.Err != nil {
			d.logf("handler error: %v", act.Err)
		}
	})

	if opts.scriptPath != "" {
		src := script.New()
		defer src.Close()
		if err := src.Load(opts.scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for name, fn := range src.Handlers() {
			engine.OnFunc(name, fn)
		}
		d.logf("loaded script handlers: %s", strings.Join(src.Names(), ", "))
	}

	if opts.configPath != "" {
		engine.Hook(hub.HookConfigChanged, func(ctx, instance any) {
			d.logf("config file changed")
		})
		if err := engine.WatchOptions(opts.configPath, 250*time.Millisecond); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := d.loop(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type demoOptions struct {
	docPath    string
	configPath string
	scriptPath string
}

func parseFlags() demoOptions {
	var opts demoOptions
	var showVersion bool

	flag.StringVar(&opts.docPath, "doc", "", "Path to an HTML document (default: builtin sample)")
	flag.StringVar(&opts.configPath, "config", "", "Path to a TOML option file (hot-reloaded)")
	flag.StringVar(&opts.configPath, "c", "", "Path to a TOML option file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Path to a Lua handler script")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hubdemo - event delegation playground\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hubdemo [options]\n\n")
		fmt.Fprintf(os.Stderr, "Keys: up/down move, enter clicks, q quits\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("hubdemo %s (%s)\n", version, commit)
		os.Exit(0)
	}
	return opts
}

func loadDocument(path string) (*htmltree.Document, error) {
	markup := sampleDocument
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		markup = string(data)
	}
	return htmltree.Parse(markup)
}

func loadOptions(path string) (config.Options, error) {
	if path == "" {
		return config.Default(), nil
	}
	tree, err := config.LoadTOML(path)
	if err != nil {
		return config.Options{}, err
	}
	return config.FromMap(tree), nil
}

// demo owns screen state. All mutation happens on the event loop
// goroutine; raised occurrences dispatch synchronously inside it.
type demo struct {
	doc    *htmltree.Document
	engine *hub.Engine
	screen tcell.Screen

	items  []*htmltree.Node
	cursor int
	lines  []string
	quit   bool
}

func (d *demo) loop() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	d.screen = screen

	d.collectItems()
	d.render()

	for !d.quit {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			d.handleKey(ev)
		}
		d.render()
	}
	return nil
}

// collectItems lists every clickable node in document order.
func (d *demo) collectItems() {
	d.items = d.items[:0]
	for _, n := range d.doc.Query("[data-action-click]") {
		d.items = append(d.items, n.(*htmltree.Node))
	}
}

func (d *demo) handleKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
		d.quit = true
	case ev.Key() == tcell.KeyUp && d.cursor > 0:
		d.cursor--
	case ev.Key() == tcell.KeyDown && d.cursor < len(d.items)-1:
		d.cursor++
	case ev.Key() == tcell.KeyEnter && len(d.items) > 0:
		d.doc.Raise(d.items[d.cursor], "click", nil)
	}
}

func (d *demo) logf(format string, args ...any) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
	if len(d.lines) > 64 {
		d.lines = d.lines[len(d.lines)-64:]
	}
}

func (d *demo) render() {
	d.screen.Clear()
	w, h := d.screen.Size()

	normal := tcell.StyleDefault
	selected := tcell.StyleDefault.Reverse(true)

	d.puts(0, 0, normal.Bold(true), "hubdemo  (enter=click, q=quit)")

	for i, item := range d.items {
		style := normal
		if i == d.cursor {
			style = selected
		}
		name, _ := item.Attr("data-action-click")
		d.puts(2, i+2, style, fmt.Sprintf("<%s> %s", item.Tag(), name))
	}

	logTop := len(d.items) + 4
	for i, line := range d.lines {
		y := logTop + i
		if y >= h-1 {
			break
		}
		d.puts(2, y, normal.Dim(true), line)
	}

	st := d.engine.Stats()
	status := fmt.Sprintf("bindings=%d seen=%d handled=%d dropped=%d cache=%d/%d",
		st.Registrations, st.OccurrencesSeen, st.OccurrencesHandled,
		st.OccurrencesDropped, st.CacheHits, st.CacheMisses)
	if len(status) > w {
		status = status[:w]
	}
	d.puts(0, h-1, normal.Reverse(true), status)

	d.screen.Show()
}

func (d *demo) puts(x, y int, style tcell.Style, s string) {
	for i, r := range s {
		d.screen.SetContent(x+i, y, r, nil, style)
	}
}
