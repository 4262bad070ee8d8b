package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aquilax/guestbook/comment"
	"github.com/aquilax/guestbook/request"
	"github.com/aquilax/guestbook/storage"
	"github.com/aquilax/guestbook/storage/file"
	"github.com/aquilax/guestbook/storage/memory"
	"github.com/aquilax/guestbook/storage/sqlite"
)

type Guestbook struct {
	config   *Config
	store    *storage.Store
	session  *Session
	engine   *Engine
	renderer *CardRenderer
	likes    *LikeCounter
	tp       *TransPool

	in  *bufio.Reader
	out *os.File
}

func NewGuestbook() *Guestbook {
	return &Guestbook{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

func (g *Guestbook) Run(args []string) {
	if os.Getenv("GO_ENV") != "" {
		log.SetFlags(0)
	} else {
		log.SetFlags(log.Ldate | log.Ltime | log.LUTC)
	}

	g.config = NewConfig()
	if err := g.config.Load(args); err != nil {
		panic(err)
	}

	if g.config.Token == "" {
		log.Print("no token configured, comment section disabled")
		return
	}

	backend, driver := newBackend(g.config.Storage)
	g.store = storage.NewStore(backend)
	if err := g.store.Open(driver, g.config.Dsn); err != nil {
		log.Fatal(err)
	}
	defer g.store.Close()

	g.tp = NewTransPool()
	ln := g.tp.Get(g.config.Language)

	g.session = NewSession(g.config, g.store.Table("information"))
	g.renderer = NewCardRenderer(ln)
	g.likes = NewLikeCounter()

	client := request.New(g.config.BaseURL)
	g.engine = NewEngine(g.config, client, g.session, g.store, g.renderer)
	g.engine.SetLikes(g.likes)
	g.engine.SetConfirm(g.confirm)
	g.engine.OnDone(func(data *comment.ListData) {
		log.Printf("rendered %d of %d comments", len(data.Lists), data.Count)
	})

	ctx := context.Background()
	if _, err := g.engine.Show(ctx); err != nil {
		log.Printf("loading comments: %v", err)
	}
	g.print()

	g.loop(ctx)
}

func newBackend(kind string) (storage.Backend, string) {
	switch kind {
	case "sqlite":
		return sqlite.New(), "sqlite"
	case "memory":
		return memory.New(), ""
	default:
		return file.New(), ""
	}
}

func (g *Guestbook) loop(ctx context.Context) {
	for {
		fmt.Fprint(g.out, "> ")
		line, err := g.in.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, arg := fields[0], ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch cmd {
		case "quit", "exit":
			return
		case "show", "more":
			if _, err := g.engine.Show(ctx); err != nil {
				g.alert(err)
			}
			g.print()
		case "post":
			g.post(ctx)
		case "reply":
			g.reply(ctx, arg)
		case "edit":
			g.edit(ctx, arg)
		case "del":
			if err := g.engine.Remove(ctx, arg); err != nil {
				g.alert(err)
			}
			g.print()
		case "toggle":
			g.engine.Toggle(arg)
			g.print()
		case "export":
			g.export(arg)
		default:
			fmt.Fprintln(g.out, "commands: show more post reply edit del toggle export quit")
		}
	}
}

func (g *Guestbook) post(ctx context.Context) {
	form := g.session.Form(mainForm)
	form.Name = g.prompt("name", form.Name)
	form.Presence = readPresence(g.prompt("presence (y/n)", ""))
	form.Text = g.prompt("comment", "")

	if _, err := g.engine.Send(ctx, mainForm); err != nil {
		g.alert(err)
		return
	}
	g.print()
}

func (g *Guestbook) reply(ctx context.Context, id comment.UUID) {
	if id == "" {
		fmt.Fprintln(g.out, "usage: reply <uuid>")
		return
	}
	g.engine.Reply(id)
	form := g.session.Form(id)
	form.Text = g.prompt("reply", "")

	if _, err := g.engine.Send(ctx, id); err != nil {
		g.engine.Cancel(id)
		g.alert(err)
		return
	}
	g.print()
}

func (g *Guestbook) edit(ctx context.Context, id comment.UUID) {
	if id == "" {
		fmt.Fprintln(g.out, "usage: edit <uuid>")
		return
	}
	if err := g.engine.Edit(id); err != nil {
		g.alert(err)
		return
	}
	form := g.session.Form(id)
	form.Text = g.prompt("comment", form.Text)

	if err := g.engine.Update(ctx, id); err != nil {
		g.alert(err)
		return
	}
	g.print()
}

func (g *Guestbook) export(path string) {
	if path == "" {
		path = "guestbook.xml"
	}
	f, err := os.Create(path)
	if err != nil {
		g.alert(err)
		return
	}
	defer f.Close()
	if err := ExportRSS(f, g.config, g.engine.current); err != nil {
		g.alert(err)
		return
	}
	log.Printf("exported feed to %s", path)
}

func (g *Guestbook) prompt(label, current string) string {
	if current != "" {
		fmt.Fprintf(g.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(g.out, "%s: ", label)
	}
	line, err := g.in.ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}

func (g *Guestbook) confirm(message string) bool {
	fmt.Fprintf(g.out, "%s (y/N): ", message)
	line, err := g.in.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

func (g *Guestbook) alert(err error) {
	fmt.Fprintf(g.out, "! %v\n", err)
}

func (g *Guestbook) print() {
	fmt.Fprint(g.out, g.renderer.HTML())
}

func readPresence(s string) comment.Presence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "1":
		return comment.PresenceAttending
	case "n", "no", "2":
		return comment.PresenceAbsent
	default:
		return comment.PresenceUnknown
	}
}
