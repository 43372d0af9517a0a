// Command padtail prints the live monitor feed of a running padchord, one
// line per message.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lxzan/gws"
	"github.com/spf13/pflag"

	"github.com/soar/padchord/internal/hub"
	"github.com/soar/padchord/internal/log"
)

type tail struct {
	gws.BuiltinEventHandler
	out  io.Writer
	raw  bool
	done chan error
}

func (t *tail) OnOpen(socket *gws.Conn) {
	log.Info("connected")
}

func (t *tail) OnClose(socket *gws.Conn, err error) {
	t.done <- err
}

func (t *tail) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	data := message.Bytes()
	if t.raw {
		fmt.Fprintln(t.out, string(data))
		return
	}
	line, err := formatLine(data)
	if err != nil {
		log.Warn("bad message", "err", err)
		return
	}
	if line != "" {
		fmt.Fprintln(t.out, line)
	}
}

// formatLine renders one monitor message. Periodic full syncs without events
// render as an empty line and are skipped.
func formatLine(data []byte) (string, error) {
	var m hub.WSMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", err
	}
	switch m.Type {
	case "hello":
		return "client " + m.ClientID, nil
	case "full", "delta":
		if m.Type == "full" && len(m.Events) == 0 && m.Seq != 0 {
			return "", nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%6d %-6s", m.Seq, m.Zone)
		for _, ev := range m.Events {
			b.WriteByte(' ')
			b.WriteString(ev)
		}
		return strings.TrimRight(b.String(), " "), nil
	default:
		return "", fmt.Errorf("unknown message type %q", m.Type)
	}
}

func main() {
	fs := pflag.NewFlagSet("padtail", pflag.ContinueOnError)
	addr := fs.StringP("addr", "a", "127.0.0.1:8080", "monitor address")
	raw := fs.Bool("raw", false, "print messages as received")
	level := fs.StringP("log-level", "l", "info", "log level")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	log.Init(*level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	t := &tail{out: os.Stdout, raw: *raw, done: make(chan error, 1)}
	url := "ws://" + *addr + "/ws"
	socket, _, err := gws.NewClient(t, &gws.ClientOption{Addr: url})
	if err != nil {
		log.Error("connect failed", "url", url, "err", err)
		os.Exit(1)
	}
	go socket.ReadLoop()

	select {
	case <-ctx.Done():
		socket.WriteClose(1000, nil)
		<-t.done
	case err := <-t.done:
		log.Info("monitor closed the connection", "err", err)
	}
}
