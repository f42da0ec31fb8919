package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"draw-on-screen/src/hotkey"
	"draw-on-screen/src/messages"
	"draw-on-screen/src/overlay"
	"draw-on-screen/src/singleinstance"
	"draw-on-screen/src/worker"
)

// ExportQueue is how many saves may wait for their exports while an earlier
// save's exports run.
const ExportQueue = 4

// UI marshals work onto the toolkit's UI thread.
type UI interface {
	// Do schedules fn on the UI thread and returns immediately.
	Do(fn func())
	// DoAndWait runs fn on the UI thread and waits for it.
	DoAndWait(fn func())
	// Quit stops the UI main loop.
	Quit()
}

type Options struct {
	Annotator *overlay.Annotator
	Settler   overlay.Settler
	UI        UI
	// Server is optional; without it only hotkeys and the tray drive the loop.
	Server singleinstance.Server
	// Pool runs post-save exports; nil creates a single worker with a
	// short queue.
	Pool    *worker.Pool
	Exports []Export
	// Tooltip receives status text for the tray; optional.
	Tooltip        func(string)
	DefaultTooltip string
}

// Loop is the single coordinator for hotkey, tray and IPC commands. Every
// annotator call hops onto the UI thread; the settle wait runs here.
type Loop struct {
	ann     *overlay.Annotator
	settler overlay.Settler
	ui      UI
	srv     singleinstance.Server
	pool    *worker.Pool
	exports []Export

	cmds    chan request
	results chan exportResult

	tooltip        func(string)
	defaultTooltip string
	quitOnce       sync.Once
}

type request struct {
	cmd   messages.Command
	src   messages.Source
	reply func(messages.Result)
}

type exportResult struct {
	name string
	err  error
}

func New(opts Options) *Loop {
	pool := opts.Pool
	if pool == nil {
		pool = worker.NewWithQueue(1, ExportQueue)
	}
	tt := opts.DefaultTooltip
	if tt == "" {
		tt = "Draw on Screen"
	}
	return &Loop{
		ann:            opts.Annotator,
		settler:        opts.Settler,
		ui:             opts.UI,
		srv:            opts.Server,
		pool:           pool,
		exports:        opts.Exports,
		cmds:           make(chan request, 4),
		results:        make(chan exportResult, 16),
		tooltip:        opts.Tooltip,
		defaultTooltip: tt,
	}
}

// Post queues a command without blocking. Hotkey and tray callbacks use it;
// commands arriving while the queue is full are dropped.
func (l *Loop) Post(cmd messages.Command, src messages.Source) bool {
	select {
	case l.cmds <- request{cmd: cmd, src: src}:
		return true
	default:
		log.Printf("eventloop: dropped %s from %s, queue full", cmd, src)
		return false
	}
}

// Bindings returns the global hotkeys for capture, save-and-clear and escape.
// Empty combinations are left out.
func (l *Loop) Bindings(capture, saveClear, escape string) []hotkey.Binding {
	var out []hotkey.Binding
	add := func(combo string, cmd messages.Command) {
		if combo == "" {
			return
		}
		out = append(out, hotkey.Binding{
			Name:  string(cmd),
			Combo: combo,
			Fire:  func() { l.Post(cmd, messages.SourceHotkey) },
		})
	}
	add(capture, messages.CmdCapture)
	add(saveClear, messages.CmdSaveClear)
	add(escape, messages.CmdEscape)
	return out
}

func (l *Loop) setTooltip(s string) {
	if l.tooltip != nil {
		l.tooltip(s)
	}
}

// Run processes commands until ctx is cancelled or a command ends the
// program. It drains pending exports and stops the UI before returning.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer l.quit()
	defer l.pool.Close()

	var conns chan singleinstance.Conn
	if l.srv != nil {
		if err := l.srv.Start(ctx); err != nil {
			return fmt.Errorf("start command server: %w", err)
		}
		defer l.srv.Close()
		if p := l.srv.Port(); p > 0 {
			log.Printf("Resident listening on 127.0.0.1:%d", p)
		}
		conns = make(chan singleinstance.Conn, 4)
		go l.accept(ctx, conns)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-l.cmds:
			if l.handle(ctx, req) {
				return nil
			}
		case conn, ok := <-conns:
			if !ok {
				conns = nil
				continue
			}
			if l.handleConn(ctx, conn) {
				return nil
			}
		case res := <-l.results:
			l.handleExport(res)
		}
	}
}

func (l *Loop) accept(ctx context.Context, out chan<- singleinstance.Conn) {
	defer close(out)
	for {
		conn, err := l.srv.Next(ctx)
		if err != nil {
			return
		}
		select {
		case out <- conn:
		case <-ctx.Done():
			_ = conn.Close()
			return
		}
	}
}

func (l *Loop) handleConn(ctx context.Context, conn singleinstance.Conn) bool {
	exit := false
	l.handle(ctx, request{
		cmd: conn.Request().Command,
		src: messages.SourceIPC,
		reply: func(res messages.Result) {
			exit = res.Exit
			var err error
			if res.Err != nil {
				err = conn.RespondError(res.Err.Error())
			} else {
				err = conn.RespondSuccess(res.File)
			}
			if err != nil {
				log.Printf("eventloop: reply to client failed: %v", err)
			}
			_ = conn.Close()
		},
	})
	return exit
}

// handle runs one command and reports whether the program should exit.
func (l *Loop) handle(ctx context.Context, req request) bool {
	log.Printf("eventloop: %s from %s", req.cmd, req.src)
	res := l.execute(ctx, req.cmd)
	if res.Err != nil {
		log.Printf("eventloop: %s failed: %v", req.cmd, res.Err)
		l.setTooltip(fmt.Sprintf("%s: %s failed", l.defaultTooltip, req.cmd))
		l.submitErrorExports(ctx, res.Err)
	} else if res.File != "" {
		l.setTooltip(fmt.Sprintf("%s: saved %s", l.defaultTooltip, res.File))
	}
	if req.reply != nil {
		req.reply(res)
	}
	return res.Exit
}

func (l *Loop) execute(ctx context.Context, cmd messages.Command) messages.Result {
	var (
		saved overlay.Saved
		exit  bool
		err   error
	)
	switch cmd {
	case messages.CmdCapture:
		l.setTooltip(l.defaultTooltip + ": capturing...")
		err = l.ann.Capture(ctx, l.settler, l.ui.DoAndWait)
		if err == nil {
			l.setTooltip(l.defaultTooltip)
		}
		return messages.Result{Err: err}
	case messages.CmdSave:
		l.ui.DoAndWait(func() { saved, err = l.ann.Save() })
	case messages.CmdSaveClear:
		l.ui.DoAndWait(func() { saved, err = l.ann.SaveAndClear() })
	case messages.CmdEscape:
		l.ui.DoAndWait(func() { saved, exit, err = l.ann.HandleEscape() })
	case messages.CmdQuit:
		return messages.Result{Exit: true}
	default:
		return messages.Result{Err: fmt.Errorf("unsupported command %q", cmd)}
	}
	if err != nil {
		return messages.Result{Err: err}
	}
	l.submitExports(ctx, saved)
	return messages.Result{File: saved.Path, Exit: exit}
}

type exportRun struct {
	name string
	run  func(context.Context) error
}

// submitExports queues every OnSaved hook as a single task, one queue slot
// per save.
func (l *Loop) submitExports(ctx context.Context, saved overlay.Saved) {
	var runs []exportRun
	for _, e := range l.exports {
		if e.OnSaved == nil {
			continue
		}
		runs = append(runs, exportRun{e.Name, func(ctx context.Context) error { return e.OnSaved(ctx, saved) }})
	}
	l.submit(ctx, "exports "+saved.Path, runs)
}

func (l *Loop) submitErrorExports(ctx context.Context, cause error) {
	var runs []exportRun
	for _, e := range l.exports {
		if e.OnError == nil {
			continue
		}
		runs = append(runs, exportRun{e.Name, func(ctx context.Context) error { return e.OnError(ctx, cause) }})
	}
	l.submit(ctx, "error exports", runs)
}

func (l *Loop) submit(ctx context.Context, name string, runs []exportRun) {
	if len(runs) == 0 {
		return
	}
	task := worker.Task{Name: name, Run: func(ctx context.Context) error {
		var errs []error
		for _, r := range runs {
			err := r.run(ctx)
			l.report(exportResult{name: r.name, err: err})
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.name, err))
			}
		}
		return errors.Join(errs...)
	}}
	if !l.pool.Submit(ctx, task, nil) {
		log.Printf("eventloop: %s dropped, workers busy", name)
	}
}

func (l *Loop) report(res exportResult) {
	select {
	case l.results <- res:
	default:
		log.Printf("eventloop: export %s result dropped (err=%v)", res.name, res.err)
	}
}

func (l *Loop) handleExport(res exportResult) {
	if res.err != nil {
		log.Printf("eventloop: export %s failed: %v", res.name, res.err)
		return
	}
	log.Printf("eventloop: export %s done", res.name)
}

func (l *Loop) quit() {
	l.quitOnce.Do(func() {
		if l.ui != nil {
			l.ui.Quit()
		}
	})
}
