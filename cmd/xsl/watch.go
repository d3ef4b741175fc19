package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/midbel/cli"
	"github.com/midbel/xsl"
)

var watchCmd = cli.Command{
	Name:    "watch",
	Summary: "rerun a transformation whenever stylesheet or document change",
	Handler: &WatchCmd{},
}

type WatchCmd struct {
	Dir      string
	File     string
	Debounce time.Duration
}

type runStartMsg struct{}

type runDoneMsg struct {
	err     error
	elapsed time.Duration
}

var (
	watchOkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	watchErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	watchDimStyle = lipgloss.NewStyle().Faint(true)
)

type watchModel struct {
	spin    spinner.Model
	sheet   string
	doc     string
	running bool
	count   int
	last    runDoneMsg
}

func (m watchModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case runStartMsg:
		m.running = true
		return m, nil
	case runDoneMsg:
		m.running = false
		m.count++
		m.last = msg
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	var status string
	switch {
	case m.running:
		status = m.spin.View() + " transforming..."
	case m.count == 0:
		status = watchDimStyle.Render("waiting for changes")
	case m.last.err != nil:
		status = watchErrStyle.Render(fmt.Sprintf("FAIL %s", m.last.err))
	default:
		status = watchOkStyle.Render(fmt.Sprintf("OK in %s", m.last.elapsed))
	}
	head := fmt.Sprintf("watching %s + %s (run %d)", m.sheet, m.doc, m.count)
	return fmt.Sprintf("%s\n%s\n%s\n", head, status, watchDimStyle.Render("press q to quit"))
}

func (c *WatchCmd) Run(args []string) error {
	set := cli.NewFlagSet("watch")
	set.StringVar(&c.Dir, "d", "", "resolve imports and documents from directory")
	set.StringVar(&c.File, "o", "out.xml", "output file")
	set.DurationVar(&c.Debounce, "w", 250*time.Millisecond, "debounce delay")
	if err := set.Parse(args); err != nil {
		return err
	}
	rest := set.Args()
	if len(rest) < 2 {
		return fmt.Errorf("usage: watch <stylesheet> <document>")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, dir := range watchDirs(rest[0], rest[1], c.Dir) {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	m := watchModel{
		spin:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		sheet: rest[0],
		doc:   rest[1],
	}
	var (
		p    = tea.NewProgram(m)
		stop = make(chan struct{})
	)
	go c.loop(p, watcher, rest[0], rest[1], stop)

	_, err = p.Run()
	close(stop)
	return err
}

// loop debounces watcher events and reruns the transformation when
// the files settle, reporting progress to the program.
func (c *WatchCmd) loop(p *tea.Program, watcher *fsnotify.Watcher, sheetFile, docFile string, stop chan struct{}) {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(c.Debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(c.Debounce)
		timerC = timer.C
	}
	c.runOnce(p, sheetFile, docFile)
	for {
		select {
		case <-stop:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-timerC:
			timerC = nil
			c.runOnce(p, sheetFile, docFile)
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			resetTimer()
		}
	}
}

func (c *WatchCmd) runOnce(p *tea.Program, sheetFile, docFile string) {
	p.Send(runStartMsg{})
	now := time.Now()
	err := c.execute(sheetFile, docFile)
	p.Send(runDoneMsg{
		err:     err,
		elapsed: time.Since(now).Round(time.Millisecond),
	})
}

func (c *WatchCmd) execute(sheetFile, docFile string) error {
	sheet, err := loadSheet(sheetFile, c.Dir, "")
	if err != nil {
		return err
	}
	doc, err := xsl.OpenDocument(docFile)
	if err != nil {
		return err
	}
	w, err := os.Create(c.File)
	if err != nil {
		return err
	}
	defer w.Close()
	return sheet.Generate(w, doc)
}

func watchDirs(files ...string) []string {
	var dirs []string
	for _, f := range files {
		if f == "" {
			continue
		}
		dir := filepath.Dir(f)
		if fi, err := os.Stat(f); err == nil && fi.IsDir() {
			dir = f
		}
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
