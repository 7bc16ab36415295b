package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topoviz/pkg/core/interact"
	"github.com/matzehuels/topoviz/pkg/core/render"
	"github.com/matzehuels/topoviz/pkg/core/render/sink"
	"github.com/matzehuels/topoviz/pkg/source"
	"github.com/matzehuels/topoviz/pkg/topology"
	"github.com/matzehuels/topoviz/pkg/visualizer"
)

const (
	viewFrameInterval = time.Second / 30
	viewZoomStep      = 1.2
	viewPanStep       = 40
	// viewChromeRows is the status line plus the help line.
	viewChromeRows = 2
	// viewPointer identifies the mouse in drag events.
	viewPointer = 0
)

// viewCommand creates the interactive terminal view.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool
	var watch time.Duration

	cmd := &cobra.Command{
		Use:   "view [source]",
		Short: "Show a live, interactive layout in the terminal",
		Long: `View runs the force simulation in the terminal.

Drag a node with the mouse to pin it, use the wheel to zoom and the arrow
keys to pan. Space starts or stops the simulation, r resets the view and
R reloads the source.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSource,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), sourceArg(args), noCache, watch)
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&watch, "watch", 0, "reload the source at this interval (e.g. 5s)")
	return cmd
}

func (c *CLI) runView(ctx context.Context, location string, noCache bool, watch time.Duration) error {
	src, ch, err := c.openSource(ctx, location, noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	quiet := quietLogger()
	m := newViewModel(ctx, c.newVisualizer(quiet), src)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if watch > 0 {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			_ = source.Watch(watchCtx, src, watch, quiet, func(t *topology.Topology) {
				p.Send(loadedMsg{topology: t})
			})
		}()
	}
	_, err = p.Run()
	return err
}

// =============================================================================
// Key Bindings
// =============================================================================

type viewKeyMap struct {
	Pan    key.Binding
	Zoom   key.Binding
	Toggle key.Binding
	Reset  key.Binding
	Reload key.Binding
	Quit   key.Binding

	Up, Down, Left, Right key.Binding
	ZoomIn, ZoomOut       key.Binding
}

func newViewKeyMap() viewKeyMap {
	return viewKeyMap{
		Pan:    key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "pan")),
		Zoom:   key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "zoom")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset view")),
		Reload: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),

		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Left:    key.NewBinding(key.WithKeys("left", "h")),
		Right:   key.NewBinding(key.WithKeys("right", "l")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "=")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_")),
	}
}

// ShortHelp implements help.KeyMap.
func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pan, k.Zoom, k.Toggle, k.Reset, k.Reload, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// =============================================================================
// Model
// =============================================================================

type frameMsg time.Time

type loadedMsg struct {
	topology *topology.Topology
	err      error
}

var (
	viewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// viewModel is the bubbletea model behind `topoviz view`.
type viewModel struct {
	ctx  context.Context
	vis  *visualizer.Visualizer
	src  source.Source
	keys viewKeyMap
	help help.Model

	cols, rows int
	scene      *render.Scene
	grid       *sink.Grid
	dragging   bool
	status     string
	err        error
}

func newViewModel(ctx context.Context, vis *visualizer.Visualizer, src source.Source) *viewModel {
	return &viewModel{
		ctx:   ctx,
		vis:   vis,
		src:   src,
		keys:  newViewKeyMap(),
		help:  help.New(),
		cols:  80,
		rows:  24 - viewChromeRows,
		scene: vis.Scene(),
	}
}

func (m *viewModel) Init() tea.Cmd {
	return tea.Batch(m.load(), nextFrame())
}

func nextFrame() tea.Cmd {
	return tea.Tick(viewFrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *viewModel) load() tea.Cmd {
	src, ctx := m.src, m.ctx
	return func() tea.Msg {
		t, err := src.Load(ctx)
		return loadedMsg{topology: t, err: err}
	}
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-viewChromeRows, 1)
		m.help.Width = msg.Width
		m.redraw()

	case frameMsg:
		m.scene, _ = m.vis.Frame(m.ctx)
		m.redraw()
		return m, nextFrame()

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		diags := m.vis.ReplaceContext(m.ctx, msg.topology)
		m.dragging = false
		m.status = fmt.Sprintf("loaded %s: %d nodes, %d edges", m.src, msg.topology.NodeCount(), msg.topology.EdgeCount())
		if len(diags) > 0 {
			m.status += fmt.Sprintf(", %d dropped", len(diags))
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *viewModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.vis.Enqueue(interact.Pan{DY: viewPanStep})
	case key.Matches(msg, m.keys.Down):
		m.vis.Enqueue(interact.Pan{DY: -viewPanStep})
	case key.Matches(msg, m.keys.Left):
		m.vis.Enqueue(interact.Pan{DX: viewPanStep})
	case key.Matches(msg, m.keys.Right):
		m.vis.Enqueue(interact.Pan{DX: -viewPanStep})
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomCenter(viewZoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomCenter(1 / viewZoomStep)
	case key.Matches(msg, m.keys.Reset):
		m.vis.Enqueue(interact.ResetView{})
	case key.Matches(msg, m.keys.Toggle):
		if m.scene.Running {
			m.vis.Stop()
		} else {
			m.vis.Start()
		}
	case key.Matches(msg, m.keys.Reload):
		m.status = "reloading " + m.src.String()
		return m.load()
	}
	return nil
}

func (m *viewModel) zoomCenter(factor float64) {
	w, h := m.vis.Size()
	m.vis.Enqueue(interact.Zoom{Factor: factor, X: w / 2, Y: h / 2})
}

func (m *viewModel) handleMouse(msg tea.MouseMsg) {
	if m.grid == nil || msg.Y >= m.rows {
		if msg.Action == tea.MouseActionRelease && m.dragging {
			m.dragging = false
			m.vis.Enqueue(interact.DragEnd{Pointer: viewPointer})
		}
		return
	}
	x, y := m.grid.ScreenPoint(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.vis.Enqueue(interact.Zoom{Factor: viewZoomStep, X: x, Y: y})
	case msg.Button == tea.MouseButtonWheelDown:
		m.vis.Enqueue(interact.Zoom{Factor: 1 / viewZoomStep, X: x, Y: y})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.vis.Enqueue(interact.DragStart{Pointer: viewPointer, X: x, Y: y})
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.vis.Enqueue(interact.DragMove{Pointer: viewPointer, X: x, Y: y})
	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		m.vis.Enqueue(interact.DragEnd{Pointer: viewPointer})
	}
}

func (m *viewModel) redraw() {
	m.grid = sink.Rasterize(m.scene, m.cols, m.rows)
}

func (m *viewModel) View() string {
	var b strings.Builder
	if m.grid != nil {
		b.WriteString(m.grid.String())
	}
	b.WriteString("\n")

	state := "settled"
	if m.scene.Running {
		state = fmt.Sprintf("running α=%.3f", m.scene.Alpha)
	}
	line := fmt.Sprintf("%s · tick %d · zoom %.2f", state, m.scene.Tick, m.scene.Transform.K)
	if m.status != "" {
		line += " · " + m.status
	}
	if m.err != nil {
		b.WriteString(viewErrorStyle.Render(iconError + " " + describe(m.err)))
	} else {
		b.WriteString(viewStatusStyle.Render(line))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
