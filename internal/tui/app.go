// Package tui provides the interactive Bubble Tea dashboard for hydrate.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hydrate/internal/cli"
	"github.com/theirongolddev/hydrate/internal/logging"
	"github.com/theirongolddev/hydrate/internal/model"
	"github.com/theirongolddev/hydrate/internal/reminder"
	"github.com/theirongolddev/hydrate/internal/tracker"
	"github.com/theirongolddev/hydrate/internal/tui/components"
	"github.com/theirongolddev/hydrate/internal/tui/theme"
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 100

	glassRows   = 10
	glassWidth  = 8
	glassFrames = 12
	frameEvery  = 40 * time.Millisecond

	bannerTTL  = 15 * time.Second
	maxLogRows = 8
)

// Options configures the dashboard.
type Options struct {
	QuickAdd []int
	// Now is the wall clock used for "last drink" labels.
	Now func() time.Time
	// SaveReminderPrefs persists the reminder switch and interval after
	// they change from the keyboard. Optional.
	SaveReminderPrefs func(enabled bool, interval int) error
	Logger            *slog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	ctx     context.Context
	tracker *tracker.Tracker
	opts    Options
	log     *slog.Logger

	keys  *KeyMap
	help  help.Model
	bar   progress.Model
	input textinput.Model

	view    tracker.View
	initBar tea.Cmd

	// Glass animation: level eases from glassFrom to glassTo.
	glassLevel float64
	glassFrom  float64
	glassTo    float64
	glassFrame int
	glassChain int
	animating  bool

	banner   *reminder.Notification
	bannerID int

	status    string
	statusErr bool

	entering bool
	showHelp bool
	width    int
	height   int
	now      time.Time
}

type (
	tickMsg       time.Time
	glassFrameMsg struct{ chain int }
	bannerExpired struct{ id int }
)

// NewApp creates the dashboard around an already restored tracker.
func NewApp(ctx context.Context, t *tracker.Tracker, opts Options) App {
	if len(opts.QuickAdd) == 0 {
		opts.QuickAdd = []int{100, 250, 500}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "amount in ml"
	ti.Prompt = "› "
	ti.CharLimit = 6

	v := t.View()
	bar := components.NewGoalBar(40)
	initBar := bar.SetPercent(v.Fraction)

	return App{
		ctx:        ctx,
		tracker:    t,
		opts:       opts,
		log:        logging.OrDiscard(opts.Logger),
		keys:       DefaultKeyMap(opts.QuickAdd),
		help:       help.New(),
		bar:        bar,
		input:      ti,
		view:       v,
		initBar:    initBar,
		glassLevel: v.FillHeight,
		now:        opts.Now(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.initBar, tickCmd())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.bar.Width = max(a.contentWidth()-14, 10)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case ReminderMsg:
		n := msg.Notification
		a.banner = &n
		a.bannerID++
		id := a.bannerID
		return a, tea.Tick(bannerTTL, func(time.Time) tea.Msg { return bannerExpired{id: id} })

	case bannerExpired:
		if msg.id == a.bannerID {
			a.banner = nil
		}
		return a, nil

	case glassFrameMsg:
		if !a.animating || msg.chain != a.glassChain {
			return a, nil
		}
		a.glassFrame++
		if a.glassFrame >= glassFrames {
			a.animating = false
			a.glassLevel = a.glassTo
			return a, nil
		}
		a.glassLevel = easeGlass(a.glassFrom, a.glassTo, a.glassFrame)
		return a, glassFrameCmd(a.glassChain)

	case progress.FrameMsg:
		m, cmd := a.bar.Update(msg)
		if bar, ok := m.(progress.Model); ok {
			a.bar = bar
		}
		return a, cmd

	case tickMsg:
		a.now = a.opts.Now()
		return a, tickCmd()
	}

	if a.entering {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, tea.Quit
	}

	if a.entering {
		return a.updateCustomInput(msg)
	}

	if key.Matches(msg, a.keys.Help) {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	for i, b := range a.keys.QuickAdd {
		if key.Matches(msg, b) {
			return a.add(a.opts.QuickAdd[i])
		}
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Custom):
		a.entering = true
		a.input.Reset()
		cmd := a.input.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Reset):
		err := a.tracker.ResetDay(a.ctx)
		return a.sync(err)

	case key.Matches(msg, a.keys.ToggleReminders):
		st := a.tracker.ToggleReminders()
		a.setStatus(fmt.Sprintf("Reminders %s", st), nil)
		a.saveReminderPrefs()
		return a, nil

	case key.Matches(msg, a.keys.CycleInterval):
		next := model.NextInterval(a.tracker.Reminders().Interval())
		a.tracker.SetReminderInterval(next)
		a.setStatus("Reminding every "+model.IntervalLabel(next), nil)
		a.saveReminderPrefs()
		return a, nil
	}
	return a, nil
}

// updateCustomInput handles keys while the amount field is focused.
// Input that is not a positive integer is ignored and the field stays open.
func (a App) updateCustomInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.closeInput()
		return a, nil

	case key.Matches(msg, a.keys.Submit):
		amount, ok := tracker.ParseCustomAmount(a.input.Value())
		if !ok {
			return a, nil
		}
		a.closeInput()
		return a.add(amount)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) closeInput() {
	a.entering = false
	a.input.Blur()
	a.input.Reset()
}

func (a App) add(amount int) (tea.Model, tea.Cmd) {
	err := a.tracker.AddIntake(a.ctx, amount)
	if errors.Is(err, tracker.ErrInvalidAmount) {
		return a, nil
	}
	return a.sync(err)
}

// sync pulls a fresh view from the tracker and starts the animations it
// calls for.
func (a App) sync(saveErr error) (tea.Model, tea.Cmd) {
	a.view = a.tracker.View()
	a.setStatus("", saveErr)

	cmds := []tea.Cmd{a.bar.SetPercent(a.view.Fraction)}
	if a.view.Filling {
		a.glassFrom = a.view.FillStart
		a.glassTo = a.view.FillFinal
		a.glassLevel = a.glassFrom
		a.glassFrame = 0
		// A running chain retargets; only a stopped one starts a new chain.
		if !a.animating {
			a.glassChain++
			cmds = append(cmds, glassFrameCmd(a.glassChain))
		}
		a.animating = true
	} else {
		a.animating = false
		a.glassChain++
		a.glassLevel = a.view.FillHeight
	}
	return a, tea.Batch(cmds...)
}

func (a *App) setStatus(text string, err error) {
	if err != nil {
		a.log.Error("saving intake failed", "error", err)
		a.status = "Not saved: " + err.Error()
		a.statusErr = true
		return
	}
	a.status = text
	a.statusErr = false
}

func (a *App) saveReminderPrefs() {
	if a.opts.SaveReminderPrefs == nil {
		return
	}
	sched := a.tracker.Reminders()
	if err := a.opts.SaveReminderPrefs(sched.State() == reminder.Enabled, sched.Interval()); err != nil {
		a.log.Warn("saving reminder preferences failed", "error", err)
	}
}

// easeGlass is an ease-out curve over glassFrames frames.
func easeGlass(from, to float64, frame int) float64 {
	p := float64(frame) / glassFrames
	p = 1 - (1-p)*(1-p)
	return from + (to-from)*p
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  hydrate needs at least %d columns.\n", a.width, minTerminalWidth)
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	h := a.help
	h.ShowAll = true
	body := titleStyle.Render("Keyboard Shortcuts") + "\n\n" +
		h.View(a.keys) + "\n\n" +
		dimStyle.Render("Press any key to close")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body))
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()
	v := a.view

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	header := headerStyle.Render("◈ hydrate") + dateStyle.Render("  "+a.now.Format("Monday, Jan 2"))

	widths := components.LayoutRow(cw, 3)
	caption := fmt.Sprintf("%s to go", cli.FormatML(v.Remaining))
	if v.Remaining == 0 {
		caption = "Goal reached!"
	}
	readout := components.ReadoutCard(
		fmt.Sprintf("%s / %s", cli.FormatML(v.Readout), cli.FormatML(v.Goal)),
		caption+"\n"+a.lastDrink(),
		v.Remaining == 0,
		widths[0],
	)
	ring := components.ContentCard("Progress",
		components.Ring(v.RingDashArray, v.RingDashOffset, cli.FormatPercent(v.Fraction)), widths[1])
	glass := components.ContentCard("Glass",
		components.Glass(a.glassLevel, tracker.GlassHeight, glassRows, glassWidth), widths[2])

	bar := components.ContentCard("Daily goal", components.GoalBarLine(a.bar.View(), v.Fraction), cw)

	sections := []string{
		header,
		components.CardRow([]string{readout, ring, glass}),
		bar,
		components.CardRow([]string{
			components.ContentCard("Today's log", a.renderLog(), widths[0]+widths[1]),
			components.ContentCard("Reminders", a.renderReminders(), widths[2]),
		}),
	}
	if a.entering {
		sections = append(sections, components.ContentCard("Custom amount", a.input.View(), cw))
	}
	if a.banner != nil {
		sections = append(sections, a.renderBanner(cw))
	}
	sections = append(sections, a.renderStatusBar(cw))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) lastDrink() string {
	entries := a.tracker.Entries()
	if len(entries) == 0 {
		return "No drinks yet"
	}
	return "Last drink " + cli.FormatAgo(entries[0].At, a.now)
}

func (a App) renderLog() string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	lineStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := a.view.Lines
	if len(lines) == 0 {
		return mutedStyle.Render("Nothing logged today")
	}

	shown := lines[:min(len(lines), maxLogRows)]
	rows := make([]string, 0, len(shown)+1)
	for _, l := range shown {
		rows = append(rows, lineStyle.Render(l))
	}
	if more := len(lines) - len(shown); more > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("… %d more", more)))
	}
	return strings.Join(rows, "\n")
}

func (a App) renderReminders() string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	onStyle := lipgloss.NewStyle().Foreground(t.Success).Background(t.Surface).Bold(true)
	offStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sched := a.tracker.Reminders()
	state := offStyle.Render("off")
	if sched.State() == reminder.Enabled {
		state = onStyle.Render("on")
	}

	stats := sched.Stats()
	return labelStyle.Render("Status    ") + state + "\n" +
		labelStyle.Render("Every     "+model.IntervalLabel(sched.Interval())) + "\n" +
		labelStyle.Render(fmt.Sprintf("Sent      %d", stats.Fired))
}

func (a App) renderBanner(cw int) string {
	t := theme.Active
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Foreground(t.TextPrimary).
		Width(cw-2).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Foreground(t.WaterBright).Bold(true)

	return style.Render(titleStyle.Render(a.banner.Title) + "  " + a.banner.Body)
}

func (a App) renderStatusBar(cw int) string {
	left := a.help.ShortHelpView(a.keys.ShortHelp())
	right := a.status
	if a.statusErr {
		right = lipgloss.NewStyle().Foreground(theme.Active.Danger).Render(right)
	}
	return components.RenderStatusBar(cw, left, right)
}

func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func glassFrameCmd(chain int) tea.Cmd {
	return tea.Tick(frameEvery, func(time.Time) tea.Msg {
		return glassFrameMsg{chain: chain}
	})
}
