package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sahilm/fuzzy"
)

// maxVisible bounds how many ranked candidates the list shows
const maxVisible = 500

// Picker is the in-process selector: a query line over a fuzzy-ranked list
type Picker struct {
	prompt     string
	isTerminal func() bool
}

// NewPicker creates a new Picker
func NewPicker() *Picker {
	return &Picker{
		prompt:     "test> ",
		isTerminal: func() bool { return IsTerminal(os.Stdin) },
	}
}

// Available implements Selector
func (p *Picker) Available() error {
	if !p.isTerminal() {
		return fmt.Errorf("%w: not a terminal", ErrSelectorUnavailable)
	}
	return nil
}

// Select implements Selector
func (p *Picker) Select(ctx context.Context, candidates <-chan string) (string, error) {
	app := tview.NewApplication()

	var (
		mu       sync.Mutex
		pending  []string
		complete bool
	)
	var all, visible []string
	var selected string

	input := tview.NewInputField().
		SetLabel(p.prompt).
		SetFieldBackgroundColor(tcell.ColorDefault)

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	headerView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	updateHeader := func(done bool) {
		state := "[yellow]scanning...[white]"
		if done {
			state = "[green]done[white]"
		}
		headerView.SetText(fmt.Sprintf(" %d/%d tests (%s) | ↑↓ to navigate, Enter to select, Esc to abort ", len(visible), len(all), state))
	}

	refresh := func() {
		current := list.GetCurrentItem()
		visible = Rank(input.GetText(), all)
		list.Clear()
		for i, id := range visible {
			if i == maxVisible {
				break
			}
			list.AddItem(tview.Escape(id), "", 0, nil)
		}
		if current > 0 && current < list.GetItemCount() {
			list.SetCurrentItem(current)
		}
	}

	// flush moves candidates received so far into the list; runs on the UI goroutine
	flush := func() {
		mu.Lock()
		batch := pending
		pending = nil
		done := complete
		mu.Unlock()

		all = append(all, batch...)
		if len(batch) > 0 {
			refresh()
		}
		updateHeader(done)
	}

	input.SetChangedFunc(func(text string) {
		list.SetCurrentItem(0)
		refresh()
		mu.Lock()
		done := complete
		mu.Unlock()
		updateHeader(done)
	})

	input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			if i := list.GetCurrentItem(); i > 0 {
				list.SetCurrentItem(i - 1)
			}
			return nil
		case tcell.KeyDown:
			if i := list.GetCurrentItem(); i+1 < list.GetItemCount() {
				list.SetCurrentItem(i + 1)
			}
			return nil
		case tcell.KeyEnter:
			if i := list.GetCurrentItem(); i >= 0 && i < len(visible) && list.GetItemCount() > 0 {
				selected = visible[i]
			}
			app.Stop()
			return nil
		case tcell.KeyEsc, tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(list, 0, 1, false).
		AddItem(input, 1, 0, true)

	stopped := make(chan struct{})
	wake := make(chan struct{}, 1)
	notify := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}

	// the feeder never touches primitives, so it keeps draining candidates
	// even after the app has stopped
	go func() {
		for id := range candidates {
			mu.Lock()
			pending = append(pending, id)
			mu.Unlock()
			notify()
		}
		mu.Lock()
		complete = true
		mu.Unlock()
		notify()
	}()

	go func() {
		for {
			select {
			case <-stopped:
				return
			case <-ctx.Done():
				app.Stop()
				return
			case <-wake:
			}
			queued := make(chan struct{})
			go func() {
				app.QueueUpdateDraw(flush)
				close(queued)
			}()
			select {
			case <-queued:
			case <-stopped:
				return
			}
		}
	}()

	updateHeader(false)
	err := app.SetRoot(layout, true).SetFocus(input).Run()
	close(stopped)
	if err != nil {
		return "", fmt.Errorf("failed to run picker: %w", err)
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if selected == "" {
		return "", ErrNoSelection
	}
	return selected, nil
}

// Rank filters candidates by a fuzzy query, best match first. An empty
// query keeps every candidate in arrival order.
func Rank(query string, candidates []string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]string(nil), candidates...)
	}
	matches := fuzzy.Find(query, candidates)
	ranked := make([]string, len(matches))
	for i, m := range matches {
		ranked[i] = m.Str
	}
	return ranked
}
