package ui

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/internal/fs"
)

const _maxPickerEntries = 10000

var (
	_pickerStyle   = tcell.StyleDefault
	_selectedStyle = tcell.StyleDefault.Reverse(true)
)

// FilePicker is a modal list of the files under a directory. Enter opens the selection.
type FilePicker struct {
	root    string
	entries []string
	cursor  int
	handle  Handle
}

// NewFilePicker lists the files under root, skipping hidden directories.
func NewFilePicker(fsys fs.FS, root string) (*FilePicker, error) {
	var entries []string
	queue := []string{root}
	for len(queue) > 0 && len(entries) < _maxPickerEntries {
		dir := queue[0]
		queue = queue[1:]

		items, err := fsys.ReadDir(dir)
		if err != nil {
			if dir == root {
				return nil, err
			}
			continue
		}
		for _, item := range items {
			path := filepath.Join(dir, item.Name())
			if item.IsDir() {
				if !strings.HasPrefix(item.Name(), ".") {
					queue = append(queue, path)
				}
				continue
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				continue
			}
			entries = append(entries, rel)
		}
	}
	sort.Strings(entries)
	return &FilePicker{root: root, entries: entries}, nil
}

// Attach records the handle the picker was pushed under so it can close itself.
func (p *FilePicker) Attach(h Handle) {
	p.handle = h
}

// Entries returns the listed paths relative to the root.
func (p *FilePicker) Entries() []string {
	return p.entries
}

// Selected returns the path under the cursor.
func (p *FilePicker) Selected() (string, bool) {
	if len(p.entries) == 0 {
		return "", false
	}
	return filepath.Join(p.root, p.entries[p.cursor]), true
}

func (p *FilePicker) HandleEvent(ev tcell.Event, cx *Context) EventResult {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return EventResult{}
	}

	switch key.Key() {
	case tcell.KeyUp, tcell.KeyCtrlP:
		if p.cursor > 0 {
			p.cursor--
		}
	case tcell.KeyDown, tcell.KeyCtrlN:
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case tcell.KeyEscape:
		return EventResult{Consumed: true, Callback: p.close}
	case tcell.KeyEnter:
		if path, ok := p.Selected(); ok {
			if _, err := cx.Editor.Open(cx.Ctx(), path, entity.ActionReplace); err != nil {
				cx.Editor.SetError(err.Error())
			}
		}
		return EventResult{Consumed: true, Callback: p.close}
	case tcell.KeyCtrlQ:
		return EventResult{}
	}
	return EventResult{Consumed: true}
}

func (p *FilePicker) close(c *Compositor, _ *Context) {
	c.Remove(p.handle)
}

func (p *FilePicker) Render(area Rect, surface Surface, cx *Context) {
	box := Rect{
		X:      area.X + area.Width/8,
		Y:      area.Y + area.Height/8,
		Width:  area.Width - area.Width/4,
		Height: area.Height - area.Height/4,
	}
	if box.Width < 4 || box.Height < 1 {
		return
	}
	fill(surface, box, _pickerStyle)

	first := 0
	if p.cursor >= box.Height {
		first = p.cursor - box.Height + 1
	}
	for row := 0; row < box.Height && first+row < len(p.entries); row++ {
		style := _pickerStyle
		if first+row == p.cursor {
			style = _selectedStyle
		}
		drawText(surface, box.X+1, box.Y+row, box.Width-2, p.entries[first+row], style)
	}
}
