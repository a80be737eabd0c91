package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/uber/lspterm/src/lspterm/entity"
)

var (
	_textStyle   = tcell.StyleDefault
	_statusStyle = tcell.StyleDefault.Reverse(true)
	_errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	_gutterStyle = map[entity.Severity]tcell.Style{
		entity.SeverityError:   tcell.StyleDefault.Foreground(tcell.ColorRed),
		entity.SeverityWarning: tcell.StyleDefault.Foreground(tcell.ColorYellow),
		entity.SeverityInfo:    tcell.StyleDefault.Foreground(tcell.ColorBlue),
		entity.SeverityHint:    tcell.StyleDefault.Foreground(tcell.ColorGray),
		entity.SeverityNone:    tcell.StyleDefault.Foreground(tcell.ColorGray),
	}
)

const _scrollLines = 3

// EditorView is the bottom layer: the open views, the status line and the spinners.
type EditorView struct {
	spinners *Spinners
	height   int
}

// NewEditorView returns the base layer drawing spinners from s.
func NewEditorView(s *Spinners) *EditorView {
	return &EditorView{spinners: s}
}

// Spinners returns the per server busy indicators.
func (v *EditorView) Spinners() *Spinners {
	return v.spinners
}

func (v *EditorView) HandleEvent(ev tcell.Event, cx *Context) EventResult {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyCtrlQ:
			cx.Editor.RequestClose()
		case ev.Key() == tcell.KeyCtrlZ:
			cx.Suspend()
		case ev.Key() == tcell.KeyUp:
			scroll(cx, -1)
		case ev.Key() == tcell.KeyDown:
			scroll(cx, 1)
		case ev.Key() == tcell.KeyPgUp:
			scroll(cx, -v.page())
		case ev.Key() == tcell.KeyPgDn:
			scroll(cx, v.page())
		case ev.Key() == tcell.KeyEscape:
			cx.Editor.ClearStatus()
		default:
			return EventResult{}
		}
		return EventResult{Consumed: true}
	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			scroll(cx, -_scrollLines)
		case ev.Buttons()&tcell.WheelDown != 0:
			scroll(cx, _scrollLines)
		default:
			return EventResult{}
		}
		return EventResult{Consumed: true}
	}
	return EventResult{}
}

// page is the number of text rows drawn by the last render.
func (v *EditorView) page() int {
	return max(v.height-1, 1)
}

func scroll(cx *Context, lines int) {
	view := cx.Editor.FocusedView()
	if view == nil {
		return
	}
	doc, err := cx.Editor.Document(view.Document)
	if err != nil {
		return
	}
	maxOffset := strings.Count(doc.Text, "\n")
	view.Offset = min(max(view.Offset+lines, 0), maxOffset)
}

func (v *EditorView) Render(area Rect, surface Surface, cx *Context) {
	v.height = area.Height
	if area.Height < 1 {
		return
	}
	body := Rect{X: area.X, Y: area.Y, Width: area.Width, Height: area.Height - 1}
	fill(surface, area, _textStyle)

	views := cx.Editor.Views()
	if len(views) > 0 {
		width := body.Width / len(views)
		for i, view := range views {
			column := Rect{X: body.X + i*width, Y: body.Y, Width: width, Height: body.Height}
			if i == len(views)-1 {
				column.Width = body.Width - i*width
			}
			v.renderView(column, surface, cx, view)
		}
	}

	v.renderStatus(Rect{X: area.X, Y: area.Y + area.Height - 1, Width: area.Width, Height: 1}, surface, cx)
}

func (v *EditorView) renderView(area Rect, surface Surface, cx *Context, view *entity.View) {
	doc, err := cx.Editor.Document(view.Document)
	if err != nil || area.Width < 3 {
		return
	}

	marks := make(map[int]entity.Severity, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		if current, ok := marks[d.Line]; !ok || (d.Severity != entity.SeverityNone && d.Severity < current) {
			marks[d.Line] = d.Severity
		}
	}

	lines := strings.Split(doc.Text, "\n")
	for row := 0; row < area.Height; row++ {
		line := view.Offset + row
		if line >= len(lines) {
			break
		}
		if severity, ok := marks[line]; ok {
			surface.SetContent(area.X, area.Y+row, '●', nil, _gutterStyle[severity])
		}
		drawText(surface, area.X+2, area.Y+row, area.Width-2, lines[line], _textStyle)
	}
}

func (v *EditorView) renderStatus(area Rect, surface Surface, cx *Context) {
	fill(surface, area, _statusStyle)

	var right strings.Builder
	for _, doc := range cx.Editor.Documents() {
		if doc.LanguageServer == 0 {
			continue
		}
		if frame, ok := v.spinners.Frame(doc.LanguageServer); ok {
			right.WriteRune(frame)
			break
		}
	}

	if status := cx.Editor.Status(); status != nil {
		style := _statusStyle
		if status.IsError {
			style = _errorStyle.Reverse(true)
		}
		drawText(surface, area.X, area.Y, area.Width-2, status.Message, style)
	} else if view := cx.Editor.FocusedView(); view != nil {
		if doc, err := cx.Editor.Document(view.Document); err == nil {
			drawText(surface, area.X, area.Y, area.Width-2, describe(doc), _statusStyle)
		}
	}

	if right.Len() > 0 && area.Width > 0 {
		drawText(surface, area.X+area.Width-1, area.Y, 1, right.String(), _statusStyle)
	}
}

func describe(doc *entity.Document) string {
	name := "[scratch]"
	if !doc.Scratch() {
		name = filepath.Base(doc.Path)
	}
	if n := len(doc.Diagnostics); n > 0 {
		return fmt.Sprintf(" %s  %d diagnostics", name, n)
	}
	return " " + name
}
