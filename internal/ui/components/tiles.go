package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/initiation/internal/ui/theme"
)

// tileColumns is the width of both the tray and the board grid.
const tileColumns = 3

// TilePicker lets the participant lay tiles from a tray onto a fixed board.
// Each tray tile can be placed once. Placement fills the board left to
// right, top to bottom.
type TilePicker struct {
	Tray   []string
	Cursor int

	board []int // tray index per slot, -1 when empty
	used  []bool
}

// NewTilePicker creates a picker over tray with the given number of slots.
func NewTilePicker(tray []string, slots int) TilePicker {
	p := TilePicker{
		Tray:  append([]string(nil), tray...),
		board: make([]int, slots),
		used:  make([]bool, len(tray)),
	}
	for i := range p.board {
		p.board[i] = -1
	}
	return p
}

// Update handles cursor movement, placement, and undo.
func (p TilePicker) Update(msg tea.Msg) (TilePicker, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(p.Tray) == 0 {
		return p, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if p.Cursor > 0 {
			p.Cursor--
		}
	case "right", "l":
		if p.Cursor < len(p.Tray)-1 {
			p.Cursor++
		}
	case "up", "k":
		if p.Cursor-tileColumns >= 0 {
			p.Cursor -= tileColumns
		}
	case "down", "j":
		if p.Cursor+tileColumns < len(p.Tray) {
			p.Cursor += tileColumns
		}
	case "space", " ":
		p.place()
	case "backspace":
		p.undo()
	case "ctrl+u":
		p.clear()
	}
	return p, nil
}

func (p *TilePicker) place() {
	if p.used[p.Cursor] {
		return
	}
	for i, t := range p.board {
		if t < 0 {
			p.board[i] = p.Cursor
			p.used[p.Cursor] = true
			return
		}
	}
}

func (p *TilePicker) undo() {
	for i := len(p.board) - 1; i >= 0; i-- {
		if t := p.board[i]; t >= 0 {
			p.used[t] = false
			p.board[i] = -1
			return
		}
	}
}

func (p *TilePicker) clear() {
	for i, t := range p.board {
		if t >= 0 {
			p.used[t] = false
			p.board[i] = -1
		}
	}
}

// Placed returns the laid tiles in board order.
func (p TilePicker) Placed() []string {
	out := make([]string, 0, len(p.board))
	for _, t := range p.board {
		if t >= 0 {
			out = append(out, p.Tray[t])
		}
	}
	return out
}

// Full reports whether every board slot holds a tile.
func (p TilePicker) Full() bool {
	for _, t := range p.board {
		if t < 0 {
			return false
		}
	}
	return true
}

// Reset empties the board and returns every tile to the tray.
func (p *TilePicker) Reset() {
	p.clear()
	p.Cursor = 0
}

// View renders the board above the tray.
func (p TilePicker) View() string {
	boardCells := make([]string, len(p.board))
	for i, t := range p.board {
		label := "·"
		if t >= 0 {
			label = p.Tray[t]
		}
		boardCells[i] = theme.Tile.Render(label)
	}

	trayCells := make([]string, len(p.Tray))
	for i, label := range p.Tray {
		style := theme.Tile
		switch {
		case i == p.Cursor:
			style = theme.TileSelected
		case p.used[i]:
			style = theme.Tile.Foreground(theme.Border)
		}
		trayCells[i] = style.Render(label)
	}

	var b strings.Builder
	b.WriteString(theme.Hint.Render("Board"))
	b.WriteString("\n")
	b.WriteString(grid(boardCells))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Tiles"))
	b.WriteString("\n")
	b.WriteString(grid(trayCells))
	return b.String()
}

func grid(cells []string) string {
	var rows []string
	for i := 0; i < len(cells); i += tileColumns {
		end := min(i+tileColumns, len(cells))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
