package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hiddengems/driver"
	"github.com/plus3/hiddengems/gem"
)

// Event is one line of the event log. Piece is the number of the piece that
// was in play when the event happened.
type Event struct {
	Piece  int
	Kind   string
	Detail string
}

// EventLog is a gem.Observer that keeps the most recent session events and
// shows them in a filterable table.
type EventLog struct {
	gem.NopObserver

	limit      int
	events     []Event
	pieces     int
	filterText string
}

// NewEventLog keeps at most limit events.
func NewEventLog(limit int) *EventLog {
	if limit < 1 {
		limit = 1
	}
	return &EventLog{limit: limit}
}

func (l *EventLog) add(kind, detail string) {
	if len(l.events) == l.limit {
		copy(l.events, l.events[1:])
		l.events = l.events[:len(l.events)-1]
	}
	l.events = append(l.events, Event{Piece: l.pieces, Kind: kind, Detail: detail})
}

func (l *EventLog) PieceSpawned(p gem.Piece) {
	l.pieces++
	l.add("spawn", fmt.Sprintf("col %d %v", p.Col, p.Colors))
}

func (l *EventLog) PieceLocked(p gem.Piece) {
	l.add("lock", fmt.Sprintf("row %d col %d", p.Row, p.Col))
}

func (l *EventLog) MatchesCleared(step int, cells []gem.Position) {
	l.add("clear", fmt.Sprintf("step %d, %d cells", step, len(cells)))
}

func (l *EventLog) LevelUp(level int) {
	l.add("level", fmt.Sprintf("level %d", level))
}

func (l *EventLog) GameOver(score int) {
	l.add("game over", fmt.Sprintf("score %d", score))
}

// Events returns a copy of the kept events, oldest first.
func (l *EventLog) Events() []Event {
	return append([]Event(nil), l.events...)
}

// Filtered returns the events whose kind or detail contains filter, ignoring
// case.
func (l *EventLog) Filtered(filter string) []Event {
	if filter == "" {
		return l.Events()
	}
	filter = strings.ToLower(filter)

	var out []Event
	for _, e := range l.events {
		if strings.Contains(strings.ToLower(e.Kind), filter) || strings.Contains(strings.ToLower(e.Detail), filter) {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every event and restarts the piece count.
func (l *EventLog) Clear() {
	l.events = l.events[:0]
	l.pieces = 0
}

func (l *EventLog) Render(frame *driver.Frame) {
	imgui.SetNextWindowPosV(imgui.NewVec2(300, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 300), imgui.CondOnce)

	if !imgui.BeginV("Events", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##filter", "Filter...", &l.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		l.Clear()
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EventTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Piece")
		imgui.TableSetupColumn("Event")
		imgui.TableSetupColumn("Detail")
		imgui.TableHeadersRow()

		events := l.Filtered(l.filterText)
		for i := len(events) - 1; i >= 0; i-- {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", events[i].Piece))
			imgui.TableNextColumn()
			imgui.Text(events[i].Kind)
			imgui.TableNextColumn()
			imgui.Text(events[i].Detail)
		}

		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Total: %d events", len(l.events)))
	imgui.End()
}
