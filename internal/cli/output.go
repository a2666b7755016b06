package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mcoot/mountainshoot/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Session:
		o.printSession(v)
	case response.ShotResult:
		o.printShotResult(v)
	case HealthReport:
		o.printHealthReport(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printSession(s response.Session) {
	st := s.State
	fmt.Fprintf(o.w, "Session: %s\n", s.ID)
	fmt.Fprintf(o.w, "Status: %s\n", st.GameStatus)
	fmt.Fprintf(o.w, "Round: %d\n", st.RoundNumber)
	fmt.Fprintf(o.w, "Turn: %s\n", s.Derived.StatusDescription)

	if st.TurnState.TurnStartTime != nil {
		timer := s.Derived.TurnDuration
		if s.Derived.RemainingTurnTimeMS != nil {
			remaining := time.Duration(*s.Derived.RemainingTurnTimeMS) * time.Millisecond
			timer += fmt.Sprintf(" (%s left)", remaining)
		}
		if s.Derived.TurnExpired {
			timer += " [expired]"
		}
		fmt.Fprintf(o.w, "Timer: %s\n", timer)
	}

	fmt.Fprintf(o.w, "Score: %d - %d (first to %d)\n", st.SessionScores[0], st.SessionScores[1], s.Settings.WinLimit)

	for _, p := range st.Players {
		marker := ""
		if p.ID == st.CurrentPlayer && st.GameStatus == "playing" {
			marker = " *"
		}
		fmt.Fprintf(o.w, "  Player %d at (%.0f, %.0f) health %d%s\n", p.ID, p.Position.X, p.Position.Y, p.Health, marker)
	}

	if st.RoundWinner != nil {
		fmt.Fprintf(o.w, "Round Winner: Player %d\n", *st.RoundWinner)
	}
	if st.GameWinner != nil {
		fmt.Fprintf(o.w, "Game Winner: Player %d\n", *st.GameWinner)
	}
}

func (o *Output) printShotResult(r response.ShotResult) {
	if r.Hit && r.HitPlayer != nil {
		fmt.Fprintf(o.w, "Hit! Player %d was struck\n", *r.HitPlayer)
	} else {
		fmt.Fprintln(o.w, "Miss")
	}
	o.printSession(r.Session)
}

func (o *Output) printHealthReport(h HealthReport) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Server: %s\n", h.Server)
	fmt.Fprintf(o.w, "Latency: %s\n", h.Latency)
}
