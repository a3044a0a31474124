package report

import (
	"fmt"
	"strings"

	"github.com/sherine-k/mm1sim/pkg/simulation"
)

// GenerateTimeline renders the recorded event trace of a single run.
// total is the number of events the run processed.
func (g *Generator) GenerateTimeline(snapshots []simulation.Snapshot, total int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Event Timeline")
	if len(snapshots) < total {
		sb.WriteString(fmt.Sprintf(" (showing first %d events)", len(snapshots)))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	for _, s := range snapshots {
		typeIcon := " "
		switch s.Event.Kind {
		case simulation.Arrival:
			typeIcon = "+"
		case simulation.Departure:
			typeIcon = "-"
		}

		server := "idle"
		if s.ServerBusy {
			server = "busy"
		}

		sb.WriteString(fmt.Sprintf("%6d [t=%12.6f] %s %-9s server=%s queue=%d completed=%d\n",
			s.Seq, s.Clock, typeIcon, s.Event.Kind, server, s.WaitingLine, s.Completed))
	}

	if len(snapshots) < total {
		sb.WriteString(fmt.Sprintf("\n... and %d more events\n", total-len(snapshots)))
	}
	sb.WriteString("\n")

	return sb.String()
}
