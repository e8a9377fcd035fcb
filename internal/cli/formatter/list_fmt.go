package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
)

func FormatTeamList(teams []*domain.Team) string {
	if len(teams) == 0 {
		return Dim("No teams.")
	}
	var rows [][]string
	for _, t := range teams {
		rows = append(rows, []string{Dim(ShortID(t.ID)), t.Name, Dim(t.CreatedAt.Format("2006-01-02"))})
	}
	return RenderTable([]string{"ID", "Name", "Created"}, rows)
}

// FormatMetrics shows gross/net figures per scope. teams maps scopes back
// to names; the totals scope is listed first.
func FormatMetrics(metrics domain.CapacityMetrics, teams []*domain.Team) string {
	if len(metrics) == 0 {
		return Dim("No capacity metrics.")
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	headers := []string{"Scope"}
	for _, s := range domain.Scenarios {
		headers = append(headers, s.Label()+" gross", "net")
	}

	scopes := make([]string, 0, len(metrics))
	if _, ok := metrics[domain.TotalsScope]; ok {
		scopes = append(scopes, domain.TotalsScope)
	}
	for _, t := range teams {
		if _, ok := metrics[t.ID]; ok {
			scopes = append(scopes, t.ID)
		}
	}

	var rows [][]string
	for _, scope := range scopes {
		label := names[scope]
		if scope == domain.TotalsScope {
			label = Bold("Totals")
		}
		row := []string{label}
		caps := metrics[scope]
		for _, s := range domain.Scenarios {
			f, _ := caps.Figure(s)
			net := Number(f.Net)
			if f.Net > f.Gross {
				net = StyleYellow.Render(net)
			}
			row = append(row, Number(f.Gross), net)
		}
		rows = append(rows, row)
	}
	return RenderTable(headers, rows, AlignRight(1, 2, 3, 4, 5, 6))
}

// FormatInitiativeDetail prints one initiative with its assignments.
func FormatInitiativeDetail(init *domain.Initiative, teams []*domain.Team) string {
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	var b strings.Builder
	b.WriteString(Header(init.Title))
	b.WriteString("\n")
	line := func(k, v string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-12s", k)), v)
	}
	line("ID", init.ID)
	line("Year", fmt.Sprint(init.PlanningYear))
	line("Status", StatusStyle(init.Status).Render(string(init.Status)))
	if init.IsProtected {
		line("Protected", StylePurple.Render("yes"))
	}
	if init.CommittedAs != domain.ClassUnset {
		line("Committed", ClassLabel(init.CommittedAs))
	}
	if init.PrimaryGoalID != "" {
		line("Goal", init.PrimaryGoalID)
	}
	if init.TargetDueDate != nil {
		line("Due", init.TargetDueDate.Format("2006-01-02"))
	}
	if init.Description != "" {
		line("Description", init.Description)
	}
	line("Total SDE", Number(init.TotalSDE()))

	if len(init.Assignments) > 0 {
		var rows [][]string
		for _, a := range init.Assignments {
			name, ok := names[a.TeamID]
			if !ok {
				name = StyleYellow.Render(a.TeamID + " (unknown team)")
			}
			rows = append(rows, []string{name, Number(a.SDEYears)})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable([]string{"Team", "SDE Years"}, rows, AlignRight(1)))
	}
	return b.String()
}

func FormatSnapshotList(snaps []*domain.PlanSnapshot) string {
	if len(snaps) == 0 {
		return Dim("No snapshots.")
	}
	var rows [][]string
	for _, s := range snaps {
		mode := "net"
		if !s.UseNet {
			mode = "gross"
		}
		rows = append(rows, []string{
			Dim(ShortID(s.ID)),
			s.Label,
			fmt.Sprintf("%s (%s)", s.Scenario.Label(), mode),
			fmt.Sprint(len(s.Initiatives)),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return RenderTable([]string{"ID", "Label", "Scenario", "Initiatives", "Created"}, rows, AlignRight(3))
}
