package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/export"
	"github.com/alexanderramin/capplan/internal/planner"
)

// ShortID trims a uuid to its first block for display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// Number renders SDE-years with two decimals.
func Number(v float64) string {
	return export.FormatNumber(v)
}

// FormatPlanHeader summarizes the planning context and where the line sits.
func FormatPlanHeader(res planner.Result) string {
	ctx := res.Context
	title := Header(fmt.Sprintf("Plan %d", ctx.Year))
	meta := fmt.Sprintf("%s %s  %s %s  %s %s / %s",
		Dim("Scenario:"), ctx.Scenario.Label(),
		Dim("Mode:"), ctx.ConstraintsLabel(),
		Dim("ATL:"), Bold(Number(res.ATLTotal())), Number(res.Limit))
	return title + "\n" + meta
}

// FormatInitiatives lists the classified initiatives in order with a cut
// line drawn after the last initiative above the line. Completed
// initiatives follow at the end.
func FormatInitiatives(res planner.Result) string {
	if len(res.Initiatives) == 0 && len(res.Completed) == 0 {
		return Dim("No initiatives planned for this year.")
	}

	headers := []string{"#", "ID", "Title", "Status", "SDE", "Cumulative", "Line"}
	var rows [][]string
	lineDrawn := false
	for i, init := range res.Initiatives {
		if init.Classification == domain.ClassBTL && !lineDrawn {
			rows = append(rows, cutLineRow(res.Limit))
			lineDrawn = true
		}
		title := init.Title
		if init.IsProtected {
			title = StylePurple.Render("◆ ") + title
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			Dim(ShortID(init.ID)),
			title,
			StatusStyle(init.Status).Render(string(init.Status)),
			Number(init.TotalSDE()),
			Number(init.CumulativeSDE),
			ClassLabel(init.Classification),
		})
	}
	for _, init := range res.Completed {
		rows = append(rows, []string{
			"",
			Dim(ShortID(init.ID)),
			Dim(init.Title),
			StatusStyle(init.Status).Render(string(init.Status)),
			Dim(Number(init.TotalSDE())),
			"",
			"",
		})
	}
	return RenderTable(headers, rows, AlignRight(0, 4, 5))
}

func cutLineRow(limit float64) []string {
	return []string{"", "", StyleRed.Render("──── capacity line " + Number(limit) + " ────"), "", "", "", ""}
}

// FormatTeamLoad renders per-team ATL load against scenario capacity, with
// the totals row last.
func FormatTeamLoad(load planner.TeamLoad) string {
	headers := []string{"Team", "Capacity", "Assigned ATL", "Remaining", "Status"}
	var rows [][]string
	for _, r := range load.Rows {
		name := r.TeamName
		if r.Stale {
			name = StyleYellow.Render(r.TeamID + " (unknown team)")
		}
		rows = append(rows, teamLoadRow(name, r))
	}
	rows = append(rows, teamLoadRow(Bold("Totals"), load.Totals))
	return RenderTable(headers, rows, AlignRight(1, 2, 3))
}

func teamLoadRow(name string, r planner.TeamLoadRow) []string {
	return []string{
		name,
		Number(r.ScenarioCapacity),
		Number(r.AssignedATLSDE),
		Number(r.RemainingCapacity),
		LoadStatusIndicator(r.Status),
	}
}

// FormatPlan renders the full plan view used by "plan show".
func FormatPlan(res planner.Result, warnings []string) string {
	var b strings.Builder
	b.WriteString(FormatPlanHeader(res))
	b.WriteString("\n\n")
	b.WriteString(FormatInitiatives(res))
	b.WriteString("\n")
	b.WriteString(Header("Team load"))
	b.WriteString("\n")
	b.WriteString(FormatTeamLoad(res.TeamLoad))
	for _, w := range warnings {
		b.WriteString(StyleYellow.Render("! " + w))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatCommit lists the status transitions a commit made.
func FormatCommit(res planner.CommitResult) string {
	if res.Updated() == 0 {
		return Dim(fmt.Sprintf("Plan %d already committed; no status changes.", res.Year))
	}
	var rows [][]string
	for _, c := range res.Changes {
		rows = append(rows, []string{
			c.Title,
			ClassLabel(c.Classification),
			StatusStyle(c.From).Render(string(c.From)),
			StatusStyle(c.To).Render(string(c.To)),
		})
	}
	return fmt.Sprintf("Committed plan %d: %d status changes\n%s",
		res.Year, res.Updated(), RenderTable([]string{"Initiative", "Line", "From", "To"}, rows))
}
