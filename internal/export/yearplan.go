package export

import (
	"math"
	"strconv"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/shopspring/decimal"
)

// AllTeams is the team filter value that keeps every team.
const AllTeams = "all"

type Table struct {
	Headers []string
	Rows    [][]string
}

// YearPlan is the export payload shared by the CSV and XLSX writers.
// Every number is already formatted to two decimals.
type YearPlan struct {
	Metadata    [][]string
	Summary     Table
	Initiatives Table
}

type Options struct {
	// TeamFilter restricts the export to one team id. Empty or AllTeams
	// exports everything.
	TeamFilter  string
	GeneratedAt time.Time
}

func (o Options) filtered() bool {
	return o.TeamFilter != "" && o.TeamFilter != AllTeams
}

var summaryHeaders = []string{
	"Team ID",
	"Team",
	"Funded HC",
	"Team BIS",
	"Effective BIS",
	"Scenario Capacity",
	"Assigned ATL SDEs",
	"Remaining Capacity",
	"ATL Status",
}

// FormatNumber renders v with exactly two decimals, or "" when v is not a
// finite number.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// BuildYearPlan turns a computed plan into export tables. Team columns
// follow the order of teams.
func BuildYearPlan(res planner.Result, teams []*domain.Team, metrics domain.CapacityMetrics, opts Options) *YearPlan {
	columns := teams
	focus := "All Teams"
	if opts.filtered() {
		columns = nil
		focus = opts.TeamFilter
		for _, t := range teams {
			if t.ID == opts.TeamFilter {
				columns = []*domain.Team{t}
				focus = t.DisplayName()
			}
		}
	}

	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	plan := &YearPlan{
		Metadata: [][]string{
			{"Planning Year", strconv.Itoa(res.Context.Year)},
			{"Scenario", res.Context.Scenario.Label()},
			{"Constraints Mode", res.Context.ConstraintsLabel()},
			{"Team Focus", focus},
			{"Generated At", generated.UTC().Format(time.RFC3339)},
		},
	}
	plan.Summary = buildSummary(res, metrics, opts)
	plan.Initiatives = buildInitiatives(res, columns, opts)
	return plan
}

func buildSummary(res planner.Result, metrics domain.CapacityMetrics, opts Options) Table {
	t := Table{Headers: summaryHeaders}
	useNet := res.Context.UseNet
	row := func(r planner.TeamLoadRow, scope string) []string {
		caps := metrics[scope]
		return []string{
			r.TeamID,
			r.TeamName,
			FormatNumber(caps.FundedHC.Value(useNet)),
			FormatNumber(caps.TeamBIS.Value(useNet)),
			FormatNumber(caps.EffectiveBIS.Value(useNet)),
			FormatNumber(r.ScenarioCapacity),
			FormatNumber(r.AssignedATLSDE),
			FormatNumber(r.RemainingCapacity),
			string(r.Status),
		}
	}
	for _, r := range res.TeamLoad.Rows {
		if opts.filtered() && r.TeamID != opts.TeamFilter {
			continue
		}
		t.Rows = append(t.Rows, row(r, r.TeamID))
	}
	if !opts.filtered() {
		t.Rows = append(t.Rows, row(res.TeamLoad.Totals, domain.TotalsScope))
	}
	return t
}

func buildInitiatives(res planner.Result, columns []*domain.Team, opts Options) Table {
	headers := []string{
		"Initiative ID",
		"Title",
		"Description",
		"Status",
		"Protected",
		"Total SDE Years",
		"Cumulative SDE Years",
		"ATL/BTL",
		"Capacity Status",
		"Primary Goal ID",
		"Target Due Date",
	}
	for _, c := range columns {
		headers = append(headers, c.DisplayName()+" (SDE Years)")
	}
	t := Table{Headers: headers}

	include := func(init *domain.Initiative) bool {
		return !opts.filtered() || init.HasAssignment(opts.TeamFilter)
	}
	for _, init := range res.Initiatives {
		if include(init) {
			t.Rows = append(t.Rows, initiativeRow(init, columns, false))
		}
	}
	for _, init := range res.Completed {
		if include(init) {
			t.Rows = append(t.Rows, initiativeRow(init, columns, true))
		}
	}
	return t
}

func initiativeRow(init *domain.Initiative, columns []*domain.Team, completed bool) []string {
	cumulative, class, capacity := "", "", "Completed"
	if !completed {
		cumulative = FormatNumber(init.CumulativeSDE)
		class = string(init.Classification)
		capacity = "Within Capacity (ATL)"
		if init.Classification == domain.ClassBTL {
			capacity = "Beyond Capacity (BTL)"
		}
	}
	due := ""
	if init.TargetDueDate != nil {
		due = init.TargetDueDate.Format("2006-01-02")
	}
	protected := "No"
	if init.IsProtected {
		protected = "Yes"
	}

	row := []string{
		init.ID,
		init.Title,
		init.Description,
		string(init.Status),
		protected,
		FormatNumber(init.TotalSDE()),
		cumulative,
		class,
		capacity,
		init.PrimaryGoalID,
		due,
	}
	for _, c := range columns {
		row = append(row, FormatNumber(init.AssignmentFor(c.ID)))
	}
	return row
}
