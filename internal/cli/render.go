package cli

import (
	"fmt"
	"strconv"
	"strings"

	"todo_webapp/internal/board"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/stats"
	"todo_webapp/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	doneStyle   = cellStyle.Foreground(lipgloss.Color("8")).Strikethrough(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	priorityColors = map[domain.Priority]lipgloss.Color{
		domain.PriorityHigh:   lipgloss.Color("9"),
		domain.PriorityMedium: lipgloss.Color("11"),
		domain.PriorityLow:    lipgloss.Color("10"),
	}
)

const (
	colPriority = 2
	noDate      = "-"
)

func renderTasks(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return dimStyle.Render("no todos")
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Text,
			string(t.Priority),
			formatDate(t.DueDate),
			checkbox(t.Completed),
			t.CreatedAt.String(),
			formatDate(t.CompletedAt),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "TEXT", "PRIORITY", "DUE", "DONE", "CREATED", "COMPLETED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == colPriority {
				return cellStyle.Foreground(priorityColors[tasks[row].Priority])
			}
			if tasks[row].Completed {
				return doneStyle
			}
			return cellStyle
		}).
		String()
}

func renderFooter(p board.Page) string {
	pages := p.PageCount
	if pages == 0 {
		pages = 1
	}
	return dimStyle.Render(fmt.Sprintf("page %d of %d, %d matching, %d per page, sort %s",
		p.Page+1, pages, p.Total, p.PageSize, sortLabel(p)))
}

func sortLabel(p board.Page) string {
	var asc bool
	switch p.State.Sort {
	case view.SortPriority:
		asc = p.State.PriorityAscending
	case view.SortDueDate:
		asc = p.State.DueDateAscending
	default:
		return "none"
	}
	dir := "desc"
	if asc {
		dir = "asc"
	}
	return p.State.Sort.String() + " " + dir
}

func renderMetrics(r stats.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Average time to finish tasks"))
	fmt.Fprintf(&b, "\n  all:    %s", r.Overall)
	for _, p := range domain.Priorities {
		fmt.Fprintf(&b, "\n  %-7s %s", string(p)+":", r.For(p))
	}
	return b.String()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func formatDate(ts *domain.Timestamp) string {
	if ts == nil {
		return noDate
	}
	return ts.String()
}
