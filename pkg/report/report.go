// Package report renders status tables in Jira wiki markup, ready to
// paste into an issue description.
package report

import (
	"fmt"
	"strings"

	"github.com/lsst-dm/prodstatus/pkg/campaign"
	"github.com/lsst-dm/prodstatus/pkg/stats/butler"
	"github.com/lsst-dm/prodstatus/pkg/stats/panda"
)

// JiraTable renders a ||header||-style wiki markup table.
func JiraTable(headers []string, rows [][]string) string {
	sb := new(strings.Builder)
	sb.WriteString("||")
	for _, h := range headers {
		sb.WriteString(h)
		sb.WriteString("||")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString("|")
		for _, cell := range row {
			if cell == "" {
				cell = " "
			}
			sb.WriteString(cell)
			sb.WriteString("|")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderCampaign tabulates a campaign's steps and workflows: one row
// per workflow with its band, exposure count and tracking ticket.
func RenderCampaign(c campaign.CampaignSpec) string {
	rows := [][]string{}
	for _, s := range c.Steps {
		for _, w := range s.Workflows {
			exposures := ""
			if w.Exposures != nil {
				exposures = fmt.Sprintf("%d", len(w.Exposures))
			}
			rows = append(rows, []string{
				s.Name, w.Name, w.Band, exposures, w.TrackingTicket,
			})
		}
	}
	title := fmt.Sprintf("h3. Campaign %s", c.Name)
	if c.TrackingTicket != "" {
		title += fmt.Sprintf(" (%s)", c.TrackingTicket)
	}
	return title + "\n" + JiraTable(
		[]string{"step", "workflow", "band", "exposures", "ticket"}, rows,
	)
}

// RenderPandaSummaries tabulates scraped PanDA workflow progress.
func RenderPandaSummaries(summaries []panda.WorkflowSummary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Name,
			s.Status,
			fmt.Sprintf("%d", s.Tasks),
			fmt.Sprintf("%d", s.Files),
			fmt.Sprintf("%d", s.Processed),
			fmt.Sprintf("%d", s.Finished),
			fmt.Sprintf("%d", s.SubFinished),
			fmt.Sprintf("%d", s.Failed),
			fmt.Sprintf("%.1f%%", s.PctDone),
		})
	}
	return JiraTable(
		[]string{
			"workflow", "status", "tasks", "files", "processed",
			"finished", "subfinished", "failed", "done",
		},
		rows,
	)
}

// RenderButlerStats tabulates per-task timing statistics, tasks
// sorted by name.
func RenderButlerStats(stats map[string]butler.TaskStats) string {
	rows := [][]string{}
	for _, task := range butler.TaskNames(stats) {
		s := stats[task]
		rows = append(rows, []string{
			task,
			fmt.Sprintf("%d", s.NQuanta),
			s.Start,
			fmt.Sprintf("%.2f", s.CPUPerQuantum),
			fmt.Sprintf("%.2f", s.CPUHours),
			fmt.Sprintf("%.2f", s.MaxRSSGB),
		})
	}
	return JiraTable(
		[]string{"task", "nQuanta", "start", "cpu sec/quantum", "cpu-hours", "MaxRSS GB"},
		rows,
	)
}
