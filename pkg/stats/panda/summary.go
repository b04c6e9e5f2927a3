package panda

// WorkflowSummary is one aggregated status row for reporting.
type WorkflowSummary struct {
	Name        string
	Status      string
	Tasks       int
	Files       int
	Remaining   int
	Processed   int
	Finished    int
	SubFinished int
	Failed      int

	// PctDone is processed files over total files, in percent.
	PctDone float64
}

// Summarize flattens scraped workflows into report rows, keeping
// input order.
func Summarize(workflows []Workflow) []WorkflowSummary {
	summaries := make([]WorkflowSummary, 0, len(workflows))
	for _, wf := range workflows {
		summary := WorkflowSummary{
			Name:        wf.Name,
			Status:      wf.Status,
			Tasks:       wf.TotalTasks,
			Files:       wf.TotalFiles,
			Remaining:   wf.RemainingFiles,
			Processed:   wf.ProcessedFiles,
			Finished:    wf.TaskStatuses["Finished"],
			SubFinished: wf.TaskStatuses["SubFinished"],
			Failed:      wf.TaskStatuses["Failed"],
		}
		if wf.TotalFiles > 0 {
			summary.PctDone = 100.0 * float64(wf.ProcessedFiles) / float64(wf.TotalFiles)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
