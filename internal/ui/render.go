package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/readiness"
	"github.com/imamik/towerctl/internal/reconcile"
)

const durationRounding = 100 * time.Millisecond

// RenderReadiness formats a readiness report for the terminal.
func RenderReadiness(report *readiness.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Readiness") + "\n")

	for _, check := range report.Checks {
		var mark, line string
		switch check.Status {
		case readiness.StatusPass:
			mark = passStyle.Render(checkMark)
			line = check.Detail
		case readiness.StatusWarn:
			mark = warnStyle.Render(warnMark)
			line = check.Detail
		default:
			mark = failStyle.Render(crossMark)
			line = check.Detail
			if check.Remediation != "" {
				line += dimStyle.Render(" -> " + check.Remediation)
			}
		}
		fmt.Fprintf(&b, "  %s %-26s %s\n", mark, check.Name, line)
	}

	if report.Ready() {
		b.WriteString(passStyle.Render("\nready to deploy") + "\n")
	} else {
		fmt.Fprintf(&b, "%s\n", failStyle.Render(fmt.Sprintf("\n%d checks failed", len(report.Failures()))))
	}
	return b.String()
}

// RenderStages formats the pipeline outcome.
func RenderStages(records []provisioning.StageRecord) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Stages") + "\n")

	for _, rec := range records {
		var mark, detail string
		switch rec.Status {
		case provisioning.StatusSucceeded:
			mark = passStyle.Render(checkMark)
			detail = dimStyle.Render(rec.FinishedAt.Sub(rec.StartedAt).Round(durationRounding).String())
		case provisioning.StatusFailed:
			mark = failStyle.Render(crossMark)
			if rec.Err != nil {
				detail = failStyle.Render(rec.Err.Error())
			}
		case provisioning.StatusInProgress:
			mark = warnStyle.Render(warnMark)
			detail = "in progress"
		default:
			mark = dimStyle.Render(skipMark)
			detail = dimStyle.Render("not started")
		}
		fmt.Fprintf(&b, "  %s %-20s %s\n", mark, rec.Name, detail)
	}
	return b.String()
}

// RenderBaseline formats the per-service outcomes of the security baseline.
func RenderBaseline(results []provisioning.ServiceResult) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Security services") + "\n")

	for _, r := range results {
		var mark, detail string
		switch {
		case r.Enabled:
			mark = passStyle.Render(checkMark)
			detail = "enabled"
		case r.Reason == "disabled by configuration":
			mark = dimStyle.Render(skipMark)
			detail = dimStyle.Render(r.Reason)
		default:
			mark = failStyle.Render(crossMark)
			detail = failStyle.Render(r.Reason)
		}
		fmt.Fprintf(&b, "  %s %-14s %s\n", mark, r.Service, detail)
	}
	return b.String()
}

// RenderCompliance formats a reconcile report.
func RenderCompliance(report *reconcile.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Compliance") + "\n")

	if report.InSync() {
		b.WriteString(passStyle.Render("  in sync with the declared posture") + "\n")
		return b.String()
	}

	for _, m := range report.Mismatches {
		mark := failStyle.Render(crossMark)
		if m.Class == reconcile.ClassPending {
			mark = warnStyle.Render(warnMark)
		}
		fmt.Fprintf(&b, "  %s %-28s want %s, have %s\n", mark, m.Field, m.Desired, m.Observed)
		if m.Remediation != "" {
			fmt.Fprintf(&b, "       %s\n", dimStyle.Render(m.Remediation))
		}
	}
	return b.String()
}
