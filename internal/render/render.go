// Package render formats knowledge base records as markdown for the
// tool/resource surface. The REST surface returns records as JSON and
// never uses these formatters.
package render

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/kbd/internal/store"
)

// BestPractice renders the full detail of a best practice.
func BestPractice(bp store.BestPractice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", bp.Title)
	fmt.Fprintf(&b, "\n**Category**: %s\n", bp.Category)
	fmt.Fprintf(&b, "**Difficulty**: %s\n", bp.Difficulty)
	fmt.Fprintf(&b, "\n**Description**: %s\n", bp.Description)
	fmt.Fprintf(&b, "\n**Rationale**: %s\n", bp.Rationale)
	fmt.Fprintf(&b, "\n**Good example**: %s\n", bp.ExampleGood)
	fmt.Fprintf(&b, "**Bad example**: %s\n", bp.ExampleBad)
	fmt.Fprintf(&b, "\n**Tags**: %s", strings.Join(bp.Tags, ", "))
	return b.String()
}

// Snippet renders the full detail of a code snippet, code block included.
func Snippet(sn store.Snippet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", sn.Title)
	fmt.Fprintf(&b, "\n**Language**: %s\n", sn.Language)
	fmt.Fprintf(&b, "**Use case**: %s\n", sn.UseCase)
	fmt.Fprintf(&b, "\n```%s\n%s\n```\n", sn.Language, sn.Code)
	fmt.Fprintf(&b, "\n**Explanation**: %s\n", sn.Explanation)
	fmt.Fprintf(&b, "\n**Tags**: %s", strings.Join(sn.Tags, ", "))
	return b.String()
}

// Troubleshooting renders a guide with symptoms, causes, and ordered steps.
func Troubleshooting(g store.TroubleshootingGuide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", g.Title)
	if len(g.Symptoms) > 0 {
		b.WriteString("\n**Symptoms**:\n")
		for _, s := range g.Symptoms {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	if len(g.Causes) > 0 {
		b.WriteString("\n**Possible causes**:\n")
		for _, c := range g.Causes {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	if len(g.Steps) > 0 {
		b.WriteString("\n**Resolution steps**:\n")
		for _, step := range g.Steps {
			fmt.Fprintf(&b, "\n**Step %d**: %s\n", step.Step, step.Action)
			fmt.Fprintf(&b, "  %s\n", step.Details)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Tip renders a tip with its explanation.
func Tip(t store.Tip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", t.Title)
	fmt.Fprintf(&b, "\n%s\n", t.Tip)
	if t.WhyItMatters != "" {
		fmt.Fprintf(&b, "\n*Why it matters*: %s\n", t.WhyItMatters)
	}
	fmt.Fprintf(&b, "\n**Tags**: %s", strings.Join(t.Tags, ", "))
	return b.String()
}

// zoneOrder fixes the rendering order of zones; the dataset stores them
// in a map.
var zoneOrder = []string{store.ZoneGreen, store.ZoneYellow, store.ZoneRed, store.ZoneRedExtra}

// Governance renders the full governance detail for a feature, with
// per-zone availability in policy order.
func Governance(g store.GovernanceEntry) string {
	var b strings.Builder
	title := g.DisplayName
	if title == "" {
		title = g.Feature
	}
	fmt.Fprintf(&b, "# %s\n", title)
	fmt.Fprintf(&b, "\n**Minimum zone required**: %s\n", g.MinimumZone)
	b.WriteString("\n**Availability by zone**:\n")
	for _, zone := range zoneOrder {
		info, ok := g.Zones[zone]
		if !ok {
			continue
		}
		availability := "Not available"
		if info.Available {
			availability = "Available"
		}
		fmt.Fprintf(&b, "\n**%s**: %s\n", strings.ToUpper(zone), availability)
		if info.Reason != "" {
			fmt.Fprintf(&b, "  Reason: %s\n", info.Reason)
		}
		if len(info.Requirements) > 0 {
			fmt.Fprintf(&b, "  Requirements: %s\n", strings.Join(info.Requirements, ", "))
		}
	}
	if g.JustificationTemplate != "" {
		fmt.Fprintf(&b, "\n**Justification template**:\n> %s", g.JustificationTemplate)
	}
	return strings.TrimRight(b.String(), "\n")
}
