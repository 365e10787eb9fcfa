package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
)

// PromptAssembler builds the extraction system prompt from the user's
// profile, most recent case file, and jurisdiction guidance. Context
// lookups are best-effort: a missing or unreadable case file degrades
// to a neutral prompt instead of failing the run.
type PromptAssembler struct {
	cases     ports.CaseRepository
	guide     ports.JurisdictionGuide
	corrector ports.TimestampCorrector
}

func NewPromptAssembler(
	cases ports.CaseRepository,
	guide ports.JurisdictionGuide,
	corrector ports.TimestampCorrector,
) *PromptAssembler {
	return &PromptAssembler{
		cases:     cases,
		guide:     guide,
		corrector: corrector,
	}
}

// BuildSystemPrompt returns the system prompt and the reference date the
// model should resolve relative dates against. referenceDate wins when
// the caller supplied one; otherwise it is today in the user's timezone.
func (a *PromptAssembler) BuildSystemPrompt(ctx context.Context, userID, referenceDate, timezone string) (string, string) {
	if referenceDate == "" {
		referenceDate = a.corrector.LocalDay(time.Now().UTC(), timezone)
	}

	var b strings.Builder
	b.WriteString("You extract structured custody-case events from a parent's journal narrative.\n")
	b.WriteString("Record only facts stated in the narrative. Never infer motives, never give legal advice.\n")
	b.WriteString("Quote children verbatim when the narrative quotes them.\n\n")

	fmt.Fprintf(&b, "Reference date for resolving relative dates (\"yesterday\", \"last Tuesday\"): %s.\n", referenceDate)
	fmt.Fprintf(&b, "The author's timezone is %s. Timestamps you produce are local wall-clock times; do not convert them.\n\n", timezone)

	a.writeCaseContext(ctx, &b, userID)

	b.WriteString("Each event needs a type, a description, a primary timestamp, and a timestamp precision.\n")
	b.WriteString("When the narrative only names a day, use day precision and the date alone.\n")
	b.WriteString("List action items only for concrete follow-ups the author must do.\n")
	return b.String(), referenceDate
}

func (a *PromptAssembler) writeCaseContext(ctx context.Context, b *strings.Builder, userID string) {
	profile, err := a.cases.GetProfile(ctx, userID)
	if err != nil {
		b.WriteString("Case context is unavailable; extract events from the narrative alone.\n\n")
		return
	}

	fmt.Fprintf(b, "The author is %s.\n", profile.DisplayName)

	caseFile, err := a.cases.LatestCase(ctx, userID)
	if err != nil || caseFile == nil {
		b.WriteString("No case file on record; extract events from the narrative alone.\n\n")
		return
	}

	if caseFile.Role != "" {
		fmt.Fprintf(b, "Their role in the custody case: %s.\n", caseFile.Role)
	}
	if len(caseFile.Children) > 0 {
		names := make([]string, 0, len(caseFile.Children))
		for _, child := range caseFile.Children {
			if child.Age > 0 {
				names = append(names, fmt.Sprintf("%s (age %d)", child.Name, child.Age))
			} else {
				names = append(names, child.Name)
			}
		}
		fmt.Fprintf(b, "Children involved: %s.\n", strings.Join(names, ", "))
	}
	if len(caseFile.Goals) > 0 {
		fmt.Fprintf(b, "The author's documentation goals: %s.\n", strings.Join(caseFile.Goals, "; "))
	}
	if len(caseFile.RiskFlags) > 0 {
		fmt.Fprintf(b, "Known concerns to watch for: %s.\n", strings.Join(caseFile.RiskFlags, "; "))
	}
	if caseFile.Jurisdiction != "" {
		if guidance, _ := a.guide.GuidanceFor(caseFile.Jurisdiction); guidance != "" {
			fmt.Fprintf(b, "Jurisdiction notes (%s): %s\n", caseFile.Jurisdiction, guidance)
		}
	}
	b.WriteString("\n")
}
