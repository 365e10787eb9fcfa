package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
)

type ExportTimelineUseCase struct {
	events   ports.EventRepository
	exporter ports.TimelineExporter
}

func NewExportTimelineUseCase(events ports.EventRepository, exporter ports.TimelineExporter) *ExportTimelineUseCase {
	return &ExportTimelineUseCase{events: events, exporter: exporter}
}

// Export writes the user's full timeline workbook to w. An empty
// timeline still produces a workbook with headers.
func (uc *ExportTimelineUseCase) Export(ctx context.Context, userID string, w io.Writer) error {
	events, err := uc.events.ListEventsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list timeline events: %w", err)
	}
	if err := uc.exporter.WriteTimeline(events, w); err != nil {
		return fmt.Errorf("render timeline: %w", err)
	}
	return nil
}
