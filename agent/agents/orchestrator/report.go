package orchestrator

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/tanpawarit/guide-life-agents/pkg/qstash"
)

// QStashReports publishes final reports to a QStash destination.
type QStashReports struct {
	client      *qstash.Client
	destination string
}

var _ contractx.ReportSink = (*QStashReports)(nil)

func NewQStashReports(client *qstash.Client, destination string) (*QStashReports, error) {
	if client == nil {
		return nil, errors.New("qstash client is required")
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, errors.New("report destination is required")
	}
	return &QStashReports{client: client, destination: destination}, nil
}

func (r *QStashReports) PublishReport(ctx context.Context, report contractx.FinalReport) error {
	res, err := r.client.PublishJSON(ctx, r.destination, report)
	if err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Str("report_id", report.ReportID).Str("message_id", res.MessageID).Msg("final report published")
	return nil
}
