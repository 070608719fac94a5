package registry

import (
	"context"

	"github.com/aristath/smartmoney/internal/columnar"
	"github.com/aristath/smartmoney/internal/refresh"
)

// PipelineJob runs one full collector-to-ranking pass on the configured
// refresh cron schedule.
type PipelineJob struct {
	Pipeline *refresh.Pipeline
}

func (j *PipelineJob) Name() string { return "pipeline-refresh" }

func (j *PipelineJob) Run() error {
	_, err := j.Pipeline.Run(context.Background())
	return err
}

// ColumnarJob re-projects every columnar table from its cached artifact
// on a short, fixed interval independent of how often the sources
// themselves are refreshed.
type ColumnarJob struct {
	Columnar *columnar.Store
}

func (j *ColumnarJob) Name() string { return "columnar-refresh" }

func (j *ColumnarJob) Run() error {
	return j.Columnar.RefreshAll()
}
