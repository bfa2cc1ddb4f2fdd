package sink

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/concave-dev/ledger/internal/audit"
)

// SubmissionSchema is the Arrow layout of exported submissions: one row per
// batch, keyed by submission id and batch position.
//
// Fields:
//   - submission_id: string - Submission the batch belongs to
//   - batch_index: int32 - Position of the batch within its submission
//   - total_value: float64 - Summed magnitude of the batch
//   - tx_count: int64 - Number of transactions in the batch
func SubmissionSchema() *arrow.Schema {
	return arrow.NewSchema(
		[]arrow.Field{
			{Name: "submission_id", Type: arrow.BinaryTypes.String},
			{Name: "batch_index", Type: arrow.PrimitiveTypes.Int32},
			{Name: "total_value", Type: arrow.PrimitiveTypes.Float64},
			{Name: "tx_count", Type: arrow.PrimitiveTypes.Int64},
		},
		nil,
	)
}

// Arrow writes each submission as one record batch to an Arrow IPC stream
// file, for offline analysis of packing efficiency.
type Arrow struct {
	mu        sync.Mutex
	path      string
	f         *os.File
	w         *ipc.Writer
	schema    *arrow.Schema
	allocator memory.Allocator
}

// NewArrow creates (truncating) the IPC stream file at path.
func NewArrow(path string) (*Arrow, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow file %s: %w", path, err)
	}

	schema := SubmissionSchema()
	return &Arrow{
		path:      path,
		f:         f,
		w:         ipc.NewWriter(f, ipc.WithSchema(schema)),
		schema:    schema,
		allocator: memory.DefaultAllocator,
	}, nil
}

// Handle appends the submission as a record batch.
func (a *Arrow) Handle(_ context.Context, s audit.Submission) error {
	record := a.toRecord(s)
	defer record.Release()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.w == nil {
		return fmt.Errorf("arrow file %s is closed", a.path)
	}
	if err := a.w.Write(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (a *Arrow) toRecord(s audit.Submission) arrow.Record {
	builder := array.NewRecordBuilder(a.allocator, a.schema)
	defer builder.Release()

	idBuilder := builder.Field(0).(*array.StringBuilder)
	indexBuilder := builder.Field(1).(*array.Int32Builder)
	totalBuilder := builder.Field(2).(*array.Float64Builder)
	countBuilder := builder.Field(3).(*array.Int64Builder)

	for i, b := range s.Batches {
		idBuilder.Append(s.ID)
		indexBuilder.Append(int32(i))
		totalBuilder.Append(b.Total)
		countBuilder.Append(int64(b.Count))
	}

	return builder.NewRecord()
}

// Close finishes the IPC stream and closes the file. Safe to call more than
// once.
func (a *Arrow) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.w == nil {
		return nil
	}
	writerErr := a.w.Close()
	fileErr := a.f.Close()
	a.w = nil
	if writerErr != nil {
		return fmt.Errorf("failed to close writer: %w", writerErr)
	}
	return fileErr
}
