package task

import (
	"encoding/json"
	"fmt"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/hibiken/asynq"
)

const TypeRecordConversion = "conversion:record"

// QueueHistory keeps history writes off the default queue.
const QueueHistory = "history"

type RecordConversionPayload struct {
	Record model.ConversionRecord `json:"record"`
}

// NewRecordConversionTask creates an Asynq task persisting one history record.
func NewRecordConversionTask(rec model.ConversionRecord) (*asynq.Task, error) {
	data, err := json.Marshal(RecordConversionPayload{Record: rec})
	if err != nil {
		return nil, fmt.Errorf("could not marshal record-conversion payload: %w", err)
	}
	return asynq.NewTask(TypeRecordConversion, data, asynq.Queue(QueueHistory), asynq.MaxRetry(5)), nil
}

// ParseRecordConversionPayload parses the task payload to RecordConversionPayload.
func ParseRecordConversionPayload(t *asynq.Task) (RecordConversionPayload, error) {
	var p RecordConversionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return RecordConversionPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
