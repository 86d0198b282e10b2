package nats

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

type errorReply struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func encodeReply(subject string, analysis *domain.Analysis, err error) *nats.Msg {
	msg := nats.NewMsg(subject)
	if err != nil {
		msg.Header.Set(HeaderStatus, statusError)
		msg.Data, _ = json.Marshal(errorReply{Error: err.Error(), Stage: domain.StageOf(err)})
		return msg
	}

	data, marshalErr := json.Marshal(analysis)
	if marshalErr != nil {
		msg.Header.Set(HeaderStatus, statusError)
		msg.Data, _ = json.Marshal(errorReply{Error: marshalErr.Error()})
		return msg
	}
	msg.Header.Set(HeaderStatus, statusOK)
	msg.Data = data
	return msg
}

// RemoteError is a failure reported by a worker.
type RemoteError struct {
	Message string
	Stage   string
}

func (e *RemoteError) Error() string {
	if e.Stage == "" {
		return "worker: " + e.Message
	}
	return fmt.Sprintf("worker %s stage: %s", e.Stage, e.Message)
}

func decodeReply(msg *nats.Msg) (*domain.Analysis, error) {
	if msg.Header.Get(HeaderStatus) == statusError {
		var reply errorReply
		if err := json.Unmarshal(msg.Data, &reply); err != nil {
			return nil, fmt.Errorf("decode worker error: %w", err)
		}
		return nil, domain.InStage(reply.Stage, &RemoteError{Message: reply.Error, Stage: reply.Stage})
	}

	var analysis domain.Analysis
	if err := json.Unmarshal(msg.Data, &analysis); err != nil {
		return nil, fmt.Errorf("decode worker analysis: %w", err)
	}
	if analysis.ID == "" {
		return nil, errors.New("decode worker analysis: missing id")
	}
	return &analysis, nil
}
