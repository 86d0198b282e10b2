package nats

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

func TestReplyRoundTripAnalysis(t *testing.T) {
	analysis := &domain.Analysis{
		ID:           "an-1",
		Filename:     "nda.docx",
		DocumentType: "Confidentiality",
		TotalClauses: 1,
		Results: []domain.ClauseResult{{
			Clause:     domain.Clause{Index: 1, Text: "The Recipient shall keep secrets."},
			Label:      "Confidentiality",
			Confidence: 0.8,
			Suggestion: domain.Suggestion{Text: "Keep secrets."},
		}},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	msg := encodeReply("clauses.analyze", analysis, nil)
	assert.Equal(t, statusOK, msg.Header.Get(HeaderStatus))

	got, err := decodeReply(msg)
	require.NoError(t, err)
	assert.Equal(t, analysis, got)
}

func TestReplyCarriesStage(t *testing.T) {
	failure := domain.WrapError(domain.ErrNotLegalDocument, "legal filter", errors.New("found 1 of 2"))

	msg := encodeReply("clauses.analyze", nil, failure)
	assert.Equal(t, statusError, msg.Header.Get(HeaderStatus))
	assert.JSONEq(t, fmt.Sprintf(`{"error":%q,"stage":"admissibility"}`, failure.Error()), string(msg.Data))

	_, err := decodeReply(msg)
	require.Error(t, err)
	assert.Equal(t, domain.StageAdmissibility, domain.StageOf(err))
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Contains(t, remote.Message, "found 1 of 2")
}

func TestDecodeReplyRejectsGarbage(t *testing.T) {
	msg := nats.NewMsg("x")
	msg.Data = []byte("not json")
	_, err := decodeReply(msg)
	require.Error(t, err)
}

func TestClassifyNATSError(t *testing.T) {
	assert.True(t, classifyNATSError(nats.ErrNoResponders).Retryable)
	assert.True(t, classifyNATSError(fmt.Errorf("publish: %w", nats.ErrConnectionClosed)).Retryable)
	assert.False(t, classifyNATSError(errors.New("bad subject")).Retryable)
	assert.True(t, domain.IsKind(wrapTemporaryIfNeeded("nats publish", nats.ErrTimeout), domain.ErrTemporary))
}
