package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovedAndWIPAreDerivedFromStatus(t *testing.T) {
	for _, status := range DocumentStatuses() {
		doc := Document{Status: status}
		assert.Equal(t, status == StatusApproved, doc.IsApproved(), status)
		assert.Equal(t, status == StatusDraft, doc.IsWIP(), status)
	}
}

func TestDocumentJSONIncludesDerivedFlags(t *testing.T) {
	raw, err := json.Marshal(sampleDocuments()[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["is_approved"])
	assert.Equal(t, false, decoded["is_wip"])
	assert.Equal(t, "LAND_PROPERTY", decoded["category"])
	assert.NotContains(t, decoded, "StoragePath")
}

func TestStatusTransitions(t *testing.T) {
	allowed := [][2]DocumentStatus{
		{StatusDraft, StatusPendingReview},
		{StatusPendingReview, StatusApproved},
		{StatusPendingReview, StatusRejected},
		{StatusApproved, StatusArchived},
		{StatusRejected, StatusArchived},
	}
	for _, pair := range allowed {
		assert.NoError(t, pair[0].Transition(pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]DocumentStatus{
		{StatusDraft, StatusApproved},
		{StatusPendingReview, StatusArchived},
		{StatusArchived, StatusDraft},
		{StatusApproved, StatusRejected},
	}
	for _, pair := range denied {
		err := pair[0].Transition(pair[1])
		assert.True(t, IsKind(err, ErrInvalidTransition), "%s -> %s: %v", pair[0], pair[1], err)
	}

	assert.True(t, IsKind(StatusDraft.Transition("LOST"), ErrInvalidInput))
}

func TestParseDocumentStatus(t *testing.T) {
	s, err := ParseDocumentStatus("pending_review")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, s)

	_, err = ParseDocumentStatus("done")
	assert.True(t, IsKind(err, ErrInvalidInput))
}

func TestDocumentValidate(t *testing.T) {
	for _, doc := range sampleDocuments() {
		assert.NoError(t, doc.Validate(), doc.ID)
	}

	doc := sampleDocuments()[0]
	doc.Subcategory = "Invoices"
	assert.True(t, IsKind(doc.Validate(), ErrInvalidInput))

	doc = sampleDocuments()[0]
	doc.Category = "MISC"
	assert.True(t, IsKind(doc.Validate(), ErrInvalidInput))
}
