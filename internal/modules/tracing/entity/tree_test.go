package entity_test

import (
	"testing"

	"llmtracer/backend/internal/modules/tracing/entity"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestBuildSpanTree_NestsChildrenUnderParent(t *testing.T) {
	spans := []entity.Span{
		{SpanID: "root", StartTime: "2026-01-01T00:00:00Z"},
		{SpanID: "child", ParentSpanID: ptr("root"), StartTime: "2026-01-01T00:00:01Z"},
		{SpanID: "grandchild", ParentSpanID: ptr("child"), StartTime: "2026-01-01T00:00:02Z"},
	}

	tree := entity.BuildSpanTree(spans)

	assert.Len(t, tree, 1)
	assert.Equal(t, "root", tree[0].SpanID)
	assert.Len(t, tree[0].Children, 1)
	assert.Equal(t, "grandchild", tree[0].Children[0].Children[0].SpanID)
}

func TestBuildSpanTree_OrphanBecomesRoot(t *testing.T) {
	spans := []entity.Span{
		{SpanID: "a", ParentSpanID: ptr("missing"), StartTime: "2026-01-01T00:00:00Z"},
	}

	tree := entity.BuildSpanTree(spans)

	assert.Len(t, tree, 1)
	assert.Equal(t, "a", tree[0].SpanID)
}

func TestBuildSpanTree_CycleBecomesRoot(t *testing.T) {
	spans := []entity.Span{
		{SpanID: "a", ParentSpanID: ptr("b"), StartTime: "2026-01-01T00:00:00Z"},
		{SpanID: "b", ParentSpanID: ptr("a"), StartTime: "2026-01-01T00:00:01Z"},
	}

	tree := entity.BuildSpanTree(spans)

	// Neither can legally nest under the other; both surface as roots.
	assert.Len(t, tree, 2)
}
