package domains

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/logger"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/common/model"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/pkg/lmstfyx"
)

func jobData(t *testing.T, actionType string, biz interface{}) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"payload": map[string]interface{}{
			"data": map[string]interface{}{
				"request_id":  "trace-1",
				"org_id":      "0",
				"action_type": actionType,
				"id":          "PQ-1",
				"data":        biz,
			},
		},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return data
}

func TestGetProcessBuriesMalformedJob(t *testing.T) {
	proc := GetProcess(logger.NopLogger{}, nil)

	resp := proc(context.Background(), &client.Job{
		ID:    "job-1",
		Queue: "po_dispatch",
		Data:  []byte("not json"),
	})
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)

	resp = proc(context.Background(), &client.Job{
		ID:    "job-2",
		Queue: "po_dispatch",
		Data:  []byte(`{"payload": null}`),
	})
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}

func TestGetProcessBuriesUnknownActionType(t *testing.T) {
	proc := GetProcess(logger.NopLogger{}, nil)

	resp := proc(context.Background(), &client.Job{
		ID:    "job-1",
		Queue: "po_dispatch",
		Data:  jobData(t, "po_cancel", map[string]interface{}{}),
	})
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}

func TestGetProcessBuriesIncompleteBusinessData(t *testing.T) {
	proc := GetProcess(logger.NopLogger{}, nil)

	// purchase_request_id 缺失，Handler 构造失败
	resp := proc(context.Background(), &client.Job{
		ID:    "job-1",
		Queue: "po_dispatch",
		Data: jobData(t, model.ActionTypePODispatch, map[string]interface{}{
			"record_id": "rec-1",
		}),
	})
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}
