package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/testutil"
)

func TestComplaintHandler_Flow(t *testing.T) {
	f := setupApp(t)
	provider := testutil.TestProvider(t, f.db, f.category.ID)
	user := testutil.TestUser(t, f.db)
	token := tokenFor(t, user.ID, model.RoleCustomer)
	admin := f.adminToken(t)

	w := performAuthRequest(f.router, http.MethodPost, "/complaints", map[string]interface{}{
		"provider_id": 99999, "subject": "No show", "message": "Never arrived",
	}, token)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)

	w = performAuthRequest(f.router, http.MethodPost, "/complaints", map[string]interface{}{
		"provider_id": provider.ID,
	}, token)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)

	w = performAuthRequest(f.router, http.MethodPost, "/complaints", map[string]interface{}{
		"provider_id": provider.ID, "subject": "No show", "message": "Never arrived",
	}, token)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code, resp.Message)
	var complaint model.Complaint
	decodeData(t, resp, &complaint)
	require.NotZero(t, complaint.ID)

	w = performAuthRequest(f.router, http.MethodGet, "/admin/complaints?status="+model.ComplaintStatusOpen, nil, admin)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	decodeData(t, resp, &page)
	assert.Equal(t, int64(1), page.Total)

	path := fmt.Sprintf("/admin/complaints/%d/resolve", complaint.ID)
	w = performAuthRequest(f.router, http.MethodPost, path, map[string]string{"resolution": "Refund arranged"}, admin)
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performAuthRequest(f.router, http.MethodPost, path, map[string]string{"resolution": "again"}, admin)
	assert.Equal(t, response.CodeDuplicateAction, parseResponse(t, w).Code)

	w = performAuthRequest(f.router, http.MethodPost, "/admin/complaints/99999/resolve", map[string]string{"resolution": "x"}, admin)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)
}
