// internal/common/zoho/crm_test.go
package zoho

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRMClient_CreateLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/crm/v3/Leads", r.URL.Path)
		assert.Equal(t, "Zoho-oauthtoken tok", r.Header.Get("Authorization"))

		var payload struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Data, 1)
		assert.Equal(t, "Bakery Co", payload.Data[0]["Last_Name"])
		assert.Equal(t, float64(75), payload.Data[0]["Lead_Score"])
		assert.Equal(t, "$5k–$20k", payload.Data[0]["Budget_Band"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","details":{"id":"5725767000000524157"},"message":"record added","status":"success"}]}`))
	}))
	defer server.Close()

	client := NewCRMClient(server.URL+"/crm/v3/", "tok")
	id, err := client.CreateLead(context.Background(), &Lead{
		LastName:   "Bakery Co",
		LeadScore:  75,
		BudgetBand: "$5k–$20k",
	})

	require.NoError(t, err)
	assert.Equal(t, "5725767000000524157", id)
}

func TestCRMClient_UpdateLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/Leads/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","details":{"id":"42"},"status":"success"}]}`))
	}))
	defer server.Close()

	client := NewCRMClient(server.URL, "tok")
	assert.NoError(t, client.UpdateLead(context.Background(), "42", &Lead{LastName: "x", LeadScore: 10}))
}

func TestCRMClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "http error", status: http.StatusUnauthorized, body: `{"code":"INVALID_TOKEN"}`, wantErr: "status 401"},
		{name: "record error", status: http.StatusOK, body: `{"data":[{"code":"MANDATORY_NOT_FOUND","message":"required field not found","status":"error"}]}`, wantErr: "MANDATORY_NOT_FOUND"},
		{name: "empty data", status: http.StatusOK, body: `{"data":[]}`, wantErr: "no data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewCRMClient(server.URL, "tok").CreateLead(context.Background(), &Lead{LastName: "x"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCRMClient_Configured(t *testing.T) {
	assert.True(t, NewCRMClient("", "tok").Configured())
	assert.False(t, NewCRMClient("", "").Configured())

	var nilClient *CRMClient
	assert.False(t, nilClient.Configured())
}
