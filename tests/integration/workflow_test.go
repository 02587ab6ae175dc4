// End-to-end HTTP workflow tests. Drives the full backend over the wire:
// sheet creation, record entry, edits, spreadsheet export, and cascade
// deletion, the way the web client uses it.
package integration

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope is the {ok, data} wrapper used by mutating endpoints.
type envelope struct {
	OK      bool           `json:"ok"`
	Data    map[string]any `json:"data"`
	Message string         `json:"message"`
	Error   string         `json:"error"`
}

func TestWorkflow_GradebookScenario(t *testing.T) {
	s, exportDir := newServer(t)

	// Create a sheet for the semester.
	resp, body := doJSON(t, s, http.MethodPost, "/sheets", `{"name":"Math 101"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sheet struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}
	require.NoError(t, json.Unmarshal(body, &sheet))
	require.NotEmpty(t, sheet.ID)
	assert.Equal(t, "Math 101", sheet.Name)
	assert.NotEmpty(t, sheet.CreatedAt)

	// Enter two grades on the sheet and one unfiled note.
	resp, body = doJSON(t, s, http.MethodPost, "/sheets/"+sheet.ID+"/records",
		`{"student":"ada","grade":95}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created envelope
	require.NoError(t, json.Unmarshal(body, &created))
	require.True(t, created.OK)
	adaID, _ := created.Data["id"].(string)
	require.NotEmpty(t, adaID)
	assert.Equal(t, sheet.ID, created.Data["sheetId"], "sheet endpoint stamps the sheet id")

	resp, _ = doJSON(t, s, http.MethodPost, "/sheets/"+sheet.ID+"/records",
		`{"student":"grace","grade":88}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, s, http.MethodPost, "/upload", `{"note":"remember supplies"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The sheet listing returns only its own records, newest first.
	resp, body = doJSON(t, s, http.MethodGet, "/sheets/"+sheet.ID+"/records", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sheetRecords []map[string]any
	require.NoError(t, json.Unmarshal(body, &sheetRecords))
	require.Len(t, sheetRecords, 2)
	assert.Equal(t, "grace", sheetRecords[0]["student"])
	assert.Equal(t, "ada", sheetRecords[1]["student"])

	// Correct a grade in place.
	resp, body = doJSON(t, s, http.MethodPut, "/records/"+adaID,
		`{"student":"ada","grade":97,"sheetId":"`+sheet.ID+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated envelope
	require.NoError(t, json.Unmarshal(body, &updated))
	require.True(t, updated.OK)
	assert.Equal(t, float64(97), updated.Data["grade"])
	assert.Equal(t, adaID, updated.Data["id"], "update keeps the record id")

	// The mutation hook keeps the canonical spreadsheet current.
	workbook := filepath.Join(exportDir, "records.xlsx")
	info, err := os.Stat(workbook)
	require.NoError(t, err, "canonical export regenerated on mutation")
	assert.Greater(t, info.Size(), int64(0))

	// Download endpoints serve real xlsx content (zip container).
	for _, path := range []string{"/export/excel", "/export/excel?sheetId=" + sheet.ID} {
		resp, body = doJSON(t, s, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Greater(t, len(body), 2, path)
		assert.Equal(t, byte('P'), body[0], path)
		assert.Equal(t, byte('K'), body[1], path)
	}

	// Rename the sheet, then delete it; its records go with it.
	resp, body = doJSON(t, s, http.MethodPatch, "/sheets/"+sheet.ID, `{"name":"Math 102"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var renamed struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(body, &renamed))
	assert.Equal(t, "Math 102", renamed.Name)

	resp, _ = doJSON(t, s, http.MethodDelete, "/sheets/"+sheet.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, s, http.MethodGet, "/records", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var remaining []map[string]any
	require.NoError(t, json.Unmarshal(body, &remaining))
	require.Len(t, remaining, 1, "cascade removed the sheet's records")
	assert.Equal(t, "remember supplies", remaining[0]["note"])

	resp, body = doJSON(t, s, http.MethodGet, "/sheets", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sheetsLeft []map[string]any
	require.NoError(t, json.Unmarshal(body, &sheetsLeft))
	assert.Empty(t, sheetsLeft)
}

func TestWorkflow_RejectsBadRecordBodies(t *testing.T) {
	s, _ := newServer(t)

	for _, body := range []string{"", "not json", "{}"} {
		resp, data := doJSON(t, s, http.MethodPost, "/upload", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", body)

		var env envelope
		require.NoError(t, json.Unmarshal(data, &env))
		assert.False(t, env.OK)
		assert.Equal(t, "no json received", env.Error)
	}
}

func TestWorkflow_MissingEntitiesReturn404(t *testing.T) {
	s, _ := newServer(t)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodPut, "/records/ghost", `{"name":"x"}`},
		{http.MethodDelete, "/records/ghost", ""},
		{http.MethodPatch, "/sheets/ghost", `{"name":"x"}`},
		{http.MethodDelete, "/sheets/ghost", ""},
	}
	for _, tc := range cases {
		resp, data := doJSON(t, s, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)

		var env envelope
		require.NoError(t, json.Unmarshal(data, &env))
		assert.False(t, env.OK)
		assert.NotEmpty(t, env.Error)
	}
}

func TestWorkflow_DeleteAllRecords(t *testing.T) {
	s, _ := newServer(t)

	for i := 0; i < 3; i++ {
		resp, _ := doJSON(t, s, http.MethodPost, "/upload", `{"name":"r"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doJSON(t, s, http.MethodDelete, "/records", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.True(t, env.OK)
	assert.Equal(t, "All records deleted", env.Message)

	resp, body = doJSON(t, s, http.MethodGet, "/records", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(body, &records))
	assert.Empty(t, records)
}
