package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-priceform/pkg/formspec"
	"github.com/goliatone/go-priceform/pkg/snapshot"
)

type capture struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (c *capture) last() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.bodies) == 0 {
		return nil
	}
	return c.bodies[len(c.bodies)-1]
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bodies)
}

func predictionServer(t *testing.T, status int, response string) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		c.mu.Lock()
		c.bodies = append(c.bodies, body)
		c.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, c
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, key := range []string{"PRICEFORM_ENDPOINT", "PRICEFORM_CONTRACT", "PRICEFORM_TIMEOUT", "PRICEFORM_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPredictCmd_Success(t *testing.T) {
	server, c := predictionServer(t, http.StatusOK, `{"success":true,"predicted_price":4500000,"message":"ok"}`)

	stdout, stderr, err := execute(t, "predict", "--endpoint", server.URL,
		"--set", "area=7420", "--set", "bedrooms=4", "--set", "mainroad=1")
	require.NoError(t, err)

	assert.Equal(t, "Predicted price: $4,500,000.00\n", stdout)
	assert.Contains(t, stderr, "Predicting...")
	assert.Contains(t, stderr, "Price prediction completed successfully!")

	require.Equal(t, 1, c.count())
	body := c.last()
	assert.Equal(t, 7420.0, body["area"])
	assert.Equal(t, 4.0, body["bedrooms"])
	assert.Equal(t, "1", body["mainroad"])
	assert.Equal(t, "Anonymous", body["name"])
	assert.Nil(t, body["parking"], "missing numeric fields travel as null")
}

func TestPredictCmd_ServiceFailure(t *testing.T) {
	server, _ := predictionServer(t, http.StatusBadRequest, `{"success":false,"error":"Missing required field: area"}`)

	stdout, stderr, err := execute(t, "predict", "--endpoint", server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errSubmissionFailed))

	assert.Equal(t, "Predicted price: Error\n", stdout)
	assert.Contains(t, stderr, "Error predicting price: Missing required field: area")
}

func TestPredictCmd_FlagOverridesEnvironment(t *testing.T) {
	server, c := predictionServer(t, http.StatusOK, `{"success":true,"predicted_price":1}`)

	for _, key := range []string{"PRICEFORM_CONTRACT", "PRICEFORM_TIMEOUT", "PRICEFORM_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(""))
	t.Setenv("PRICEFORM_ENDPOINT", "http://127.0.0.1:1/unreachable")
	root.SetArgs([]string{"--env-file", "", "predict", "--endpoint", server.URL})

	require.NoError(t, root.Execute())
	assert.Equal(t, 1, c.count())
	assert.Equal(t, "Predicted price: $1.00\n", stdout.String())
}

func TestPredictCmd_DryRun(t *testing.T) {
	stdout, _, err := execute(t, "predict", "--dry-run", "--endpoint", "http://127.0.0.1:1/never",
		"--set", "area= 12abc", "--set", "stories=0x10", "--set", "extra=kept")
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &body))
	assert.Equal(t, 12.0, body["area"])
	assert.Equal(t, 16.0, body["stories"])
	assert.Equal(t, "kept", body["extra"])
	assert.Equal(t, "0", body["guestroom"])
	assert.True(t, strings.HasPrefix(stdout, `{"name":"Anonymous","area":12,`), "contract order is kept: %s", stdout)
}

func TestPredictCmd_InvalidSet(t *testing.T) {
	_, _, err := execute(t, "predict", "--set", "area")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want name=value")
}

func TestFieldsCmd_ListsContract(t *testing.T) {
	stdout, _, err := execute(t, "fields")
	require.NoError(t, err)

	for _, want := range []string{"NAME", "area", "bedrooms", "mainroad", "1=Yes, 0=No", "furnishingstatus", "float", "int", "flag"} {
		assert.Contains(t, stdout, want)
	}
}

func TestRootCmd_RejectsBadConfig(t *testing.T) {
	_, _, err := execute(t, "fields", "--timeout", "-1s")
	require.Error(t, err)
}

func TestParseSets(t *testing.T) {
	fields, err := parseSets([]string{"area=1=2", " bedrooms =3", "empty="})
	require.NoError(t, err)
	assert.Equal(t, []snapshot.Field{
		{Name: "area", Value: "1=2"},
		{Name: "bedrooms", Value: "3"},
		{Name: "empty", Value: ""},
	}, fields)

	_, err = parseSets([]string{"=value"})
	assert.Error(t, err)
}

func TestWithDefaults(t *testing.T) {
	contract := formspec.Contract{Fields: []formspec.FieldSpec{
		{Name: "area"},
		{Name: "mainroad", Default: "0"},
	}}

	got := withDefaults(contract, []snapshot.Field{
		{Name: "extra", Value: "x"},
		{Name: "area", Value: "10"},
	})
	assert.Equal(t, []snapshot.Field{
		{Name: "area", Value: "10"},
		{Name: "mainroad", Value: "0"},
		{Name: "extra", Value: "x"},
	}, got)
}

func TestLintCmd_EmbeddedContract(t *testing.T) {
	stdout, stderr, err := execute(t, "lint")
	require.NoError(t, err)
	assert.Contains(t, stdout, ": ok")
	assert.Empty(t, stderr)
}

func TestLintCmd_ReportsViolations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "openapi": "3.0.3",
  "info": { "title": "t", "version": "1" },
  "paths": {
    "/predict": {
      "post": {
        "operationId": "predictPrice",
        "requestBody": { "content": { "application/json": { "schema": {
          "type": "object",
          "properties": { "area": { "type": "string", "x-color": "red" } }
        } } } },
        "responses": { "200": { "description": "ok" } }
      }
    }
  }
}`), 0o644))

	_, stderr, err := execute(t, "lint", path)
	require.ErrorIs(t, err, errLintFailed)
	assert.Contains(t, stderr, `unsupported extension key "x-color"`)
	assert.Contains(t, stderr, "sent as a number but declared text")
}
