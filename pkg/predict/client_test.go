package predict_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-priceform/pkg/predict"
	"github.com/goliatone/go-priceform/pkg/snapshot"
)

func sampleSnapshot() snapshot.Snapshot {
	return snapshot.Build([]snapshot.Field{
		{Name: "area", Value: "3000"},
		{Name: "bedrooms", Value: "3"},
		{Name: "mainroad", Value: "1"},
	})
}

func TestPredict_PostsJSONSnapshot(t *testing.T) {
	var (
		gotMethod      string
		gotContentType string
		gotBody        string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"predicted_price":4500000,"message":"Prediction completed successfully"}`))
	}))
	defer srv.Close()

	client := predict.NewClient(predict.WithEndpoint(srv.URL + "/predict"))
	result, err := client.Predict(context.Background(), sampleSnapshot())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected application/json content type, got %q", gotContentType)
	}
	if want := `{"area":3000,"bedrooms":3,"mainroad":"1"}`; gotBody != want {
		t.Fatalf("unexpected body:\nwant %s\ngot  %s", want, gotBody)
	}

	price := 4500000.0
	want := predict.Result{
		Success:        true,
		PredictedPrice: &price,
		Message:        "Prediction completed successfully",
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestPredict_DecodesFailureBodyRegardlessOfStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "model unavailable"})
	}))
	defer srv.Close()

	result, err := predict.NewClient(predict.WithEndpoint(srv.URL)).Predict(context.Background(), sampleSnapshot())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if result.Success {
		t.Fatalf("expected success=false")
	}
	if result.Error != "model unavailable" {
		t.Fatalf("unexpected error field %q", result.Error)
	}
	if _, ok := result.Price(); ok {
		t.Fatalf("expected no price on failure")
	}
}

func TestPredict_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>Internal Server Error</html>"))
	}))
	defer srv.Close()

	_, err := predict.NewClient(predict.WithEndpoint(srv.URL)).Predict(context.Background(), sampleSnapshot())
	if !errors.Is(err, predict.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestPredict_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	_, err = predict.NewClient(predict.WithEndpoint("http://" + addr + "/predict")).Predict(context.Background(), sampleSnapshot())
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Fatalf("expected *url.Error, got %T: %v", err, err)
	}
	if errors.Is(err, predict.ErrMalformedResponse) {
		t.Fatalf("transport error must not be reported as malformed response")
	}
}

func TestPredict_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := predict.NewClient(
		predict.WithEndpoint(srv.URL),
		predict.WithTimeout(50*time.Millisecond),
	)
	_, err := client.Predict(context.Background(), sampleSnapshot())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := predict.NewClient(predict.WithEndpoint("  "), nil)
	if client.Endpoint() != predict.DefaultEndpoint {
		t.Fatalf("expected default endpoint, got %q", client.Endpoint())
	}
}
