package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRunSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Thank you!","id":"id-7"}`))
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-endpoint", srv.URL,
		"-first-name", "Ada",
		"-email", "ada@example.com",
		"-message", "Hello",
	}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Thank you!") || !strings.Contains(stdout.String(), "id: id-7") {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
}

func TestRunMissingFieldsSkipsRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-endpoint", srv.URL, "-first-name", "Ada"}, &stdout, &stderr)

	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no request, got %d", hits.Load())
	}
	if !strings.Contains(stderr.String(), "Please fill out all required fields.") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}

func TestRunServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Please enter a valid email address."}`))
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-endpoint", srv.URL,
		"-first-name", "Ada",
		"-email", "a@b",
		"-message", "Hello",
	}, &stdout, &stderr)

	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Please enter a valid email address.") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-nope"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}
