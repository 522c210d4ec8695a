package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sternrassler/mouser-bulk-lookup/internal/testutil"
)

const testKey = "test-api-key-0123456789"

func writeInput(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parts.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmd_FullRun(t *testing.T) {
	mock := testutil.NewMockMouser(
		testutil.OKResponse(
			testutil.MockPart{ManufacturerPartNumber: "A1", Manufacturer: "ACME", ImagePath: "img-a1"},
			testutil.MockPart{ManufacturerPartNumber: "B2", Manufacturer: "ACME"},
		),
		testutil.OKResponse(
			testutil.MockPart{ManufacturerPartNumber: "C3", Manufacturer: "Widgets"},
		),
	)
	defer mock.Close()

	input := writeInput(t, "A1", "B2", "C3")
	output := filepath.Join(t.TempDir(), "results.csv")

	_, _, err := execute(t,
		"--input", input,
		"--output", output,
		"--api-key", testKey,
		"--base-url", mock.URL(),
		"--batch-size", "2",
		"--pacing", "1ms",
	)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	want := []string{
		"MPN,Manufacturer,ImageURL",
		"A1,ACME,img-a1",
		"B2,ACME,N/A",
		"C3,Widgets,N/A",
	}
	if len(lines) != len(want) {
		t.Fatalf("output has %d lines, want %d: %q", len(lines), len(want), string(data))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if got := mock.RequestCount(); got != 2 {
		t.Errorf("upstream received %d requests, want 2", got)
	}

	reqs := mock.Requests()
	if reqs[0].APIKey != testKey {
		t.Errorf("apiKey query param = %q, want %q", reqs[0].APIKey, testKey)
	}
	if reqs[0].MouserPartNumber != "A1|B2" {
		t.Errorf("first batch string = %q, want A1|B2", reqs[0].MouserPartNumber)
	}
	if reqs[0].ContentType != "application/json" {
		t.Errorf("Content-Type = %q", reqs[0].ContentType)
	}
}

func TestRootCmd_RangeFilter(t *testing.T) {
	mock := testutil.NewMockMouser(
		testutil.OKResponse(testutil.MockPart{ManufacturerPartNumber: "C"}),
	)
	defer mock.Close()

	input := writeInput(t, "a", "b", "c", "d", "e", "f")
	output := filepath.Join(t.TempDir(), "results.csv")

	_, _, err := execute(t,
		"--input", input,
		"--output", output,
		"--api-key", testKey,
		"--base-url", mock.URL(),
		"--start", "2",
		"--stop", "5",
		"--pacing", "1ms",
	)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("upstream received %d requests, want 1", len(reqs))
	}
	if reqs[0].MouserPartNumber != "c|d|e" {
		t.Errorf("batch string = %q, want c|d|e", reqs[0].MouserPartNumber)
	}
}

func TestRootCmd_NoResultsOutcome(t *testing.T) {
	mock := testutil.NewMockMouser(
		testutil.MockResponse{StatusCode: http.StatusBadRequest, Body: `{"error": "nope"}`},
	)
	defer mock.Close()

	input := writeInput(t, "A1")
	output := filepath.Join(t.TempDir(), "results.csv")

	_, errOut, err := execute(t,
		"--input", input,
		"--output", output,
		"--api-key", testKey,
		"--base-url", mock.URL(),
		"--pacing", "1ms",
	)
	if err != nil {
		t.Fatalf("Execute() error: %v, want the no-results outcome to be non-fatal", err)
	}
	if !strings.Contains(errOut, "No results") {
		t.Errorf("stderr = %q, want a no-results message", errOut)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Errorf("output file written despite empty result set")
	}
}

func TestRootCmd_ShortKeyRejected(t *testing.T) {
	input := writeInput(t, "A1")

	_, _, err := execute(t,
		"--input", input,
		"--api-key", "too-short",
		"--pacing", "1ms",
	)
	if err == nil {
		t.Fatal("Execute() succeeded with a short API key, want validation error")
	}
	if !strings.Contains(err.Error(), "api_key") {
		t.Errorf("error = %v, want api_key validation failure", err)
	}
}

func TestRootCmd_MissingInputFile(t *testing.T) {
	_, _, err := execute(t,
		"--input", filepath.Join(t.TempDir(), "nope.csv"),
		"--api-key", testKey,
	)
	if err == nil {
		t.Fatal("Execute() succeeded with a missing input file, want load error")
	}
}
