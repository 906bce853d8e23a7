package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const scenarioA = "ProcessingTime_A_Machine_1,ProcessingTime_B_Machine_1,ProcessingTime_A_Machine_2,ProcessingTime_B_Machine_2,Capacity_Machine_1,Capacity_Machine_2,Price_A,Price_B\n" +
	"10,15,5,8,600,480,25,30\n"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PRODUCTS", "MACHINES", "SOLVER_MAX_ITERATIONS", "SOLVER_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestRunPrintsTextPlan(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{writeCSV(t, scenarioA)}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}

	want := "Optimization status: Optimal\n" +
		"Product_A: 60.00\n" +
		"Product_B: 0.00\n" +
		"Total Revenue: $1,500.00\n"
	if stdout.String() != want {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunPrintsJSON(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"--format=json", writeCSV(t, scenarioA)}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if payload["status"] != "Optimal" || payload["objectiveValue"] != 1500.0 || payload["Product_A"] != 60.0 {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestRunUsesLayoutFlags(t *testing.T) {
	clearEnv(t)
	body := "ProcessingTime_X_Machine_M,Capacity_Machine_M,Price_X\n4,100,3\n"
	var stdout, stderr bytes.Buffer

	code := run([]string{"--products=X", "--machines=M", writeCSV(t, body)}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Product_X: 25.00") || !strings.Contains(stdout.String(), "Total Revenue: $75.00") {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunReportsValidationErrors(t *testing.T) {
	clearEnv(t)
	body := "ProcessingTime_A_Machine_1,Capacity_Machine_1\n1,2\n"
	var stdout, stderr bytes.Buffer

	code := run([]string{writeCSV(t, body)}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "missing required fields") {
		t.Fatalf("expected missing fields message, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no plan output, got %q", stdout.String())
	}
}

func TestRunReportsMissingFile(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{filepath.Join(t.TempDir(), "absent.csv")}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "open parameters") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}

func TestRunRejectsBadArguments(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer

	if code := run([]string{"--format=xml", "x.csv"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if code := run(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit code 2 without a csv argument, got %d", code)
	}
}

func TestPrintTextNonOptimal(t *testing.T) {
	clearEnv(t)
	body := "ProcessingTime_X_Machine_M,Capacity_Machine_M,Price_X\n0,100,3\n"
	var stdout, stderr bytes.Buffer

	code := run([]string{"--products=X", "--machines=M", writeCSV(t, body)}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "Optimization status: Unbounded\nError: ") {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}
