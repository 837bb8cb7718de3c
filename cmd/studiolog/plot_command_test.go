package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studiolog/internal/sink"
	"studiolog/internal/testsupport"
)

func TestPlotLogAndList(t *testing.T) {
	env := setupCLITestEnv(t)
	html := filepath.Join(env.baseDir, "pred.html")
	frame := filepath.Join(env.baseDir, "metrics.json")
	testsupport.WriteFile(t, html, "<table></table>")
	testsupport.WriteFile(t, frame, `{"loss":[0.5,0.4]}`)

	_, stderr, err := runCLI(t, []string{"plot", "log", "--kind", "validation", html, frame}, env.configPath)
	if err != nil {
		t.Fatalf("plot log: %v", err)
	}
	requireContains(t, stderr, "INFO: plots")
	requireContains(t, stderr, "100%")

	stdout, _, err := runCLI(t, []string{"plot", "list", "--kind", "validation"}, env.configPath)
	if err != nil {
		t.Fatalf("plot list: %v", err)
	}
	var records []sink.Record
	if err := json.Unmarshal([]byte(stdout), &records); err != nil {
		t.Fatalf("plot list output is not json: %v (%q)", err, stdout)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	var markup string
	if err := json.Unmarshal(records[0].Data, &markup); err != nil || markup != "<table></table>" {
		t.Fatalf("unexpected html payload %q (err=%v)", records[0].Data, err)
	}
	if records[0].Encoding != sink.EncodingHTML {
		t.Fatalf("unexpected html record %+v", records[0])
	}
	if records[1].Encoding != sink.EncodingDataFrame || !strings.Contains(string(records[1].Data), `"loss"`) {
		t.Fatalf("unexpected data frame record %+v", records[1])
	}

	logFile := testsupport.ReadFile(t, filepath.Join(env.cfg.OutputDirectory, "logs.log"))
	requireContains(t, logFile, "plots recorded")
}

func TestPlotLogDryRunStoresNothing(t *testing.T) {
	env := setupCLITestEnv(t)
	image := filepath.Join(env.baseDir, "curve.png")
	testsupport.WriteFile(t, image, "PNG")

	_, stderr, err := runCLI(t, []string{"plot", "log", "--dry-run", "-k", "curve", image}, env.configPath)
	if err != nil {
		t.Fatalf("plot log: %v", err)
	}
	requireContains(t, stderr, "plot logged")
	requireContains(t, stderr, "encoding=image")

	if _, err := os.Stat(filepath.Join(env.cfg.OutputDirectory, sink.ChartsFile)); !os.IsNotExist(err) {
		t.Fatalf("dry run should not create the charts database, stat err=%v", err)
	}
}

func TestPlotLogNonMainRankDiscards(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithLocalRank(1))
	image := filepath.Join(env.baseDir, "curve.png")
	testsupport.WriteFile(t, image, "PNG")

	stdout, stderr, err := runCLI(t, []string{"plot", "log", "-k", "curve", image}, env.configPath)
	if err != nil {
		t.Fatalf("plot log: %v", err)
	}
	if stdout != "" || stderr != "" {
		t.Fatalf("non-main rank should be silent, got stdout=%q stderr=%q", stdout, stderr)
	}
	if _, err := os.Stat(filepath.Join(env.cfg.OutputDirectory, sink.ChartsFile)); !os.IsNotExist(err) {
		t.Fatalf("non-main rank should not create the charts database, stat err=%v", err)
	}
}

func TestPlotLogRequiresKind(t *testing.T) {
	env := setupCLITestEnv(t)
	image := filepath.Join(env.baseDir, "curve.png")
	testsupport.WriteFile(t, image, "PNG")

	_, _, err := runCLI(t, []string{"plot", "log", image}, env.configPath)
	if err == nil {
		t.Fatal("expected error without --kind")
	}
	requireContains(t, err.Error(), "--kind")
}

func TestPlotListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"plot", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("plot list: %v", err)
	}
	if strings.TrimSpace(stdout) != "[]" {
		t.Fatalf("expected empty json list, got %q", stdout)
	}
}

func TestEncodingForPath(t *testing.T) {
	tests := map[string]sink.Encoding{
		"a.PNG":     sink.EncodingImage,
		"b.jpeg":    sink.EncodingImage,
		"c.html":    sink.EncodingHTML,
		"d":         sink.EncodingHTML,
		"e.json":    sink.EncodingDataFrame,
		"dir/f.csv": sink.EncodingDataFrame,
	}
	for path, want := range tests {
		if got := encodingForPath(path); got != want {
			t.Errorf("encodingForPath(%q) = %q, want %q", path, got, want)
		}
	}
}
