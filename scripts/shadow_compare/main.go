// Command shadow_compare replays a set of requests against both the legacy
// Flask planner service and this API and reports status and body differences.
// Volatile fields (plan IDs, attempt counts, timestamps) are stripped before
// bodies are compared.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Critical bool            `json:"critical"`
}

type targetsFile struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

// Keys whose values differ between runs by construction.
var volatileKeys = map[string]bool{
	"planId":    true,
	"attempts":  true,
	"startISO":  true,
	"endISO":    true,
	"timestamp": true,
	"reply":     true,
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5001", "Legacy Flask service base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 60*time.Second, "HTTP client timeout (plan generation is slow)")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)

	for _, t := range targets {
		comp := compareTarget(client, goBase, legacyBase, t)
		if comp.Error != nil || !comp.StatusMatch || !comp.BodyMatch {
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compareTarget(client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}

	goStatus, goBody, goDur, err := performRequest(client, goBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("go request failed: %w", err)
		return comp
	}
	legacyStatus, legacyBody, legacyDur, err := performRequest(client, legacyBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", err)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	comp.BodyMatch = bodiesEqual(goBody, legacyBody)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur
	return comp
}

func performRequest(client *http.Client, base string, tgt target) (int, []byte, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader(tgt.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, payload, time.Since(start), nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	stripVolatile(&aj)
	stripVolatile(&bj)
	return reflect.DeepEqual(aj, bj)
}

func stripVolatile(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if volatileKeys[k] {
				delete(val, k)
				continue
			}
			stripVolatile(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			stripVolatile(&v2)
			val[i] = v2
		}
	}
}

func printReport(comparisons []comparison) {
	for _, comp := range comparisons {
		status := "OK"
		detail := ""
		switch {
		case comp.Error != nil:
			status = "ERROR"
			detail = comp.Error.Error()
		case !comp.StatusMatch:
			status = "STATUS DIFF"
			detail = fmt.Sprintf("go=%d legacy=%d", comp.GoStatus, comp.LegacyStatus)
		case !comp.BodyMatch:
			status = "BODY DIFF"
		}
		fmt.Printf("%-6s %-28s %-12s %s (go %s, legacy %s)\n",
			comp.Target.Method, comp.Target.Path, status, detail,
			comp.DurationGo.Round(time.Millisecond), comp.DurationLegacy.Round(time.Millisecond))
	}
}
