package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// detectSuite peeks at the first JSON file in dir and classifies the
// suite by its record shape: "d0" identifies a SingleStepTests/680x0
// M68k record, "af" identifies a jsmoo Z80 v1 record.
func detectSuite(dir string) (suiteKind, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading --testsuite directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		var peek []map[string]json.RawMessage
		if err := json.Unmarshal(data, &peek); err != nil || len(peek) == 0 {
			continue
		}
		initial, ok := peek[0]["initial"]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(initial, &fields); err != nil {
			continue
		}
		if _, ok := fields["d0"]; ok {
			return suiteM68k, nil
		}
		if _, ok := fields["af"]; ok {
			return suiteZ80, nil
		}
	}
	return 0, fmt.Errorf("could not detect suite shape (no .json file with a recognizable \"initial\" record found in %s)", dir)
}

// jsonTestFiles lists the .json files in dir matching filter, sorted
// by directory order (alphabetical, per os.ReadDir).
func jsonTestFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".json")
		if filter != "" && !strings.HasPrefix(base, filter) {
			continue
		}
		out = append(out, entry.Name())
	}
	return out, nil
}
