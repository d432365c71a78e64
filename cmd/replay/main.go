// replay reads the reward/walk trace streams written by rewardd, prints a
// per-category summary, and optionally indexes the steps into sqlite for
// ad-hoc SQL inspection.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"crystalrl.ai/internal/persistence/indexdb"
	"crystalrl.ai/internal/persistence/trace"
)

func main() {
	var (
		tracesDir = flag.String("traces", "./data/traces", "directory containing reward-*.jsonl.zst / walk-*.jsonl.zst")
		dbPath    = flag.String("db", "", "sqlite index path (optional)")
	)
	flag.Parse()

	rewardFiles, err := listTraceFiles(*tracesDir, "reward-")
	if err != nil {
		fmt.Fprintln(os.Stderr, "list traces:", err)
		os.Exit(1)
	}
	if len(rewardFiles) == 0 {
		fmt.Fprintln(os.Stderr, "no reward traces found in", *tracesDir)
		os.Exit(1)
	}

	var entries []trace.RewardEntry
	for _, path := range rewardFiles {
		if err := readJSONL(path, func(line []byte) error {
			var e trace.RewardEntry
			if err := json.Unmarshal(line, &e); err != nil {
				return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
			}
			entries = append(entries, e)
			return nil
		}); err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
	}

	var sum indexdb.Summary
	sum.Steps = len(entries)
	for _, e := range entries {
		sum.Total += e.Total
		sum.Exploration += e.Exploration
		sum.Battle += e.Battle
		sum.Progression += e.Progression
		sum.Penalties += e.Penalties
		sum.Lava += e.Lava
	}
	fmt.Printf("steps=%d total=%.2f exploration=%.2f battle=%.2f progression=%.2f penalties=%.2f lava=%.2f\n",
		sum.Steps, sum.Total, sum.Exploration, sum.Battle, sum.Progression, sum.Penalties, sum.Lava)

	if *dbPath == "" {
		return
	}

	idx, err := indexdb.OpenSQLite(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open index:", err)
		os.Exit(1)
	}
	defer idx.Close()

	if err := idx.InsertRewardEntries(entries); err != nil {
		fmt.Fprintln(os.Stderr, "index rewards:", err)
		os.Exit(1)
	}

	walkFiles, err := listTraceFiles(*tracesDir, "walk-")
	if err != nil {
		fmt.Fprintln(os.Stderr, "list walk traces:", err)
		os.Exit(1)
	}
	var walks []trace.WalkEntry
	for _, path := range walkFiles {
		if err := readJSONL(path, func(line []byte) error {
			var e trace.WalkEntry
			if err := json.Unmarshal(line, &e); err != nil {
				return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
			}
			walks = append(walks, e)
			return nil
		}); err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
	}
	if len(walks) > 0 {
		if err := idx.InsertWalkEntries(walks); err != nil {
			fmt.Fprintln(os.Stderr, "index walks:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("indexed %d reward steps, %d walk steps into %s\n", len(entries), len(walks), *dbPath)
}

func listTraceFiles(dir, prefix string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func readJSONL(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		if err := fn(sc.Bytes()); err != nil {
			return err
		}
	}
	return sc.Err()
}
