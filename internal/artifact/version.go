// Package artifact persists and versions the columnar outputs of the
// pipeline and writes the per-run diagnostic reports.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

var versionSuffix = regexp.MustCompile(`_v(\d+)$`)

// NextVersionPath returns a path that does not exist yet, derived from the
// requested one by appending or incrementing a `_vN` suffix. Prior outputs
// are never overwritten: `grid.parquet` becomes `grid_v1.parquet`, an
// existing `grid_v3.parquet` yields `grid_v4.parquet`, and occupied slots
// are skipped.
func NextVersionPath(path string) string {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	base := stem
	next := 1
	if m := versionSuffix.FindStringSubmatch(stem); m != nil {
		base = stem[:len(stem)-len(m[0])]
		if v, err := strconv.Atoi(m[1]); err == nil {
			next = v
		}
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_v%d%s", base, next, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		next++
	}
}

// LatestVersionPath resolves the newest existing version of an artifact. The
// bare path wins only if no versioned sibling exists.
func LatestVersionPath(path string) (string, error) {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	if m := versionSuffix.FindStringSubmatch(stem); m != nil {
		stem = stem[:len(stem)-len(m[0])]
	}

	best := ""
	bestVersion := -1
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrapf(err, "artifact: list %s", dir)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if name == stem && bestVersion < 0 {
			best = filepath.Join(dir, e.Name())
			continue
		}
		m := versionSuffix.FindStringSubmatch(name)
		if m == nil || name[:len(name)-len(m[0])] != stem {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if v > bestVersion {
			bestVersion = v
			best = filepath.Join(dir, e.Name())
		}
	}
	if best == "" {
		return "", eris.Errorf("artifact: no version of %s found", path)
	}
	return best, nil
}
