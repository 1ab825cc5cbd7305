// Package dependency decides whether a batch of tool calls can run in
// parallel or must run one at a time, from each call's declared paths and
// side-effect metadata.
package dependency

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ToolCall is the subset of a dispatched tool call the analyzer needs:
// which paths it reads, which it writes, and whether it has effects beyond
// the filesystem (shell exec, git, network mutation).
type ToolCall struct {
	ID            string
	Name          string
	ReadPaths     []string
	WritePaths    []string
	SideEffectful bool
}

// Mode is Parallel or Sequential.
type Mode int

const (
	Parallel Mode = iota
	Sequential
)

// Classification is the analyzer's verdict: a Mode plus, for Sequential, the
// reason it chose to serialize.
type Classification struct {
	Mode   Mode
	Reason string
}

func parallel() Classification { return Classification{Mode: Parallel} }
func sequential(reason string) Classification {
	return Classification{Mode: Sequential, Reason: reason}
}

// Classify applies the conservative rules, in order, stopping at the first
// that fires:
//
//  1. Fewer than two calls -> sequential("singleton").
//  2. Any call's write path is a prefix of (or glob-matches) another's read
//     or write path -> sequential("path conflict").
//  3. Any call is flagged side-effectful on shared state, and its peers are
//     not all read-only -> sequential("side effect").
//  4. Otherwise -> parallel.
func Classify(calls []ToolCall) Classification {
	if len(calls) < 2 {
		return sequential("singleton")
	}

	if hasPathConflict(calls) {
		return sequential("path conflict")
	}

	if hasUnsafeSideEffect(calls) {
		return sequential("side effect")
	}

	return parallel()
}

func hasPathConflict(calls []ToolCall) bool {
	for i, a := range calls {
		for j, b := range calls {
			if i == j {
				continue
			}
			for _, w := range a.WritePaths {
				for _, p := range append(append([]string{}, b.ReadPaths...), b.WritePaths...) {
					if pathsConflict(w, p) {
						return true
					}
				}
			}
		}
	}
	return false
}

// pathsConflict reports whether write is a prefix of (or glob-matches)
// other, after cleaning both. A write to "/repo" conflicts with a read of
// "/repo/file.go"; a write matching "src/**" conflicts with a read of
// "src/main.go".
func pathsConflict(write, other string) bool {
	write = filepath.Clean(write)
	other = filepath.Clean(other)

	if write == other {
		return true
	}

	if strings.ContainsAny(write, "*?[") {
		if ok, err := doublestar.Match(write, other); err == nil && ok {
			return true
		}
	}

	rel, err := filepath.Rel(write, other)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// hasUnsafeSideEffect reports whether any call is side-effectful on shared
// state while at least one of its peers (every other call in the batch) is
// not read-only: has declared write paths, or is itself side-effectful.
func hasUnsafeSideEffect(calls []ToolCall) bool {
	for i, c := range calls {
		if !c.SideEffectful {
			continue
		}
		for j, peer := range calls {
			if i == j {
				continue
			}
			if peer.SideEffectful || len(peer.WritePaths) > 0 {
				return true
			}
		}
	}
	return false
}
