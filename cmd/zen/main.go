// Copyright 2024 The Zen Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/TryExceptElse/zen/internal/builddir"
	"github.com/TryExceptElse/zen/internal/engine"
	"github.com/TryExceptElse/zen/internal/zenlog"
)

func usage() {
	fmt.Fprintf(os.Stderr, `zen plans and records CMake+Make rebuild avoidance.

Usage:
  zen meditate [--verbose] <build_dir>
  zen remember [--verbose] <build_dir>

meditate must run before make; remember must run after a successful
make, to record the fingerprints the next meditate compares against.
`)
}

func parseSubFlags(name string, args []string) (buildDir string, verbose bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.BoolVar(&verbose, "verbose", false, "emit informational lines to stdout")
	fs.Usage = usage
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	return fs.Arg(0), verbose
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	buildDir, verbose := parseSubFlags(cmd, os.Args[2:])
	zenlog.SetVerbose(verbose)

	switch cmd {
	case "meditate":
		runMeditate(buildDir)
	case "remember":
		runRemember(buildDir)
	default:
		usage()
		os.Exit(2)
	}
}

func runMeditate(dir string) {
	bd, err := builddir.Load(dir)
	if err != nil {
		zenlog.Errorf("loading build directory %s: %v", dir, err)
	}
	if err := engine.Meditate(bd); err != nil {
		zenlog.Errorf("meditate: %v", err)
	}
	diagnoseSources(bd)
	for _, t := range bd.Targets {
		zenlog.Info("%s: %s", t.Name, t.Status)
	}
	glog.Flush()
}

// diagnoseSources logs, at verbosity 2, a diff of every source whose
// remembered fingerprint no longer matches its current content. Each
// interned source is shared by every object that names it, so it's
// visited at most once regardless of how many objects depend on it.
func diagnoseSources(bd *builddir.BuildDir) {
	seen := map[string]bool{}
	for _, t := range bd.Targets {
		for _, obj := range t.Objects {
			for _, sf := range obj.Sources {
				if seen[sf.Path] {
					continue
				}
				seen[sf.Path] = true
				diff, changed, err := engine.DiagnoseSource(sf, bd.Cache)
				if err != nil {
					zenlog.Warn("diagnosing %s: %v", sf.Path, err)
					continue
				}
				if changed {
					zenlog.TraceDetail("%s changed:\n%s", sf.Path, diff)
				}
			}
		}
	}
}

func runRemember(dir string) {
	bd, err := builddir.Load(dir)
	if err != nil {
		zenlog.Errorf("loading build directory %s: %v", dir, err)
	}
	if err := engine.Remember(bd); err != nil {
		zenlog.Errorf("remember: %v", err)
	}
	zenlog.Info("recorded fingerprints for %d target(s)", len(bd.Targets))
	glog.Flush()
}
