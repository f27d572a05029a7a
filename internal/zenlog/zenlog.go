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

// Package zenlog is the logging rail every other zen package reports
// through. It wraps glog so each package
// calls the package-level functions directly rather than threading a
// logger through constructors.
package zenlog

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
)

// SetVerbose raises glog's verbosity so Trace and TraceDetail lines are
// emitted, mirroring the CLI's own --verbose flag onto glog's -v.
func SetVerbose(verbose bool) {
	if verbose {
		flag.Set("v", "2")
	}
}

// Info logs a user-facing line unconditionally: prefixed,
// newline-terminated, flushed to stdout.
func Info(f string, a ...interface{}) {
	fmt.Printf("zen: "+f+"\n", a...)
}

// Trace logs at verbosity 1: per-object and per-target decisions.
func Trace(f string, a ...interface{}) {
	glog.V(1).Infof(f, a...)
}

// TraceDetail logs at verbosity 2: per-construct and per-component
// detail, including scope-fallback and cache-miss notes.
func TraceDetail(f string, a ...interface{}) {
	glog.V(2).Infof(f, a...)
}

// Warn reports a recoverable problem (a source that could not be parsed,
// a cache entry that could not be written) without aborting the process.
func Warn(f string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "zen: warning: "+f+"\n", a...)
}

// Errorf reports an unrecoverable problem and always terminates the
// process with a non-zero exit code.
func Errorf(f string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "zen: error: "+f+"\n", a...)
	os.Exit(2)
}
