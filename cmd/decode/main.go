// Copyright 2024 The CPF Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command decode admits K valid chunk files out of the candidates
// given on the command line and reconstructs the original source
// bytes.
//
// Usage:
//
//	decode OUTPUT IN_1 IN_2 ... IN_N
//
// OUTPUT of "-" writes the reconstructed bytes to standard output.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/aicodix/cpf/internal/driver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: decode OUTPUT IN_1 [IN_2 ...]")
		return 1
	}

	outputPath := args[0]
	inPaths := args[1:]

	candidates := make([][]byte, 0, len(inPaths))
	for _, path := range inPaths {
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping chunk", "path", path, "reason", err)
			continue
		}
		candidates = append(candidates, raw)
	}

	out, err := driver.Decode(candidates, logger)
	if err != nil {
		logger.Error("decode failed", "err", err)
		return 1
	}

	if outputPath == "-" {
		if _, err := os.Stdout.Write(out); err != nil {
			logger.Error("writing output", "err", err)
			return 1
		}
		return 0
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		logger.Error("writing output", "path", outputPath, "err", err)
		return 1
	}
	return 0
}
