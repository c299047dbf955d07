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

// Command encode reads a source file, splits it into K data blocks and
// produces M Cauchy-coded chunk files, one per output path given on
// the command line.
//
// Usage:
//
//	encode INPUT CHUNK_SIZE OUT_1 OUT_2 ... OUT_M
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/aicodix/cpf/internal/driver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: encode INPUT CHUNK_SIZE OUT_1 [OUT_2 ...]")
		return 1
	}

	inputPath := args[0]
	chunkSize, err := strconv.Atoi(args[1])
	if err != nil || chunkSize <= 0 {
		logger.Error("invalid chunk size", "value", args[1])
		return 1
	}
	outPaths := args[2:]

	source, err := os.ReadFile(inputPath)
	if err != nil {
		logger.Error("reading input", "path", inputPath, "err", err)
		return 1
	}

	result, err := driver.Encode(source, chunkSize, len(outPaths), logger)
	if err != nil {
		logger.Error("encode failed", "err", err)
		return 1
	}

	for i, path := range outPaths {
		if err := os.WriteFile(path, result.Chunks[i], 0o644); err != nil {
			logger.Error("writing chunk", "path", path, "err", err)
			return 1
		}
	}

	fmt.Fprintf(os.Stderr, "CPF(%d, %d)\n", len(outPaths), result.K)
	return 0
}
