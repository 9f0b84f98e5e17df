// grammar-check runs the correction pipeline once over a file or stdin,
// without the WebSocket gateway. Useful for smoke-testing an inference
// endpoint and for batch cleanup of drafts.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mikey/grammar-relay/internal/adapters/cache"
	"github.com/mikey/grammar-relay/internal/adapters/t5"
	"github.com/mikey/grammar-relay/internal/core"
	"github.com/mikey/grammar-relay/internal/logging"
	"go.uber.org/zap"
)

var (
	endpoint  = flag.String("endpoint", "http://localhost:8090/generate", "Correction engine endpoint")
	apiKey    = flag.String("api-key", "", "Bearer token for the engine endpoint")
	numBeams  = flag.Int("beams", 5, "Beam width for generation")
	minLength = flag.Int("min-length", 1, "Minimum output length in tokens")
	timeout   = flag.Duration("timeout", 30*time.Second, "Per-call timeout")
	inputFile = flag.String("file", "", "Input text file (use stdin if not specified)")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog   = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	text, err := readInput(*inputFile)
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}

	engine := t5.NewClient(*endpoint, *apiKey, *numBeams, *minLength, *timeout, logger)
	memCache := cache.NewMemoryCache(logger, time.Hour)
	defer memCache.Stop()

	corrector := core.NewCorrector(engine, memCache, logger, true, 24*time.Hour)

	// Correct line by line, mirroring how the gateway receives fragments
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		corrected, err := corrector.Correct(ctx, line+"\n")
		cancel()
		if err != nil {
			logger.Fatal("Correction failed", zap.Error(err))
		}
		out = append(out, corrected)
	}
	if err := scanner.Err(); err != nil {
		logger.Fatal("Failed to scan input", zap.Error(err))
	}

	fmt.Println(strings.Join(out, "\n"))
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
