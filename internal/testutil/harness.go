// Package testutil runs the application end to end against configuration
// files written to a temporary directory.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/oconfig/internal/app"
	"github.com/specialistvlad/oconfig/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Output    string
	Err       error
	Result    *app.Result
	App       *app.App
}

// Options tweak the app configuration used by the harness.
type Options struct {
	Strict         bool
	CheckedNumbers bool
	Dump           bool
	Modules        []registry.Module
}

// RunIntegrationTest writes files into a temporary directory and runs the app
// against it with default options.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithOptions(context.Background(), t, files, Options{})
}

// RunIntegrationTestWithOptions is RunIntegrationTest with a caller supplied
// context and options.
func RunIntegrationTestWithOptions(ctx context.Context, t *testing.T, files map[string]string, opts Options) *HarnessResult {
	t.Helper()

	// 1. Write all files below a fresh directory. Names may contain
	//    subdirectories, which are created as needed.
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	// 2. Point the app at the directory.
	appConfig, err := app.NewConfig(app.Config{
		ConfigPath:     tmpDir,
		LogLevel:       "debug",
		LogFormat:      "text",
		Strict:         opts.Strict,
		CheckedNumbers: opts.CheckedNumbers,
		Dump:           opts.Dump,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	outBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("OCONFIG_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		testApp = app.NewApp(outBuffer, logBuffer, appConfig, opts.Modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	// 3. Run the whole pipeline.
	result, runErr := testApp.Run(ctx)

	if os.Getenv("OCONFIG_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Output:    outBuffer.String(),
		Err:       runErr,
		Result:    result,
		App:       testApp,
	}
}

// Plugin returns the configured plugin with the given name or fails the test.
func (r *HarnessResult) Plugin(t *testing.T, name string) *app.ConfiguredPlugin {
	t.Helper()
	require.NotNil(t, r.Result, "run did not produce a result: %v", r.Err)
	for _, p := range r.Result.Plugins {
		if p.Name == name {
			return p
		}
	}
	require.Failf(t, "plugin not configured", "plugin %q is missing", name)
	return nil
}
