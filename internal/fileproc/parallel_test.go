package fileproc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibyl-dev/sibyl/internal/analyzer"
	"github.com/sibyl-dev/sibyl/internal/testutil"
)

func writePythonFiles(t *testing.T, n int) []string {
	t.Helper()
	root := testutil.TempDir(t)
	files := make([]string, n)
	for i := range files {
		path := filepath.Join(root, fmt.Sprintf("mod_%03d.py", i))
		testutil.WriteFile(t, path, fmt.Sprintf("value_%d = %d\n", i, i))
		files[i] = path
	}
	return files
}

func TestMapFilesKeepsInputOrder(t *testing.T) {
	files := writePythonFiles(t, 40)

	results, errs := MapFiles(context.Background(), files, 0, func() *analyzer.Analyzer { return analyzer.New() },
		func(a *analyzer.Analyzer, path string) (string, error) {
			source, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			diags := a.Analyze(source)
			if len(diags) != 1 {
				return "", fmt.Errorf("got %d diagnostics, want 1", len(diags))
			}
			return path + ":" + diags[0].Code, nil
		}, nil)

	require.Nil(t, errs)
	require.Len(t, results, len(files))
	for i, r := range results {
		assert.True(t, strings.HasPrefix(r, files[i]), "result %d out of order: %s", i, r)
		assert.True(t, strings.HasSuffix(r, ":W0612"))
	}
}

func TestMapFilesCollectsErrors(t *testing.T) {
	files := writePythonFiles(t, 3)
	files = append(files, filepath.Join(testutil.TempDir(t), "missing.py"))

	results, errs := MapFiles(context.Background(), files, 0, func() *analyzer.Analyzer { return analyzer.New() },
		func(a *analyzer.Analyzer, path string) (int, error) {
			source, err := os.ReadFile(path)
			if err != nil {
				return 0, err
			}
			return len(a.Analyze(source)), nil
		}, nil)

	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors())
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, files[3], errs.Errors[0].Path)
	assert.Len(t, results, 3, "failed files are skipped, not zero-filled")
}

func TestMapFilesEmptyInput(t *testing.T) {
	results, errs := MapFiles(context.Background(), nil, 0, func() *analyzer.Analyzer { return analyzer.New() },
		func(a *analyzer.Analyzer, path string) (int, error) {
			return 0, nil
		}, nil)
	assert.Nil(t, results)
	assert.Nil(t, errs)
}

func TestMapFilesProgress(t *testing.T) {
	files := writePythonFiles(t, 10)

	var ticks atomic.Int64
	results, errs := MapFiles(context.Background(), files, 4, func() *analyzer.Analyzer { return analyzer.New() },
		func(a *analyzer.Analyzer, path string) (string, error) {
			return path, nil
		}, func() { ticks.Add(1) })

	require.Nil(t, errs)
	assert.Len(t, results, 10)
	assert.Equal(t, int64(10), ticks.Load())
}

func TestMapFilesCancelled(t *testing.T) {
	files := writePythonFiles(t, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, errs := MapFiles(ctx, files, 2, func() *analyzer.Analyzer { return analyzer.New() },
		func(a *analyzer.Analyzer, path string) (string, error) {
			return path, nil
		}, nil)

	assert.Empty(t, results)
	require.NotNil(t, errs)
	assert.Len(t, errs.Errors, len(files))
	for _, pe := range errs.Errors {
		assert.True(t, errors.Is(pe.Err, context.Canceled))
	}
}

func TestProcessingErrorsError(t *testing.T) {
	errs := &ProcessingErrors{}
	assert.Equal(t, "no errors", errs.Error())

	errs.Add("a.py", errors.New("boom"))
	assert.Equal(t, "a.py: boom", errs.Error())

	errs.Add("b.py", errors.New("bang"))
	assert.Contains(t, errs.Error(), "2 files failed to process")
}
