package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	config   string
	modelDir string
	plotDir  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		config:   filepath.Join(dir, "linfit.yaml"),
		modelDir: filepath.Join(dir, "models"),
		plotDir:  filepath.Join(dir, "plots"),
	}
	content := "log_level: error\nmodel_dir: " + env.modelDir + "\nplot_dir: " + env.plotDir + "\n"
	require.NoError(t, os.WriteFile(env.config, []byte(content), 0o600))
	return env
}

func (e testEnv) run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-config", e.config}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunStudy(t *testing.T) {
	env := newTestEnv(t)

	code, out, _ := env.run(t, "abc\n-1\n6\nn\n", "study")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "GRADE FROM STUDY HOURS")
	assert.Contains(t, out, `No stored model "study" found`)
	assert.Contains(t, out, "Equation: y = 0.850x + 1.750")
	assert.Contains(t, out, "R2: 0.8210")
	assert.Contains(t, out, "Error: please enter a valid number.")
	assert.Contains(t, out, "Error: Study Hours must be between 0 and")
	assert.Contains(t, out, "Predicted grade: 6.85/10")
	assert.Contains(t, out, "You could pass with those hours")
	assert.Contains(t, out, `Model saved as "study"`)
	assert.Contains(t, out, "Goodbye!")
	assert.FileExists(t, filepath.Join(env.modelDir, "study.json"))
	assert.FileExists(t, filepath.Join(env.plotDir, "study.html"))

	code, out, _ = env.run(t, "20\ny\n2\nn\n", "study")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `Loaded model "study"`)
	assert.NotContains(t, out, "Training data:")
	assert.Contains(t, out, "Predicted grade: 10.00/10")
	assert.Contains(t, out, "Excellent!")
	assert.Contains(t, out, "Predicted grade: 3.45/10")
	assert.Contains(t, out, "You may struggle")
}

func TestRunDefaultsToStudy(t *testing.T) {
	env := newTestEnv(t)

	code, out, _ := env.run(t, "")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "GRADE FROM STUDY HOURS")
}

func TestRunSleep(t *testing.T) {
	env := newTestEnv(t)

	code, out, _ := env.run(t, "25\n8\nno\n", "sleep")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "DAILY ENERGY FROM SLEEP HOURS")
	assert.Contains(t, out, "Error: Sleep Hours must be between 0 and 24.")
	assert.Contains(t, out, "Predicted daily energy: 6.46/10")
	assert.Contains(t, out, "Healthy amount of sleep")
	assert.Contains(t, out, "Moderate energy")
	assert.Contains(t, out, "Best: 9.0 sleep hours -> 8.0 daily energy")
}

func TestRunExperimentAndCompare(t *testing.T) {
	env := newTestEnv(t)

	code, out, _ := env.run(t, "", "experiment")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "SAMPLE SIZE EXPERIMENT")
	assert.Contains(t, out, "Sample Sizes (study, manual):")
	assert.FileExists(t, filepath.Join(env.plotDir, "sample_sizes.html"))

	code, out, _ = env.run(t, "", "compare")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Example Data:\n  Equation: y = 0.850x + 1.750\n  R2: 0.8210\n  Samples: 5\n")
	assert.Contains(t, out, "Random Data:")
	assert.Contains(t, out, "Samples: 20")
	assert.FileExists(t, filepath.Join(env.plotDir, "compare.html"))
}

func TestRunInteractive(t *testing.T) {
	env := newTestEnv(t)
	chart := filepath.Join(env.plotDir, "session", "chart.html")

	script := strings.Join([]string{
		"predict 20",
		"predict abc",
		"add 6 7",
		"del 99",
		"bogus",
		"method qr",
		"reset",
		"save mine",
		"plot " + chart,
		"stats",
		"drag 3.1 4.9 3.5 11",
		"drag 8 1 2 2",
		"del 0",
		"del 0",
		"del 0",
		"del 0",
		"save broken",
		"quit",
		"save after-quit",
	}, "\n") + "\n"

	code, out, _ := env.run(t, script, "interactive")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "INTERACTIVE LINEAR REGRESSION")
	assert.Contains(t, out, "Points: 5, y = 0.850x + 1.750, R2 = 0.8210 (manual)")
	assert.Contains(t, out, "Prediction at x=20: y=10.00 (bounded to [0, 10])")
	assert.Contains(t, out, "Error: usage: predict x")
	assert.Contains(t, out, "Points: 6, ")
	assert.Contains(t, out, "index out of range")
	assert.Contains(t, out, `Error: "bogus", unknown command`)
	assert.Contains(t, out, "Points: 5, y = 0.850x + 1.750, R2 = 0.8210 (qr)")
	assert.Contains(t, out, `Model saved as "mine"`)
	assert.Contains(t, out, "Chart written to "+chart)
	assert.Contains(t, out, "Data Summary:")
	assert.Contains(t, out, "Moved point 2 to (3.5, 10)")
	assert.Contains(t, out, "Error: at (8, 1), no observation near the drag start")
	assert.Contains(t, out, "Points: 1, need at least 2 points to fit a line")
	assert.Contains(t, out, "Goodbye!")
	assert.NotContains(t, out, `Model saved as "broken"`)

	assert.FileExists(t, filepath.Join(env.modelDir, "mine.json"))
	assert.NoFileExists(t, filepath.Join(env.modelDir, "broken.json"))
	assert.NoFileExists(t, filepath.Join(env.modelDir, "after-quit.json"))
	assert.FileExists(t, chart)
}

func TestRunInteractiveScenario(t *testing.T) {
	env := newTestEnv(t)

	code, out, _ := env.run(t, "quit\n", "interactive", "sleep")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Points: 6, y = 0.914x - 0.857")

	code, out, errOut := env.run(t, "quit\n", "interactive", "coffee")
	assert.Equal(t, 1, code)
	assert.NotContains(t, out, "INTERACTIVE LINEAR REGRESSION")
	assert.Contains(t, errOut, "choose one of interactive, sleep, study")
	assert.Contains(t, errOut, "unknown scenario")
}

func TestRunModels(t *testing.T) {
	env := newTestEnv(t)

	code, out, _ := env.run(t, "", "models")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No models stored in "+env.modelDir)

	code, _, _ = env.run(t, "n\n", "study")
	require.Equal(t, 0, code)

	code, out, _ = env.run(t, "", "models")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "study")
	assert.Contains(t, out, "y = 0.850x + 1.750")
	assert.Contains(t, out, "0.8210")
}

func TestRunFailures(t *testing.T) {
	env := newTestEnv(t)

	testData := map[string]struct {
		args        []string
		expectedErr string
		code        int
	}{
		"unknown command": {
			args:        []string{"-config", env.config, "fly"},
			expectedErr: `"fly", unknown command`,
			code:        2,
		},
		"unknown flag": {
			args:        []string{"-verbose"},
			expectedErr: "flag provided but not defined",
			code:        2,
		},
		"missing config file": {
			args:        []string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "models"},
			expectedErr: "failed to load config",
			code:        1,
		},
		"help": {
			args:        []string{"-h"},
			expectedErr: "Usage: linfit",
			code:        0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(td.args, strings.NewReader(""), &stdout, &stderr)
			assert.Equal(t, td.code, code)
			assert.Contains(t, stderr.String(), td.expectedErr)
		})
	}
}
