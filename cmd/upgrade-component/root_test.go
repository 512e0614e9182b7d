package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/upgrade-component/pkg/exitcodes"
	"github.com/lucas-albers-lz4/upgrade-component/pkg/fileutil"
	log "github.com/lucas-albers-lz4/upgrade-component/pkg/log"
	"github.com/lucas-albers-lz4/upgrade-component/pkg/updater"
	"github.com/lucas-albers-lz4/upgrade-component/pkg/values"
)

const testValues = `api:
  image: {repository: example/api, tag: "1.0.0"}
worker:
  image: {repository: example/worker, tag: "2.3.1"}
`

// setupChart installs an in-memory filesystem holding /chart/values.yaml.
func setupChart(t *testing.T, content string) afero.Fs {
	t.Helper()
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, filepath.Join("/chart", "values.yaml"), []byte(content), fileutil.ReadWriteUserReadOthers))
	t.Cleanup(SetFs(fileutil.NewAferoFS(memFs)))

	var logs bytes.Buffer
	t.Cleanup(log.SetOutput(&logs))
	return memFs
}

// executeCommand runs a fresh root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := execute(cmd)
	return buf.String(), err
}

func TestRootCommand_UpdatesTag(t *testing.T) {
	memFs := setupChart(t, testValues)

	_, err := executeCommand("/chart", "-c", "api", "-v", "1.1.0")
	require.NoError(t, err)

	data, err := afero.ReadFile(memFs, "/chart/values.yaml")
	require.NoError(t, err)
	assert.Equal(t, `api:
  image: {repository: example/api, tag: "1.1.0"}
worker:
  image: {repository: example/worker, tag: "2.3.1"}
`, string(data))
}

func TestRootCommand_LongFlags(t *testing.T) {
	memFs := setupChart(t, testValues)

	_, err := executeCommand("--component", "worker", "--version", "2.4.0", "/chart")
	require.NoError(t, err)

	data, err := afero.ReadFile(memFs, "/chart/values.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `tag: "2.4.0"`)
	assert.Contains(t, string(data), `tag: "1.0.0"`)
}

func TestRootCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  error
		wantMsg  string
	}{
		{
			name:     "missing component flag",
			args:     []string{"/chart", "-v", "1.1.0"},
			wantCode: exitcodes.ExitMissingRequiredFlag,
			wantMsg:  `required flag(s) "component" not set`,
		},
		{
			name:     "missing path",
			args:     []string{"-c", "api", "-v", "1.1.0"},
			wantCode: exitcodes.ExitMissingRequiredFlag,
			wantMsg:  "accepts 1 arg(s), received 0",
		},
		{
			name:     "too many paths",
			args:     []string{"/chart", "/other", "-c", "api", "-v", "1.1.0"},
			wantCode: exitcodes.ExitMissingRequiredFlag,
		},
		{
			name:     "unknown flag",
			args:     []string{"/chart", "-c", "api", "-v", "1.1.0", "--dry-run"},
			wantCode: exitcodes.ExitMissingRequiredFlag,
			wantMsg:  "unknown flag",
		},
		{
			name:     "missing version",
			args:     []string{"/chart", "-c", "api"},
			wantCode: exitcodes.ExitMissingRequiredFlag,
			wantErr:  updater.ErrMissingVersion,
		},
		{
			name:     "unknown component",
			args:     []string{"/chart", "-c", "scheduler", "-v", "1.1.0"},
			wantCode: exitcodes.ExitUnsupportedValues,
			wantErr:  values.ErrComponentNotFound,
		},
		{
			name:     "missing values file",
			args:     []string{"/elsewhere", "-c", "api", "-v", "1.1.0"},
			wantCode: exitcodes.ExitValuesNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memFs := setupChart(t, testValues)

			_, err := executeCommand(tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, exitcodes.CodeFor(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			data, readErr := afero.ReadFile(memFs, "/chart/values.yaml")
			require.NoError(t, readErr)
			assert.Equal(t, testValues, string(data), "values.yaml must be untouched")
		})
	}
}

func TestExecute_ErrorCarriesStackTrace(t *testing.T) {
	setupChart(t, testValues)

	_, err := executeCommand("/chart", "-c", "scheduler", "-v", "1.1.0")
	require.Error(t, err)

	trace := fmt.Sprintf("%+v", err)
	assert.Contains(t, trace, "component key not found")
	assert.Contains(t, trace, "upgrade-component/root.go")
}

func TestReportError(t *testing.T) {
	setupChart(t, testValues)

	_, err := executeCommand("/chart", "-c", "api", "-v", "1.1.0", "--bogus")
	require.Error(t, err)

	var out bytes.Buffer
	code := reportError(&out, err)
	assert.Equal(t, exitcodes.ExitMissingRequiredFlag, code)
	assert.Contains(t, out.String(), "Error: exit code 1: unknown flag: --bogus")
	assert.Contains(t, out.String(), "root.go")
	assert.Contains(t, out.String(), "Exit code 1: Required argument or flag not provided")

	out.Reset()
	code = reportError(&out, fmt.Errorf("unexpected"))
	assert.Equal(t, exitcodes.ExitGeneralRuntimeError, code)
	assert.Contains(t, out.String(), "Exit code 20: General runtime/system error")
}

func TestRootCommand_Help(t *testing.T) {
	out, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, out, "upgrade-component PATH")
	assert.Contains(t, out, "--component")
	assert.Contains(t, out, "--version")
}
