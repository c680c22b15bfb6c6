package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxhoundv/wingmix/internal/automation"
	"github.com/foxhoundv/wingmix/internal/document"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "take.json")
	require.NoError(t, document.Save(path, &automation.Sequence{
		InitialState: automation.InitialState{"ch_1_fader": -10},
		Events: []automation.Event{
			{Timestamp: 0.5, ChannelType: automation.ChannelTypeChannel, ChannelNum: 1, ParamType: automation.ParamTypeFader, Value: -5},
			{Timestamp: 1, ChannelType: automation.ChannelTypeChannel, ChannelNum: 1, ParamType: automation.ParamTypeMute, Value: 1},
		},
		Duration: 1,
	}))
	return path
}

// writeTestConfig points the library at a per-test database.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "wingmix.yaml")
	data := fmt.Sprintf("library:\n  path: %s\n", filepath.Join(dir, "library.db"))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestValidateCommand(t *testing.T) {
	path := writeTestDocument(t)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid (2 events")
}

func TestValidateCommand_BadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"events": []}`), 0o644))

	_, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.True(t, document.IsLoadError(err))
}

func TestLibraryCommands_FullFlow(t *testing.T) {
	cfgPath := writeTestConfig(t)
	docPath := writeTestDocument(t)

	out, err := execute(t, "--config", cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "library is empty")

	out, err = execute(t, "--config", cfgPath, "import", docPath, "--name", "soundcheck")
	require.NoError(t, err)
	assert.Contains(t, out, `imported`)

	out, err = execute(t, "--config", cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "soundcheck")

	out, err = execute(t, "--config", cfgPath, "show", "soundcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "events:    2")

	exportPath := filepath.Join(t.TempDir(), "export.json")
	_, err = execute(t, "--config", cfgPath, "export", "soundcheck", exportPath)
	require.NoError(t, err)

	orig, err := os.ReadFile(docPath)
	require.NoError(t, err)
	exported, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t, orig, exported, "export reproduces the imported document byte for byte")

	out, err = execute(t, "--config", cfgPath, "delete", "soundcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = execute(t, "--config", cfgPath, "show", "soundcheck")
	assert.Error(t, err)
}

func TestShowCommand_Raw(t *testing.T) {
	cfgPath := writeTestConfig(t)
	docPath := writeTestDocument(t)

	_, err := execute(t, "--config", cfgPath, "import", docPath, "--name", "soundcheck")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfgPath, "show", "soundcheck", "--raw")
	require.NoError(t, err)

	orig, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Equal(t, string(orig), out)
}

func TestArmCommand(t *testing.T) {
	out, err := execute(t, "arm", "--channels", "1-3", "--buses", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "bus/2")
	assert.Contains(t, out, "ch/1")
	assert.Contains(t, out, "ch/2")
	assert.Contains(t, out, "ch/3")
}

func TestArmCommand_NoArmedStrips(t *testing.T) {
	out, err := execute(t, "arm")
	require.NoError(t, err)
	assert.Contains(t, out, "no strips armed")
}

func TestArmCommand_BadList(t *testing.T) {
	_, err := execute(t, "arm", "--channels", "4-2")
	assert.Error(t, err)
}

func TestPlayCommand_ArgValidation(t *testing.T) {
	_, err := execute(t, "play")
	assert.ErrorContains(t, err, "either a file argument or --name")

	_, err = execute(t, "play", "take.json", "--name", "soundcheck")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestRecordCommand_RequiresDestination(t *testing.T) {
	_, err := execute(t, "record")
	assert.ErrorContains(t, err, "--output or --name")
}
