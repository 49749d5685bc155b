package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/talkie/internal/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runTalkie(t, binaryPath, home, "version")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.NotEmpty(t, strings.TrimSpace(stdout))

	_, stderr, err = runTalkie(t, binaryPath, home, "prefs", "set", "--callsign", "bravo-2", "--gender", "female")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runTalkie(t, binaryPath, home, "prefs", "show")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "callsign: BRAVO-2")
	assert.Contains(t, stdout, "gender: female")

	stdout, stderr, err = runTalkie(t, binaryPath, home, "room", "code")
	require.NoError(t, err, "stderr: %s", stderr)
	room := strings.TrimSpace(stdout)
	require.Len(t, room, 6)

	stdout, stderr, err = runTalkie(t, binaryPath, home,
		"join", "--headless",
		"--room", room,
		"--capture", "none",
		"--realtime=false",
		"--say", "Radio check",
	)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "room: "+room)
	assert.Contains(t, stdout, "BRAVO-2: Radio check")
}

func TestSmokeHandsFreeReplaysWAVInput(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	samples := make([]float32, 3*4096)
	for i := range samples {
		samples[i] = 0.2
	}
	data, err := audio.EncodeWAV(audio.Buffer{SampleRate: 16000, Channels: 1, Samples: samples})
	require.NoError(t, err)
	input := filepath.Join(home, "input.wav")
	require.NoError(t, os.WriteFile(input, data, 0o600))
	outDir := filepath.Join(home, "out")

	_, stderr, err := runTalkie(t, binaryPath, home,
		"join", "--headless",
		"--room", "AB12CD",
		"--callsign", "ALPHA-1",
		"--hands-free",
		"--capture", "wav",
		"--capture-file", input,
		"--playback", "wav",
		"--playback-dir", outDir,
		"--realtime=false",
		"--duration", "1s",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "talkie-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/talkie")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build talkie binary: %s", string(output))
	return binaryPath
}

func runTalkie(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"TALKIE_LOG_LEVEL=error",
		"TALKIE_ANNOUNCER_COMMAND=talkie-e2e-missing-tts",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
