package config

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
	"difficulty_buttons": {
		"beginner": [100, 200],
		"intermediate": [100, 300]
	},
	"difficulty_scroll": {"start": [270, 800], "end": [270, 400]},
	"series_buttons": {"A": [150, 250]},
	"expansion_scroll": {"start": [270, 700], "end": [270, 300]},
	"expansion_slots": [[120, 400], [120, 600], [120, 800]],
	"expansions_button": [270, 120],
	"battle_list_region": [0, 200, 540, 700],
	"reward_detection_region": [400, 200, 140, 700],
	"auto_button": [480, 900],
	"battle_button": [270, 880],
	"battles_tab": [200, 930],
	"solo_battle_button": [270, 500]
}`

const sampleYAML = `
difficulty_buttons:
  beginner: [100, 200]
series_buttons:
  A: [150, 250]
expansion_slots:
  - [120, 400]
  - [120, 600]
expansions_button: [270, 120]
reward_detection_region: [400, 200, 140, 700]
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeConfig(t, "adb_config.json", sampleJSON))
	require.NoError(t, err)

	p, err := cfg.DifficultyButton("beginner")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 100, Y: 200}, p)

	p, err = cfg.SeriesButton("A")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 150, Y: 250}, p)

	region, err := cfg.RewardDetection()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(400, 200, 540, 900), region.Rect())

	g, err := cfg.DifficultyScrollGesture()
	require.NoError(t, err)
	assert.Equal(t, Point{X: 270, Y: 800}, g.Start)
	assert.Equal(t, Point{X: 270, Y: 400}, g.End)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "adb_config.yaml", sampleYAML))
	require.NoError(t, err)

	p, err := cfg.DifficultyButton("beginner")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 100, Y: 200}, p)

	p, err = cfg.Slot(2)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 120, Y: 600}, p)
}

func TestSlotIndexing(t *testing.T) {
	cfg, err := Load(writeConfig(t, "adb_config.json", sampleJSON))
	require.NoError(t, err)

	p, err := cfg.Slot(1)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 120, Y: 400}, p)

	p, err = cfg.Slot(3)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 120, Y: 800}, p)

	_, err = cfg.Slot(4)
	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "expansion_slots[4]", missing.Key)

	_, err = cfg.Slot(0)
	require.ErrorAs(t, err, &missing)
}

func TestMissingKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, "adb_config.yaml", sampleYAML))
	require.NoError(t, err)

	var missing *MissingError

	_, err = cfg.DifficultyButton("expert")
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "difficulty_buttons.expert", missing.Key)

	_, err = cfg.Auto()
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "auto_button", missing.Key)

	_, err = cfg.BattleList()
	require.ErrorAs(t, err, &missing)

	_, err = cfg.ExpansionScrollGesture()
	require.ErrorAs(t, err, &missing)
}

func TestZeroPointIsMissing(t *testing.T) {
	cfg, err := Load(writeConfig(t, "c.json", `{"expansions_button": [0, 0]}`))
	require.NoError(t, err)

	var missing *MissingError
	_, err = cfg.Expansions()
	require.ErrorAs(t, err, &missing)
}

func TestLoadRejectsMalformedPoint(t *testing.T) {
	_, err := Load(writeConfig(t, "c.json", `{"expansions_button": {"x": 1}}`))
	require.Error(t, err)
}
