package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/birdnet-sql/internal/buildinfo"
	"github.com/tphakala/birdnet-sql/internal/importer"
	"github.com/tphakala/birdnet-sql/internal/runtime"
)

type testRun struct {
	rt         *runtime.Context
	configPath string
}

func newTestContext(t *testing.T) (*testRun, *bytes.Buffer) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("logging:\n  level: error\n"), 0o600))

	out := &bytes.Buffer{}
	rt := runtime.NewContext(buildinfo.New("test", ""))
	rt.Stdout = out
	t.Cleanup(func() { _ = rt.Close() })

	return &testRun{rt: rt, configPath: configPath}, out
}

func execute(t *testing.T, run *testRun, args ...string) error {
	t.Helper()

	root := RootCommand(run.rt)
	root.SetOut(run.rt.Stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--config", run.configPath))
	return root.ExecuteContext(context.Background())
}

func TestConfigCommandAppliesFlags(t *testing.T) {
	run, out := newTestContext(t)

	err := execute(t, run, "config", "--table", "birds", "--location-index=-3", "--recreate")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "table: birds")
	assert.Contains(t, out.String(), "locationindex: -3")
	assert.Contains(t, out.String(), "recreate: true")
}

func TestFileCommandImports(t *testing.T) {
	run, out := newTestContext(t)

	dir := t.TempDir()
	site := filepath.Join(dir, "meadow")
	require.NoError(t, os.MkdirAll(site, 0o755))

	results := filepath.Join(site, "SMA01_20230514_054209.csv")
	require.NoError(t, os.WriteFile(results, []byte(
		"start_detection,end_detection,label,confidence,hr\n"+
			"0,3,Turdus merula_Eurasian Blackbird,0.97,0.2\n"+
			"3,6,Turdus merula_Eurasian Blackbird,0.99,0.3\n"), 0o600))

	dbPath := filepath.Join(dir, "out.sqlite")
	metricsPath := filepath.Join(dir, "run.prom")

	err := execute(t, run, "file", results,
		"--database", dbPath,
		"--location-index=-2",
		"--metrics-file", metricsPath)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "1 imported, 0 skipped, 0 failed")
	assert.FileExists(t, metricsPath)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var location string
	require.NoError(t, db.Table("detections").Select("location").Scan(&location).Error)
	assert.Equal(t, "meadow", location)
}

func TestDirectoryCommandReportsFailures(t *testing.T) {
	run, out := newTestContext(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20230514.csv"),
		[]byte("start_detection,end_detection,confidence,hr\n0,3,0.9,0.1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20230515.csv"),
		[]byte("start_detection,confidence\n0,0.9\n"), 0o600))

	err := execute(t, run, "directory", dir, "--database", filepath.Join(t.TempDir(), "out.sqlite"))
	require.ErrorIs(t, err, importer.ErrFilesFailed)
	assert.Contains(t, out.String(), "1 imported, 0 skipped, 1 failed")
}
