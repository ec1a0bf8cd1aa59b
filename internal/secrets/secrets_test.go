package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/birdnet-sql/internal/errors"
	"github.com/tphakala/birdnet-sql/internal/logger"
)

func TestExpandString(t *testing.T) {
	t.Setenv("BIRDNETSQL_TEST_TOKEN", "secret123")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty string", "", "", false},
		{"literal", "literal-value", "literal-value", false},
		{"variable", "${BIRDNETSQL_TEST_TOKEN}", "secret123", false},
		{"prefix and suffix", "pw-${BIRDNETSQL_TEST_TOKEN}-x", "pw-secret123-x", false},
		{"fallback unused", "${BIRDNETSQL_TEST_TOKEN:-other}", "secret123", false},
		{"fallback used", "${BIRDNETSQL_TEST_UNSET:-other}", "other", false},
		{"empty fallback", "${BIRDNETSQL_TEST_UNSET:-}", "", false},
		{"missing", "${BIRDNETSQL_TEST_UNSET}", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
				assert.Contains(t, err.Error(), "BIRDNETSQL_TEST_UNSET")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	private := filepath.Join(dir, "private")
	require.NoError(t, os.WriteFile(private, []byte("hunter2\n"), 0o600))

	var buf bytes.Buffer
	log := logger.NewSlogLogger(&buf, logger.LogLevelWarn, nil)

	got, err := ReadFile(private, log)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
	assert.Empty(t, buf.String())

	shared := filepath.Join(dir, "shared")
	require.NoError(t, os.WriteFile(shared, []byte("hunter2"), 0o644))
	require.NoError(t, os.Chmod(shared, 0o644))

	got, err = ReadFile(shared, log)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
	assert.Contains(t, buf.String(), "readable by group or others")
	assert.NotContains(t, buf.String(), "hunter2")

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
	_, err = ReadFile(empty, log)
	assert.ErrorContains(t, err, "secret file is empty")

	_, err = ReadFile(dir, log)
	assert.ErrorContains(t, err, "not a regular file")

	_, err = ReadFile(filepath.Join(dir, "missing"), log)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestResolvePrefersFile(t *testing.T) {
	t.Setenv("BIRDNETSQL_TEST_PW", "from-env")

	path := filepath.Join(t.TempDir(), "pw")
	require.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))

	got, err := Resolve(path, "${BIRDNETSQL_TEST_PW}", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-file", got)

	got, err = Resolve("", "${BIRDNETSQL_TEST_PW}", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)
}
