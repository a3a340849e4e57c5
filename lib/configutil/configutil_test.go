package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Token  string `json:"token"`
	Region string `json:"region"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		// comments are allowed
		token: "abc",
		region: "en",
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	config, err := ReadConfig[testConfig](path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "abc", config.Token)
	require.Equal(t, "en", config.Region)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(
		filepath.Join(dir, "config.json5"),
		[]byte(`{token: "abc", region: "en"}`),
		0600,
	)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(
		filepath.Join(dir, "config.local.json5"),
		[]byte(`{token: "override"}`),
		0600,
	)
	if err != nil {
		t.Fatal(err)
	}

	config, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "override", config.Token)
	require.Equal(t, "en", config.Region)
}

func TestReadConfigNotFound(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
