package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefaultConfig(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigTTSizeLog2), 23)
	is.True(cfg.GetInt(ConfigThreads) >= 1)
	is.True(!cfg.GetBool(ConfigWeak))
	is.Equal(cfg.GetString(ConfigBenchDir), "./data/bench")
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	chdir(t, t.TempDir())
	cfg := &Config{}
	err := cfg.Load([]string{"--weak", "--tt-size-log2", "20", "--threads=3", "solve", "4455"})
	is.NoErr(err)
	is.True(cfg.GetBool(ConfigWeak))
	is.Equal(cfg.GetInt(ConfigTTSizeLog2), 20)
	is.Equal(cfg.GetInt(ConfigThreads), 3)
	is.Equal(cfg.Args(), []string{"solve", "4455"})
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	chdir(t, t.TempDir())
	t.Setenv("C4_TT_SIZE_LOG2", "18")
	t.Setenv("C4_DEBUG", "true")
	cfg := &Config{}
	is.NoErr(cfg.Load(nil))
	is.Equal(cfg.GetInt(ConfigTTSizeLog2), 18)
	is.True(cfg.GetBool(ConfigDebug))
}

func TestLoadRejectsBadSettings(t *testing.T) {
	is := is.New(t)
	chdir(t, t.TempDir())
	cfg := &Config{}
	err := cfg.Load([]string{"--tt-size-log2", "40"})
	is.True(errors.Is(err, ErrBadSetting))
	err = cfg.Load([]string{"--threads", "0"})
	is.True(errors.Is(err, ErrBadSetting))
	err = cfg.Load([]string{"--no-such-flag"})
	is.True(err != nil)
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Set(ConfigResultsDB, "/var/lib/c4.db")
	cfg.AdjustRelativePaths("/opt/c4")
	is.Equal(cfg.GetString(ConfigBenchDir), filepath.Join("/opt/c4", "data/bench"))
	is.Equal(cfg.GetString(ConfigResultsDB), "/var/lib/c4.db")
}

func TestSanitizedSettings(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	s := cfg.SanitizedSettings()
	_, ok := s[ConfigCPUProfile]
	is.True(!ok)
	_, ok = s[ConfigWeak]
	is.True(!ok)
	is.Equal(s[ConfigTTSizeLog2], 23)
}
