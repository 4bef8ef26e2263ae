package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/cache"
	"github.com/domino14/connectfour/config"
)

var ErrBadSuiteLine = errors.New("bad suite line")

// Case is a position and its known exact score.
type Case struct {
	Notation string
	Expected int
}

func (c Case) String() string {
	return fmt.Sprintf("%s %d", c.Notation, c.Expected)
}

// Suite is an ordered list of benchmark cases.
type Suite struct {
	Name  string
	Cases []Case
}

// ParseSuite reads one "<notation> <score>" case per line. Blank lines and
// lines starting with # are skipped. Every notation must replay to a
// position that is still in play.
func ParseSuite(name string, r io.Reader) (*Suite, error) {
	s := &Suite{Name: name}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: %w: expected 2 fields, got %d", lineno, ErrBadSuiteLine, len(fields))
		}
		if _, err := board.BitBoardFromNotation(fields[0]); err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", lineno, ErrBadSuiteLine, err)
		}
		score, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", lineno, ErrBadSuiteLine, err)
		}
		s.Cases = append(s.Cases, Case{Notation: fields[0], Expected: score})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func LoadSuiteFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSuite(filepath.Base(path), f)
}

// CachedSuite loads a suite through the global object cache. Relative
// paths are looked up in the configured bench directory first.
func CachedSuite(cfg *config.Config, path string) (*Suite, error) {
	obj, err := cache.Load(cfg, suiteKey(cfg, path), func(cfg *config.Config, key string) (any, error) {
		return LoadSuiteFile(strings.TrimPrefix(key, suiteKeyPrefix))
	})
	if err != nil {
		return nil, err
	}
	return obj.(*Suite), nil
}

// EvictSuite drops a cached suite, so that the next CachedSuite call reads
// the file again. Call it after rewriting a suite file.
func EvictSuite(cfg *config.Config, path string) {
	cache.Evict(suiteKey(cfg, path))
}

const suiteKeyPrefix = "suite:"

func suiteKey(cfg *config.Config, path string) string {
	return suiteKeyPrefix + resolveSuitePath(cfg, path)
}

func resolveSuitePath(cfg *config.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(cfg.GetString(config.ConfigBenchDir), path)
}

// Fingerprint identifies the suite's contents, independently of its name
// and of comments in the file it came from.
func (s *Suite) Fingerprint() uint64 {
	var sb strings.Builder
	for _, c := range s.Cases {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return xxhash.Sum64String(sb.String())
}

// FingerprintString is Fingerprint in fixed-width hex, as stored with
// recorded runs.
func (s *Suite) FingerprintString() string {
	return fmt.Sprintf("%016x", s.Fingerprint())
}

// Write outputs the suite in the format ParseSuite reads.
func (s *Suite) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if s.Name != "" {
		fmt.Fprintf(bw, "# %s: <notation> <score>\n", s.Name)
	}
	for _, c := range s.Cases {
		fmt.Fprintln(bw, c.String())
	}
	return bw.Flush()
}
