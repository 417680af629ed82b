/*
Package dictionary loads search corpora from disk.

A corpus is a list of entries, each entry carrying one or more keys. Two
formats are read:

Text files hold one entry per line with keys separated by tabs. Blank lines
and lines starting with '#' are skipped:

	# emoji	aliases
	grinning	grin	happy
	laughing	laugh

MessagePack files hold a single array of string arrays:

	[["grinning", "grin", "happy"], ["laughing", "laugh"]]

WriteMsgpack produces the second form from any loaded corpus, which is how
large text corpora are converted for faster startup.
*/
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/fuzzyserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// maxLineSize bounds a single text corpus line.
const maxLineSize = 1 << 20

// LoadOptions controls how many entries are kept.
type LoadOptions struct {
	// MaxEntries stops loading after this many entries. Zero or less means all.
	MaxEntries int
	// Dedupe drops entries whose keys equal an earlier entry's.
	Dedupe bool
}

// Corpus is a loaded list of entries.
type Corpus struct {
	Entries    [][]string
	Source     string
	Format     FileFormat
	Skipped    int // entries without any non-empty key
	Duplicates int // entries dropped by Dedupe
	Truncated  bool
}

// Keys returns the total number of keys over all entries.
func (c *Corpus) Keys() int {
	n := 0
	for _, e := range c.Entries {
		n += len(e)
	}
	return n
}

// Stats provides statistics about the loaded corpus
func (c *Corpus) Stats() map[string]int {
	truncated := 0
	if c.Truncated {
		truncated = 1
	}
	return map[string]int{
		"entries":    len(c.Entries),
		"keys":       c.Keys(),
		"skipped":    c.Skipped,
		"duplicates": c.Duplicates,
		"truncated":  truncated,
	}
}

// collector applies LoadOptions while entries stream in.
type collector struct {
	opts   LoadOptions
	filter *utils.EntryFilter
	corpus *Corpus
}

func newCollector(opts LoadOptions, format FileFormat) *collector {
	c := &collector{opts: opts, corpus: &Corpus{Format: format}}
	if opts.Dedupe {
		c.filter = utils.NewEntryFilter()
	}
	return c
}

// add keeps keys as an entry, dropping empty keys. It reports false once the
// corpus is full.
func (c *collector) add(keys []string) bool {
	if c.full() {
		c.corpus.Truncated = true
		return false
	}
	kept := keys[:0]
	for _, k := range keys {
		if k != "" {
			kept = append(kept, k)
		}
	}
	switch {
	case len(kept) == 0:
		c.corpus.Skipped++
	case c.filter != nil && !c.filter.ShouldInclude(kept):
		c.corpus.Duplicates++
	default:
		c.corpus.Entries = append(c.corpus.Entries, kept)
	}
	return true
}

func (c *collector) full() bool {
	return c.opts.MaxEntries > 0 && len(c.corpus.Entries) >= c.opts.MaxEntries
}

// LoadFile detects the format of path and loads it.
func LoadFile(path string, opts LoadOptions) (*Corpus, error) {
	start := time.Now()
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer file.Close()

	var corpus *Corpus
	switch format {
	case FormatText:
		corpus, err = LoadText(file, opts)
	case FormatMsgpack:
		corpus, err = LoadMsgpack(file, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus %s: %w", path, err)
	}
	corpus.Source = path

	log.Debugf("Loaded %d entries (%d keys) from %s [%s] in %v",
		len(corpus.Entries), corpus.Keys(), path, format, time.Since(start))
	if corpus.Skipped > 0 || corpus.Duplicates > 0 {
		log.Debugf("Skipped %d empty and %d duplicate entries", corpus.Skipped, corpus.Duplicates)
	}
	if corpus.Truncated {
		log.Warnf("Corpus %s truncated to %d entries", path, len(corpus.Entries))
	}
	return corpus, nil
}

// LoadText reads a tab separated text corpus.
func LoadText(r io.Reader, opts LoadOptions) (*Corpus, error) {
	c := newCollector(opts, FormatText)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !c.add(strings.Split(line, "\t")) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading text corpus: %w", err)
	}
	return c.corpus, nil
}

// LoadMsgpack reads a msgpack corpus: one array of string arrays.
func LoadMsgpack(r io.Reader, opts LoadOptions) (*Corpus, error) {
	c := newCollector(opts, FormatMsgpack)
	dec := msgpack.NewDecoder(bufio.NewReader(r))

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("reading corpus header: %w", err)
	}
	for i := 0; i < n; i++ {
		var keys []string
		if err := dec.Decode(&keys); err != nil {
			return nil, fmt.Errorf("reading entry %d: %w", i, err)
		}
		if !c.add(keys) {
			break
		}
	}
	return c.corpus, nil
}

// WriteMsgpack writes entries in the format LoadMsgpack reads.
func WriteMsgpack(w io.Writer, entries [][]string) error {
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)
	if err := enc.EncodeArrayLen(len(entries)); err != nil {
		return fmt.Errorf("writing corpus header: %w", err)
	}
	for i, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ExportFile writes entries to path as msgpack, replacing any existing file
// only once the whole corpus is written.
func ExportFile(path string, entries [][]string) error {
	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		return WriteMsgpack(w, entries)
	})
}
