package xmldoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/multierr"
)

// LoadError reports a documentation source that was skipped.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("xmldoc: skipped %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type docFile struct {
	XMLName xml.Name    `xml:"doc"`
	Members []docMember `xml:"members>member"`
}

type docMember struct {
	Name    string     `xml:"name,attr"`
	Summary docSummary `xml:"summary"`
}

// docSummary keeps the first text node directly under <summary>. Text after a
// nested element such as <see/> or <para> belongs to a later node and is
// dropped.
type docSummary struct {
	Text string
}

func (s *docSummary) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var (
		text    []byte
		started bool
		done    bool
	)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.CharData:
			if !done {
				text = append(text, tok...)
				started = true
			}
			continue
		case xml.StartElement:
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			s.Text = string(text)
			return nil
		}
		if started {
			done = true
		}
	}
}

// Load parses the given documentation files in order. A malformed or unreadable
// file is skipped; the returned index holds every entry from the files that
// loaded and is never nil. The error combines one *LoadError per skipped file.
func Load(paths ...string) (*Index, error) {
	idx := newIndex()
	var errs error
	for _, path := range paths {
		if err := idx.loadFile(path); err != nil {
			errs = multierr.Append(errs, &LoadError{Path: path, Err: err})
		}
	}
	return idx, errs
}

// LoadGlob expands each pattern and loads the matches in lexical order.
// Files matched by more than one pattern are loaded once.
func LoadGlob(patterns ...string) (*Index, error) {
	var (
		paths []string
		errs  error
	)
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			errs = multierr.Append(errs, &LoadError{Path: pattern, Err: err})
			continue
		}
		sort.Strings(matches)
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			paths = append(paths, match)
		}
	}
	idx, err := Load(paths...)
	return idx, multierr.Append(errs, err)
}

// LoadDir loads every *.xml file in dir.
func LoadDir(dir string) (*Index, error) {
	return LoadGlob(filepath.Join(dir, "*.xml"))
}

// LoadExecutableDir loads every *.xml file next to the running binary.
func LoadExecutableDir() (*Index, error) {
	exe, err := os.Executable()
	if err != nil {
		return newIndex(), &LoadError{Path: "<executable>", Err: err}
	}
	return LoadDir(filepath.Dir(exe))
}

func (i *Index) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return i.read(f)
}

// read decodes a whole document before touching the index so a malformed
// file contributes nothing.
func (i *Index) read(r io.Reader) error {
	var doc docFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return err
	}
	for _, m := range doc.Members {
		i.add(m.Name, m.Summary.Text)
	}
	return nil
}
