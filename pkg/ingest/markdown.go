package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument marks a file with no title.
var ErrEmptyDocument = errors.New("document has no title")

// Folders maps data sub-directories to the experience type of their files.
var Folders = []struct {
	Dir  string
	Type string
}{
	{Dir: "jobs", Type: "job"},
	{Dir: "projects", Type: "project"},
}

// Document is one parsed experience file, ready to embed.
type Document struct {
	SourceId    string
	Title       string
	Content     string
	Skills      []string
	Metadata    map[string]interface{}
	ContentHash string
}

// EmbeddingText is what gets embedded for the document.
func (d *Document) EmbeddingText() string {
	return d.Title + "\n" + d.Content
}

var (
	skillsLine   = regexp.MustCompile(`(?i)\*\*Skills:\*\*\s*(.*)`)
	datesLine    = regexp.MustCompile(`(?i)\*\*Dates:\*\*\s*(.*)`)
	frontMatter  = []byte("---")
	markdown     = goldmark.New()
)

type header struct {
	Title    string                 `yaml:"title"`
	Skills   []string               `yaml:"skills"`
	Dates    string                 `yaml:"dates"`
	Type     string                 `yaml:"type"`
	Metadata map[string]interface{} `yaml:",inline"`
}

// Parse reads one markdown experience. The title is the first heading, or the
// first line when there is none. An optional YAML front matter block may set
// title, skills, dates, type and any extra metadata; inline **Skills:** and
// **Dates:** lines are used when the front matter does not set them.
func Parse(sourceId string, raw []byte, docType string) (*Document, error) {
	sum := sha256.Sum256(raw)
	doc := &Document{
		SourceId:    sourceId,
		Metadata:    map[string]interface{}{},
		ContentHash: hex.EncodeToString(sum[:]),
	}

	var h header
	body, meta, err := splitFrontMatter(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "front matter of %s", sourceId)
	}
	if meta != nil {
		if err := yaml.Unmarshal(meta, &h); err != nil {
			return nil, errors.Wrapf(err, "front matter of %s", sourceId)
		}
	}

	title, content, found := splitHeading(body)
	if !found {
		if h.Title != "" {
			content = strings.TrimSpace(string(body))
		} else {
			title, content = splitFirstLine(body)
		}
	}
	doc.Title = firstNonEmpty(h.Title, title)
	doc.Content = content
	if doc.Title == "" {
		return nil, errors.Wrap(ErrEmptyDocument, sourceId)
	}

	for k, v := range h.Metadata {
		doc.Metadata[k] = v
	}

	doc.Skills = cleanList(h.Skills)
	if len(doc.Skills) == 0 {
		if m := skillsLine.FindStringSubmatch(content); m != nil {
			doc.Skills = cleanList(strings.Split(m[1], ","))
		}
	}

	dates := strings.TrimSpace(h.Dates)
	if dates == "" {
		if m := datesLine.FindStringSubmatch(content); m != nil {
			dates = strings.TrimSpace(m[1])
		}
	}
	if dates != "" {
		doc.Metadata["date"] = dates
	}

	doc.Metadata["type"] = firstNonEmpty(h.Type, docType)
	return doc, nil
}

// splitFrontMatter separates a leading "---" delimited block from the body.
func splitFrontMatter(raw []byte) (body, meta []byte, err error) {
	trimmed := bytes.TrimLeft(raw, "\ufeff \t\r\n")
	if !bytes.HasPrefix(trimmed, frontMatter) {
		return raw, nil, nil
	}
	rest := trimmed[len(frontMatter):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || strings.TrimSpace(string(rest[:nl])) != "" {
		// A thematic break, not front matter.
		return raw, nil, nil
	}
	rest = rest[nl+1:]

	for offset := 0; offset < len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if bytes.Equal(bytes.TrimSpace(line), frontMatter) {
			meta = rest[:offset]
			if end < 0 {
				return nil, meta, nil
			}
			return rest[offset+end+1:], meta, nil
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, nil, errors.New("unterminated front matter")
}

// splitHeading finds the first heading with goldmark and returns its text
// and the source with that heading removed.
func splitHeading(source []byte) (title, body string, found bool) {
	root := markdown.Parser().Parse(text.NewReader(source))

	var heading *ast.Heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			heading = h
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if heading == nil || heading.Lines().Len() == 0 {
		return "", "", false
	}

	var sb strings.Builder
	for i := 0; i < heading.Lines().Len(); i++ {
		line := heading.Lines().At(i)
		sb.Write(line.Value(source))
	}

	first := heading.Lines().At(0)
	last := heading.Lines().At(heading.Lines().Len() - 1)
	start := bytes.LastIndexByte(source[:first.Start], '\n') + 1
	end := lineEnd(source, last.Stop)
	atx := bytes.HasPrefix(bytes.TrimLeft(source[start:], " "), []byte("#"))
	if next := nextLine(source, end); !atx && isSetextUnderline(next) {
		end += len(next)
	}

	rest := append(append([]byte{}, source[:start]...), source[end:]...)
	return strings.TrimSpace(sb.String()), strings.TrimSpace(string(rest)), true
}

func splitFirstLine(source []byte) (title, body string) {
	lines := strings.Split(strings.TrimSpace(string(source)), "\n")
	title = strings.TrimSpace(strings.TrimLeft(lines[0], "# "))
	return title, strings.TrimSpace(strings.Join(lines[1:], "\n"))
}

// lineEnd is the offset just past the line holding pos.
func lineEnd(source []byte, pos int) int {
	if pos > 0 && source[pos-1] == '\n' {
		return pos
	}
	if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(source)
}

func nextLine(source []byte, from int) []byte {
	if from >= len(source) {
		return nil
	}
	if i := bytes.IndexByte(source[from:], '\n'); i >= 0 {
		return source[from : from+i+1]
	}
	return source[from:]
}

func isSetextUnderline(line []byte) bool {
	t := bytes.TrimSpace(line)
	if len(t) == 0 {
		return false
	}
	return len(bytes.Trim(t, "=")) == 0 || len(bytes.Trim(t, "-")) == 0
}

func cleanList(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// LoadFS parses every markdown file under the known folders of fsys, in
// folder then file-name order. Files without a title are skipped.
func LoadFS(fsys fs.FS) ([]*Document, error) {
	var docs []*Document
	for _, folder := range Folders {
		matches, err := fs.Glob(fsys, path.Join(folder.Dir, "*.md"))
		if err != nil {
			return nil, errors.Wrapf(err, "list %s", folder.Dir)
		}
		sort.Strings(matches)

		for _, name := range matches {
			raw, err := fs.ReadFile(fsys, name)
			if err != nil {
				return nil, errors.Wrapf(err, "read %s", name)
			}
			doc, err := Parse(name, raw, folder.Type)
			if errors.Cause(err) == ErrEmptyDocument {
				continue
			}
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}
