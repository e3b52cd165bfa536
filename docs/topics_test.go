package docs

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fenced block languages executed by TestCodeBlocks.
const (
	setupBlock = "bash setup"    // runs in a fresh directory
	runBlock   = "bash run"      // runs in the current directory, output is recorded
	checkBlock = "console check" // expected output of the previous run
)

// readmeTopics returns the topics listed as "* topic: description" in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	f, err := os.Open(index + ".md")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	item := regexp.MustCompile(`^\*\s+([^:]+):`)
	var topics []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := item.FindStringSubmatch(scanner.Text()); m != nil {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	listed := readmeTopics(t)
	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("GetTopic(%q) failed: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(listed)
	if !slices.Equal(listed, all) {
		t.Errorf("%s.md lists topics %v, embedded topics are %v", index, listed, all)
	}

	every, err := GetTopic("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		content, _ := GetTopic(topic)
		if !strings.Contains(every, content) {
			t.Errorf("GetTopic(*) does not contain topic %q", topic)
		}
	}
}

// block is an executable fenced code block.
type block struct {
	lang    string
	content string
	line    int
}

// codeBlocks returns the executable blocks of a markdown file, in order.
func codeBlocks(t *testing.T, file string) []block {
	t.Helper()
	source, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	var blocks []block
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		lang := string(fcb.Info.Segment.Value(source))
		switch lang {
		case setupBlock, runBlock, checkBlock:
		default:
			return ast.WalkContinue, nil
		}
		var content strings.Builder
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			content.Write(seg.Value(source))
		}
		blocks = append(blocks, block{
			lang:    lang,
			content: content.String(),
			line:    bytes.Count(source[:fcb.Info.Segment.Start], []byte("\n")) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// buildTmh compiles the tmh binary into dir.
func buildTmh(t *testing.T, dir string) {
	t.Helper()
	out, err := exec.Command("go", "build", "-o", filepath.Join(dir, "tmh"), "../tmh/").CombinedOutput()
	if err != nil {
		t.Fatalf("cannot build tmh: %v\n%s", err, out)
	}
}

// TestCodeBlocks runs the shell examples of every topic and of the README,
// and compares their output with the console block following them.
func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	bin := t.TempDir()
	buildTmh(t, bin)
	env := append(os.Environ(),
		fmt.Sprintf("PATH=%s%c%s", bin, os.PathListSeparator, os.Getenv("PATH")),
		"TMH_CSV=", // examples always pass -csv
	)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			dir := t.TempDir()
			var output string
			for _, b := range codeBlocks(t, file) {
				if b.lang == checkBlock {
					got := strings.TrimSpace(output)
					want := strings.TrimSpace(b.content)
					if got != want {
						t.Errorf("%s:%d: output mismatch:\ngot:\n%s\nwant:\n%s", file, b.line, got, want)
					}
					continue
				}
				if b.lang == setupBlock {
					dir = t.TempDir()
				}
				cmd := exec.Command("bash", "-c", "set -e; "+b.content)
				cmd.Dir = dir
				cmd.Env = env
				out, err := cmd.CombinedOutput()
				if err != nil {
					t.Fatalf("%s:%d: %s failed: %v\n%s", file, b.line, b.lang, err, out)
				}
				if b.lang == runBlock {
					output = string(out)
				}
			}
		})
	}
}
