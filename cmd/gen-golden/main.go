package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pkt.systems/ansimark"
)

// modes must match the table in golden_test.go.
var modes = map[string]ansimark.Capabilities{
	"plain":  {},
	"ansi16": {ANSI: true},
	"xterm":  {ANSI: true, Xterm: true},
	"mxp":    {MXP: true},
	"full":   {ANSI: true, Xterm: true, MXP: true},
}

func main() {
	root := "testdata"
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && strings.HasSuffix(path, ".tagged") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no tagged files found under %s", root)
	}
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		doc, err := ansimark.ParseBytes(src)
		if err != nil {
			fatalf("parse %s: %v", path, err)
		}
		for _, mode := range names {
			goldenPath := goldenPath(root, path, mode)
			out := doc.RenderCaps(modes[mode])
			if err := os.WriteFile(goldenPath, []byte(out), 0o644); err != nil {
				fatalf("write %s: %v", goldenPath, err)
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
		}
	}
}

func goldenPath(root string, taggedPath string, mode string) string {
	rel, err := filepath.Rel(root, taggedPath)
	if err != nil {
		rel = taggedPath
	}
	name := strings.TrimSuffix(rel, ".tagged")
	name = strings.ReplaceAll(filepath.ToSlash(name), "/", "__")
	return filepath.Join(root, fmt.Sprintf("%s.%s.golden", name, mode))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
