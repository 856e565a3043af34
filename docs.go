//go:build docs

package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Imperial-iGEM/synbio/cmd"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootCmd = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

// child command without children
const childCmd = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

// child with children
const childParentCmd = `---
layout: default
title: %s
parent: %s
nav_order: %d
has_children: true
---
`

// grandchildren
const grandchildCmd = `---
layout: default
title: %s
parent: %s
grand_parent: %s
nav_order: %d
---
`

// docType codes whether the command is a grandchild, child, etc
type docType int

const (
	root docType = iota
	child
	childParent
	grandchild
)

// meta is for describing the position/info for a command doc page
type meta struct {
	docType     docType
	title       string
	navOrder    int
	hasChildren bool
	parent      string
	grandParent string
}

// map from the base Markdown file name to its build meta
var metaMap = map[string]meta{
	"synbio": {
		root,
		"synbio",
		0,
		true,
		"",
		"",
	},
	"synbio_subclone": {
		child,
		"subclone",
		0,
		false,
		"synbio",
		"",
	},
	"synbio_goldengate": {
		child,
		"goldengate",
		1,
		false,
		"synbio",
		"",
	},
	"synbio_digest": {
		child,
		"digest",
		2,
		false,
		"synbio",
		"",
	},
	"synbio_find": {
		childParent,
		"find",
		3,
		true,
		"synbio",
		"",
	},
	"synbio_find_enzyme": {
		grandchild,
		"enzyme",
		0,
		false,
		"find",
		"synbio",
	},
}

func init() {
	makeDocs = genDocs
}

// genDocs parses the custom commands and outputs Markdown documentation files
func genDocs() {
	if err := os.MkdirAll("./docs", 0o755); err != nil {
		fmt.Println(err.Error())
		return
	}
	if err := doc.GenMarkdownTreeCustom(cmd.RootCmd, "./docs", filePrepender, linkHandler); err != nil {
		fmt.Println(err.Error())
	}
}

// filePrepender adds YAML headings that are required by the just-the-docs theme
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))
	m := metaMap[base]

	switch m.docType {
	case root:
		return fmt.Sprintf(rootCmd, m.title, m.navOrder)
	case child:
		return fmt.Sprintf(childCmd, m.title, m.parent, m.navOrder)
	case childParent:
		return fmt.Sprintf(childParentCmd, m.title, m.parent, m.navOrder)
	case grandchild:
		return fmt.Sprintf(grandchildCmd, m.title, m.parent, m.grandParent, m.navOrder)
	}

	return ""
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))

	if base == "synbio" {
		return "/"
	}
	return base
}
