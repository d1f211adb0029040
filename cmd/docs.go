package cmd

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootPage = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

// child command without children
const childPage = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

// child with children
const childParentPage = `---
layout: default
title: %s
parent: %s
nav_order: %d
has_children: true
---
`

// grandchildren
const grandchildPage = `---
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

// page describes the position of a command's doc page
type page struct {
	docType     docType
	title       string
	navOrder    int
	parent      string
	grandParent string
}

// pages maps the base Markdown file name of each command to its page
var pages = map[string]page{
	"meta":               {root, "meta", 0, "", ""},
	"meta_blat":          {childParent, "blat", 0, "meta", ""},
	"meta_blat_best":     {grandchild, "best", 0, "blat", "meta"},
	"meta_blat_tally":    {grandchild, "tally", 1, "blat", "meta"},
	"meta_uclust":        {childParent, "uclust", 1, "meta", ""},
	"meta_uclust_run":    {grandchild, "run", 0, "uclust", "meta"},
	"meta_uclust_counts": {grandchild, "counts", 1, "uclust", "meta"},
	"meta_uclust_split":  {grandchild, "split", 2, "uclust", "meta"},
	"meta_pathoscope":    {child, "pathoscope", 2, "meta", ""},
	"meta_screen":        {child, "screen", 3, "meta", ""},
	"meta_fastq":         {child, "fastq", 4, "meta", ""},
	"meta_voucher":       {child, "voucher", 5, "meta", ""},
}

// docsCmd writes the Markdown documentation of every command
var docsCmd = &cobra.Command{
	Use:    "docs [dir]",
	Short:  "Write Markdown documentation for every command",
	Args:   cobra.MaximumNArgs(1),
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "./docs"
		if len(args) > 0 {
			dir = args[0]
		}
		if err := doc.GenMarkdownTreeCustom(RootCmd, dir, filePrepender, linkHandler); err != nil {
			return fmt.Errorf("failed to write docs to %s: %v", dir, err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(docsCmd)
}

// docBase is the name of a doc file without its directory or extension
func docBase(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, path.Ext(name))
}

// filePrepender adds YAML headings that are required by the just-the-docs theme
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
func filePrepender(filename string) string {
	p, ok := pages[docBase(filename)]
	if !ok {
		return ""
	}

	switch p.docType {
	case root:
		return fmt.Sprintf(rootPage, p.title, p.navOrder)
	case child:
		return fmt.Sprintf(childPage, p.title, p.parent, p.navOrder)
	case childParent:
		return fmt.Sprintf(childParentPage, p.title, p.parent, p.navOrder)
	case grandchild:
		return fmt.Sprintf(grandchildPage, p.title, p.parent, p.grandParent, p.navOrder)
	}

	return ""
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	base := docBase(filename)
	if base == "meta" {
		return "/"
	}
	return base
}
