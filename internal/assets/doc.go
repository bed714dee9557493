// Package assets provides the page stylesheets and HTML templates used when
// a rendered document is wrapped into a standalone page.
//
// Assets come from sources:
//
//	Source (interface)
//	    ├── Embedded  - compiled into the binary (styles default, plain; template page)
//	    └── Dir       - a custom directory on disk
//
// A Resolver stacks a Dir over Embedded, so a custom directory only needs
// the files it overrides:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}.html
//
// Asset names are plain words: separators and dots are rejected before any
// file is opened, and Dir reads through os.OpenInRoot.
package assets
