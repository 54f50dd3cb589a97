// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules holds the editable conversion rules: abbreviation
// substitutions, the LaTeX escape table, the correction whitelist, and the
// layout parameters of the generated document. A rules file overrides the
// built-in defaults section by section.
package rules

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Abbreviation is one substitution rule. Pattern is matched at word
// boundaries only and case-insensitively; a replacement keeps the original
// first-letter case. Declaration order is precedence order.
type Abbreviation struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Escape maps one reserved character to its LaTeX control sequence.
type Escape struct {
	Char        string `yaml:"char"`
	Replacement string `yaml:"replacement"`
}

// Layout holds the LaTeX template constants consumed by the generator.
type Layout struct {
	// Packages are the preamble \usepackage lines.
	Packages []string `yaml:"packages"`
	// Settings are preamble lines emitted after the packages.
	Settings []string `yaml:"settings"`
	// LogoPath, when set, emits a logo figure after the agenda.
	LogoPath string `yaml:"logo_path,omitempty"`
}

// Rules groups every editable conversion rule.
type Rules struct {
	Abbreviations []Abbreviation `yaml:"abbreviations"`
	Escapes       []Escape       `yaml:"escapes"`
	Whitelist     []string       `yaml:"whitelist"`
	// PromptTemplate overrides the built-in correction prompt. It must
	// keep the {{.Whitelist}} and {{.Text}} placeholders.
	PromptTemplate string `yaml:"prompt_template,omitempty"`
	Layout         Layout `yaml:"layout"`
	// Polish enables sentence polish on paragraphs: capitalized first
	// letter and a terminal period. Off by default because it rewrites
	// text the source author may want verbatim.
	Polish bool `yaml:"polish"`
}

// Default returns the built-in rules.
func Default() Rules {
	return Rules{
		Abbreviations: []Abbreviation{
			{Pattern: "itw", Replacement: "interview"},
			{Pattern: "deleg", Replacement: "délégation"},
			{Pattern: "déleg", Replacement: "délégation"},
			{Pattern: "délég", Replacement: "délégation"},
			{Pattern: "qqch", Replacement: "quelque chose"},
			{Pattern: "qqun", Replacement: "quelqu'un"},
			{Pattern: "pcq", Replacement: "parce que"},
			{Pattern: "prez", Replacement: "président"},
			{Pattern: "trez", Replacement: "trésorier"},
			{Pattern: "vp", Replacement: "vice-président"},
		},
		Escapes: []Escape{
			{Char: `\`, Replacement: `\textbackslash{}`},
			{Char: "&", Replacement: `\&`},
			{Char: "%", Replacement: `\%`},
			{Char: "$", Replacement: `\$`},
			{Char: "#", Replacement: `\#`},
			{Char: "_", Replacement: `\_`},
			{Char: "{", Replacement: `\{`},
			{Char: "}", Replacement: `\}`},
			{Char: "~", Replacement: `\textasciitilde{}`},
			{Char: "^", Replacement: `\textasciicircum{}`},
			{Char: "€", Replacement: `\euro{}`},
			{Char: "<", Replacement: `\textless{}`},
			{Char: ">", Replacement: `\textgreater{}`},
			{Char: "°", Replacement: `\textdegree{}`},
		},
		Whitelist: []string{
			"Cm !", "Cs !", "CM !", "CS !", "F.", "le X", "CBB", "io vivat",
			"PGCA", "CBBQ", "CMF", "XX", "XXX", "XXXX", "FM",
			"réunion ex", "band", "peye",
		},
		Layout: Layout{
			Packages: []string{
				`\usepackage[T1]{fontenc}`,
				`\usepackage[utf8]{inputenc}`,
				`\usepackage[margin=1.2in]{geometry}`,
				`\geometry{a4paper}`,
				`\usepackage{fancyhdr}`,
				`\usepackage{multicol}`,
				`\usepackage{graphicx}`,
				`\usepackage{float}`,
				`\usepackage{varwidth}`,
				`\usepackage{textcomp}`,
				`\usepackage{csquotes}`,
				`\usepackage[gen]{eurosym}`,
			},
			Settings: []string{
				`\pagestyle{fancy}`,
				`\setlength{\headheight}{22.5pt}`,
				`\setlength{\parindent}{0pt}`,
				`\setlength{\parskip}{1em}`,
			},
		},
	}
}

// Load reads a rules file and overlays it on the defaults: a section
// present in the file replaces the default section wholesale, an absent
// section keeps the defaults.
func Load(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	var file Rules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	r := Default()
	if len(file.Abbreviations) > 0 {
		r.Abbreviations = file.Abbreviations
	}
	if len(file.Escapes) > 0 {
		r.Escapes = file.Escapes
	}
	if len(file.Whitelist) > 0 {
		r.Whitelist = file.Whitelist
	}
	if file.PromptTemplate != "" {
		r.PromptTemplate = file.PromptTemplate
	}
	if len(file.Layout.Packages) > 0 {
		r.Layout.Packages = file.Layout.Packages
	}
	if len(file.Layout.Settings) > 0 {
		r.Layout.Settings = file.Layout.Settings
	}
	if file.Layout.LogoPath != "" {
		r.Layout.LogoPath = file.Layout.LogoPath
	}
	r.Polish = file.Polish
	return r, nil
}
