/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package awful

import "os"
import "fmt"
import "strings"
import "path/filepath"
import "github.com/launix-de/NonLockingReadMap"

// Declaration describes one keyword. Fn fetches exactly len(Params)
// operands from the token stream through Operands.Next.
type Declaration struct {
	Name    string
	Title   string // chapter in help and documentation
	Desc    string
	Params  []DeclarationParameter
	Returns string // Number | Text | List | Closure | any
	Fn      func(*Operands) (Value, error)
}

type DeclarationParameter struct {
	Name string
	Type string // Number | Text | List | Closure | any
	Desc string
}

func (d Declaration) Arity() int {
	return len(d.Params)
}

// GetKey and ComputeSize make Declaration storable in a NonLockingReadMap
func (d Declaration) GetKey() string {
	return d.Name
}

func (d Declaration) ComputeSize() uint {
	sz := uint(len(d.Name) + len(d.Title) + len(d.Desc) + len(d.Returns) + 96)
	for _, p := range d.Params {
		sz += uint(len(p.Name)+len(p.Type)+len(p.Desc)) + 48
	}
	return sz
}

// Catalog is the keyword table. It is filled once by NewCatalog and only
// read afterwards, so one catalog serves any number of interpreters.
type Catalog struct {
	decls NonLockingReadMap.NonLockingReadMap[Declaration, string]
	order []string // declaration order, for chapters
}

func NewCatalog(decls ...Declaration) *Catalog {
	c := &Catalog{decls: NonLockingReadMap.New[Declaration, string]()}
	for i := range decls {
		d := decls[i]
		if d.Fn == nil {
			panic("declaration without implementation: " + d.Name)
		}
		if old := c.decls.Set(&d); old != nil {
			panic("keyword declared twice: " + d.Name)
		}
		c.order = append(c.order, d.Name)
	}
	return c
}

// Builtins returns the declarations of all builtin keywords
func Builtins() []Declaration {
	var result []Declaration
	result = append(result, aluDeclarations()...)
	result = append(result, listDeclarations()...)
	return result
}

var defaultCatalog = NewCatalog(Builtins()...)

// DefaultCatalog is the shared catalog of the builtin keywords
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func (c *Catalog) Get(name string) *Declaration {
	return c.decls.Get(name)
}

func (c *Catalog) IsKeyword(name string) bool {
	return c.decls.Get(name) != nil
}

// Declarations lists all keywords ordered by name
func (c *Catalog) Declarations() []*Declaration {
	return c.decls.GetAll()
}

func (c *Catalog) ComputeSize() uint {
	return c.decls.ComputeSize()
}

// Help lists all keywords (name == "") or describes one keyword
func (c *Catalog) Help(name string) (string, error) {
	var b strings.Builder
	if name == "" {
		b.WriteString("Available keywords:\n")
		title := ""
		for _, n := range c.order {
			def := c.Get(n)
			if def.Title != title {
				title = def.Title
				b.WriteString("\n-- " + title + " --\n")
			}
			b.WriteString("  " + def.Name + ": " + strings.Split(def.Desc, "\n")[0] + "\n")
		}
		b.WriteString("\nget further information by typing help NAME\n")
		return b.String(), nil
	}
	def := c.Get(name)
	if def == nil {
		return "", fmt.Errorf("keyword not found: %s", name)
	}
	b.WriteString("Help for: " + def.Name + "\n===\n\n")
	b.WriteString(def.Desc + "\n\n")
	fmt.Fprintf(&b, "Number of operands: %d\n\n", def.Arity())
	for _, p := range def.Params {
		b.WriteString(" - " + p.Name + " (" + p.Type + "): " + p.Desc + "\n")
	}
	b.WriteString("\nReturns: " + def.Returns + "\n")
	return b.String(), nil
}

// WriteDocumentation writes index.md and one Markdown file per chapter
func (c *Catalog) WriteDocumentation(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", folder, err)
	}

	type Chapter struct {
		Title string
		Slug  string
		Defs  []*Declaration
	}
	var chapters []*Chapter
	byTitle := map[string]*Chapter{}
	for _, n := range c.order {
		def := c.Get(n)
		title := def.Title
		if title == "" {
			title = "General"
		}
		ch, ok := byTitle[title]
		if !ok {
			// titles are plain words
			ch = &Chapter{Title: title, Slug: strings.ToLower(strings.ReplaceAll(title, " ", "-"))}
			byTitle[title] = ch
			chapters = append(chapters, ch)
		}
		ch.Defs = append(ch.Defs, def)
	}

	indexPath := filepath.Join(folder, "index.md")
	indexFile, err := os.Create(indexPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", indexPath, err)
	}
	defer indexFile.Close()
	fmt.Fprint(indexFile, "# Awful keywords\n\n")
	for _, ch := range chapters {
		fmt.Fprintf(indexFile, "- [%s](%s.md)\n", ch.Title, ch.Slug)
	}

	for _, ch := range chapters {
		fp := filepath.Join(folder, ch.Slug+".md")
		f, err := os.Create(fp)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", fp, err)
		}
		fmt.Fprintf(f, "# %s\n\n", ch.Title)
		for _, def := range ch.Defs {
			fmt.Fprintf(f, "## %s\n\n", def.Name)
			if def.Desc != "" {
				fmt.Fprintf(f, "%s\n\n", def.Desc)
			}
			fmt.Fprintf(f, "**Number of operands:** %d\n\n", def.Arity())
			fmt.Fprint(f, "### Operands\n\n")
			if len(def.Params) == 0 {
				fmt.Fprint(f, "_This keyword takes no operands._\n\n")
			} else {
				for _, p := range def.Params {
					fmt.Fprintf(f, "- **%s** (`%s`): %s\n", p.Name, p.Type, p.Desc)
				}
				fmt.Fprintln(f)
			}
			fmt.Fprintf(f, "### Returns\n\n`%s`\n\n", def.Returns)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", fp, err)
		}
	}
	return nil
}
