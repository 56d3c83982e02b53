package xmldoc

import (
	"fmt"
	"go/ast"
	"go/doc"
	"go/parser"
	"go/token"
	"io/fs"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"
)

// GoPackage points at a Go source directory and the import path its
// documentation keys are qualified with.
type GoPackage struct {
	Dir        string `mapstructure:"dir" yaml:"dir" validate:"required"`
	ImportPath string `mapstructure:"import_path" yaml:"import_path"`
}

// LoadGoPackages builds an index from Go doc comments. Every type contributes a
// T:{ImportPath}.{Type} entry and every typed constant contributes
// F:{ImportPath}.{Type}.{Const} from its doc or line comment. Packages that
// fail to parse are skipped.
func LoadGoPackages(pkgs ...GoPackage) (*Index, error) {
	idx := newIndex()
	var errs error
	for _, pkg := range pkgs {
		if err := idx.loadGoPackage(pkg); err != nil {
			errs = multierr.Append(errs, &LoadError{Path: pkg.Dir, Err: err})
		}
	}
	return idx, errs
}

func (i *Index) loadGoPackage(pkg GoPackage) error {
	fset := token.NewFileSet()
	parsed, err := parser.ParseDir(fset, pkg.Dir, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return err
	}

	importPath := strings.TrimSpace(pkg.ImportPath)
	if importPath == "" {
		importPath = pkg.Dir
	}

	for _, p := range parsed {
		i.addPackageDocs(doc.New(p, importPath, doc.AllDecls|doc.PreserveAST), importPath)
	}
	return nil
}

// LoadGoPatterns resolves package patterns such as ./domain/... with the go
// command, run from dir, and indexes them under their real import paths.
// Packages with load errors are skipped.
func LoadGoPatterns(dir string, patterns ...string) (*Index, error) {
	idx := newIndex()
	if len(patterns) == 0 {
		return idx, nil
	}
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return idx, &LoadError{Path: strings.Join(patterns, " "), Err: err}
	}

	var errs error
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			errs = multierr.Append(errs, &LoadError{Path: pkg.PkgPath, Err: fmt.Errorf("%s", pkg.Errors[0].Msg)})
			continue
		}
		d, err := doc.NewFromFiles(pkg.Fset, pkg.Syntax, pkg.PkgPath, doc.AllDecls|doc.PreserveAST)
		if err != nil {
			errs = multierr.Append(errs, &LoadError{Path: pkg.PkgPath, Err: err})
			continue
		}
		idx.addPackageDocs(d, pkg.PkgPath)
	}
	return idx, errs
}

func (i *Index) addPackageDocs(d *doc.Package, importPath string) {
	for _, t := range d.Types {
		fullName := importPath + "." + t.Name
		i.add(TypeKey(fullName), t.Doc)
		for _, value := range t.Consts {
			i.addValueDocs(fullName, value)
		}
	}
}

func (i *Index) addValueDocs(typeFullName string, value *doc.Value) {
	if value.Decl == nil {
		return
	}
	for _, spec := range value.Decl.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		text := commentText(vs.Doc)
		if text == "" {
			text = commentText(vs.Comment)
		}
		if text == "" && len(value.Decl.Specs) == 1 {
			text = value.Doc
		}
		for _, name := range vs.Names {
			if name.Name == "_" {
				continue
			}
			i.add(FieldKey(typeFullName, name.Name), text)
		}
	}
}

func commentText(group *ast.CommentGroup) string {
	if group == nil {
		return ""
	}
	return group.Text()
}
