package registry

import (
	"reflect"
	"sort"
	"strings"

	"github.com/flowforge/flowforge/internal/component"
)

// index stores one category (steps or guards) across three lookup tiers, so
// that resolve() can apply the declared-name / short-name / fully-qualified
// precedence order of spec §4.C1 without the caller needing to know which
// tier a name landed in.
type index[F any] struct {
	declared   map[string]F // explicit RegisterX() calls, or a scanned Named() name
	shortExact map[string]F // scanned type short name, case preserved
	shortFold  map[string]F // same, keyed by lowercase for case-insensitive fallback
	fqn        map[string]F // scanned fully-qualified "pkgpath.TypeName"
}

func newIndex[F any]() *index[F] {
	return &index[F]{
		declared:   make(map[string]F),
		shortExact: make(map[string]F),
		shortFold:  make(map[string]F),
		fqn:        make(map[string]F),
	}
}

func (idx *index[F]) registerDeclared(name string, factory F) {
	idx.declared[name] = factory
}

func (idx *index[F]) registerScanned(declaredName, short, lower, fqn string, factory F) {
	if declaredName != "" {
		idx.declared[declaredName] = factory
		return
	}
	if short != "" {
		idx.shortExact[short] = factory
		idx.shortFold[strings.ToLower(short)] = factory
	}
	if lower != "" {
		idx.shortExact[lower] = factory
	}
	if fqn != "" {
		idx.fqn[fqn] = factory
	}
}

func (idx *index[F]) resolve(name string) (F, bool) {
	if f, ok := idx.declared[name]; ok {
		return f, true
	}
	if f, ok := idx.shortExact[name]; ok {
		return f, true
	}
	if f, ok := idx.shortFold[strings.ToLower(name)]; ok {
		return f, true
	}
	if f, ok := idx.fqn[name]; ok {
		return f, true
	}
	var zero F
	return zero, false
}

func (idx *index[F]) names() []string {
	seen := make(map[string]struct{})
	for name := range idx.declared {
		seen[name] = struct{}{}
	}
	for name := range idx.shortExact {
		seen[name] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// describe derives the short type name, its lowercase-first-character
// variant, and the fully-qualified "pkgpath.TypeName" for a component
// instance (spec §4.C1: "unannotated implementations register under their
// type's short name and lowercase-first-character variant").
func describe(instance any) (short, lowerFirst, fqn string) {
	t := reflect.TypeOf(instance)
	if t == nil {
		return "", "", ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	short = t.Name()
	if short == "" {
		return "", "", ""
	}
	lowerFirst = strings.ToLower(short[:1]) + short[1:]
	if t.PkgPath() != "" {
		fqn = t.PkgPath() + "." + short
	}
	return short, lowerFirst, fqn
}

func namedOf(instance any) string {
	if n, ok := instance.(component.Named); ok {
		return n.Named()
	}
	return ""
}
