package usage

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

var siteNameReplacer = strings.NewReplacer("(*", "", "(", "", ")", "", "[...]", "")

// SiteOf derives the Site of a function value from its symbol name: the
// package path becomes Module and the receiver-qualified name becomes Name,
// e.g. "FeatureGroup.Insert".
func SiteOf(fn any) Site {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return Site{Module: "unknown", Name: fmt.Sprintf("%T", fn)}
	}

	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return Site{Module: "unknown", Name: fmt.Sprintf("%#x", v.Pointer())}
	}
	return siteFromSymbol(f.Name())
}

func siteFromSymbol(symbol string) Site {
	symbol = strings.TrimSuffix(symbol, "-fm")

	slash := strings.LastIndex(symbol, "/")
	dot := strings.Index(symbol[slash+1:], ".")
	if dot < 0 {
		return Site{Module: "unknown", Name: symbol}
	}
	dot += slash + 1

	return Site{
		Module: strings.ReplaceAll(symbol[:dot], "%2e", "."),
		Name:   siteNameReplacer.Replace(symbol[dot+1:]),
	}
}

// originOf formats the definition frame of fn as "file::line name".
func originOf(fn any, site Site) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	file, line := f.FileLine(f.Entry())
	return formatFrame(file, line, site.Name)
}

func formatFrame(file string, line int, name string) string {
	return fmt.Sprintf("%s::%d %s", filepath.Base(file), line, name)
}
