package usage

import (
	"fmt"
	"runtime"
	"strings"
)

// ownPrefix is the symbol prefix of this package's functions. Frames from
// here mark the boundary between user code and the wrapper.
var ownPrefix = func() string {
	pc, _, _, _ := runtime.Caller(0)
	name := runtime.FuncForPC(pc).Name()
	slash := strings.LastIndex(name, "/")
	return name[:slash+1+strings.Index(name[slash+1:], ".")+1]
}()

// panicStack formats the frames between the panic site and the wrapper,
// innermost first, tab separated. It must be called from the wrapper's
// deferred function while the panic is being handled.
func panicStack() string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []string
	unwinding := false
	for {
		frame, more := frames.Next()
		switch {
		case !unwinding:
			unwinding = frame.Function == "runtime.gopanic"
		case strings.HasPrefix(frame.Function, "runtime."), strings.HasPrefix(frame.Function, "internal/runtime/"):
		case strings.HasPrefix(frame.Function, ownPrefix):
			return strings.Join(out, "\t")
		default:
			out = append(out, formatFrame(frame.File, frame.Line, shortName(frame.Function)))
		}
		if !more {
			break
		}
	}
	return strings.Join(out, "\t")
}

func shortName(function string) string {
	return siteFromSymbol(function).Name
}

func panicMessage(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}
