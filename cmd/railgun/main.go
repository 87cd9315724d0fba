// Command railgun is a small demo wiring the engine-core packages
// together: it gains a global frame, builds a JSArray through a few
// property-descriptor operations, and runs a couple of string
// replace/split operations through the regex engine, printing what it
// did. It is not a runnable JavaScript interpreter — there is no
// lexer/parser/compiler here — only a way to exercise pkg/railgun,
// pkg/jsarray, and pkg/strx end to end.
package main

import (
	"flag"
	"fmt"
	"os"

	"railgun/pkg/jsarray"
	"railgun/pkg/object"
	"railgun/pkg/railgun"
	"railgun/pkg/regexengine"
	"railgun/pkg/strx"
	"railgun/pkg/value"
)

func main() {
	verbose := flag.Bool("v", false, "print each step as it runs")
	flag.Parse()

	if err := run(*verbose); err != nil {
		fmt.Fprintln(os.Stderr, "railgun:", err)
		os.Exit(1)
	}
}

func run(verbose bool) error {
	log := func(format string, args ...interface{}) {
		if verbose {
			fmt.Printf(format+"\n", args...)
		}
	}

	m := railgun.NewManager()
	global, err := m.NewGlobalFrame(railgun.NewCode("<global>", 4, 8))
	if err != nil {
		return err
	}
	log("gained global frame: base=%d top=%d", global.Base(), global.Top())

	arr := jsarray.New(value.NullValue)
	for i := 0; i < 5; i++ {
		if err := arr.Set(uint32(i), value.Num(float64(i * i))); err != nil {
			return err
		}
	}
	global.Locals(m.Stack())[0] = value.FromCell(arr)
	log("array length=%d dense=%v", arr.Length(), arr.IsDense())

	w, e, c := true, true, false
	if _, err := arr.DefineOwnProperty("length", object.Descriptor{
		Value: value.Num(3), HasValue: true, Writable: &w, Enumerable: &e, Configurable: &c,
	}, true); err != nil {
		return err
	}
	log("array truncated to length=%d", arr.Length())

	re, err := regexengine.Compile(`(\w+)@(\w+)`, "g")
	if err != nil {
		return err
	}
	replaced := strx.Replace("alice@example bob@example", re, "$2:$1")
	log("replace result: %s", replaced)
	fmt.Println(replaced)

	csv, err := regexengine.Compile(`\s*,\s*`, "")
	if err != nil {
		return err
	}
	parts := strx.Strings(strx.SplitByRegex("one, two ,three", csv, strx.MaxUint32Limit))
	log("split result: %v", parts)
	for _, p := range parts {
		fmt.Println(p)
	}

	m.Unwind(global)
	return nil
}
