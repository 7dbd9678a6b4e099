package main

import (
	"flag"
	"os"

	"github.com/plan-systems/klog"
)

// gokg [-v level] [script.py]
//
// Runs the given gpython script against the _gokg module, or starts a REPL if no script is given.
func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	if err := fset.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	pathname := fset.Arg(0)
	err := go_gpython(pathname)

	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
