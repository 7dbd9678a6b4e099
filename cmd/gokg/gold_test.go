package main

import (
	"flag"
	"io"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/go-python/gpython/py"
	"github.com/stretchr/testify/require"
)

var updateGold = flag.Bool("update", false, "rewrite learn/gold/ from the current script output")

// TestGold runs each script in learn/ and compares its output with learn/gold/<script>.txt.
func TestGold(t *testing.T) {
	scriptDir := "learn/"
	files, err := os.ReadDir(scriptDir)
	require.NoError(t, err)

	goldDir := path.Join(scriptDir, "gold")
	outDir := t.TempDir()

	for _, fi := range files {
		pyFile := path.Join(scriptDir, fi.Name())
		ext := filepath.Ext(pyFile)
		if ext != ".py" {
			continue
		}

		name := pyFile[len(scriptDir):len(pyFile)-len(ext)] + ".txt"
		outputPathname := path.Join(outDir, name)
		{
			ctx := py.NewContext(py.DefaultContextOpts())
			redirect, err := RedirectToFile(outputPathname, ctx)
			require.NoError(t, err)

			_, err = py.RunFile(ctx, pyFile, py.CompileOpts{}, nil)
			ctx.Close()
			<-ctx.Done()

			require.NoError(t, redirect.Close())
			if err != nil {
				py.TracebackDump(err)
				t.Fatalf("%s: %v", pyFile, err)
			}
		}

		output, err := os.ReadFile(outputPathname)
		require.NoError(t, err)

		goldPathname := path.Join(goldDir, name)
		if *updateGold {
			require.NoError(t, os.MkdirAll(goldDir, 0700))
			require.NoError(t, os.WriteFile(goldPathname, output, 0644))
			continue
		}

		gold, err := os.ReadFile(goldPathname)
		require.NoError(t, err, "missing gold output for %s (run with -update)", pyFile)
		require.Equal(t, string(gold), string(output), "%s output differs from %s", pyFile, goldPathname)
	}
}

type pyRedirect struct {
	file       *os.File
	prevStdout *os.File
}

// RedirectToFile sends both the script's sys.stdout and the process stdout to the given file until Close().
func RedirectToFile(outputPathname string, ctx py.Context) (io.Closer, error) {
	ofile, err := os.OpenFile(outputPathname, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	sys := ctx.Store().MustGetModule("sys")
	sys.Globals["stdout"] = &py.File{
		File:     ofile,
		FileMode: py.FileWrite,
	}

	redir := &pyRedirect{
		file:       ofile,
		prevStdout: os.Stdout,
	}

	os.Stdout = ofile
	return redir, nil
}

func (redir *pyRedirect) Close() error {
	if redir.prevStdout == nil {
		return nil
	}

	// Restore the previous Stdout and close the output file
	os.Stdout = redir.prevStdout
	redir.prevStdout = nil
	err := redir.file.Close()
	redir.file = nil
	return err
}
