package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/denismitr/dml"
	"github.com/denismitr/dml/internal/settings"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

// run converts one file. Warnings such as replaced duplicate tables always
// go to diag.
func run(args []string, in io.Reader, out, diag io.Writer) error {
	s, err := settings.Load()
	if err != nil {
		return err
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		path, err = prompt(in, out)
		if err != nil {
			return err
		}
		if path == "" {
			return nil
		}
	}

	logger := log.New(diag, "", log.LstdFlags)
	cfg := &dml.Config{
		Duplicates:    dml.DuplicatePolicy(s.Duplicates),
		TreeFormat:    dml.TreeFormat(s.Format),
		Indent:        s.Indent,
		MaxInputBytes: s.MaxInput,
		Logger:        logger,
	}

	written, err := dml.ConvertFile(path, cfg)
	if err != nil {
		return err
	}

	if s.Verbose {
		logger.Printf("wrote %s", written)
	}
	return nil
}

// prompt asks for a path on the terminal. An empty answer or end of
// input yields an empty path.
func prompt(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "DML database to load (.bin, .xml or .json): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
