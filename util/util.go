package util

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jgwest/htmldiff-cli/model"
)

// Expand returns the input string, replacing $var with config file
// substitutions, or env vars, in that order.
func Expand(input string, configFileSubstitutions []model.Substitution) (output string, err error) {

	substitutions := map[string]string{}

	for _, substitution := range configFileSubstitutions {
		substitutions[substitution.Name] = substitution.Value
	}

	output = os.Expand(input, func(key string) string {

		if val, contains := substitutions[key]; contains {
			return val
		}

		if value, contains := os.LookupEnv(key); contains {
			return value
		}

		if err == nil {
			err = fmt.Errorf("unable to find value for '%s'", key)
		}

		return ""

	})

	return
}

const textSniffLen = 8192

// LooksLikeText reports whether the first bytes of the file are free of NUL
// bytes, the same heuristic the 'file' utility uses to classify text.
func LooksLikeText(path string) (bool, error) {

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buffer := make([]byte, textSniffLen)

	read, err := io.ReadFull(f, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}

	return !bytes.ContainsRune(buffer[:read], 0), nil
}

// PathExists reports whether a regular file exists at path.
func PathExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
