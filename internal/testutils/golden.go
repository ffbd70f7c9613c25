package testutils

import (
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// CheckGoldenFile compares actual with the file at expectFilePath.
// A missing golden file is written from actual and the check fails.
func CheckGoldenFile(t TestingT, actual []byte, expectFilePath string) {
	t.Helper()

	expect, err := os.ReadFile(expectFilePath)
	if os.IsNotExist(err) {
		err = os.MkdirAll(filepath.Dir(expectFilePath), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(expectFilePath, actual, 0444)
		if err != nil {
			t.Fatal(err)
		}
		t.Errorf("golden file %s did not exist, written from the actual output", expectFilePath)
		return
	} else if err != nil {
		t.Error(err)
		return
	}

	if d := Diff(string(expect), string(actual)); d != "" {
		t.Error(d)
	}
}

// Diff returns a unified diff of expect and actual, or "" when they match.
func Diff(expect, actual string) string {
	if expect == actual {
		return ""
	}
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expect),
		B:        difflib.SplitLines(actual),
		FromFile: "expect",
		ToFile:   "actual",
		Context:  5,
	})
	if err != nil {
		return err.Error()
	}
	return d
}
